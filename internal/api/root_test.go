package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/half-nothing/simple-schedule/internal/api/procedure"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/half-nothing/simple-schedule/internal/rpc"
	svc "github.com/half-nothing/simple-schedule/internal/service"
	"github.com/half-nothing/simple-schedule/internal/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router *AppRouter
	claims func(token string) *Claims
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	app := testutil.NewApplication(t, nil)
	services, err := svc.NewServices(app, nil)
	require.NoError(t, err)
	router, err := NewAppRouter(services)
	require.NoError(t, err)
	jwtConfig := app.ConfigManager().Config().Server.HttpServer.JWT
	return &testApp{
		router: router,
		claims: func(token string) *Claims {
			claims, err := ParseClaims(jwtConfig, token)
			require.NoError(t, err)
			return claims
		},
	}
}

func (app *testApp) anonymous(t *testing.T) *procedure.Caller {
	return app.router.CreateCaller(procedure.NewContext(t.Context(), "127.0.0.1", "go-test"))
}

func (app *testApp) as(t *testing.T, token string) *procedure.Caller {
	ctx := procedure.NewContext(t.Context(), "127.0.0.1", "go-test")
	return app.router.CreateCaller(ctx.WithClaims(app.claims(token)))
}

func (app *testApp) setup(t *testing.T) *ResponseInitSetup {
	t.Helper()
	res, err := app.router.Procedures.Init.Setup.Call(app.anonymous(t), &RequestInitSetup{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "password",
		SiteName: "Test Board",
	})
	require.NoError(t, err)
	return res
}

func TestAppRouterNamespaces(t *testing.T) {
	app := newTestApp(t)
	shape := app.router.Shape()
	assert.ElementsMatch(t, []string{"user", "init", "notice", "schedule"}, lo.Keys(shape.Routers))
	assert.Empty(t, shape.Procedures)

	paths := app.router.Paths()
	assert.Contains(t, paths, "user.register")
	assert.Contains(t, paths, "init.bootstrap")
	assert.Contains(t, paths, "notice.unreadCount")
	assert.Contains(t, paths, "schedule.leave")
	assert.Len(t, paths, 30)

	login, ok := shape.Lookup("user.login")
	require.True(t, ok)
	assert.Equal(t, rpc.Mutation, login.Kind)
	list, ok := shape.Lookup("schedule.list")
	require.True(t, ok)
	assert.Equal(t, rpc.Query, list.Kind)
}

func TestAppRouterDuplicateNamespace(t *testing.T) {
	app := newTestApp(t)
	user, ok := app.router.Child("user")
	require.True(t, ok)
	_, err := rpc.Compose(procedure.Mount("user", user), procedure.Mount("user", user))
	var duplicate *rpc.DuplicateNamespaceError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "user", duplicate.Name)
}

func TestAppRouterCallErrors(t *testing.T) {
	app := newTestApp(t)
	caller := app.anonymous(t)

	_, err := caller.Call("user.missing", nil)
	assert.ErrorIs(t, err, rpc.ErrProcedureNotFound)
	_, err = caller.Call("payment.create", nil)
	assert.ErrorIs(t, err, rpc.ErrProcedureNotFound)

	_, err = caller.Call("user.register", map[string]any{"username": "alice"})
	assert.ErrorIs(t, err, rpc.ErrInputValidation)

	_, err = caller.Call("user.profile", nil)
	assert.Same(t, &ErrUnauthorized, err)

	app.setup(t)
	_, err = app.router.Procedures.User.Login.Call(caller, &RequestUserLogin{Username: "admin", Password: "wrong-password"})
	assert.Same(t, &svc.ErrUsernameOrPassword, err)
}

func TestInitThroughRouter(t *testing.T) {
	app := newTestApp(t)
	caller := app.anonymous(t)

	status, err := app.router.Procedures.Init.Status.Call(caller, &RequestInitStatus{})
	require.NoError(t, err)
	assert.False(t, status.Initialized)

	setup := app.setup(t)
	assert.NotEmpty(t, setup.Token)
	assert.Equal(t, int64(operation.AllPermissions), setup.Admin.Permission)

	_, err = app.router.Procedures.Init.Setup.Call(caller, &RequestInitSetup{
		Username: "other",
		Email:    "other@example.com",
		Password: "password",
		SiteName: "Again",
	})
	assert.Same(t, &ErrAlreadyInitialized, err)

	status, err = rpc.Invoke[ResponseInitStatus](caller, "init.status", `{}`)
	require.NoError(t, err)
	assert.True(t, status.Initialized)
	assert.Equal(t, "Test Board", status.SiteName)

	bootstrap, err := app.router.Procedures.Init.Bootstrap.Call(app.as(t, setup.Token), &RequestBootstrap{})
	require.NoError(t, err)
	require.NotNil(t, bootstrap.User)
	assert.Equal(t, "admin", bootstrap.User.Username)

	anonymous, err := app.router.Procedures.Init.Bootstrap.Call(caller, nil)
	require.NoError(t, err)
	assert.Nil(t, anonymous.User)
}

func TestUserThroughRouter(t *testing.T) {
	app := newTestApp(t)
	app.setup(t)
	users := app.router.Procedures.User

	registered, err := users.Register.Call(app.anonymous(t), &RequestUserRegister{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password",
	})
	require.NoError(t, err)

	caller := app.as(t, registered.Token)
	profile, err := users.Profile.Call(caller, &RequestUserCurrentProfile{})
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	// 客户端无法通过输入伪造身份
	profile, err = rpc.Invoke[ResponseUserCurrentProfile](caller, "user.profile", map[string]any{"Uid": 1})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, profile.ID)

	_, err = users.RefreshToken.Call(caller, &RequestRefreshToken{})
	assert.Same(t, &ErrInvalidOrExpiredJwt, err)

	refreshCaller := app.as(t, registered.FlushToken)
	refreshed, err := users.RefreshToken.Call(refreshCaller, &RequestRefreshToken{})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)

	// 刷新令牌不能当作访问令牌使用
	_, err = users.Profile.Call(refreshCaller, &RequestUserCurrentProfile{})
	assert.Same(t, &ErrInvalidOrExpiredJwt, err)
	_, err = app.router.Procedures.Notice.UnreadCount.Call(refreshCaller, &RequestUnreadCount{})
	assert.Same(t, &ErrInvalidOrExpiredJwt, err)
	bootstrap, err := app.router.Procedures.Init.Bootstrap.Call(refreshCaller, &RequestBootstrap{})
	require.NoError(t, err)
	assert.Nil(t, bootstrap.User)
	_, err = users.RefreshToken.Call(app.anonymous(t), &RequestRefreshToken{})
	assert.Same(t, &ErrUnauthorized, err)

	_, err = users.List.Call(caller, &RequestUserList{})
	assert.Same(t, &ErrNoPermission, err)
}

func TestNoticeAndScheduleThroughRouter(t *testing.T) {
	app := newTestApp(t)
	admin := app.as(t, app.setup(t).Token)
	notices := app.router.Procedures.Notice
	schedules := app.router.Procedures.Schedule

	notice, err := notices.Create.Call(admin, &RequestCreateNotice{Title: "Welcome", Content: "Hello", Publish: true})
	require.NoError(t, err)
	list, err := notices.List.Call(app.anonymous(t), &RequestNoticeList{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, notice.ID, list.Items[0].ID)

	registered, err := app.router.Procedures.User.Register.Call(app.anonymous(t), &RequestUserRegister{
		Username: "bobby",
		Email:    "bobby@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	bobby := app.as(t, registered.Token)

	unread, err := notices.UnreadCount.Call(bobby, &RequestUnreadCount{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread.Unread)

	start := time.Now().Add(time.Hour).Truncate(time.Second)
	created, err := schedules.Create.Call(admin, &RequestCreateSchedule{
		Title:    "Weekly sync",
		StartAt:  start,
		EndAt:    start.Add(time.Hour),
		Capacity: 1,
	})
	require.NoError(t, err)

	joined, err := schedules.Join.Call(bobby, &RequestJoinSchedule{ScheduleId: created.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, joined.Participants)

	_, err = schedules.Create.Call(app.anonymous(t), &RequestCreateSchedule{
		Title:   "Anonymous",
		StartAt: start,
		EndAt:   start.Add(time.Hour),
	})
	assert.Same(t, &ErrUnauthorized, err)

	ranged, err := schedules.List.Call(app.anonymous(t), &RequestScheduleList{
		TimeRange: TimeRange{From: start.Add(-time.Hour), To: start.Add(2 * time.Hour)},
	})
	require.NoError(t, err)
	require.Len(t, ranged.Items, 1)
}

func TestCallerContext(t *testing.T) {
	app := newTestApp(t)
	ctx := procedure.NewContext(context.Background(), "10.0.0.1", "agent")
	caller := app.router.CreateCaller(ctx)
	assert.Same(t, ctx, caller.Context())
	assert.NotEmpty(t, ctx.RequestId)
	assert.True(t, caller.Has("notice.list"))
	assert.False(t, caller.Has("notice"))
	assert.True(t, errors.Is(procedure.Authed(ctx), &ErrUnauthorized))
}
