package service

import (
	"testing"

	"github.com/half-nothing/simple-schedule/internal/interfaces"
	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/half-nothing/simple-schedule/internal/service/store"
	"github.com/half-nothing/simple-schedule/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app      *interfaces.ApplicationContent
	config   *c.Config
	mails    *testutil.MailRecorder
	codes    *MemoryCodeStore
	email    *EmailService
	audit    *AuditLogService
	user     *UserService
	init     *InitService
	notice   *NoticeService
	schedule *ScheduleService
}

func newTestEnv(t *testing.T, withMail bool) *testEnv {
	t.Helper()
	app := testutil.NewApplication(t, nil)
	config := app.ConfigManager().Config()
	logger := app.Logger()
	httpConfig := config.Server.HttpServer
	operations := app.Operations()

	env := &testEnv{
		app:    app,
		config: config,
		mails:  &testutil.MailRecorder{},
		codes:  NewMemoryCodeStore(),
	}
	var sender MailSender
	if withMail {
		sender = env.mails
	}
	validators := NewFieldValidators(httpConfig.Limits)
	env.email = NewEmailService(logger, httpConfig.Email, sender, env.codes)
	env.audit = NewAuditService(logger, httpConfig.Limits.MaxPageSize, operations.AuditLogOperation())
	env.user = NewUserService(logger, httpConfig, validators, env.email, env.audit,
		store.NewStoreService(logger, httpConfig.Store), operations.UserOperation())
	env.init = NewInitService(logger, config, validators, env.audit, operations)
	env.notice = NewNoticeService(logger, httpConfig.Limits.MaxPageSize, validators, env.audit,
		operations.UserOperation(), operations.NoticeOperation())
	env.schedule = NewScheduleService(logger, config.Schedule, httpConfig.Limits, validators, env.email, env.audit,
		operations.UserOperation(), operations.ScheduleOperation())
	return env
}

// setup 初始化系统并返回管理员
func (env *testEnv) setup(t *testing.T) *operation.User {
	t.Helper()
	res, err := env.init.Setup(&RequestInitSetup{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "password",
		SiteName: "Test Board",
	})
	require.NoError(t, err)
	return res.Admin
}

func (env *testEnv) register(t *testing.T, username string) *operation.User {
	t.Helper()
	res, err := env.user.UserRegister(&RequestUserRegister{
		Username: username,
		Email:    username + "@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	return res.User
}

func jwtOf(user *operation.User) JwtHeader {
	return JwtHeader{Uid: user.ID, Permission: user.Permission}
}

func requireStatus(t *testing.T, err error, statusName string) {
	t.Helper()
	var status *ApiStatus
	require.ErrorAs(t, err, &status)
	assert.Equal(t, statusName, status.StatusName)
}

func TestFieldValidator(t *testing.T) {
	validators := NewFieldValidators(testutil.Config(t, nil).Server.HttpServer.Limits)
	tests := []struct {
		name      string
		validator *FieldValidator
		value     string
		want      string
	}{
		{"username ok", validators.Username, "alice", ""},
		{"username short", validators.Username, "abc", "USERNAME_TOO_SHORT"},
		{"username long", validators.Username, "abcdefghijklmnopq", "USERNAME_TOO_LONG"},
		{"multibyte counted by rune", validators.Username, "日程管理员", ""},
		{"password short", validators.Password, "12345", "PASSWORD_TOO_SHORT"},
		{"title short", validators.Title, "a", "TITLE_TOO_SHORT"},
		{"empty content", validators.Content, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator.CheckString(tt.value)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			requireStatus(t, err, tt.want)
		})
	}
}

func TestNewServices(t *testing.T) {
	app := testutil.NewApplication(t, nil)
	services, err := NewServices(app, nil)
	require.NoError(t, err)
	assert.NotNil(t, services.User)
	assert.NotNil(t, services.Init)
	assert.NotNil(t, services.Notice)
	assert.NotNil(t, services.Schedule)
	assert.NotNil(t, services.Audit)
	assert.NotNil(t, services.Email)
	assert.NotNil(t, services.Store)
}
