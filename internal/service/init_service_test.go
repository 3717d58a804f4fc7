package service

import (
	"testing"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSetup(t *testing.T) {
	env := newTestEnv(t, false)

	status, err := env.init.GetStatus(&RequestInitStatus{})
	require.NoError(t, err)
	assert.False(t, status.Initialized)
	assert.Equal(t, env.config.Server.General.SiteName, status.SiteName)
	assert.Equal(t, global.AppVersion, status.Version)

	_, err = env.init.Setup(&RequestInitSetup{Username: "admin", Email: "admin@example.com", Password: "123", SiteName: "Board"})
	requireStatus(t, err, "PASSWORD_TOO_SHORT")

	admin := env.setup(t)
	assert.Equal(t, int64(operation.AllPermissions), admin.Permission)

	status, err = env.init.GetStatus(&RequestInitStatus{})
	require.NoError(t, err)
	assert.True(t, status.Initialized)
	assert.Equal(t, "Test Board", status.SiteName)

	_, err = env.init.Setup(&RequestInitSetup{Username: "admin2", Email: "admin2@example.com", Password: "password", SiteName: "Other"})
	assert.ErrorIs(t, err, &ErrAlreadyInitialized)

	logs, _, err := env.app.Operations().AuditLogOperation().GetAuditLogs(1, 10, operation.SystemInitialized)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestBootstrap(t *testing.T) {
	env := newTestEnv(t, false)
	admin := env.setup(t)
	bobby := env.register(t, "bobby")

	notice, err := env.notice.CreateNotice(&RequestCreateNotice{
		JwtHeader: jwtOf(admin), Title: "Welcome", Content: "Hello everyone", Pinned: true, Publish: true,
	})
	require.NoError(t, err)
	start := time.Now().Add(time.Hour)
	_, err = env.schedule.CreateSchedule(&RequestCreateSchedule{
		JwtHeader: jwtOf(bobby), Title: "Standup", StartAt: start, EndAt: start.Add(30 * time.Minute),
	})
	require.NoError(t, err)

	anonymous, err := env.init.Bootstrap(&RequestBootstrap{})
	require.NoError(t, err)
	assert.True(t, anonymous.Initialized)
	assert.Nil(t, anonymous.User)
	assert.Equal(t, "Test Board", anonymous.Site[operation.SettingSiteName])
	assert.NotContains(t, anonymous.Site, operation.SettingInitialized)
	require.Len(t, anonymous.PinnedNotices, 1)
	assert.Equal(t, notice.ID, anonymous.PinnedNotices[0].ID)
	assert.Empty(t, anonymous.Schedules)

	res, err := env.init.Bootstrap(&RequestBootstrap{JwtHeader: jwtOf(bobby)})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, bobby.ID, res.User.ID)
	assert.EqualValues(t, 1, res.UnreadNotices)
	require.Len(t, res.Schedules, 1)
	assert.Equal(t, "Standup", res.Schedules[0].Title)
}
