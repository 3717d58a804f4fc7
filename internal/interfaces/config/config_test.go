package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	return DefaultConfigAt(t.TempDir())
}

func TestDefaultConfigIsValid(t *testing.T) {
	config := testConfig(t)
	result := config.CheckValid(log.NewDiscardLogger())
	require.False(t, result.IsFail(), "%v", result.Error())

	httpConfig := config.Server.HttpServer
	assert.Equal(t, "0.0.0.0:6810", httpConfig.Address)
	assert.Equal(t, 30*time.Second, httpConfig.RequestDuration)
	assert.Equal(t, 15*time.Minute, httpConfig.JWT.ExpiresDuration)
	assert.Equal(t, 744*time.Hour, config.Schedule.MaxListDuration)
	assert.Equal(t, SQLite, config.Database.DBType)
	assert.Nil(t, httpConfig.Email.EmailServer)
	assert.NotNil(t, httpConfig.Email.Template.EmailVerifyTemplate)
	assert.NotNil(t, httpConfig.Email.Template.ScheduleJoinedTemplate)

	_, err := os.Stat(httpConfig.Email.Template.EmailVerifyTemplateFile)
	assert.NoError(t, err, "builtin template should be written to disk")
	_, err = os.Stat(filepath.Join(httpConfig.Store.LocalStorePath, "images"))
	assert.NoError(t, err)
}

func TestConfigRejectsInvalidSections(t *testing.T) {
	tests := []struct {
		name   string
		modify func(config *Config)
	}{
		{"version mismatch", func(config *Config) { config.ConfigVersion = "0.1.0" }},
		{"broken version", func(config *Config) { config.ConfigVersion = "1.0" }},
		{"missing section", func(config *Config) { config.Redis = nil }},
		{"unknown database", func(config *Config) { config.Database.Type = "oracle" }},
		{"bad query timeout", func(config *Config) { config.Database.QueryTimeout = "soon" }},
		{"bcrypt cost", func(config *Config) { config.Server.General.BcryptCost = 2 }},
		{"username range", func(config *Config) { config.Server.HttpServer.Limits.UsernameLengthMin = 32 }},
		{"page size", func(config *Config) { config.Server.HttpServer.Limits.MaxPageSize = 0 }},
		{"batch size", func(config *Config) { config.Server.HttpServer.Limits.MaxBatchSize = 0 }},
		{"send interval", func(config *Config) { config.Server.HttpServer.Email.SendInterval = "1h" }},
		{"jwt expires", func(config *Config) { config.Server.HttpServer.JWT.ExpiresTime = "-1m" }},
		{"store type", func(config *Config) { config.Server.HttpServer.Store.StoreType = 7 }},
		{"cloud store without bucket", func(config *Config) {
			config.Server.HttpServer.Store.StoreType = ALiYunOssStore
			config.Server.HttpServer.Store.Region = "cn-shanghai"
		}},
		{"metrics path", func(config *Config) { config.Server.HttpServer.Metrics.Path = "/api/metrics" }},
		{"low port", func(config *Config) { config.Server.HttpServer.Port = 80 }},
		{"bootstrap window", func(config *Config) { config.Schedule.BootstrapWindow = "2000h" }},
		{"redis address", func(config *Config) {
			config.Redis.Enabled = true
			config.Redis.Address = ""
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := testConfig(t)
			test.modify(config)
			result := config.CheckValid(log.NewDiscardLogger())
			assert.True(t, result.IsFail())
			assert.Error(t, result.Error())
		})
	}
}

func TestDisabledHttpServerSkipsListenerChecks(t *testing.T) {
	config := testConfig(t)
	config.Server.HttpServer.Enabled = false
	config.Server.HttpServer.Port = 80
	result := config.CheckValid(log.NewDiscardLogger())
	assert.False(t, result.IsFail())
	assert.NotZero(t, config.Server.HttpServer.JWT.RefreshDuration)
}

func TestCachedContent(t *testing.T) {
	logger := log.NewDiscardLogger()
	path := filepath.Join(t.TempDir(), "nested", "file.txt")

	_, err := cachedContent(logger, path, nil)
	assert.Error(t, err)

	content, err := cachedContent(logger, path, []byte("fallback"))
	require.NoError(t, err)
	assert.Equal(t, "fallback", string(content))

	require.NoError(t, os.WriteFile(path, []byte("custom"), 0644))
	content, err = cachedContent(logger, path, []byte("fallback"))
	require.NoError(t, err)
	assert.Equal(t, "custom", string(content))
}

func TestNewMemoryDatabaseConfig(t *testing.T) {
	config := NewMemoryDatabaseConfig()
	assert.Equal(t, SQLite, config.DBType)
	assert.True(t, config.SingleConnection())
	assert.Equal(t, 5*time.Second, config.QueryDuration)
	assert.NotNil(t, config.GetConnection(log.NewDiscardLogger()))
}
