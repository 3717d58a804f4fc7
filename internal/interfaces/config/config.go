// Package config
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/half-nothing/simple-schedule/internal/interfaces/global"

	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
)

type Config struct {
	ConfigVersion string          `json:"config_version"`
	Server        *ServerConfig   `json:"server"`
	Database      *DatabaseConfig `json:"database"`
	Redis         *RedisConfig    `json:"redis"`
	Schedule      *ScheduleConfig `json:"schedule"`
}

func DefaultConfig() *Config {
	return &Config{
		ConfigVersion: ConfVersion.String(),
		Server:        defaultServerConfig(),
		Database:      defaultDatabaseConfig(),
		Redis:         defaultRedisConfig(),
		Schedule:      defaultScheduleConfig(),
	}
}

// DefaultConfigAt 默认配置, 所有本地文件路径都放在 root 目录下, 数据库使用内存 SQLite
func DefaultConfigAt(root string) *Config {
	config := DefaultConfig()
	config.Database.Database = ":memory:"
	config.Server.HttpServer.Store.LocalStorePath = filepath.Join(root, "uploads")
	template := config.Server.HttpServer.Email.Template
	template.EmailVerifyTemplateFile = filepath.Join(root, global.EmailVerifyTemplateFile)
	template.PermissionChangeTemplateFile = filepath.Join(root, global.PermissionChangeTemplateFile)
	template.ScheduleJoinedTemplateFile = filepath.Join(root, global.ScheduleJoinedTemplateFile)
	return config
}

func (c *Config) CheckValid(logger log.LoggerInterface) *ValidResult {
	if version, err := newVersion(c.ConfigVersion); err != nil {
		return ValidFailWith(errors.New("version string parse fail"), err)
	} else if result := ConfVersion.checkVersion(version); result != AllMatch {
		return ValidFail(fmt.Errorf("config version mismatch, expected %s, got %s", ConfVersion.String(), version.String()))
	}
	if c.Server == nil || c.Database == nil || c.Redis == nil || c.Schedule == nil {
		return ValidFail(errors.New("configuration file is missing required sections"))
	}
	if result := c.Database.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.Redis.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.Schedule.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.Server.checkValid(logger); result.IsFail() {
		return result
	}
	return ValidPass()
}
