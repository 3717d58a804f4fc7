// Package config
package config

import (
	"errors"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
)

// RedisConfig 开启后验证码保存在 Redis 中, 否则保存在进程内存里
type RedisConfig struct {
	Enabled         bool          `json:"enabled"`
	Address         string        `json:"address"`
	Password        string        `json:"password"`
	DB              int           `json:"db"`
	KeyPrefix       string        `json:"key_prefix"`
	DialTimeout     string        `json:"dial_timeout"`
	DialDuration    time.Duration `json:"-"`
	OperateTimeout  string        `json:"operate_timeout"`
	OperateDuration time.Duration `json:"-"`
}

func defaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:        false,
		Address:        "127.0.0.1:6379",
		DB:             0,
		KeyPrefix:      "simple-schedule:",
		DialTimeout:    "5s",
		OperateTimeout: "3s",
	}
}

func (config *RedisConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	if !config.Enabled {
		return ValidPass()
	}
	if config.Address == "" {
		return ValidFail(errors.New("invalid json field redis.address, cannot be empty"))
	}
	if config.DB < 0 {
		return ValidFail(errors.New("invalid json field redis.db, cannot be negative"))
	}
	if duration, err := time.ParseDuration(config.DialTimeout); err != nil {
		return ValidFailWith(errors.New("invalid json field redis.dial_timeout"), err)
	} else {
		config.DialDuration = duration
	}
	if duration, err := time.ParseDuration(config.OperateTimeout); err != nil {
		return ValidFailWith(errors.New("invalid json field redis.operate_timeout"), err)
	} else {
		config.OperateDuration = duration
	}
	return ValidPass()
}
