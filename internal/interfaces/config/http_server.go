// Package config
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
)

type HttpServerConfig struct {
	Enabled         bool             `json:"enabled"`
	ServerAddress   string           `json:"server_address"`
	Host            string           `json:"host"`
	Port            uint             `json:"port"`
	Address         string           `json:"-"`
	ProxyType       int              `json:"proxy_type"` // 0: 直连, 1: X-Forwarded-For, 2: X-Real-IP
	BodyLimit       string           `json:"body_limit"`
	RequestTimeout  string           `json:"request_timeout"`
	RequestDuration time.Duration    `json:"-"`
	Store           *HttpServerStore `json:"store"`
	Limits          *HttpServerLimit `json:"limits"`
	Email           *EmailConfig     `json:"email"`
	JWT             *JWTConfig       `json:"jwt"`
	SSL             *SSLConfig       `json:"ssl"`
	Metrics         *MetricsConfig   `json:"metrics"`
}

func defaultHttpServerConfig() *HttpServerConfig {
	return &HttpServerConfig{
		Enabled:        true,
		Host:           "0.0.0.0",
		Port:           6810,
		ServerAddress:  "http://127.0.0.1:6810",
		ProxyType:      0,
		BodyLimit:      "10MB",
		RequestTimeout: "30s",
		Store:          defaultHttpServerStore(),
		Limits:         defaultHttpServerLimit(),
		Email:          defaultEmailConfig(),
		JWT:            defaultJWTConfig(),
		SSL:            defaultSSLConfig(),
		Metrics:        defaultMetricsConfig(),
	}
}

func (config *HttpServerConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	// 关闭 HTTP 服务时仍然需要 jwt, 邮件和限制配置, 命令行调用会用到它们
	if result := config.Limits.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.JWT.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Email.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Store.checkValid(logger); result.IsFail() {
		return result
	}
	if !config.Enabled {
		return ValidPass()
	}

	if result := checkPort(config.Port); result.IsFail() {
		return result
	}

	config.Address = fmt.Sprintf("%s:%d", config.Host, config.Port)

	if config.BodyLimit == "" {
		logger.WarnF("body_limit is empty, where the length of the request body is not restricted. This is a very dangerous behavior")
	}

	if duration, err := time.ParseDuration(config.RequestTimeout); err != nil {
		return ValidFailWith(errors.New("invalid json field http_server.request_timeout"), err)
	} else {
		config.RequestDuration = duration
	}

	if result := config.SSL.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Metrics.checkValid(logger); result.IsFail() {
		return result
	}
	return ValidPass()
}
