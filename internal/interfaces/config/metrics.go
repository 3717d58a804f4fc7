// Package config
package config

import (
	"errors"
	"strings"

	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
)

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

func defaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled: true,
		Path:    "/metrics",
	}
}

func (config *MetricsConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	if !config.Enabled {
		return ValidPass()
	}
	if !strings.HasPrefix(config.Path, "/") {
		return ValidFail(errors.New("invalid json field http_server.metrics.path, must start with /"))
	}
	if strings.HasPrefix(config.Path, "/api") {
		return ValidFail(errors.New("invalid json field http_server.metrics.path, cannot be under /api"))
	}
	return ValidPass()
}
