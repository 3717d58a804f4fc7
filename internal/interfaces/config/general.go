// Package config
package config

import (
	"errors"

	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"golang.org/x/crypto/bcrypt"
)

type GeneralConfig struct {
	SiteName   string `json:"site_name"` // 系统初始化之前使用的站点名
	BcryptCost int    `json:"bcrypt_cost"`
}

func defaultGeneralConfig() *GeneralConfig {
	return &GeneralConfig{
		SiteName:   "Simple Schedule",
		BcryptCost: 12,
	}
}

func (config *GeneralConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		return ValidFail(errors.New("bcrypt_cost out of range, must between 4 and 31"))
	}
	if config.SiteName == "" {
		return ValidFail(errors.New("invalid json field server.general.site_name, cannot be empty"))
	}
	return ValidPass()
}
