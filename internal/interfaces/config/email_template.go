// Package config
package config

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
)

//go:embed template/*.template
var defaultTemplates embed.FS

type EmailTemplateConfig struct {
	EmailVerifyTemplateFile      string             `json:"email_verify_template_file"`
	EmailVerifyTemplate          *template.Template `json:"-"`
	PermissionChangeTemplateFile string             `json:"permission_change_template_file"`
	PermissionChangeTemplate     *template.Template `json:"-"`
	EnablePermissionChangeEmail  bool               `json:"enable_permission_change_email"`
	ScheduleJoinedTemplateFile   string             `json:"schedule_joined_template_file"`
	ScheduleJoinedTemplate       *template.Template `json:"-"`
	EnableScheduleJoinedEmail    bool               `json:"enable_schedule_joined_email"`
}

func defaultEmailTemplateConfig() *EmailTemplateConfig {
	return &EmailTemplateConfig{
		EmailVerifyTemplateFile:      global.EmailVerifyTemplateFile,
		PermissionChangeTemplateFile: global.PermissionChangeTemplateFile,
		EnablePermissionChangeEmail:  true,
		ScheduleJoinedTemplateFile:   global.ScheduleJoinedTemplateFile,
		EnableScheduleJoinedEmail:    true,
	}
}

func loadTemplate(logger log.LoggerInterface, name, filePath string) (*template.Template, *ValidResult) {
	fallback, err := defaultTemplates.ReadFile("template/" + filepath.Base(filePath))
	if err != nil {
		// 自定义文件名没有内置模板, 文件必须存在
		fallback = nil
	}
	bytes, err := cachedContent(logger, filePath, fallback)
	if err != nil {
		return nil, ValidFailWith(fmt.Errorf("fail to load %s_template_file", name), err)
	}
	parse, err := template.New(name).Parse(string(bytes))
	if err != nil {
		return nil, ValidFailWith(fmt.Errorf("fail to parse %s_template", name), err)
	}
	return parse, ValidPass()
}

func (config *EmailTemplateConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if config.EmailVerifyTemplateFile == "" {
		return ValidFail(errors.New("invalid json field http_server.email.template.email_verify_template_file, cannot be empty"))
	}
	if parse, result := loadTemplate(logger, "email_verify", config.EmailVerifyTemplateFile); result.IsFail() {
		return result
	} else {
		config.EmailVerifyTemplate = parse
	}

	if config.EnablePermissionChangeEmail {
		if parse, result := loadTemplate(logger, "permission_change", config.PermissionChangeTemplateFile); result.IsFail() {
			return result
		} else {
			config.PermissionChangeTemplate = parse
		}
	}

	if config.EnableScheduleJoinedEmail {
		if parse, result := loadTemplate(logger, "schedule_joined", config.ScheduleJoinedTemplateFile); result.IsFail() {
			return result
		} else {
			config.ScheduleJoinedTemplate = parse
		}
	}

	return ValidPass()
}
