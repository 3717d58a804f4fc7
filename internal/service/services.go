// Package service
package service

import (
	"context"

	"github.com/half-nothing/simple-schedule/internal/interfaces"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/half-nothing/simple-schedule/internal/service/store"
)

// NewServices 按配置组装全部业务服务, sender 为 nil 时使用配置中的 SMTP 服务器
func NewServices(app *interfaces.ApplicationContent, sender MailSender) (*Services, error) {
	config := app.ConfigManager().Config()
	logger := app.Logger()
	httpConfig := config.Server.HttpServer
	operations := app.Operations()

	var codeStore CodeStoreInterface
	if config.Redis.Enabled {
		client, shutdown, err := NewRedisClient(context.Background(), config.Redis)
		if err != nil {
			return nil, err
		}
		app.Cleaner().Add(shutdown)
		logger.InfoF("Email codes are stored in redis %s", config.Redis.Address)
		codeStore = NewRedisCodeStore(client, config.Redis.KeyPrefix, config.Redis.OperateDuration)
	} else {
		codeStore = NewMemoryCodeStore()
	}

	validators := NewFieldValidators(httpConfig.Limits)
	emailService := NewEmailService(logger, httpConfig.Email, sender, codeStore)
	storeService := store.NewStoreService(logger, httpConfig.Store)
	auditService := NewAuditService(logger, httpConfig.Limits.MaxPageSize, operations.AuditLogOperation())

	return &Services{
		User: NewUserService(logger, httpConfig, validators, emailService, auditService, storeService,
			operations.UserOperation()),
		Init: NewInitService(logger, config, validators, auditService, operations),
		Notice: NewNoticeService(logger, httpConfig.Limits.MaxPageSize, validators, auditService,
			operations.UserOperation(), operations.NoticeOperation()),
		Schedule: NewScheduleService(logger, config.Schedule, httpConfig.Limits, validators, emailService, auditService,
			operations.UserOperation(), operations.ScheduleOperation()),
		Audit: auditService,
		Email: emailService,
		Store: storeService,
	}, nil
}
