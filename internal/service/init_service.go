// Package service
package service

import (
	"errors"
	"time"

	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

type InitService struct {
	logger            log.LoggerInterface
	config            *c.Config
	validators        *FieldValidators
	auditService      AuditServiceInterface
	userOperation     operation.UserOperationInterface
	settingOperation  operation.SettingOperationInterface
	noticeOperation   operation.NoticeOperationInterface
	scheduleOperation operation.ScheduleOperationInterface
}

func NewInitService(
	logger log.LoggerInterface,
	config *c.Config,
	validators *FieldValidators,
	auditService AuditServiceInterface,
	dbOperations *operation.DatabaseOperations,
) *InitService {
	return &InitService{
		logger:            logger,
		config:            config,
		validators:        validators,
		auditService:      auditService,
		userOperation:     dbOperations.UserOperation(),
		settingOperation:  dbOperations.SettingOperation(),
		noticeOperation:   dbOperations.NoticeOperation(),
		scheduleOperation: dbOperations.ScheduleOperation(),
	}
}

// siteName 初始化之前使用配置文件中的站点名
func (initService *InitService) siteName(settings map[string]string) string {
	if name, ok := settings[operation.SettingSiteName]; ok && name != "" {
		return name
	}
	return initService.config.Server.General.SiteName
}

func (initService *InitService) GetStatus(_ *RequestInitStatus) (*ResponseInitStatus, error) {
	settings, err := initService.settingOperation.GetSettings()
	if err != nil {
		return nil, CheckDBError(initService.logger, err)
	}
	_, initialized := settings[operation.SettingInitialized]
	return &ResponseInitStatus{
		Initialized: initialized,
		SiteName:    initService.siteName(settings),
		Version:     global.AppVersion,
	}, nil
}

func (initService *InitService) Setup(req *RequestInitSetup) (*ResponseInitSetup, error) {
	if err := initService.validators.Username.CheckString(req.Username); err != nil {
		return nil, err
	}
	if err := initService.validators.Email.CheckString(req.Email); err != nil {
		return nil, err
	}
	if err := initService.validators.Password.CheckString(req.Password); err != nil {
		return nil, err
	}
	if err := initService.validators.Title.CheckString(req.SiteName); err != nil {
		return nil, err
	}
	if err := initService.validators.Content.CheckString(req.SiteDescription); err != nil {
		return nil, err
	}

	admin, err := initService.userOperation.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		initService.logger.ErrorF("Fail to create administrator %s: %v", req.Username, err)
		return nil, &ErrRegisterFail
	}
	admin.Permission = int64(operation.AllPermissions)

	settings := map[string]string{
		operation.SettingSiteName:        req.SiteName,
		operation.SettingSiteDescription: req.SiteDescription,
		operation.SettingContactEmail:    req.ContactEmail,
	}
	if err := initService.settingOperation.Initialize(admin, settings); err != nil {
		if !errors.Is(err, operation.ErrAlreadyInitialized) {
			initService.logger.ErrorF("System initialization failed: %v", err)
		}
		return nil, CheckDBError(initService.logger, err)
	}

	initService.logger.InfoF("System initialized by %s(%d)", admin.Username, admin.ID)
	initService.auditService.Record(operation.SystemInitialized, admin.ID, req.SiteName, &req.ClientHeader, nil)

	jwtConfig := initService.config.Server.HttpServer.JWT
	return &ResponseInitSetup{
		Admin:      admin,
		Token:      NewClaims(jwtConfig, admin, false).GenerateKey(),
		FlushToken: NewClaims(jwtConfig, admin, true).GenerateKey(),
	}, nil
}

func (initService *InitService) Bootstrap(req *RequestBootstrap) (*ResponseBootstrap, error) {
	settings, err := initService.settingOperation.GetSettings()
	if err != nil {
		return nil, CheckDBError(initService.logger, err)
	}
	_, initialized := settings[operation.SettingInitialized]
	delete(settings, operation.SettingInitialized)
	settings[operation.SettingSiteName] = initService.siteName(settings)

	pinned, err := initService.noticeOperation.GetPinnedNotices(initService.config.Schedule.PinnedNoticeLimit)
	if err != nil {
		return nil, CheckDBError(initService.logger, err)
	}

	res := &ResponseBootstrap{
		Site:          settings,
		Initialized:   initialized,
		PinnedNotices: pinned,
		Schedules:     make([]*operation.Schedule, 0),
	}
	if req.Uid == 0 {
		return res, nil
	}

	user, err := CallDBFunc(initService.logger, func() (*operation.User, error) {
		return initService.userOperation.GetUserByUid(req.Uid)
	})
	if err != nil {
		return nil, err
	}
	res.User = user

	if res.UnreadNotices, err = initService.noticeOperation.CountUnreadNotices(user.ID); err != nil {
		return nil, CheckDBError(initService.logger, err)
	}

	now := time.Now()
	schedules, err := initService.scheduleOperation.GetUserSchedules(user.ID, now, now.Add(initService.config.Schedule.BootstrapDuration))
	if err != nil {
		return nil, CheckDBError(initService.logger, err)
	}
	res.Schedules = schedules
	return res, nil
}
