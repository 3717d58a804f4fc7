// Package service
package service

// Services 路由层依赖的全部业务服务
type Services struct {
	User     UserServiceInterface
	Init     InitServiceInterface
	Notice   NoticeServiceInterface
	Schedule ScheduleServiceInterface
	Audit    AuditServiceInterface
	Email    EmailServiceInterface
	Store    StoreServiceInterface
}
