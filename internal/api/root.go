// Package api 组合全部子路由, 对外提供应用路由, 类型化过程引用与调用器工厂
package api

import (
	"errors"

	"github.com/half-nothing/simple-schedule/internal/api/procedure"
	"github.com/half-nothing/simple-schedule/internal/api/routers"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/half-nothing/simple-schedule/internal/rpc"
)

type UserProcedures struct {
	Register       procedure.Ref[RequestUserRegister, ResponseUserRegister]
	Login          procedure.Ref[RequestUserLogin, ResponseUserLogin]
	SendCode       procedure.Ref[RequestEmailVerifyCode, ResponseEmailVerifyCode]
	Availability   procedure.Ref[RequestUserAvailability, ResponseUserAvailability]
	RefreshToken   procedure.Ref[RequestRefreshToken, ResponseRefreshToken]
	Profile        procedure.Ref[RequestUserCurrentProfile, ResponseUserCurrentProfile]
	EditProfile    procedure.Ref[RequestUserEditCurrentProfile, ResponseUserEditCurrentProfile]
	GetUser        procedure.Ref[RequestUserProfile, ResponseUserProfile]
	List           procedure.Ref[RequestUserList, ResponseUserList]
	EditPermission procedure.Ref[RequestUserEditPermission, ResponseUserEditPermission]
	AuditLogs      procedure.Ref[RequestGetAuditLog, ResponseGetAuditLog]
}

type InitProcedures struct {
	Status    procedure.Ref[RequestInitStatus, ResponseInitStatus]
	Setup     procedure.Ref[RequestInitSetup, ResponseInitSetup]
	Bootstrap procedure.Ref[RequestBootstrap, ResponseBootstrap]
}

type NoticeProcedures struct {
	List        procedure.Ref[RequestNoticeList, ResponseNoticeList]
	Get         procedure.Ref[RequestGetNotice, ResponseGetNotice]
	Create      procedure.Ref[RequestCreateNotice, ResponseCreateNotice]
	Update      procedure.Ref[RequestUpdateNotice, ResponseUpdateNotice]
	SetStatus   procedure.Ref[RequestSetNoticeStatus, ResponseSetNoticeStatus]
	Delete      procedure.Ref[RequestDeleteNotice, ResponseDeleteNotice]
	MarkRead    procedure.Ref[RequestMarkNoticeRead, ResponseMarkNoticeRead]
	UnreadCount procedure.Ref[RequestUnreadCount, ResponseUnreadCount]
}

type ScheduleProcedures struct {
	List   procedure.Ref[RequestScheduleList, ResponseScheduleList]
	Mine   procedure.Ref[RequestMySchedules, ResponseScheduleList]
	Get    procedure.Ref[RequestGetSchedule, ResponseGetSchedule]
	Create procedure.Ref[RequestCreateSchedule, ResponseCreateSchedule]
	Update procedure.Ref[RequestUpdateSchedule, ResponseUpdateSchedule]
	Delete procedure.Ref[RequestDeleteSchedule, ResponseDeleteSchedule]
	Join   procedure.Ref[RequestJoinSchedule, ResponseJoinSchedule]
	Leave  procedure.Ref[RequestLeaveSchedule, ResponseLeaveSchedule]
}

// AppProcedures 应用路由中每个叶子过程的类型化引用
type AppProcedures struct {
	User     UserProcedures
	Init     InitProcedures
	Notice   NoticeProcedures
	Schedule ScheduleProcedures
}

type AppRouter struct {
	*procedure.Router
	Procedures   *AppProcedures
	CreateCaller procedure.CallerFactory
}

type subRouter struct {
	name  string
	build func(services *Services) (*procedure.Router, error)
}

var namespaces = []subRouter{
	{"user", routers.UserRouter},
	{"init", routers.InitRouter},
	{"notice", routers.NoticeRouter},
	{"schedule", routers.ScheduleRouter},
}

// NewAppRouter 构建全部子路由并组合为应用路由
func NewAppRouter(services *Services) (*AppRouter, error) {
	entries := make([]procedure.Entry, 0, len(namespaces))
	for _, namespace := range namespaces {
		router, err := namespace.build(services)
		if err != nil {
			return nil, err
		}
		entries = append(entries, procedure.Mount(namespace.name, router))
	}
	router, err := rpc.Compose(entries...)
	if err != nil {
		return nil, err
	}
	procedures, err := bindProcedures(router)
	if err != nil {
		return nil, err
	}
	return &AppRouter{
		Router:       router,
		Procedures:   procedures,
		CreateCaller: rpc.CreateCallerFactory(router),
	}, nil
}

// binder 收集绑定过程中的全部错误
type binder struct {
	router *procedure.Router
	err    error
}

func bind[I, O any](b *binder, path string) procedure.Ref[I, O] {
	ref, err := rpc.Bind[I, O](b.router, path)
	b.err = errors.Join(b.err, err)
	return ref
}

func bindProcedures(router *procedure.Router) (*AppProcedures, error) {
	b := &binder{router: router}
	procedures := &AppProcedures{
		User: UserProcedures{
			Register:       bind[RequestUserRegister, ResponseUserRegister](b, "user.register"),
			Login:          bind[RequestUserLogin, ResponseUserLogin](b, "user.login"),
			SendCode:       bind[RequestEmailVerifyCode, ResponseEmailVerifyCode](b, "user.sendCode"),
			Availability:   bind[RequestUserAvailability, ResponseUserAvailability](b, "user.availability"),
			RefreshToken:   bind[RequestRefreshToken, ResponseRefreshToken](b, "user.refreshToken"),
			Profile:        bind[RequestUserCurrentProfile, ResponseUserCurrentProfile](b, "user.profile"),
			EditProfile:    bind[RequestUserEditCurrentProfile, ResponseUserEditCurrentProfile](b, "user.editProfile"),
			GetUser:        bind[RequestUserProfile, ResponseUserProfile](b, "user.getUser"),
			List:           bind[RequestUserList, ResponseUserList](b, "user.list"),
			EditPermission: bind[RequestUserEditPermission, ResponseUserEditPermission](b, "user.editPermission"),
			AuditLogs:      bind[RequestGetAuditLog, ResponseGetAuditLog](b, "user.auditLogs"),
		},
		Init: InitProcedures{
			Status:    bind[RequestInitStatus, ResponseInitStatus](b, "init.status"),
			Setup:     bind[RequestInitSetup, ResponseInitSetup](b, "init.setup"),
			Bootstrap: bind[RequestBootstrap, ResponseBootstrap](b, "init.bootstrap"),
		},
		Notice: NoticeProcedures{
			List:        bind[RequestNoticeList, ResponseNoticeList](b, "notice.list"),
			Get:         bind[RequestGetNotice, ResponseGetNotice](b, "notice.get"),
			Create:      bind[RequestCreateNotice, ResponseCreateNotice](b, "notice.create"),
			Update:      bind[RequestUpdateNotice, ResponseUpdateNotice](b, "notice.update"),
			SetStatus:   bind[RequestSetNoticeStatus, ResponseSetNoticeStatus](b, "notice.setStatus"),
			Delete:      bind[RequestDeleteNotice, ResponseDeleteNotice](b, "notice.delete"),
			MarkRead:    bind[RequestMarkNoticeRead, ResponseMarkNoticeRead](b, "notice.markRead"),
			UnreadCount: bind[RequestUnreadCount, ResponseUnreadCount](b, "notice.unreadCount"),
		},
		Schedule: ScheduleProcedures{
			List:   bind[RequestScheduleList, ResponseScheduleList](b, "schedule.list"),
			Mine:   bind[RequestMySchedules, ResponseScheduleList](b, "schedule.mine"),
			Get:    bind[RequestGetSchedule, ResponseGetSchedule](b, "schedule.get"),
			Create: bind[RequestCreateSchedule, ResponseCreateSchedule](b, "schedule.create"),
			Update: bind[RequestUpdateSchedule, ResponseUpdateSchedule](b, "schedule.update"),
			Delete: bind[RequestDeleteSchedule, ResponseDeleteSchedule](b, "schedule.delete"),
			Join:   bind[RequestJoinSchedule, ResponseJoinSchedule](b, "schedule.join"),
			Leave:  bind[RequestLeaveSchedule, ResponseLeaveSchedule](b, "schedule.leave"),
		},
	}
	if b.err != nil {
		return nil, b.err
	}
	return procedures, nil
}
