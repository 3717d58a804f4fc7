// Package routers 按业务划分的子路由
package routers

import (
	"github.com/half-nothing/simple-schedule/internal/api/procedure"
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/half-nothing/simple-schedule/internal/rpc"
)

// UserRouter 用户注册, 登录, 资料与权限管理
func UserRouter(services *service.Services) (*procedure.Router, error) {
	userService := services.User
	return procedure.NewRouter(
		procedure.Handle("register", procedure.PublicMutation(procedure.Forward(userService.UserRegister))),
		procedure.Handle("login", procedure.PublicMutation(procedure.Forward(userService.UserLogin))),
		procedure.Handle("sendCode", procedure.PublicMutation(procedure.Forward(services.Email.SendEmailVerifyCode))),
		procedure.Handle("availability", procedure.PublicQuery(procedure.Forward(userService.CheckAvailability))),
		procedure.Handle("refreshToken", procedure.PublicMutation(refreshToken(userService)).Use(procedure.RequireRefresh)),
		procedure.Handle("profile", procedure.ProtectedQuery(procedure.Forward(userService.GetCurrentProfile))),
		procedure.Handle("editProfile", procedure.ProtectedMutation(procedure.Forward(userService.EditCurrentProfile))),
		procedure.Handle("getUser", procedure.ProtectedQuery(procedure.Forward(userService.GetUserProfile))),
		procedure.Handle("list", procedure.ProtectedQuery(procedure.Forward(userService.GetUserList))),
		procedure.Handle("editPermission", procedure.ProtectedMutation(procedure.Forward(userService.EditUserPermission))),
		procedure.Handle("auditLogs", procedure.ProtectedQuery(procedure.Forward(services.Audit.GetAuditLogPage))),
	)
}

func refreshToken(userService service.UserServiceInterface) rpc.Handler[*procedure.Context, service.RequestRefreshToken, service.ResponseRefreshToken] {
	return func(ctx *procedure.Context, req *service.RequestRefreshToken) (*service.ResponseRefreshToken, error) {
		req.JwtHeader = service.JwtHeader{Uid: ctx.Claims.Uid, Permission: ctx.Claims.Permission}
		req.FlushToken = ctx.Claims.FlushToken
		if ctx.Claims.ExpiresAt != nil {
			req.ExpiresAt = ctx.Claims.ExpiresAt.Time
		}
		return userService.RefreshToken(req)
	}
}
