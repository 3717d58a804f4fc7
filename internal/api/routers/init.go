package routers

import (
	"github.com/half-nothing/simple-schedule/internal/api/procedure"
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

// InitRouter 系统初始化与客户端启动数据, 均可匿名调用
func InitRouter(services *service.Services) (*procedure.Router, error) {
	initService := services.Init
	return procedure.NewRouter(
		procedure.Handle("status", procedure.PublicQuery(procedure.Forward(initService.GetStatus))),
		procedure.Handle("setup", procedure.PublicMutation(procedure.Forward(initService.Setup))),
		procedure.Handle("bootstrap", procedure.PublicQuery(procedure.Forward(initService.Bootstrap))),
	)
}
