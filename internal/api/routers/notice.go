package routers

import (
	"github.com/half-nothing/simple-schedule/internal/api/procedure"
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

func NoticeRouter(services *service.Services) (*procedure.Router, error) {
	noticeService := services.Notice
	return procedure.NewRouter(
		procedure.Handle("list", procedure.PublicQuery(procedure.Forward(noticeService.GetNotices))),
		procedure.Handle("get", procedure.PublicQuery(procedure.Forward(noticeService.GetNotice))),
		procedure.Handle("create", procedure.ProtectedMutation(procedure.Forward(noticeService.CreateNotice))),
		procedure.Handle("update", procedure.ProtectedMutation(procedure.Forward(noticeService.UpdateNotice))),
		procedure.Handle("setStatus", procedure.ProtectedMutation(procedure.Forward(noticeService.SetNoticeStatus))),
		procedure.Handle("delete", procedure.ProtectedMutation(procedure.Forward(noticeService.DeleteNotice))),
		procedure.Handle("markRead", procedure.ProtectedMutation(procedure.Forward(noticeService.MarkNoticeRead))),
		procedure.Handle("unreadCount", procedure.ProtectedQuery(procedure.Forward(noticeService.GetUnreadCount))),
	)
}
