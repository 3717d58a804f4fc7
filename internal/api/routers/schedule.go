package routers

import (
	"github.com/half-nothing/simple-schedule/internal/api/procedure"
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

func ScheduleRouter(services *service.Services) (*procedure.Router, error) {
	scheduleService := services.Schedule
	return procedure.NewRouter(
		procedure.Handle("list", procedure.PublicQuery(procedure.Forward(scheduleService.GetSchedules))),
		procedure.Handle("mine", procedure.ProtectedQuery(procedure.Forward(scheduleService.GetMySchedules))),
		procedure.Handle("get", procedure.PublicQuery(procedure.Forward(scheduleService.GetSchedule))),
		procedure.Handle("create", procedure.ProtectedMutation(procedure.Forward(scheduleService.CreateSchedule))),
		procedure.Handle("update", procedure.ProtectedMutation(procedure.Forward(scheduleService.UpdateSchedule))),
		procedure.Handle("delete", procedure.ProtectedMutation(procedure.Forward(scheduleService.DeleteSchedule))),
		procedure.Handle("join", procedure.ProtectedMutation(procedure.Forward(scheduleService.JoinSchedule))),
		procedure.Handle("leave", procedure.ProtectedMutation(procedure.Forward(scheduleService.LeaveSchedule))),
	)
}
