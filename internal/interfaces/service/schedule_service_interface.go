// Package service
package service

import (
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
)

type ScheduleServiceInterface interface {
	GetSchedules(req *RequestScheduleList) (*ResponseScheduleList, error)
	GetMySchedules(req *RequestMySchedules) (*ResponseScheduleList, error)
	GetSchedule(req *RequestGetSchedule) (*ResponseGetSchedule, error)
	CreateSchedule(req *RequestCreateSchedule) (*ResponseCreateSchedule, error)
	UpdateSchedule(req *RequestUpdateSchedule) (*ResponseUpdateSchedule, error)
	DeleteSchedule(req *RequestDeleteSchedule) (*ResponseDeleteSchedule, error)
	JoinSchedule(req *RequestJoinSchedule) (*ResponseJoinSchedule, error)
	LeaveSchedule(req *RequestLeaveSchedule) (*ResponseLeaveSchedule, error)
}

// TimeRange 左闭右开的时间段
type TimeRange struct {
	From time.Time `json:"from" validate:"required"`
	To   time.Time `json:"to" validate:"required,gtfield=From"`
}

type RequestScheduleList struct {
	TimeRange
}

type RequestMySchedules struct {
	JwtHeader
	TimeRange
}

type ResponseScheduleList struct {
	Items []*operation.Schedule `json:"items"`
	From  time.Time             `json:"from"`
	To    time.Time             `json:"to"`
}

type RequestGetSchedule struct {
	ScheduleId uint `json:"id" validate:"required"`
}

type ResponseGetSchedule operation.Schedule

type RequestCreateSchedule struct {
	JwtHeader
	ClientHeader
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	StartAt     time.Time `json:"start_at" validate:"required"`
	EndAt       time.Time `json:"end_at" validate:"required,gtfield=StartAt"`
	Capacity    int       `json:"capacity" validate:"gte=0"`
}

type ResponseCreateSchedule operation.Schedule

type RequestUpdateSchedule struct {
	JwtHeader
	ClientHeader
	ScheduleId  uint       `json:"id" validate:"required"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	Capacity    *int       `json:"capacity,omitempty" validate:"omitempty,gte=0"`
}

type ResponseUpdateSchedule operation.Schedule

type RequestDeleteSchedule struct {
	JwtHeader
	ClientHeader
	ScheduleId uint `json:"id" validate:"required"`
}

type ResponseDeleteSchedule struct {
	Deleted bool `json:"deleted"`
}

type RequestJoinSchedule struct {
	JwtHeader
	ScheduleId uint `json:"id" validate:"required"`
}

type ResponseJoinSchedule struct {
	ScheduleId   uint  `json:"id"`
	Participants int64 `json:"participants"`
}

type RequestLeaveSchedule struct {
	JwtHeader
	ScheduleId uint `json:"id" validate:"required"`
}

type ResponseLeaveSchedule struct {
	ScheduleId uint `json:"id"`
	Left       bool `json:"left"`
}
