// Package service
package service

import (
	"strconv"
	"time"

	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

type ScheduleService struct {
	logger            log.LoggerInterface
	config            *c.ScheduleConfig
	limits            *c.HttpServerLimit
	validators        *FieldValidators
	emailService      EmailServiceInterface
	auditService      AuditServiceInterface
	userOperation     operation.UserOperationInterface
	scheduleOperation operation.ScheduleOperationInterface
}

func NewScheduleService(
	logger log.LoggerInterface,
	config *c.ScheduleConfig,
	limits *c.HttpServerLimit,
	validators *FieldValidators,
	emailService EmailServiceInterface,
	auditService AuditServiceInterface,
	userOperation operation.UserOperationInterface,
	scheduleOperation operation.ScheduleOperationInterface,
) *ScheduleService {
	return &ScheduleService{
		logger:            logger,
		config:            config,
		limits:            limits,
		validators:        validators,
		emailService:      emailService,
		auditService:      auditService,
		userOperation:     userOperation,
		scheduleOperation: scheduleOperation,
	}
}

var (
	ErrTimeRangeTooLong = ApiStatus{StatusName: "TIME_RANGE_TOO_LONG", Description: "查询的时间跨度过大", HttpCode: BadRequest}
	ErrScheduleTooLong  = ApiStatus{StatusName: "SCHEDULE_TOO_LONG", Description: "日程时长超出限制", HttpCode: BadRequest}
	ErrCapacityTooLarge = ApiStatus{StatusName: "CAPACITY_TOO_LARGE", Description: "人数上限超出限制", HttpCode: BadRequest}
)

func scheduleObject(schedule *operation.Schedule) string {
	return "schedule:" + strconv.FormatUint(uint64(schedule.ID), 10)
}

func (scheduleService *ScheduleService) checkRange(timeRange *TimeRange) error {
	if !timeRange.To.After(timeRange.From) {
		return &ErrScheduleTimeRange
	}
	if timeRange.To.Sub(timeRange.From) > scheduleService.config.MaxListDuration {
		return &ErrTimeRangeTooLong
	}
	return nil
}

func (scheduleService *ScheduleService) checkSchedule(startAt, endAt time.Time, capacity int) error {
	if !endAt.After(startAt) {
		return &ErrScheduleTimeRange
	}
	if endAt.Sub(startAt) > scheduleService.config.MaxLengthDuration {
		return &ErrScheduleTooLong
	}
	if capacity < 0 {
		return &ErrIllegalParam
	}
	if limit := scheduleService.limits.MaxScheduleParticipant; limit > 0 && capacity > limit {
		return &ErrCapacityTooLarge
	}
	return nil
}

func (scheduleService *ScheduleService) GetSchedules(req *RequestScheduleList) (*ResponseScheduleList, error) {
	if err := scheduleService.checkRange(&req.TimeRange); err != nil {
		return nil, err
	}
	schedules, err := scheduleService.scheduleOperation.GetSchedules(req.From, req.To)
	if err != nil {
		return nil, CheckDBError(scheduleService.logger, err)
	}
	return &ResponseScheduleList{Items: schedules, From: req.From, To: req.To}, nil
}

func (scheduleService *ScheduleService) GetMySchedules(req *RequestMySchedules) (*ResponseScheduleList, error) {
	if err := scheduleService.checkRange(&req.TimeRange); err != nil {
		return nil, err
	}
	schedules, err := scheduleService.scheduleOperation.GetUserSchedules(req.Uid, req.From, req.To)
	if err != nil {
		return nil, CheckDBError(scheduleService.logger, err)
	}
	return &ResponseScheduleList{Items: schedules, From: req.From, To: req.To}, nil
}

func (scheduleService *ScheduleService) getSchedule(id uint) (*operation.Schedule, error) {
	return CallDBFunc(scheduleService.logger, func() (*operation.Schedule, error) {
		return scheduleService.scheduleOperation.GetScheduleById(id)
	})
}

func (scheduleService *ScheduleService) GetSchedule(req *RequestGetSchedule) (*ResponseGetSchedule, error) {
	schedule, err := scheduleService.getSchedule(req.ScheduleId)
	if err != nil {
		return nil, err
	}
	return (*ResponseGetSchedule)(schedule), nil
}

func (scheduleService *ScheduleService) CreateSchedule(req *RequestCreateSchedule) (*ResponseCreateSchedule, error) {
	if err := scheduleService.validators.Title.CheckString(req.Title); err != nil {
		return nil, err
	}
	if err := scheduleService.validators.Content.CheckString(req.Description); err != nil {
		return nil, err
	}
	if err := scheduleService.checkSchedule(req.StartAt, req.EndAt, req.Capacity); err != nil {
		return nil, err
	}
	user, err := CallDBFunc(scheduleService.logger, func() (*operation.User, error) {
		return scheduleService.userOperation.GetUserByUid(req.Uid)
	})
	if err != nil {
		return nil, err
	}
	schedule := scheduleService.scheduleOperation.NewSchedule(user, req.Title, req.Description, req.Location, req.StartAt, req.EndAt, req.Capacity)
	if err := scheduleService.scheduleOperation.AddSchedule(schedule, !scheduleService.config.AllowOwnerOverlap); err != nil {
		return nil, CheckDBError(scheduleService.logger, err)
	}
	schedule.Owner = user
	scheduleService.auditService.Record(operation.ScheduleCreated, user.ID, scheduleObject(schedule), &req.ClientHeader,
		&operation.ChangeDetail{NewValue: schedule.Title})
	return (*ResponseCreateSchedule)(schedule), nil
}

// checkOwner 创建者或者拥有 ScheduleManage 权限的用户可以修改日程
func (scheduleService *ScheduleService) checkOwner(uid uint, schedule *operation.Schedule) error {
	if schedule.OwnerId == uid {
		return nil
	}
	_, err := CheckUserPermission(scheduleService.logger, scheduleService.userOperation, uid, operation.ScheduleManage)
	return err
}

func (scheduleService *ScheduleService) UpdateSchedule(req *RequestUpdateSchedule) (*ResponseUpdateSchedule, error) {
	schedule, err := scheduleService.getSchedule(req.ScheduleId)
	if err != nil {
		return nil, err
	}
	if err := scheduleService.checkOwner(req.Uid, schedule); err != nil {
		return nil, err
	}

	updateInfo := make(map[string]interface{})
	if req.Title != nil && *req.Title != schedule.Title {
		if err := scheduleService.validators.Title.CheckString(*req.Title); err != nil {
			return nil, err
		}
		updateInfo["title"] = *req.Title
	}
	if req.Description != nil && *req.Description != schedule.Description {
		if err := scheduleService.validators.Content.CheckString(*req.Description); err != nil {
			return nil, err
		}
		updateInfo["description"] = *req.Description
	}
	if req.Location != nil && *req.Location != schedule.Location {
		updateInfo["location"] = *req.Location
	}
	startAt, endAt, capacity := schedule.StartAt, schedule.EndAt, schedule.Capacity
	if req.StartAt != nil && !req.StartAt.Equal(schedule.StartAt) {
		startAt = *req.StartAt
		updateInfo["start_at"] = startAt
	}
	if req.EndAt != nil && !req.EndAt.Equal(schedule.EndAt) {
		endAt = *req.EndAt
		updateInfo["end_at"] = endAt
	}
	if req.Capacity != nil && *req.Capacity != schedule.Capacity {
		capacity = *req.Capacity
		updateInfo["capacity"] = capacity
	}
	if len(updateInfo) == 0 {
		return (*ResponseUpdateSchedule)(schedule), nil
	}
	if err := scheduleService.checkSchedule(startAt, endAt, capacity); err != nil {
		return nil, err
	}

	oldTitle := schedule.Title
	if err := scheduleService.scheduleOperation.UpdateSchedule(schedule, updateInfo, !scheduleService.config.AllowOwnerOverlap); err != nil {
		return nil, CheckDBError(scheduleService.logger, err)
	}
	updated, err := scheduleService.getSchedule(schedule.ID)
	if err != nil {
		return nil, err
	}
	scheduleService.auditService.Record(operation.ScheduleUpdated, req.Uid, scheduleObject(updated), &req.ClientHeader,
		&operation.ChangeDetail{OldValue: oldTitle, NewValue: updated.Title})
	return (*ResponseUpdateSchedule)(updated), nil
}

func (scheduleService *ScheduleService) DeleteSchedule(req *RequestDeleteSchedule) (*ResponseDeleteSchedule, error) {
	schedule, err := scheduleService.getSchedule(req.ScheduleId)
	if err != nil {
		return nil, err
	}
	if err := scheduleService.checkOwner(req.Uid, schedule); err != nil {
		return nil, err
	}
	if err := scheduleService.scheduleOperation.DeleteSchedule(schedule); err != nil {
		return nil, CheckDBError(scheduleService.logger, err)
	}
	scheduleService.auditService.Record(operation.ScheduleDeleted, req.Uid, scheduleObject(schedule), &req.ClientHeader,
		&operation.ChangeDetail{OldValue: schedule.Title})
	return &ResponseDeleteSchedule{Deleted: true}, nil
}

func (scheduleService *ScheduleService) JoinSchedule(req *RequestJoinSchedule) (*ResponseJoinSchedule, error) {
	schedule, err := scheduleService.getSchedule(req.ScheduleId)
	if err != nil {
		return nil, err
	}
	user, err := CallDBFunc(scheduleService.logger, func() (*operation.User, error) {
		return scheduleService.userOperation.GetUserByUid(req.Uid)
	})
	if err != nil {
		return nil, err
	}
	participants, err := scheduleService.scheduleOperation.JoinSchedule(schedule, user.ID)
	if err != nil {
		return nil, CheckDBError(scheduleService.logger, err)
	}
	if schedule.Owner != nil {
		if err := scheduleService.emailService.SendScheduleJoinedEmail(schedule.Owner, user, schedule, participants); err != nil {
			scheduleService.logger.ErrorF("SendScheduleJoinedEmail Failed: %v", err)
		}
	}
	return &ResponseJoinSchedule{ScheduleId: schedule.ID, Participants: participants}, nil
}

func (scheduleService *ScheduleService) LeaveSchedule(req *RequestLeaveSchedule) (*ResponseLeaveSchedule, error) {
	schedule, err := scheduleService.getSchedule(req.ScheduleId)
	if err != nil {
		return nil, err
	}
	if err := scheduleService.scheduleOperation.LeaveSchedule(schedule, req.Uid); err != nil {
		return nil, CheckDBError(scheduleService.logger, err)
	}
	return &ResponseLeaveSchedule{ScheduleId: schedule.ID, Left: true}, nil
}
