// Package operation
package operation

import (
	"errors"
	"time"
)

var (
	// ErrScheduleNotFound 日程不存在
	ErrScheduleNotFound = errors.New("schedule does not exist")
	// ErrScheduleConflict 同一个创建者的日程时间重叠
	ErrScheduleConflict = errors.New("schedule overlaps with another schedule of the owner")
	// ErrScheduleFull 日程报名人数已满
	ErrScheduleFull = errors.New("schedule is full")
	// ErrScheduleJoined 已经报名过该日程
	ErrScheduleJoined = errors.New("already joined the schedule")
	// ErrScheduleNotJoined 没有报名该日程
	ErrScheduleNotJoined = errors.New("not joined the schedule")
	// ErrScheduleOwnerJoin 创建者不能报名自己的日程
	ErrScheduleOwnerJoin = errors.New("owner cannot join own schedule")
	// ErrScheduleTimeRange 结束时间不晚于开始时间
	ErrScheduleTimeRange = errors.New("schedule end time must be after start time")
	// ErrScheduleCapacity 修改后的人数上限小于已报名人数
	ErrScheduleCapacity = errors.New("capacity less than participants")
)

// ScheduleOperationInterface 日程操作接口定义
type ScheduleOperationInterface interface {
	// NewSchedule 创建新日程(不写入数据库)
	NewSchedule(owner *User, title, description, location string, startAt, endAt time.Time, capacity int) (schedule *Schedule)
	// AddSchedule 在事务中检查创建者的时间冲突并写入日程, checkConflict 为false时跳过冲突检查
	AddSchedule(schedule *Schedule, checkConflict bool) (err error)
	// GetScheduleById 通过ID获取日程以及报名列表, 当err为nil时返回值schedule有效
	GetScheduleById(id uint) (schedule *Schedule, err error)
	// GetSchedules 获取与时间段 [from, to) 相交的全部日程, 按开始时间排序
	GetSchedules(from, to time.Time) (schedules []*Schedule, err error)
	// GetUserSchedules 获取用户创建或者报名的, 与时间段 [from, to) 相交的日程
	GetUserSchedules(uid uint, from, to time.Time) (schedules []*Schedule, err error)
	// UpdateSchedule 在事务中检查冲突和人数上限并更新日程
	UpdateSchedule(schedule *Schedule, info map[string]interface{}, checkConflict bool) (err error)
	// DeleteSchedule 删除日程以及报名记录
	DeleteSchedule(schedule *Schedule) (err error)
	// JoinSchedule 在事务中检查人数上限并报名
	JoinSchedule(schedule *Schedule, uid uint) (participants int64, err error)
	// LeaveSchedule 取消报名
	LeaveSchedule(schedule *Schedule, uid uint) (err error)
}
