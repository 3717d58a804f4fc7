// Package database
package database

import (
	"context"
	"errors"
	"time"

	. "github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScheduleOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewScheduleOperation(db *gorm.DB, queryTimeout time.Duration) *ScheduleOperation {
	return &ScheduleOperation{db: db, queryTimeout: queryTimeout}
}

func (scheduleOperation *ScheduleOperation) NewSchedule(owner *User, title, description, location string, startAt, endAt time.Time, capacity int) (schedule *Schedule) {
	return &Schedule{
		OwnerId:     owner.ID,
		Title:       title,
		Description: description,
		Location:    location,
		StartAt:     normalizeTime(startAt),
		EndAt:       normalizeTime(endAt),
		Capacity:    capacity,
	}
}

// hasConflict 检查同一创建者是否存在与 [startAt, endAt) 相交的其他日程
func hasConflict(tx *gorm.DB, ownerId, exceptId uint, startAt, endAt time.Time) (bool, error) {
	var count int64
	err := tx.Model(&Schedule{}).
		Where("owner_id = ? AND start_at < ? AND end_at > ? AND id <> ?", ownerId, normalizeTime(endAt), normalizeTime(startAt), exceptId).
		Count(&count).Error
	return count > 0, err
}

func (scheduleOperation *ScheduleOperation) AddSchedule(schedule *Schedule, checkConflict bool) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), scheduleOperation.queryTimeout)
	defer cancel()
	return scheduleOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if checkConflict {
			// 锁住创建者的行, 串行化同一个人的并发创建
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&User{}, schedule.OwnerId).Error; err != nil {
				return translateNotFound(err, ErrUserNotFound)
			}
			conflict, err := hasConflict(tx, schedule.OwnerId, 0, schedule.StartAt, schedule.EndAt)
			if err != nil {
				return err
			}
			if conflict {
				return ErrScheduleConflict
			}
		}
		return tx.Create(schedule).Error
	})
}

func (scheduleOperation *ScheduleOperation) GetScheduleById(id uint) (schedule *Schedule, err error) {
	schedule = &Schedule{}
	ctx, cancel := context.WithTimeout(context.Background(), scheduleOperation.queryTimeout)
	defer cancel()
	err = scheduleOperation.db.WithContext(ctx).
		Preload("Owner").
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Participants.User").
		First(schedule, id).Error
	if err != nil {
		return nil, translateNotFound(err, ErrScheduleNotFound)
	}
	return schedule, nil
}

func (scheduleOperation *ScheduleOperation) GetSchedules(from, to time.Time) (schedules []*Schedule, err error) {
	schedules = make([]*Schedule, 0)
	ctx, cancel := context.WithTimeout(context.Background(), scheduleOperation.queryTimeout)
	defer cancel()
	err = scheduleOperation.db.WithContext(ctx).
		Preload("Owner").
		Where("start_at < ? AND end_at > ?", normalizeTime(to), normalizeTime(from)).
		Order("start_at").
		Order("id").
		Find(&schedules).Error
	return
}

func (scheduleOperation *ScheduleOperation) GetUserSchedules(uid uint, from, to time.Time) (schedules []*Schedule, err error) {
	schedules = make([]*Schedule, 0)
	ctx, cancel := context.WithTimeout(context.Background(), scheduleOperation.queryTimeout)
	defer cancel()
	joined := scheduleOperation.db.Model(&ScheduleParticipant{}).Select("schedule_id").Where("user_id = ?", uid)
	err = scheduleOperation.db.WithContext(ctx).
		Preload("Owner").
		Where("start_at < ? AND end_at > ?", normalizeTime(to), normalizeTime(from)).
		Where(scheduleOperation.db.Where("owner_id = ?", uid).Or("id IN (?)", joined)).
		Order("start_at").
		Order("id").
		Find(&schedules).Error
	return
}

func (scheduleOperation *ScheduleOperation) UpdateSchedule(schedule *Schedule, info map[string]interface{}, checkConflict bool) (err error) {
	if len(info) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), scheduleOperation.queryTimeout)
	defer cancel()
	return scheduleOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := &Schedule{}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(current, schedule.ID).Error; err != nil {
			return translateNotFound(err, ErrScheduleNotFound)
		}
		startAt, endAt := current.StartAt, current.EndAt
		if value, ok := info["start_at"].(time.Time); ok {
			startAt = normalizeTime(value)
			info["start_at"] = startAt
		}
		if value, ok := info["end_at"].(time.Time); ok {
			endAt = normalizeTime(value)
			info["end_at"] = endAt
		}
		if !endAt.After(startAt) {
			return ErrScheduleTimeRange
		}
		if checkConflict {
			conflict, err := hasConflict(tx, current.OwnerId, current.ID, startAt, endAt)
			if err != nil {
				return err
			}
			if conflict {
				return ErrScheduleConflict
			}
		}
		if capacity, ok := info["capacity"].(int); ok && capacity > 0 {
			var participants int64
			if err := tx.Model(&ScheduleParticipant{}).Where("schedule_id = ?", current.ID).Count(&participants).Error; err != nil {
				return err
			}
			if int64(capacity) < participants {
				return ErrScheduleCapacity
			}
		}
		return tx.Model(schedule).Updates(info).Error
	})
}

func (scheduleOperation *ScheduleOperation) DeleteSchedule(schedule *Schedule) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), scheduleOperation.queryTimeout)
	defer cancel()
	return scheduleOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(schedule)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrScheduleNotFound
		}
		return tx.Where("schedule_id = ?", schedule.ID).Delete(&ScheduleParticipant{}).Error
	})
}

func (scheduleOperation *ScheduleOperation) JoinSchedule(schedule *Schedule, uid uint) (participants int64, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), scheduleOperation.queryTimeout)
	defer cancel()
	err = scheduleOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := &Schedule{}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(current, schedule.ID).Error; err != nil {
			return translateNotFound(err, ErrScheduleNotFound)
		}
		if current.OwnerId == uid {
			return ErrScheduleOwnerJoin
		}
		var joined int64
		if err := tx.Model(&ScheduleParticipant{}).Where("schedule_id = ? AND user_id = ?", current.ID, uid).Count(&joined).Error; err != nil {
			return err
		}
		if joined > 0 {
			return ErrScheduleJoined
		}
		if err := tx.Model(&ScheduleParticipant{}).Where("schedule_id = ?", current.ID).Count(&participants).Error; err != nil {
			return err
		}
		if current.Capacity > 0 && participants >= int64(current.Capacity) {
			return ErrScheduleFull
		}
		if err := tx.Create(&ScheduleParticipant{ScheduleId: current.ID, UserId: uid}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrScheduleJoined
			}
			return err
		}
		participants++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return participants, nil
}

func (scheduleOperation *ScheduleOperation) LeaveSchedule(schedule *Schedule, uid uint) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), scheduleOperation.queryTimeout)
	defer cancel()
	result := scheduleOperation.db.WithContext(ctx).
		Where("schedule_id = ? AND user_id = ?", schedule.ID, uid).
		Delete(&ScheduleParticipant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotJoined
	}
	return nil
}
