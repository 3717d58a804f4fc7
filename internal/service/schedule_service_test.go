package service

import (
	"testing"
	"time"

	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleCreateRules(t *testing.T) {
	env := newTestEnv(t, false)
	alice := env.register(t, "alice")
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	create := func(startOffset, endOffset time.Duration, capacity int) (*ResponseCreateSchedule, error) {
		return env.schedule.CreateSchedule(&RequestCreateSchedule{
			JwtHeader: jwtOf(alice),
			Title:     "Meeting",
			StartAt:   base.Add(startOffset),
			EndAt:     base.Add(endOffset),
			Capacity:  capacity,
		})
	}

	first, err := create(10*time.Hour, 12*time.Hour, 1)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, first.OwnerId)

	_, err = create(11*time.Hour, 13*time.Hour, 0)
	assert.ErrorIs(t, err, &ErrScheduleConflict)

	_, err = create(12*time.Hour, 13*time.Hour, 0)
	assert.NoError(t, err, "adjacent schedules do not overlap")

	_, err = create(15*time.Hour, 14*time.Hour, 0)
	assert.ErrorIs(t, err, &ErrScheduleTimeRange)

	_, err = create(20*time.Hour, 120*time.Hour, 0)
	assert.ErrorIs(t, err, &ErrScheduleTooLong)

	_, err = create(30*time.Hour, 31*time.Hour, 1000)
	assert.ErrorIs(t, err, &ErrCapacityTooLarge)

	env.config.Schedule.AllowOwnerOverlap = true
	_, err = create(11*time.Hour, 13*time.Hour, 0)
	assert.NoError(t, err)
}

func TestScheduleParticipation(t *testing.T) {
	env := newTestEnv(t, false)
	admin := env.setup(t)
	alice := env.register(t, "alice")
	bobby := env.register(t, "bobby")
	carol := env.register(t, "carol")
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)

	schedule, err := env.schedule.CreateSchedule(&RequestCreateSchedule{
		JwtHeader: jwtOf(alice), Title: "Code review", Location: "Room 1",
		StartAt: start, EndAt: start.Add(time.Hour), Capacity: 1,
	})
	require.NoError(t, err)

	_, err = env.schedule.JoinSchedule(&RequestJoinSchedule{JwtHeader: jwtOf(alice), ScheduleId: schedule.ID})
	assert.ErrorIs(t, err, &ErrScheduleOwnerJoin)

	joined, err := env.schedule.JoinSchedule(&RequestJoinSchedule{JwtHeader: jwtOf(bobby), ScheduleId: schedule.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, joined.Participants)

	_, err = env.schedule.JoinSchedule(&RequestJoinSchedule{JwtHeader: jwtOf(bobby), ScheduleId: schedule.ID})
	assert.ErrorIs(t, err, &ErrScheduleJoined)
	_, err = env.schedule.JoinSchedule(&RequestJoinSchedule{JwtHeader: jwtOf(carol), ScheduleId: schedule.ID})
	assert.ErrorIs(t, err, &ErrScheduleFull)

	mine, err := env.schedule.GetMySchedules(&RequestMySchedules{
		JwtHeader: jwtOf(bobby),
		TimeRange: TimeRange{From: start.Add(-time.Hour), To: start.Add(2 * time.Hour)},
	})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, schedule.ID, mine.Items[0].ID)

	_, err = env.schedule.GetSchedules(&RequestScheduleList{TimeRange: TimeRange{From: start, To: start.Add(800 * time.Hour)}})
	assert.ErrorIs(t, err, &ErrTimeRangeTooLong)
	all, err := env.schedule.GetSchedules(&RequestScheduleList{TimeRange: TimeRange{From: start, To: start.Add(time.Hour)}})
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)

	capacity := 0
	_, err = env.schedule.UpdateSchedule(&RequestUpdateSchedule{JwtHeader: jwtOf(bobby), ScheduleId: schedule.ID, Capacity: &capacity})
	assert.ErrorIs(t, err, &ErrNoPermission)
	updated, err := env.schedule.UpdateSchedule(&RequestUpdateSchedule{JwtHeader: jwtOf(admin), ScheduleId: schedule.ID, Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Capacity)

	joined, err = env.schedule.JoinSchedule(&RequestJoinSchedule{JwtHeader: jwtOf(carol), ScheduleId: schedule.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, joined.Participants)

	capacity = 1
	_, err = env.schedule.UpdateSchedule(&RequestUpdateSchedule{JwtHeader: jwtOf(alice), ScheduleId: schedule.ID, Capacity: &capacity})
	assert.ErrorIs(t, err, &ErrScheduleCapacity)

	detail, err := env.schedule.GetSchedule(&RequestGetSchedule{ScheduleId: schedule.ID})
	require.NoError(t, err)
	assert.Len(t, detail.Participants, 2)
	require.NotNil(t, detail.Owner)
	assert.Equal(t, "alice", detail.Owner.Username)

	left, err := env.schedule.LeaveSchedule(&RequestLeaveSchedule{JwtHeader: jwtOf(bobby), ScheduleId: schedule.ID})
	require.NoError(t, err)
	assert.True(t, left.Left)
	_, err = env.schedule.LeaveSchedule(&RequestLeaveSchedule{JwtHeader: jwtOf(bobby), ScheduleId: schedule.ID})
	assert.ErrorIs(t, err, &ErrScheduleNotJoined)

	_, err = env.schedule.DeleteSchedule(&RequestDeleteSchedule{JwtHeader: jwtOf(carol), ScheduleId: schedule.ID})
	assert.ErrorIs(t, err, &ErrNoPermission)
	deleted, err := env.schedule.DeleteSchedule(&RequestDeleteSchedule{JwtHeader: jwtOf(alice), ScheduleId: schedule.ID})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	_, err = env.schedule.GetSchedule(&RequestGetSchedule{ScheduleId: schedule.ID})
	assert.ErrorIs(t, err, &ErrScheduleNotFound)
}
