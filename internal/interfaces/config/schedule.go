// Package config
package config

import (
	"errors"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
)

type ScheduleConfig struct {
	MaxListSpan       string        `json:"max_list_span"` // 单次查询日程的最大时间跨度
	MaxListDuration   time.Duration `json:"-"`
	BootstrapWindow   string        `json:"bootstrap_window"` // 启动数据中包含的日程时间窗口
	BootstrapDuration time.Duration `json:"-"`
	MaxScheduleLength string        `json:"max_schedule_length"` // 单个日程的最大时长
	MaxLengthDuration time.Duration `json:"-"`
	PinnedNoticeLimit int           `json:"pinned_notice_limit"`
	AllowOwnerOverlap bool          `json:"allow_owner_overlap"`
}

func defaultScheduleConfig() *ScheduleConfig {
	return &ScheduleConfig{
		MaxListSpan:       "744h",
		BootstrapWindow:   "168h",
		MaxScheduleLength: "72h",
		PinnedNoticeLimit: 5,
		AllowOwnerOverlap: false,
	}
}

func (config *ScheduleConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	if duration, err := time.ParseDuration(config.MaxListSpan); err != nil {
		return ValidFailWith(errors.New("invalid json field schedule.max_list_span"), err)
	} else {
		config.MaxListDuration = duration
	}
	if duration, err := time.ParseDuration(config.BootstrapWindow); err != nil {
		return ValidFailWith(errors.New("invalid json field schedule.bootstrap_window"), err)
	} else {
		config.BootstrapDuration = duration
	}
	if duration, err := time.ParseDuration(config.MaxScheduleLength); err != nil {
		return ValidFailWith(errors.New("invalid json field schedule.max_schedule_length"), err)
	} else {
		config.MaxLengthDuration = duration
	}
	if config.MaxListDuration <= 0 || config.BootstrapDuration <= 0 || config.MaxLengthDuration <= 0 {
		return ValidFail(errors.New("invalid json field schedule, durations must be positive"))
	}
	if config.BootstrapDuration > config.MaxListDuration {
		return ValidFail(errors.New("invalid json field schedule.bootstrap_window, must not be longer than max_list_span"))
	}
	if config.PinnedNoticeLimit <= 0 {
		return ValidFail(errors.New("invalid json field schedule.pinned_notice_limit, value must larger than 0"))
	}
	return ValidPass()
}
