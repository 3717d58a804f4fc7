// Package config
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
)

type HttpServerLimit struct {
	RateLimit              int           `json:"rate_limit"`
	RateLimitWindow        string        `json:"rate_limit_window"`
	RateLimitDuration      time.Duration `json:"-"`
	UsernameLengthMin      int           `json:"username_length_min"`
	UsernameLengthMax      int           `json:"username_length_max"`
	EmailLengthMin         int           `json:"email_length_min"`
	EmailLengthMax         int           `json:"email_length_max"`
	PasswordLengthMin      int           `json:"password_length_min"`
	PasswordLengthMax      int           `json:"password_length_max"`
	TitleLengthMin         int           `json:"title_length_min"`
	TitleLengthMax         int           `json:"title_length_max"`
	ContentLengthMax       int           `json:"content_length_max"`
	MaxPageSize            int           `json:"max_page_size"`
	MaxScheduleParticipant int           `json:"max_schedule_participant"`
	MaxBatchSize           int           `json:"max_batch_size"`
}

func defaultHttpServerLimit() *HttpServerLimit {
	return &HttpServerLimit{
		RateLimit:              60,
		RateLimitWindow:        "1m",
		UsernameLengthMin:      4,
		UsernameLengthMax:      16,
		EmailLengthMin:         4,
		EmailLengthMax:         64,
		PasswordLengthMin:      6,
		PasswordLengthMax:      64,
		TitleLengthMin:         2,
		TitleLengthMax:         64,
		ContentLengthMax:       8192,
		MaxPageSize:            100,
		MaxScheduleParticipant: 500,
		MaxBatchSize:           16,
	}
}

// checkLengthRange 检查一对最小最大长度配置
func checkLengthRange(field string, minValue, maxValue, upper int) *ValidResult {
	if minValue <= 0 {
		return ValidFail(fmt.Errorf("invalid json field http_server.limits.%s_min, value must larger than 0", field))
	}
	if maxValue <= 0 {
		return ValidFail(fmt.Errorf("invalid json field http_server.limits.%s_max, value must larger than 0", field))
	}
	if maxValue > upper {
		return ValidFail(fmt.Errorf("invalid json field http_server.limits.%s_max, value must less than %d", field, upper))
	}
	if minValue >= maxValue {
		return ValidFail(fmt.Errorf("invalid json field http_server.limits.%s_min, value must less than http_server.limits.%s_max", field, field))
	}
	return ValidPass()
}

func (config *HttpServerLimit) checkValid(_ log.LoggerInterface) *ValidResult {
	if duration, err := time.ParseDuration(config.RateLimitWindow); err != nil {
		return ValidFailWith(errors.New("invalid json field http_server.limits.rate_limit_window"), err)
	} else {
		config.RateLimitDuration = duration
	}
	if config.RateLimitDuration <= 0 {
		return ValidFail(errors.New("invalid json field http_server.limits.rate_limit_window, value must larger than 0"))
	}
	if config.RateLimit <= 0 {
		return ValidFail(errors.New("invalid json field http_server.limits.rate_limit, value must larger than 0"))
	}

	if result := checkLengthRange("username_length", config.UsernameLengthMin, config.UsernameLengthMax, 64); result.IsFail() {
		return result
	}
	if result := checkLengthRange("email_length", config.EmailLengthMin, config.EmailLengthMax, 128); result.IsFail() {
		return result
	}
	if result := checkLengthRange("password_length", config.PasswordLengthMin, config.PasswordLengthMax, 128); result.IsFail() {
		return result
	}
	if result := checkLengthRange("title_length", config.TitleLengthMin, config.TitleLengthMax, 128); result.IsFail() {
		return result
	}

	if config.ContentLengthMax <= 0 {
		return ValidFail(errors.New("invalid json field http_server.limits.content_length_max, value must larger than 0"))
	}
	if config.MaxPageSize <= 0 {
		return ValidFail(errors.New("invalid json field http_server.limits.max_page_size, value must larger than 0"))
	}
	if config.MaxBatchSize <= 0 {
		return ValidFail(errors.New("invalid json field http_server.limits.max_batch_size, value must larger than 0"))
	}
	if config.MaxScheduleParticipant < 0 {
		return ValidFail(errors.New("invalid json field http_server.limits.max_schedule_participant, cannot be negative"))
	}

	return ValidPass()
}
