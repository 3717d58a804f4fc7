// Package service
package service

import (
	"context"
	"errors"
	"html/template"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
)

var (
	ErrEmailCodeNotFound = errors.New("email code not found")
	ErrEmailCodeExpired  = errors.New("email code expired")
	ErrInvalidEmailCode  = errors.New("invalid email code")
	ErrEmailSendInterval = errors.New("email send interval")
	ErrRenderingTemplate = errors.New("error rendering template")
	ErrSendEmail         = errors.New("error sending email")
)

type EmailServiceInterface interface {
	RenderTemplate(template *template.Template, data interface{}) (string, error)
	VerifyCode(email string, code int) error
	SendEmailCode(email string) error
	SendEmailVerifyCode(req *RequestEmailVerifyCode) (*ResponseEmailVerifyCode, error)
	SendPermissionChangeEmail(user *operation.User, operator *operation.User) error
	SendScheduleJoinedEmail(owner *operation.User, participant *operation.User, schedule *operation.Schedule, count int64) error
}

type RequestEmailVerifyCode struct {
	Email string `json:"email" validate:"required,email"`
}

type ResponseEmailVerifyCode struct {
	Email string `json:"email"`
}

// VerifyCode 已发送的邮箱验证码
type VerifyCode struct {
	Code     int       `json:"code"`
	SendTime time.Time `json:"send_time"`
	Attempts int       `json:"attempts"`
}

// CodeStoreInterface 邮箱验证码存储
type CodeStoreInterface interface {
	Put(ctx context.Context, email string, code *VerifyCode, ttl time.Duration) error
	// Get 没有记录或者记录过期时返回 ErrEmailCodeNotFound
	Get(ctx context.Context, email string) (*VerifyCode, error)
	Delete(ctx context.Context, email string) error
}
