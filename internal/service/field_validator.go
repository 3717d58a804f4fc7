// Package service
package service

import (
	"unicode/utf8"

	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

type FieldValidator struct {
	Min, Max          int
	ErrShort, ErrLong *ApiStatus
}

// CheckString 按字符数检查长度, 返回值为nil表示通过
func (v *FieldValidator) CheckString(value string) error {
	length := utf8.RuneCountInString(value)
	if length > v.Max {
		return v.ErrLong
	}
	if length < v.Min {
		return v.ErrShort
	}
	return nil
}

// FieldValidators 按配置生成的全部字段长度校验器
type FieldValidators struct {
	Username *FieldValidator
	Password *FieldValidator
	Email    *FieldValidator
	Title    *FieldValidator
	Content  *FieldValidator
}

func NewFieldValidators(config *c.HttpServerLimit) *FieldValidators {
	return &FieldValidators{
		Username: &FieldValidator{
			Min:      config.UsernameLengthMin,
			Max:      config.UsernameLengthMax,
			ErrShort: &ApiStatus{StatusName: "USERNAME_TOO_SHORT", Description: "用户名过短", HttpCode: BadRequest},
			ErrLong:  &ApiStatus{StatusName: "USERNAME_TOO_LONG", Description: "用户名过长", HttpCode: BadRequest},
		},
		Password: &FieldValidator{
			Min:      config.PasswordLengthMin,
			Max:      config.PasswordLengthMax,
			ErrShort: &ApiStatus{StatusName: "PASSWORD_TOO_SHORT", Description: "密码长度过短", HttpCode: BadRequest},
			ErrLong:  &ApiStatus{StatusName: "PASSWORD_TOO_LONG", Description: "密码长度过长", HttpCode: BadRequest},
		},
		Email: &FieldValidator{
			Min:      config.EmailLengthMin,
			Max:      config.EmailLengthMax,
			ErrShort: &ApiStatus{StatusName: "EMAIL_TOO_SHORT", Description: "邮箱过短", HttpCode: BadRequest},
			ErrLong:  &ApiStatus{StatusName: "EMAIL_TOO_LONG", Description: "邮箱过长", HttpCode: BadRequest},
		},
		Title: &FieldValidator{
			Min:      config.TitleLengthMin,
			Max:      config.TitleLengthMax,
			ErrShort: &ApiStatus{StatusName: "TITLE_TOO_SHORT", Description: "标题过短", HttpCode: BadRequest},
			ErrLong:  &ApiStatus{StatusName: "TITLE_TOO_LONG", Description: "标题过长", HttpCode: BadRequest},
		},
		Content: &FieldValidator{
			Min:      0,
			Max:      config.ContentLengthMax,
			ErrShort: &ErrIllegalParam,
			ErrLong:  &ApiStatus{StatusName: "CONTENT_TOO_LONG", Description: "内容过长", HttpCode: BadRequest},
		},
	}
}
