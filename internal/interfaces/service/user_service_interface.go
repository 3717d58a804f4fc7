// Package service
package service

import (
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
)

type UserServiceInterface interface {
	UserRegister(req *RequestUserRegister) (*ResponseUserRegister, error)
	UserLogin(req *RequestUserLogin) (*ResponseUserLogin, error)
	CheckAvailability(req *RequestUserAvailability) (*ResponseUserAvailability, error)
	RefreshToken(req *RequestRefreshToken) (*ResponseRefreshToken, error)
	GetCurrentProfile(req *RequestUserCurrentProfile) (*ResponseUserCurrentProfile, error)
	EditCurrentProfile(req *RequestUserEditCurrentProfile) (*ResponseUserEditCurrentProfile, error)
	GetUserProfile(req *RequestUserProfile) (*ResponseUserProfile, error)
	GetUserList(req *RequestUserList) (*ResponseUserList, error)
	EditUserPermission(req *RequestUserEditPermission) (*ResponseUserEditPermission, error)
}

type RequestUserRegister struct {
	ClientHeader
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	EmailCode int    `json:"email_code"`
}

type ResponseUserRegister struct {
	User       *operation.User `json:"user"`
	Token      string          `json:"token"`
	FlushToken string          `json:"flush_token"`
}

type RequestUserLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ResponseUserLogin ResponseUserRegister

type RequestUserAvailability struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type ResponseUserAvailability struct {
	Available bool `json:"available"`
}

type RequestRefreshToken struct {
	JwtHeader
	FlushToken bool      `json:"-"`
	ExpiresAt  time.Time `json:"-"`
}

type ResponseRefreshToken ResponseUserRegister

type RequestUserCurrentProfile struct {
	JwtHeader
}

type ResponseUserCurrentProfile operation.User

type RequestUserEditCurrentProfile struct {
	JwtHeader
	ClientHeader
	Username       string `json:"username,omitempty"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	EmailCode      int    `json:"email_code,omitempty"`
	DisplayName    string `json:"display_name,omitempty"`
	AvatarUrl      string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	OriginPassword string `json:"origin_password,omitempty"`
	NewPassword    string `json:"new_password,omitempty"`
}

type ResponseUserEditCurrentProfile operation.User

type RequestUserProfile struct {
	JwtHeader
	TargetUid uint `json:"uid" validate:"required"`
}

type ResponseUserProfile operation.User

type RequestUserList struct {
	JwtHeader
	PageRequest
}

type ResponseUserList PageResponse[operation.User]

type RequestUserEditPermission struct {
	JwtHeader
	ClientHeader
	TargetUid   uint            `json:"uid" validate:"required"`
	Permissions map[string]bool `json:"permissions" validate:"required,min=1"`
}

type ResponseUserEditPermission struct {
	Permission int64    `json:"permission"`
	Names      []string `json:"names"`
}
