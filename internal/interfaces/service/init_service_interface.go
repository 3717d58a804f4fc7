// Package service
package service

import "github.com/half-nothing/simple-schedule/internal/interfaces/operation"

type InitServiceInterface interface {
	GetStatus(req *RequestInitStatus) (*ResponseInitStatus, error)
	Setup(req *RequestInitSetup) (*ResponseInitSetup, error)
	Bootstrap(req *RequestBootstrap) (*ResponseBootstrap, error)
}

type RequestInitStatus struct{}

type ResponseInitStatus struct {
	Initialized bool   `json:"initialized"`
	SiteName    string `json:"site_name"`
	Version     string `json:"version"`
}

type RequestInitSetup struct {
	ClientHeader
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	SiteName        string `json:"site_name" validate:"required"`
	SiteDescription string `json:"site_description,omitempty"`
	ContactEmail    string `json:"contact_email,omitempty" validate:"omitempty,email"`
}

type ResponseInitSetup struct {
	Admin      *operation.User `json:"admin"`
	Token      string          `json:"token"`
	FlushToken string          `json:"flush_token"`
}

type RequestBootstrap struct {
	JwtHeader
}

type ResponseBootstrap struct {
	Site          map[string]string     `json:"site"`
	Initialized   bool                  `json:"initialized"`
	User          *operation.User       `json:"user,omitempty"`
	PinnedNotices []*operation.Notice   `json:"pinned_notices"`
	UnreadNotices int64                 `json:"unread_notices"`
	Schedules     []*operation.Schedule `json:"schedules"`
}
