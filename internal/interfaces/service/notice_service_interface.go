// Package service
package service

import "github.com/half-nothing/simple-schedule/internal/interfaces/operation"

type NoticeServiceInterface interface {
	GetNotices(req *RequestNoticeList) (*ResponseNoticeList, error)
	GetNotice(req *RequestGetNotice) (*ResponseGetNotice, error)
	CreateNotice(req *RequestCreateNotice) (*ResponseCreateNotice, error)
	UpdateNotice(req *RequestUpdateNotice) (*ResponseUpdateNotice, error)
	SetNoticeStatus(req *RequestSetNoticeStatus) (*ResponseSetNoticeStatus, error)
	DeleteNotice(req *RequestDeleteNotice) (*ResponseDeleteNotice, error)
	MarkNoticeRead(req *RequestMarkNoticeRead) (*ResponseMarkNoticeRead, error)
	GetUnreadCount(req *RequestUnreadCount) (*ResponseUnreadCount, error)
}

type RequestNoticeList struct {
	JwtHeader
	PageRequest
	// IncludeDrafts 需要 NoticeEdit 权限
	IncludeDrafts bool `json:"include_drafts,omitempty"`
}

type ResponseNoticeList PageResponse[operation.Notice]

type RequestGetNotice struct {
	JwtHeader
	NoticeId uint `json:"id" validate:"required"`
}

type ResponseGetNotice operation.Notice

type RequestCreateNotice struct {
	JwtHeader
	ClientHeader
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	ImageUrl string `json:"image_url,omitempty" validate:"omitempty,url"`
	Pinned   bool   `json:"pinned"`
	Publish  bool   `json:"publish"`
}

type ResponseCreateNotice operation.Notice

type RequestUpdateNotice struct {
	JwtHeader
	ClientHeader
	NoticeId uint    `json:"id" validate:"required"`
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	ImageUrl *string `json:"image_url,omitempty"`
	Pinned   *bool   `json:"pinned,omitempty"`
}

type ResponseUpdateNotice operation.Notice

type RequestSetNoticeStatus struct {
	JwtHeader
	ClientHeader
	NoticeId uint                   `json:"id" validate:"required"`
	Status   operation.NoticeStatus `json:"status"`
}

type ResponseSetNoticeStatus operation.Notice

type RequestDeleteNotice struct {
	JwtHeader
	ClientHeader
	NoticeId uint `json:"id" validate:"required"`
}

type ResponseDeleteNotice struct {
	Deleted bool `json:"deleted"`
}

type RequestMarkNoticeRead struct {
	JwtHeader
	NoticeId uint `json:"id" validate:"required"`
}

type ResponseMarkNoticeRead struct {
	Unread int64 `json:"unread"`
}

type RequestUnreadCount struct {
	JwtHeader
}

type ResponseUnreadCount struct {
	Unread int64 `json:"unread"`
}
