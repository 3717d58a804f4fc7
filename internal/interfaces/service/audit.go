// Package service
package service

import "github.com/half-nothing/simple-schedule/internal/interfaces/operation"

type AuditServiceInterface interface {
	GetAuditLogPage(req *RequestGetAuditLog) (*ResponseGetAuditLog, error)
	// Record 写入一条审计日志, 写入失败只记录日志, 不影响业务结果
	Record(eventType operation.EventType, subject uint, object string, client *ClientHeader, detail *operation.ChangeDetail)
}

type RequestGetAuditLog struct {
	JwtHeader
	PageRequest
	EventType string `json:"event_type,omitempty"`
}

type ResponseGetAuditLog PageResponse[operation.AuditLog]
