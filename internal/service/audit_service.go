// Package service
package service

import (
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

type AuditLogService struct {
	logger         log.LoggerInterface
	maxPageSize    int
	auditOperation operation.AuditLogOperationInterface
}

func NewAuditService(
	logger log.LoggerInterface,
	maxPageSize int,
	auditOperation operation.AuditLogOperationInterface,
) *AuditLogService {
	return &AuditLogService{
		logger:         logger,
		maxPageSize:    maxPageSize,
		auditOperation: auditOperation,
	}
}

func (auditLogService *AuditLogService) GetAuditLogPage(req *RequestGetAuditLog) (*ResponseGetAuditLog, error) {
	permission := operation.Permission(req.Permission)
	if !permission.HasPermission(operation.AuditLogShow) {
		return nil, &ErrNoPermission
	}
	req.Normalize(auditLogService.maxPageSize)
	auditLogs, total, err := auditLogService.auditOperation.GetAuditLogs(req.Page, req.PageSize, operation.EventType(req.EventType))
	if err != nil {
		return nil, CheckDBError(auditLogService.logger, err)
	}
	return &ResponseGetAuditLog{
		Items:    auditLogs,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	}, nil
}

func (auditLogService *AuditLogService) Record(
	eventType operation.EventType,
	subject uint,
	object string,
	client *ClientHeader,
	detail *operation.ChangeDetail,
) {
	if client == nil {
		client = &ClientHeader{}
	}
	auditLog := auditLogService.auditOperation.NewAuditLog(eventType, subject, object, client.Ip, client.UserAgent, detail)
	if err := auditLogService.auditOperation.SaveAuditLog(auditLog); err != nil {
		auditLogService.logger.ErrorF("Fail to save audit log %s(%d -> %s): %v", eventType, subject, object, err)
	}
}
