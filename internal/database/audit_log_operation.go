// Package database
package database

import (
	"context"
	"time"

	. "github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	"gorm.io/gorm"
)

type AuditLogOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewAuditLogOperation(db *gorm.DB, queryTimeout time.Duration) *AuditLogOperation {
	return &AuditLogOperation{db: db, queryTimeout: queryTimeout}
}

func (auditLogOperation *AuditLogOperation) NewAuditLog(eventType EventType, subject uint, object, ip, userAgent string, changeDetails *ChangeDetail) (auditLog *AuditLog) {
	return &AuditLog{
		EventType:     string(eventType),
		Subject:       subject,
		Object:        object,
		Ip:            ip,
		UserAgent:     userAgent,
		ChangeDetails: changeDetails,
	}
}

func (auditLogOperation *AuditLogOperation) GetAuditLogs(page, pageSize int, eventType EventType) (auditLogs []*AuditLog, total int64, err error) {
	auditLogs = make([]*AuditLog, 0, pageSize)
	ctx, cancel := context.WithTimeout(context.Background(), auditLogOperation.queryTimeout)
	defer cancel()
	query := func() *gorm.DB {
		tx := auditLogOperation.db.WithContext(ctx).Model(&AuditLog{})
		if eventType != "" {
			tx = tx.Where("event_type = ?", string(eventType))
		}
		return tx
	}
	if err = query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err = query().Order("created_at desc").Order("id desc").Offset(pageOffset(page, pageSize)).Limit(pageSize).Find(&auditLogs).Error
	return
}

func (auditLogOperation *AuditLogOperation) SaveAuditLog(auditLog *AuditLog) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), auditLogOperation.queryTimeout)
	defer cancel()
	return auditLogOperation.db.WithContext(ctx).Create(auditLog).Error
}

func (auditLogOperation *AuditLogOperation) SaveAuditLogs(auditLogs []*AuditLog) (err error) {
	if len(auditLogs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), auditLogOperation.queryTimeout)
	defer cancel()
	return auditLogOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(auditLogs).Error
	})
}
