// Package operation
package operation

type EventType string

const (
	UserRegistered       EventType = "UserRegistered"
	UserInformationEdit  EventType = "UserInformationEdit"
	UserPermissionGrant  EventType = "UserPermissionGrant"
	UserPermissionRevoke EventType = "UserPermissionRevoke"
	SystemInitialized    EventType = "SystemInitialized"
	NoticeCreated        EventType = "NoticeCreated"
	NoticeUpdated        EventType = "NoticeUpdated"
	NoticeStatusChanged  EventType = "NoticeStatusChanged"
	NoticeDeleted        EventType = "NoticeDeleted"
	ScheduleCreated      EventType = "ScheduleCreated"
	ScheduleUpdated      EventType = "ScheduleUpdated"
	ScheduleDeleted      EventType = "ScheduleDeleted"
	FileUploaded         EventType = "FileUploaded"
)

type AuditLogOperationInterface interface {
	NewAuditLog(eventType EventType, subject uint, object, ip, userAgent string, changeDetails *ChangeDetail) (auditLog *AuditLog)
	SaveAuditLog(auditLog *AuditLog) (err error)
	SaveAuditLogs(auditLogs []*AuditLog) (err error)
	GetAuditLogs(page, pageSize int, eventType EventType) (auditLogs []*AuditLog, total int64, err error)
}
