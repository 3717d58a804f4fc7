// Package operation
package operation

type DatabaseOperations struct {
	userOperation     UserOperationInterface
	noticeOperation   NoticeOperationInterface
	scheduleOperation ScheduleOperationInterface
	settingOperation  SettingOperationInterface
	auditLogOperation AuditLogOperationInterface
}

func NewDatabaseOperations(
	userOperation UserOperationInterface,
	noticeOperation NoticeOperationInterface,
	scheduleOperation ScheduleOperationInterface,
	settingOperation SettingOperationInterface,
	auditLogOperation AuditLogOperationInterface,
) *DatabaseOperations {
	return &DatabaseOperations{
		userOperation:     userOperation,
		noticeOperation:   noticeOperation,
		scheduleOperation: scheduleOperation,
		settingOperation:  settingOperation,
		auditLogOperation: auditLogOperation,
	}
}

func (db *DatabaseOperations) UserOperation() UserOperationInterface { return db.userOperation }

func (db *DatabaseOperations) NoticeOperation() NoticeOperationInterface { return db.noticeOperation }

func (db *DatabaseOperations) ScheduleOperation() ScheduleOperationInterface {
	return db.scheduleOperation
}

func (db *DatabaseOperations) SettingOperation() SettingOperationInterface {
	return db.settingOperation
}

func (db *DatabaseOperations) AuditLogOperation() AuditLogOperationInterface {
	return db.auditLogOperation
}
