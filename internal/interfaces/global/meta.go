// Package global
package global

// 命令行参数, 由 cmd 中的 cobra 命令绑定
var (
	DebugMode             = false
	ConfigFilePath        = "./config.json"
	SkipEmailVerification = false
)

const (
	AppName       = "simple-schedule"
	AppVersion    = "1.0.0"
	ConfigVersion = "1.0.0"

	DefaultFilePermissions     = 0644
	DefaultDirectoryPermission = 0755

	DefaultLogFile = "logs/simple-schedule.log"

	EmailVerifyTemplateFile      = "template/email_verify.template"
	PermissionChangeTemplateFile = "template/permission_change.template"
	ScheduleJoinedTemplateFile   = "template/schedule_joined.template"
)
