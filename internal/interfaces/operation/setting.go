// Package operation
package operation

import "errors"

var (
	// ErrSettingNotFound 配置项不存在
	ErrSettingNotFound = errors.New("setting does not exist")
	// ErrAlreadyInitialized 系统已经初始化
	ErrAlreadyInitialized = errors.New("system already initialized")
)

const (
	SettingInitialized     = "initialized"
	SettingSiteName        = "site_name"
	SettingSiteDescription = "site_description"
	SettingContactEmail    = "contact_email"
)

// SettingOperationInterface 站点配置操作接口定义
type SettingOperationInterface interface {
	// GetSetting 获取单个配置项, 当err为nil时返回值value有效
	GetSetting(key string) (value string, err error)
	// GetSettings 获取全部配置项
	GetSettings() (settings map[string]string, err error)
	// SetSetting 写入或者覆盖单个配置项
	SetSetting(key, value string) (err error)
	// IsInitialized 系统是否已完成初始化
	IsInitialized() (initialized bool, err error)
	// Initialize 在同一个事务中创建管理员并写入站点配置, 重复初始化返回 ErrAlreadyInitialized
	Initialize(admin *User, settings map[string]string) (err error)
}
