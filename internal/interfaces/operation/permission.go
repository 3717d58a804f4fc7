// Package operation
package operation

import (
	"slices"
	"strings"
)

type Permission int64

// 权限节点上限是64, 超过64需要使用切片
const (
	AdminEntry Permission = 1 << iota
	UserShowList
	UserGetProfile
	UserEditBaseInfo
	UserEditPermission
	NoticePublish
	NoticeEdit
	NoticeDelete
	ScheduleManage
	AuditLogShow
	FileUpload
)

// AllPermissions 初始化管理员时授予的全部权限
const AllPermissions = FileUpload<<1 - 1

var PermissionMap = map[string]Permission{
	"AdminEntry":         AdminEntry,
	"UserShowList":       UserShowList,
	"UserGetProfile":     UserGetProfile,
	"UserEditBaseInfo":   UserEditBaseInfo,
	"UserEditPermission": UserEditPermission,
	"NoticePublish":      NoticePublish,
	"NoticeEdit":         NoticeEdit,
	"NoticeDelete":       NoticeDelete,
	"ScheduleManage":     ScheduleManage,
	"AuditLogShow":       AuditLogShow,
	"FileUpload":         FileUpload,
}

func (p *Permission) IsValid() bool {
	return *p >= 0 && *p <= AllPermissions
}

func (p *Permission) HasPermission(perm Permission) bool {
	return *p&perm == perm
}

func (p *Permission) Grant(perm Permission) {
	*p |= perm
}

func (p *Permission) Revoke(perm Permission) {
	*p &^= perm
}

// Names 返回已授予的权限节点名称, 按名称排序
func (p *Permission) Names() []string {
	names := make([]string, 0, len(PermissionMap))
	for name, perm := range PermissionMap {
		if p.HasPermission(perm) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (p *Permission) String() string {
	return strings.Join(p.Names(), ",")
}
