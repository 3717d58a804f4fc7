// Package operation
package operation

import "errors"

var (
	// ErrNoticeNotFound 公告不存在
	ErrNoticeNotFound = errors.New("notice does not exist")
	// ErrNoticeStatus 非法的公告状态
	ErrNoticeStatus = errors.New("invalid notice status")
)

type NoticeStatus int

const (
	NoticeDraft     NoticeStatus = iota // 草稿
	NoticePublished                     // 已发布
	NoticeArchived                      // 已归档
)

func (status NoticeStatus) IsValid() bool {
	return status >= NoticeDraft && status <= NoticeArchived
}

func (status NoticeStatus) String() string {
	switch status {
	case NoticeDraft:
		return "draft"
	case NoticePublished:
		return "published"
	case NoticeArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// NoticeOperationInterface 公告操作接口定义
type NoticeOperationInterface interface {
	// NewNotice 创建新公告(不写入数据库), 新公告为草稿状态
	NewNotice(author *User, title, content, imageUrl string, pinned bool) (notice *Notice)
	// AddNotice 写入新公告, 当err为nil时写入成功
	AddNotice(notice *Notice) (err error)
	// GetNoticeById 通过ID获取公告, 当err为nil时返回值notice有效
	GetNoticeById(id uint) (notice *Notice, err error)
	// GetNotices 获取指定状态的分页公告, 置顶优先, 其次按创建时间倒序
	GetNotices(page, pageSize int, statuses []NoticeStatus) (notices []*Notice, total int64, err error)
	// GetPinnedNotices 获取已发布的置顶公告
	GetPinnedNotices(limit int) (notices []*Notice, err error)
	// UpdateNotice 批量更新公告字段, 当err为nil时更新成功
	UpdateNotice(notice *Notice, info map[string]interface{}) (err error)
	// SetNoticeStatus 设置公告状态, 第一次发布时记录发布时间
	SetNoticeStatus(notice *Notice, status NoticeStatus) (err error)
	// DeleteNotice 删除公告以及已读记录, 当err为nil时删除成功
	DeleteNotice(notice *Notice) (err error)
	// MarkNoticeRead 标记公告已读, 重复标记不报错
	MarkNoticeRead(notice *Notice, uid uint) (err error)
	// CountUnreadNotices 统计用户未读的已发布公告数目
	CountUnreadNotices(uid uint) (count int64, err error)
}
