// Package service
package service

import (
	"strconv"

	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

type NoticeService struct {
	logger          log.LoggerInterface
	maxPageSize     int
	validators      *FieldValidators
	auditService    AuditServiceInterface
	userOperation   operation.UserOperationInterface
	noticeOperation operation.NoticeOperationInterface
}

func NewNoticeService(
	logger log.LoggerInterface,
	maxPageSize int,
	validators *FieldValidators,
	auditService AuditServiceInterface,
	userOperation operation.UserOperationInterface,
	noticeOperation operation.NoticeOperationInterface,
) *NoticeService {
	return &NoticeService{
		logger:          logger,
		maxPageSize:     maxPageSize,
		validators:      validators,
		auditService:    auditService,
		userOperation:   userOperation,
		noticeOperation: noticeOperation,
	}
}

func (noticeService *NoticeService) canSeeDrafts(permission int64) bool {
	perm := operation.Permission(permission)
	return perm.HasPermission(operation.NoticeEdit)
}

func (noticeService *NoticeService) GetNotices(req *RequestNoticeList) (*ResponseNoticeList, error) {
	statuses := []operation.NoticeStatus{operation.NoticePublished}
	if req.IncludeDrafts {
		if !noticeService.canSeeDrafts(req.Permission) {
			return nil, &ErrNoPermission
		}
		statuses = append(statuses, operation.NoticeDraft, operation.NoticeArchived)
	}
	req.Normalize(noticeService.maxPageSize)
	notices, total, err := noticeService.noticeOperation.GetNotices(req.Page, req.PageSize, statuses)
	if err != nil {
		return nil, CheckDBError(noticeService.logger, err)
	}
	return &ResponseNoticeList{
		Items:    notices,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	}, nil
}

func (noticeService *NoticeService) GetNotice(req *RequestGetNotice) (*ResponseGetNotice, error) {
	notice, err := CallDBFunc(noticeService.logger, func() (*operation.Notice, error) {
		return noticeService.noticeOperation.GetNoticeById(req.NoticeId)
	})
	if err != nil {
		return nil, err
	}
	// 未发布的公告对没有编辑权限的用户不可见
	if notice.Status != operation.NoticePublished && !noticeService.canSeeDrafts(req.Permission) {
		return nil, &ErrNoticeNotFound
	}
	return (*ResponseGetNotice)(notice), nil
}

func (noticeService *NoticeService) checkContent(title, content string) error {
	if err := noticeService.validators.Title.CheckString(title); err != nil {
		return err
	}
	return noticeService.validators.Content.CheckString(content)
}

func (noticeService *NoticeService) CreateNotice(req *RequestCreateNotice) (*ResponseCreateNotice, error) {
	if err := noticeService.checkContent(req.Title, req.Content); err != nil {
		return nil, err
	}
	user, err := CheckUserPermission(noticeService.logger, noticeService.userOperation, req.Uid, operation.NoticePublish)
	if err != nil {
		return nil, err
	}
	notice := noticeService.noticeOperation.NewNotice(user, req.Title, req.Content, req.ImageUrl, req.Pinned)
	if req.Publish {
		notice.Status = operation.NoticePublished
	}
	if err := noticeService.noticeOperation.AddNotice(notice); err != nil {
		return nil, CheckDBError(noticeService.logger, err)
	}
	noticeService.auditService.Record(operation.NoticeCreated, user.ID, noticeObject(notice), &req.ClientHeader,
		&operation.ChangeDetail{NewValue: notice.Title})
	return (*ResponseCreateNotice)(notice), nil
}

func noticeObject(notice *operation.Notice) string {
	return "notice:" + strconv.FormatUint(uint64(notice.ID), 10)
}

func (noticeService *NoticeService) UpdateNotice(req *RequestUpdateNotice) (*ResponseUpdateNotice, error) {
	user, err := CheckUserPermission(noticeService.logger, noticeService.userOperation, req.Uid, operation.NoticeEdit)
	if err != nil {
		return nil, err
	}
	notice, err := CallDBFunc(noticeService.logger, func() (*operation.Notice, error) {
		return noticeService.noticeOperation.GetNoticeById(req.NoticeId)
	})
	if err != nil {
		return nil, err
	}

	title, content := notice.Title, notice.Content
	updateInfo := make(map[string]interface{})
	if req.Title != nil && *req.Title != notice.Title {
		title = *req.Title
		updateInfo["title"] = title
	}
	if req.Content != nil && *req.Content != notice.Content {
		content = *req.Content
		updateInfo["content"] = content
	}
	if req.ImageUrl != nil && *req.ImageUrl != notice.ImageUrl {
		updateInfo["image_url"] = *req.ImageUrl
	}
	if req.Pinned != nil && *req.Pinned != notice.Pinned {
		updateInfo["pinned"] = *req.Pinned
	}
	if len(updateInfo) == 0 {
		return (*ResponseUpdateNotice)(notice), nil
	}
	if err := noticeService.checkContent(title, content); err != nil {
		return nil, err
	}

	oldTitle := notice.Title
	if err := noticeService.noticeOperation.UpdateNotice(notice, updateInfo); err != nil {
		return nil, CheckDBError(noticeService.logger, err)
	}
	notice.Title, notice.Content = title, content
	if value, ok := updateInfo["image_url"].(string); ok {
		notice.ImageUrl = value
	}
	if value, ok := updateInfo["pinned"].(bool); ok {
		notice.Pinned = value
	}

	noticeService.auditService.Record(operation.NoticeUpdated, user.ID, noticeObject(notice), &req.ClientHeader,
		&operation.ChangeDetail{OldValue: oldTitle, NewValue: notice.Title})
	return (*ResponseUpdateNotice)(notice), nil
}

func (noticeService *NoticeService) SetNoticeStatus(req *RequestSetNoticeStatus) (*ResponseSetNoticeStatus, error) {
	if !req.Status.IsValid() {
		return nil, &ErrIllegalParam
	}
	required := operation.NoticeEdit
	if req.Status == operation.NoticePublished {
		required = operation.NoticePublish
	}
	user, err := CheckUserPermission(noticeService.logger, noticeService.userOperation, req.Uid, required)
	if err != nil {
		return nil, err
	}
	notice, err := CallDBFunc(noticeService.logger, func() (*operation.Notice, error) {
		return noticeService.noticeOperation.GetNoticeById(req.NoticeId)
	})
	if err != nil {
		return nil, err
	}
	oldStatus := notice.Status
	if oldStatus == req.Status {
		return (*ResponseSetNoticeStatus)(notice), nil
	}
	if err := noticeService.noticeOperation.SetNoticeStatus(notice, req.Status); err != nil {
		return nil, CheckDBError(noticeService.logger, err)
	}
	noticeService.auditService.Record(operation.NoticeStatusChanged, user.ID, noticeObject(notice), &req.ClientHeader,
		&operation.ChangeDetail{OldValue: oldStatus.String(), NewValue: req.Status.String()})
	return (*ResponseSetNoticeStatus)(notice), nil
}

func (noticeService *NoticeService) DeleteNotice(req *RequestDeleteNotice) (*ResponseDeleteNotice, error) {
	user, err := CheckUserPermission(noticeService.logger, noticeService.userOperation, req.Uid, operation.NoticeDelete)
	if err != nil {
		return nil, err
	}
	notice, err := CallDBFunc(noticeService.logger, func() (*operation.Notice, error) {
		return noticeService.noticeOperation.GetNoticeById(req.NoticeId)
	})
	if err != nil {
		return nil, err
	}
	if err := noticeService.noticeOperation.DeleteNotice(notice); err != nil {
		return nil, CheckDBError(noticeService.logger, err)
	}
	noticeService.auditService.Record(operation.NoticeDeleted, user.ID, noticeObject(notice), &req.ClientHeader,
		&operation.ChangeDetail{OldValue: notice.Title})
	return &ResponseDeleteNotice{Deleted: true}, nil
}

func (noticeService *NoticeService) MarkNoticeRead(req *RequestMarkNoticeRead) (*ResponseMarkNoticeRead, error) {
	notice, err := CallDBFunc(noticeService.logger, func() (*operation.Notice, error) {
		return noticeService.noticeOperation.GetNoticeById(req.NoticeId)
	})
	if err != nil {
		return nil, err
	}
	if notice.Status != operation.NoticePublished {
		return nil, &ErrNoticeNotFound
	}
	if err := noticeService.noticeOperation.MarkNoticeRead(notice, req.Uid); err != nil {
		return nil, CheckDBError(noticeService.logger, err)
	}
	unread, err := noticeService.noticeOperation.CountUnreadNotices(req.Uid)
	if err != nil {
		return nil, CheckDBError(noticeService.logger, err)
	}
	return &ResponseMarkNoticeRead{Unread: unread}, nil
}

func (noticeService *NoticeService) GetUnreadCount(req *RequestUnreadCount) (*ResponseUnreadCount, error) {
	unread, err := noticeService.noticeOperation.CountUnreadNotices(req.Uid)
	if err != nil {
		return nil, CheckDBError(noticeService.logger, err)
	}
	return &ResponseUnreadCount{Unread: unread}, nil
}
