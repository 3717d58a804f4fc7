// Package database
package database

import (
	"context"
	"time"

	. "github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoticeOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewNoticeOperation(db *gorm.DB, queryTimeout time.Duration) *NoticeOperation {
	return &NoticeOperation{db: db, queryTimeout: queryTimeout}
}

func (noticeOperation *NoticeOperation) NewNotice(author *User, title, content, imageUrl string, pinned bool) (notice *Notice) {
	return &Notice{
		AuthorId: author.ID,
		Title:    title,
		Content:  content,
		ImageUrl: imageUrl,
		Pinned:   pinned,
		Status:   NoticeDraft,
	}
}

func (noticeOperation *NoticeOperation) AddNotice(notice *Notice) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), noticeOperation.queryTimeout)
	defer cancel()
	if notice.Status == NoticePublished && notice.PublishedAt == nil {
		now := time.Now()
		notice.PublishedAt = &now
	}
	return noticeOperation.db.WithContext(ctx).Create(notice).Error
}

func (noticeOperation *NoticeOperation) GetNoticeById(id uint) (notice *Notice, err error) {
	notice = &Notice{}
	ctx, cancel := context.WithTimeout(context.Background(), noticeOperation.queryTimeout)
	defer cancel()
	err = noticeOperation.db.WithContext(ctx).
		Preload("Author").
		First(notice, id).Error
	if err != nil {
		return nil, translateNotFound(err, ErrNoticeNotFound)
	}
	return notice, nil
}

func (noticeOperation *NoticeOperation) GetNotices(page, pageSize int, statuses []NoticeStatus) (notices []*Notice, total int64, err error) {
	notices = make([]*Notice, 0, pageSize)
	ctx, cancel := context.WithTimeout(context.Background(), noticeOperation.queryTimeout)
	defer cancel()
	query := noticeOperation.db.WithContext(ctx).Model(&Notice{}).Where("status IN ?", statuses)
	if err = query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err = noticeOperation.db.WithContext(ctx).
		Preload("Author").
		Where("status IN ?", statuses).
		Order("pinned desc").
		Order("created_at desc").
		Order("id desc").
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&notices).Error
	return
}

func (noticeOperation *NoticeOperation) GetPinnedNotices(limit int) (notices []*Notice, err error) {
	notices = make([]*Notice, 0, limit)
	ctx, cancel := context.WithTimeout(context.Background(), noticeOperation.queryTimeout)
	defer cancel()
	err = noticeOperation.db.WithContext(ctx).
		Where("status = ? AND pinned = ?", NoticePublished, true).
		Order("published_at desc").
		Order("id desc").
		Limit(limit).
		Find(&notices).Error
	return
}

func (noticeOperation *NoticeOperation) UpdateNotice(notice *Notice, info map[string]interface{}) (err error) {
	if len(info) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), noticeOperation.queryTimeout)
	defer cancel()
	return noticeOperation.db.WithContext(ctx).Model(notice).Updates(info).Error
}

func (noticeOperation *NoticeOperation) SetNoticeStatus(notice *Notice, status NoticeStatus) (err error) {
	if !status.IsValid() {
		return ErrNoticeStatus
	}
	ctx, cancel := context.WithTimeout(context.Background(), noticeOperation.queryTimeout)
	defer cancel()
	return noticeOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := &Notice{}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(current, notice.ID).Error; err != nil {
			return translateNotFound(err, ErrNoticeNotFound)
		}
		updates := map[string]interface{}{"status": status}
		if status == NoticePublished && current.PublishedAt == nil {
			now := time.Now()
			updates["published_at"] = &now
			notice.PublishedAt = &now
		}
		if err := tx.Model(current).Updates(updates).Error; err != nil {
			return err
		}
		notice.Status = status
		return nil
	})
}

func (noticeOperation *NoticeOperation) DeleteNotice(notice *Notice) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), noticeOperation.queryTimeout)
	defer cancel()
	return noticeOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(notice)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNoticeNotFound
		}
		return tx.Where("notice_id = ?", notice.ID).Delete(&NoticeRead{}).Error
	})
}

func (noticeOperation *NoticeOperation) MarkNoticeRead(notice *Notice, uid uint) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), noticeOperation.queryTimeout)
	defer cancel()
	read := &NoticeRead{NoticeId: notice.ID, UserId: uid}
	return noticeOperation.db.WithContext(ctx).
		Where(NoticeRead{NoticeId: notice.ID, UserId: uid}).
		FirstOrCreate(read).Error
}

func (noticeOperation *NoticeOperation) CountUnreadNotices(uid uint) (count int64, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), noticeOperation.queryTimeout)
	defer cancel()
	readNotices := noticeOperation.db.Model(&NoticeRead{}).Select("notice_id").Where("user_id = ?", uid)
	err = noticeOperation.db.WithContext(ctx).
		Model(&Notice{}).
		Where("status = ?", NoticePublished).
		Where("id NOT IN (?)", readNotices).
		Count(&count).Error
	return
}
