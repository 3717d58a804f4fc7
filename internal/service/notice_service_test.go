package service

import (
	"errors"
	"testing"

	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoticeLifecycle(t *testing.T) {
	env := newTestEnv(t, false)
	admin := env.setup(t)
	bobby := env.register(t, "bobby")

	_, err := env.notice.CreateNotice(&RequestCreateNotice{JwtHeader: jwtOf(bobby), Title: "Hello", Content: "content"})
	assert.ErrorIs(t, err, &ErrNoPermission)
	_, err = env.notice.CreateNotice(&RequestCreateNotice{JwtHeader: jwtOf(admin), Title: "H", Content: "content"})
	requireStatus(t, err, "TITLE_TOO_SHORT")

	draft, err := env.notice.CreateNotice(&RequestCreateNotice{JwtHeader: jwtOf(admin), Title: "Draft notice", Content: "wip"})
	require.NoError(t, err)
	assert.Equal(t, operation.NoticeDraft, draft.Status)
	assert.Nil(t, draft.PublishedAt)

	published, err := env.notice.CreateNotice(&RequestCreateNotice{
		JwtHeader: jwtOf(admin), Title: "Published notice", Content: "ready", Publish: true,
	})
	require.NoError(t, err)
	assert.Equal(t, operation.NoticePublished, published.Status)
	assert.NotNil(t, published.PublishedAt)

	list, err := env.notice.GetNotices(&RequestNoticeList{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, env.config.Server.HttpServer.Limits.MaxPageSize, list.PageSize)

	_, err = env.notice.GetNotices(&RequestNoticeList{JwtHeader: jwtOf(bobby), IncludeDrafts: true})
	assert.ErrorIs(t, err, &ErrNoPermission)
	list, err = env.notice.GetNotices(&RequestNoticeList{JwtHeader: jwtOf(admin), IncludeDrafts: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)

	_, err = env.notice.GetNotice(&RequestGetNotice{JwtHeader: jwtOf(bobby), NoticeId: draft.ID})
	assert.ErrorIs(t, err, &ErrNoticeNotFound)
	got, err := env.notice.GetNotice(&RequestGetNotice{JwtHeader: jwtOf(admin), NoticeId: draft.ID})
	require.NoError(t, err)
	assert.Equal(t, "Draft notice", got.Title)

	unread, err := env.notice.GetUnreadCount(&RequestUnreadCount{JwtHeader: jwtOf(bobby)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread.Unread)
	_, err = env.notice.MarkNoticeRead(&RequestMarkNoticeRead{JwtHeader: jwtOf(bobby), NoticeId: draft.ID})
	assert.ErrorIs(t, err, &ErrNoticeNotFound)
	read, err := env.notice.MarkNoticeRead(&RequestMarkNoticeRead{JwtHeader: jwtOf(bobby), NoticeId: published.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 0, read.Unread)

	title := "Updated title"
	pinned := true
	updated, err := env.notice.UpdateNotice(&RequestUpdateNotice{
		JwtHeader: jwtOf(admin), NoticeId: draft.ID, Title: &title, Pinned: &pinned,
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated title", updated.Title)
	assert.True(t, updated.Pinned)
	_, err = env.notice.UpdateNotice(&RequestUpdateNotice{JwtHeader: jwtOf(bobby), NoticeId: draft.ID, Title: &title})
	assert.ErrorIs(t, err, &ErrNoPermission)

	_, err = env.notice.SetNoticeStatus(&RequestSetNoticeStatus{JwtHeader: jwtOf(admin), NoticeId: draft.ID, Status: 9})
	assert.ErrorIs(t, err, &ErrIllegalParam)
	status, err := env.notice.SetNoticeStatus(&RequestSetNoticeStatus{
		JwtHeader: jwtOf(admin), NoticeId: draft.ID, Status: operation.NoticePublished,
	})
	require.NoError(t, err)
	assert.Equal(t, operation.NoticePublished, status.Status)
	assert.NotNil(t, status.PublishedAt)

	unread, err = env.notice.GetUnreadCount(&RequestUnreadCount{JwtHeader: jwtOf(bobby)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread.Unread)

	_, err = env.notice.DeleteNotice(&RequestDeleteNotice{JwtHeader: jwtOf(bobby), NoticeId: draft.ID})
	assert.ErrorIs(t, err, &ErrNoPermission)
	deleted, err := env.notice.DeleteNotice(&RequestDeleteNotice{JwtHeader: jwtOf(admin), NoticeId: draft.ID})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	_, err = env.notice.GetNotice(&RequestGetNotice{JwtHeader: jwtOf(admin), NoticeId: draft.ID})
	assert.ErrorIs(t, err, &ErrNoticeNotFound)

	for _, eventType := range []operation.EventType{operation.NoticeCreated, operation.NoticeUpdated, operation.NoticeStatusChanged, operation.NoticeDeleted} {
		logs, err := env.audit.GetAuditLogPage(&RequestGetAuditLog{JwtHeader: jwtOf(admin), EventType: string(eventType)})
		require.NoError(t, err)
		assert.NotZero(t, logs.Total, eventType)
	}
}

// statusFailingNotices 修改状态总是失败, 用来确认发布公告只有一次写入
type statusFailingNotices struct {
	operation.NoticeOperationInterface
}

func (statusFailingNotices) SetNoticeStatus(*operation.Notice, operation.NoticeStatus) error {
	return errors.New("status write failed")
}

func TestCreatePublishedNoticeSingleWrite(t *testing.T) {
	env := newTestEnv(t, false)
	admin := env.setup(t)
	operations := env.app.Operations()
	notices := NewNoticeService(env.app.Logger(), env.config.Server.HttpServer.Limits.MaxPageSize,
		NewFieldValidators(env.config.Server.HttpServer.Limits), env.audit,
		operations.UserOperation(), statusFailingNotices{operations.NoticeOperation()})

	published, err := notices.CreateNotice(&RequestCreateNotice{
		JwtHeader: jwtOf(admin), Title: "Published notice", Content: "ready", Publish: true,
	})
	require.NoError(t, err)

	stored, err := operations.NoticeOperation().GetNoticeById(published.ID)
	require.NoError(t, err)
	assert.Equal(t, operation.NoticePublished, stored.Status)
	assert.NotNil(t, stored.PublishedAt)

	logs, err := env.audit.GetAuditLogPage(&RequestGetAuditLog{JwtHeader: jwtOf(admin), EventType: string(operation.NoticeCreated)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, logs.Total)
}
