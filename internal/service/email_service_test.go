package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCodeStore(t *testing.T) {
	ctx := context.Background()
	codeStore := NewMemoryCodeStore()
	now := time.Now()
	codeStore.now = func() time.Time { return now }

	_, err := codeStore.Get(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrEmailCodeNotFound)

	require.NoError(t, codeStore.Put(ctx, "Alice@Example.com", &VerifyCode{Code: 123456, SendTime: now}, time.Minute))
	code, err := codeStore.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 123456, code.Code)

	now = now.Add(2 * time.Minute)
	_, err = codeStore.Get(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrEmailCodeNotFound)

	require.NoError(t, codeStore.Put(ctx, "bob@example.com", &VerifyCode{Code: 654321, SendTime: now}, time.Minute))
	require.NoError(t, codeStore.Delete(ctx, "bob@example.com"))
	_, err = codeStore.Get(ctx, "bob@example.com")
	assert.ErrorIs(t, err, ErrEmailCodeNotFound)
}

func TestEmailServiceDisabled(t *testing.T) {
	env := newTestEnv(t, false)
	assert.NoError(t, env.email.SendEmailCode("alice@example.com"))
	assert.NoError(t, env.email.VerifyCode("alice@example.com", 1))
	assert.Empty(t, env.mails.Messages())
}

func TestEmailServiceVerifyCode(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	res, err := env.email.SendEmailVerifyCode(&RequestEmailVerifyCode{Email: "Alice@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Alice@Example.com", res.Email)
	require.Len(t, env.mails.Messages(), 1)
	assert.Equal(t, []string{"alice@example.com"}, env.mails.Messages()[0].GetHeader("To"))

	_, err = env.email.SendEmailVerifyCode(&RequestEmailVerifyCode{Email: "alice@example.com"})
	requireStatus(t, err, "EMAIL_SEND_INTERVAL")
	assert.Len(t, env.mails.Messages(), 1)

	code, err := env.codes.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, code.Code, 100000)
	assert.Less(t, code.Code, 1000000)

	assert.ErrorIs(t, env.email.VerifyCode("alice@example.com", code.Code+1), ErrInvalidEmailCode)
	assert.NoError(t, env.email.VerifyCode("ALICE@example.com", code.Code))
	assert.ErrorIs(t, env.email.VerifyCode("alice@example.com", code.Code), ErrEmailCodeNotFound)

	require.NoError(t, env.codes.Put(ctx, "bob@example.com", &VerifyCode{Code: 111111, SendTime: time.Now().Add(-time.Hour)}, time.Hour*2))
	assert.ErrorIs(t, env.email.VerifyCode("bob@example.com", 111111), ErrEmailCodeExpired)
}

func TestEmailServiceRevokesCodeAfterWrongAttempts(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	require.NoError(t, env.codes.Put(ctx, "carol@example.com", &VerifyCode{Code: 222222, SendTime: time.Now()}, time.Hour))
	assert.ErrorIs(t, env.email.VerifyCode("carol@example.com", 111111), ErrInvalidEmailCode)
	assert.ErrorIs(t, env.email.VerifyCode("carol@example.com", 111112), ErrInvalidEmailCode)
	assert.NoError(t, env.email.VerifyCode("carol@example.com", 222222))

	require.NoError(t, env.codes.Put(ctx, "dave@example.com", &VerifyCode{Code: 333333, SendTime: time.Now()}, time.Hour))
	for attempt := 1; attempt < maxVerifyAttempts; attempt++ {
		assert.ErrorIs(t, env.email.VerifyCode("dave@example.com", 111111), ErrInvalidEmailCode)
		code, err := env.codes.Get(ctx, "dave@example.com")
		require.NoError(t, err)
		assert.Equal(t, attempt, code.Attempts)
	}
	assert.ErrorIs(t, env.email.VerifyCode("dave@example.com", 111111), ErrInvalidEmailCode)
	// 作废后正确的验证码也不再可用
	assert.ErrorIs(t, env.email.VerifyCode("dave@example.com", 333333), ErrEmailCodeNotFound)
}

func TestNewVerifyCode(t *testing.T) {
	for range 100 {
		code := newVerifyCode()
		assert.GreaterOrEqual(t, code, 100000)
		assert.Less(t, code, 1000000)
	}
}

func TestEmailServiceSendFailure(t *testing.T) {
	env := newTestEnv(t, true)
	env.mails.Err = errors.New("smtp unavailable")
	_, err := env.email.SendEmailVerifyCode(&RequestEmailVerifyCode{Email: "carol@example.com"})
	assert.ErrorIs(t, err, &ErrEmailSendFail)
}

func TestEmailServiceNotifications(t *testing.T) {
	env := newTestEnv(t, true)
	owner := &operation.User{ID: 1, Username: "owner", Email: "Owner@example.com"}
	participant := &operation.User{ID: 2, Username: "guest", Email: "guest@example.com", Permission: int64(operation.UserShowList)}
	schedule := &operation.Schedule{Title: "Weekly sync", StartAt: time.Now()}

	require.NoError(t, env.email.SendScheduleJoinedEmail(owner, participant, schedule, 3))
	require.NoError(t, env.email.SendPermissionChangeEmail(participant, owner))

	messages := env.mails.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, []string{"owner@example.com"}, messages[0].GetHeader("To"))
	assert.Equal(t, []string{"guest@example.com"}, messages[1].GetHeader("To"))

	env.config.Server.HttpServer.Email.Template.EnableScheduleJoinedEmail = false
	require.NoError(t, env.email.SendScheduleJoinedEmail(owner, participant, schedule, 4))
	assert.Len(t, env.mails.Messages(), 2)
}

func TestRegisterWithEmailCode(t *testing.T) {
	env := newTestEnv(t, true)
	admin := env.setup(t)

	_, err := env.user.UserRegister(&RequestUserRegister{
		Username: "bob01", Email: "bob@example.com", Password: "password", EmailCode: 123456,
	})
	assert.ErrorIs(t, err, &ErrEmailNotFound)

	require.NoError(t, env.email.SendEmailCode("bob@example.com"))
	code, err := env.codes.Get(context.Background(), "bob@example.com")
	require.NoError(t, err)

	_, err = env.user.UserRegister(&RequestUserRegister{
		Username: "bob01", Email: "bob@example.com", Password: "password", EmailCode: code.Code + 1,
	})
	assert.ErrorIs(t, err, &ErrEmailCodeInvalid)

	res, err := env.user.UserRegister(&RequestUserRegister{
		Username: "bob01", Email: "bob@example.com", Password: "password", EmailCode: code.Code,
	})
	require.NoError(t, err)

	_, err = env.user.EditUserPermission(&RequestUserEditPermission{
		JwtHeader:   jwtOf(admin),
		TargetUid:   res.User.ID,
		Permissions: map[string]bool{"UserShowList": true},
	})
	require.NoError(t, err)
	messages := env.mails.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, []string{"管理权限变更通知"}, messages[1].GetHeader("Subject"))
}
