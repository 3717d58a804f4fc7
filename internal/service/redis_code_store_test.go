package service

import (
	"context"
	"os"
	"testing"
	"time"

	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要设置 SIMPLE_SCHEDULE_REDIS 为可用的 Redis 地址
func TestRedisCodeStore(t *testing.T) {
	address := os.Getenv("SIMPLE_SCHEDULE_REDIS")
	if address == "" {
		t.Skip("SIMPLE_SCHEDULE_REDIS not set")
	}
	ctx := context.Background()
	client, shutdown, err := NewRedisClient(ctx, &c.RedisConfig{
		Address:         address,
		DialDuration:    time.Second,
		OperateDuration: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown.Invoke(ctx) })

	codeStore := NewRedisCodeStore(client, "simple-schedule-test:", time.Second)
	_ = codeStore.Delete(ctx, "alice@example.com")

	_, err = codeStore.Get(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrEmailCodeNotFound)

	sendTime := time.Now().Truncate(time.Second)
	require.NoError(t, codeStore.Put(ctx, "Alice@example.com", &VerifyCode{Code: 123456, SendTime: sendTime}, time.Minute))
	code, err := codeStore.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 123456, code.Code)
	assert.True(t, sendTime.Equal(code.SendTime))

	require.NoError(t, codeStore.Delete(ctx, "alice@example.com"))
	_, err = codeStore.Get(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrEmailCodeNotFound)
}
