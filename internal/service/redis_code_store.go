// Package service
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/redis/go-redis/v9"
)

// RedisCodeStore 把验证码保存在 Redis 中, 依靠键过期清理
type RedisCodeStore struct {
	client    redis.UniversalClient
	keyPrefix string
	timeout   time.Duration
}

func NewRedisCodeStore(client redis.UniversalClient, keyPrefix string, timeout time.Duration) *RedisCodeStore {
	return &RedisCodeStore{client: client, keyPrefix: keyPrefix, timeout: timeout}
}

// NewRedisClient 按配置创建客户端并检查连通性
func NewRedisClient(ctx context.Context, config *c.RedisConfig) (*redis.Client, global.Callable, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  config.DialDuration,
		ReadTimeout:  config.OperateDuration,
		WriteTimeout: config.OperateDuration,
	})
	pingCtx, cancel := context.WithTimeout(ctx, config.DialDuration)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return client, global.CallableFunc(func(context.Context) error { return client.Close() }), nil
}

func (store *RedisCodeStore) key(email string) string {
	return store.keyPrefix + "email_code:" + strings.ToLower(email)
}

func (store *RedisCodeStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if store.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, store.timeout)
}

func (store *RedisCodeStore) Put(ctx context.Context, email string, code *VerifyCode, ttl time.Duration) error {
	data, err := json.Marshal(code)
	if err != nil {
		return err
	}
	ctx, cancel := store.withTimeout(ctx)
	defer cancel()
	return store.client.Set(ctx, store.key(email), data, ttl).Err()
}

func (store *RedisCodeStore) Get(ctx context.Context, email string) (*VerifyCode, error) {
	ctx, cancel := store.withTimeout(ctx)
	defer cancel()
	data, err := store.client.Get(ctx, store.key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmailCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	code := &VerifyCode{}
	if err := json.Unmarshal(data, code); err != nil {
		return nil, err
	}
	return code, nil
}

func (store *RedisCodeStore) Delete(ctx context.Context, email string) error {
	ctx, cancel := store.withTimeout(ctx)
	defer cancel()
	return store.client.Del(ctx, store.key(email)).Err()
}
