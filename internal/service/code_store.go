// Package service
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

type memoryCode struct {
	code     *VerifyCode
	expireAt time.Time
}

// MemoryCodeStore 进程内验证码存储, 多实例部署时应使用 RedisCodeStore
type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]memoryCode
	now   func() time.Time
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{codes: make(map[string]memoryCode), now: time.Now}
}

func (store *MemoryCodeStore) Put(_ context.Context, email string, code *VerifyCode, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	now := store.now()
	for key, value := range store.codes {
		if now.After(value.expireAt) {
			delete(store.codes, key)
		}
	}
	store.codes[strings.ToLower(email)] = memoryCode{code: code, expireAt: now.Add(ttl)}
	return nil
}

func (store *MemoryCodeStore) Get(_ context.Context, email string) (*VerifyCode, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	value, ok := store.codes[strings.ToLower(email)]
	if !ok || store.now().After(value.expireAt) {
		return nil, ErrEmailCodeNotFound
	}
	return value.code, nil
}

func (store *MemoryCodeStore) Delete(_ context.Context, email string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.codes, strings.ToLower(email))
	return nil
}
