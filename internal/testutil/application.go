// Package testutil 测试用的应用上下文, 使用内存 SQLite 和临时目录
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/half-nothing/simple-schedule/internal/database"
	"github.com/half-nothing/simple-schedule/internal/interfaces"
	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"
)

type configManager struct {
	config *c.Config
}

func (manager *configManager) Config() *c.Config { return manager.config }

func (manager *configManager) SaveConfig() error { return nil }

// cleaner 把关闭回调交给 testing.T 在测试结束时执行
type cleaner struct {
	t testing.TB
}

func (cl *cleaner) Init() {}

func (cl *cleaner) Add(callable global.Callable) {
	cl.t.Cleanup(func() { _ = callable.Invoke(context.Background()) })
}

func (cl *cleaner) Clean() {}

// Config 返回已经通过校验的默认配置, modify 在校验之前执行
func Config(t testing.TB, modify func(config *c.Config)) *c.Config {
	t.Helper()
	config := c.DefaultConfigAt(t.TempDir())
	config.Server.General.BcryptCost = bcrypt.MinCost
	if modify != nil {
		modify(config)
	}
	result := config.CheckValid(log.NewDiscardLogger())
	require.False(t, result.IsFail(), "%v", result.Error())
	return config
}

// NewApplication 创建连接到独立内存数据库的应用上下文
func NewApplication(t testing.TB, modify func(config *c.Config)) *interfaces.ApplicationContent {
	t.Helper()
	config := Config(t, modify)
	logger := log.NewDiscardLogger()
	closer, operations, err := database.ConnectDatabase(logger, config.Database, config.Server.General, false)
	require.NoError(t, err)
	cl := &cleaner{t: t}
	cl.Add(closer)
	return interfaces.NewApplicationContent(&configManager{config: config}, cl, logger, operations)
}

// MailRecorder 记录发送的邮件而不连接 SMTP 服务器
type MailRecorder struct {
	mu       sync.Mutex
	messages []*gomail.Message
	Err      error
}

func (recorder *MailRecorder) DialAndSend(m ...*gomail.Message) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if recorder.Err != nil {
		return recorder.Err
	}
	recorder.messages = append(recorder.messages, m...)
	return nil
}

func (recorder *MailRecorder) Messages() []*gomail.Message {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]*gomail.Message(nil), recorder.messages...)
}
