// Package log
package log

import (
	"context"

	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
)

// DiscardLogger 丢弃全部输出, 用于只读命令和测试
type DiscardLogger struct{}

func NewDiscardLogger() *DiscardLogger { return &DiscardLogger{} }

func (*DiscardLogger) Init(bool) {}

func (*DiscardLogger) ShutdownCallback() global.Callable {
	return global.CallableFunc(func(context.Context) error { return nil })
}

func (*DiscardLogger) Debug(string, ...interface{})  {}
func (*DiscardLogger) DebugF(string, ...interface{}) {}
func (*DiscardLogger) Info(string, ...interface{})   {}
func (*DiscardLogger) InfoF(string, ...interface{})  {}
func (*DiscardLogger) Warn(string, ...interface{})   {}
func (*DiscardLogger) WarnF(string, ...interface{})  {}
func (*DiscardLogger) Error(string, ...interface{})  {}
func (*DiscardLogger) ErrorF(string, ...interface{}) {}
func (*DiscardLogger) Fatal(string, ...interface{})  {}
func (*DiscardLogger) FatalF(string, ...interface{}) {}
