// Package base
package base

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelFatal 致命错误级别, 只记录不退出, 退出由调用方通过 Cleaner 完成
const LevelFatal = slog.Level(12)

var levelNames = map[slog.Level]string{
	slog.LevelDebug: "DEBUG",
	slog.LevelInfo:  "INFO",
	slog.LevelWarn:  "WARN",
	slog.LevelError: "ERROR",
	LevelFatal:      "FATAL",
}

var levelColors = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgHiBlack),
	slog.LevelInfo:  color.New(color.FgGreen),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed),
	LevelFatal:      color.New(color.FgHiRed, color.Bold),
}

func levelName(level slog.Level) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return level.String()
}

func replaceLevel(colored bool) func([]string, slog.Attr) slog.Attr {
	return func(_ []string, attr slog.Attr) slog.Attr {
		if attr.Key != slog.LevelKey {
			return attr
		}
		level, ok := attr.Value.Any().(slog.Level)
		if !ok {
			return attr
		}
		name := levelName(level)
		if colored {
			if c, ok := levelColors[level]; ok {
				name = c.Sprint(name)
			}
		}
		return slog.String(slog.LevelKey, name)
	}
}

type Logger struct {
	console io.Writer
	logFile string
	level   *slog.LevelVar
	file    *lumberjack.Logger
	logger  *slog.Logger
	once    sync.Once
}

// NewLogger 创建日志器, 在调用 Init 之前输出到控制台
func NewLogger() *Logger {
	return newLogger(os.Stdout, global.DefaultLogFile)
}

func newLogger(console io.Writer, logFile string) *Logger {
	level := &slog.LevelVar{}
	return &Logger{
		console: console,
		logFile: logFile,
		level:   level,
		logger: slog.New(slog.NewTextHandler(console, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replaceLevel(false),
		})),
	}
}

func (logger *Logger) Init(debug bool) {
	logger.once.Do(func() {
		if debug {
			logger.level.Set(slog.LevelDebug)
		} else {
			logger.level.Set(slog.LevelInfo)
		}

		handlers := []slog.Handler{slog.NewTextHandler(logger.console, &slog.HandlerOptions{
			Level:       logger.level,
			ReplaceAttr: replaceLevel(!color.NoColor),
		})}

		if logger.logFile != "" {
			if err := os.MkdirAll(filepath.Dir(logger.logFile), global.DefaultDirectoryPermission); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "fail to create log directory: %v\n", err)
			} else {
				logger.file = &lumberjack.Logger{
					Filename:   logger.logFile,
					MaxSize:    32,
					MaxBackups: 10,
					MaxAge:     30,
					Compress:   true,
				}
				handlers = append(handlers, slog.NewJSONHandler(logger.file, &slog.HandlerOptions{
					AddSource:   debug,
					Level:       logger.level,
					ReplaceAttr: replaceLevel(false),
				}))
			}
		}

		logger.logger = slog.New(slogmulti.Fanout(handlers...))
		slog.SetDefault(logger.logger)
	})
}

func (logger *Logger) ShutdownCallback() global.Callable {
	return global.CallableFunc(func(context.Context) error {
		if logger.file == nil {
			return nil
		}
		return logger.file.Close()
	})
}

func (logger *Logger) log(level slog.Level, msg string, v ...interface{}) {
	logger.logger.Log(context.Background(), level, msg, v...)
}

func (logger *Logger) logF(level slog.Level, msg string, v ...interface{}) {
	if !logger.logger.Enabled(context.Background(), level) {
		return
	}
	logger.logger.Log(context.Background(), level, fmt.Sprintf(msg, v...))
}

func (logger *Logger) Debug(msg string, v ...interface{})  { logger.log(slog.LevelDebug, msg, v...) }
func (logger *Logger) DebugF(msg string, v ...interface{}) { logger.logF(slog.LevelDebug, msg, v...) }
func (logger *Logger) Info(msg string, v ...interface{})   { logger.log(slog.LevelInfo, msg, v...) }
func (logger *Logger) InfoF(msg string, v ...interface{})  { logger.logF(slog.LevelInfo, msg, v...) }
func (logger *Logger) Warn(msg string, v ...interface{})   { logger.log(slog.LevelWarn, msg, v...) }
func (logger *Logger) WarnF(msg string, v ...interface{})  { logger.logF(slog.LevelWarn, msg, v...) }
func (logger *Logger) Error(msg string, v ...interface{})  { logger.log(slog.LevelError, msg, v...) }
func (logger *Logger) ErrorF(msg string, v ...interface{}) { logger.logF(slog.LevelError, msg, v...) }
func (logger *Logger) Fatal(msg string, v ...interface{})  { logger.log(LevelFatal, msg, v...) }
func (logger *Logger) FatalF(msg string, v ...interface{}) { logger.logF(LevelFatal, msg, v...) }
