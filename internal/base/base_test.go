package base

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesConsoleAndFile(t *testing.T) {
	console := &bytes.Buffer{}
	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	logger := newLogger(console, logFile)
	logger.Init(false)

	logger.Debug("hidden")
	logger.InfoF("hello %s", "world")
	logger.Warn("structured", "key", "value")
	logger.Fatal("fatal but alive")
	require.NoError(t, logger.ShutdownCallback().Invoke(context.Background()))

	output := console.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "hello world")
	assert.Contains(t, output, "key=value")
	assert.Contains(t, output, "FATAL")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	record := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "value", record["key"])
}

func TestLoggerDebugLevel(t *testing.T) {
	console := &bytes.Buffer{}
	logger := newLogger(console, "")
	logger.Init(true)
	logger.DebugF("value %d", 42)
	assert.Contains(t, console.String(), "value 42")
}

type recordCallable struct {
	name  string
	order *[]string
	err   error
}

func (r *recordCallable) Invoke(context.Context) error {
	*r.order = append(*r.order, r.name)
	return r.err
}

func TestCleanerRunsInReverseOnce(t *testing.T) {
	order := make([]string, 0)
	cleaner := NewCleaner(log.NewDiscardLogger())
	cleaner.Add(&recordCallable{name: "database", order: &order})
	cleaner.Add(&recordCallable{name: "http", order: &order, err: errors.New("boom")})
	cleaner.Add(global.CallableFunc(func(context.Context) error {
		order = append(order, "redis")
		return nil
	}))

	cleaner.Clean()
	assert.Equal(t, []string{"redis", "http", "database"}, order)

	cleaner.Add(&recordCallable{name: "late", order: &order})
	cleaner.Clean()
	assert.Equal(t, []string{"redis", "http", "database"}, order)
}

func TestManagerCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	manager := NewManagerWithPath(log.NewDiscardLogger(), path)

	_, err := manager.Load()
	assert.ErrorIs(t, err, ErrConfigCreated)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestManagerLoadsConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	defaults := config.DefaultConfigAt(dir)
	defaults.Server.General.SiteName = "Loaded Board"
	require.NoError(t, saveConfig(path, defaults))

	manager := NewManagerWithPath(log.NewDiscardLogger(), path)
	loaded, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, "Loaded Board", loaded.Server.General.SiteName)
	assert.Same(t, loaded, manager.Config())

	loaded.Server.General.SiteName = "Saved Board"
	require.NoError(t, manager.SaveConfig())
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Saved Board")
}

func TestManagerRejectsInvalidJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), global.DefaultFilePermissions))

	_, err := NewManagerWithPath(log.NewDiscardLogger(), path).Load()
	assert.Error(t, err)
}
