// Package base
package base

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	. "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/half-nothing/simple-schedule/internal/utils"
)

// ErrConfigCreated 配置文件不存在, 已写入默认配置
var ErrConfigCreated = errors.New("the configuration file does not exist and has been created. Please try again after editing the configuration file")

func readConfig(logger log.LoggerInterface, path string) (*Config, *ValidResult) {
	config := DefaultConfig()

	// 读取配置文件
	if bytes, err := os.ReadFile(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, ValidFailWith(errors.New("fail to read configuration file"), err)
		}
		// 如果配置文件不存在，创建默认配置
		if err := saveConfig(path, config); err != nil {
			return nil, ValidFailWith(errors.New("fail to save configuration file while creating configuration file"), err)
		}
		return nil, ValidFail(ErrConfigCreated)
	} else if err := json.Unmarshal(bytes, config); err != nil {
		// 解析JSON配置
		return nil, ValidFailWith(errors.New("the configuration file does not contain valid JSON"), err)
	} else if result := config.CheckValid(logger); result.IsFail() {
		return nil, result
	}
	return config, ValidPass()
}

func saveConfig(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "\t")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, global.DefaultDirectoryPermission); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, global.DefaultFilePermissions)
}

type Manager struct {
	path   string
	config *utils.CachedValue[Config]
	logger log.LoggerInterface
	result *ValidResult
}

func NewManager(logger log.LoggerInterface) *Manager {
	return NewManagerWithPath(logger, global.ConfigFilePath)
}

func NewManagerWithPath(logger log.LoggerInterface, path string) *Manager {
	manager := &Manager{
		path:   path,
		logger: logger,
	}
	manager.config = utils.NewCachedValue(0, manager.getConfig)
	return manager
}

func (manager *Manager) getConfig() *Config {
	config, result := readConfig(manager.logger, manager.path)
	manager.result = result
	if result.IsFail() {
		return nil
	}
	return config
}

// Load 读取并校验配置, 失败时返回校验结果中的错误
func (manager *Manager) Load() (*Config, error) {
	config := manager.config.GetValue()
	if config == nil {
		result := manager.result
		manager.config.Reset()
		return nil, errors.Join(result.Error(), result.OriginErr())
	}
	return config, nil
}

// Config 返回已经加载的配置, 需要先成功调用 Load
func (manager *Manager) Config() *Config {
	return manager.config.GetValue()
}

func (manager *Manager) SaveConfig() error {
	config := manager.Config()
	if config == nil {
		return errors.New("configuration not loaded")
	}
	return saveConfig(manager.path, config)
}
