// Package store
package store

import (
	"github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

// NewStoreService 根据配置选择存储实现, 云存储在本地存储之上上传
func NewStoreService(logger log.LoggerInterface, storeConfig *config.HttpServerStore) StoreServiceInterface {
	localStore := NewLocalStoreService(logger, storeConfig)
	switch storeConfig.StoreType {
	case config.ALiYunOssStore:
		return NewALiYunOssStoreService(logger, storeConfig, localStore)
	case config.TencentCosStore:
		return NewTencentCosStoreService(logger, storeConfig, localStore)
	default:
		return localStore
	}
}
