// Package store
package store

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

type LocalStoreService struct {
	logger log.LoggerInterface
	config *config.HttpServerStore
}

func NewLocalStoreService(logger log.LoggerInterface, config *config.HttpServerStore) *LocalStoreService {
	return &LocalStoreService{
		logger: logger,
		config: config,
	}
}

func (store *LocalStoreService) SaveImageFile(file *multipart.FileHeader) (*StoreInfo, error) {
	storeInfo, err := IMAGES.GenerateStoreInfo(store.config.FileLimit.ImageLimit, file)
	if err != nil {
		return nil, err
	}
	if !storeInfo.StoreInServer {
		return storeInfo, nil
	}
	src, err := file.Open()
	if err != nil {
		store.logger.ErrorF("LocalStoreService.SaveImageFile open file error: %v", err)
		return nil, &ErrFileSaveFail
	}
	defer func(src multipart.File) {
		_ = src.Close()
	}(src)
	dst, err := os.OpenFile(storeInfo.FilePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, global.DefaultFilePermissions)
	if err != nil {
		store.logger.ErrorF("LocalStoreService.SaveImageFile create file error: %v", err)
		return nil, &ErrFileSaveFail
	}
	defer func(dst *os.File) {
		_ = dst.Close()
	}(dst)
	if _, err = io.Copy(dst, src); err != nil {
		store.logger.ErrorF("LocalStoreService.SaveImageFile copy file error: %v", err)
		return nil, &ErrFileSaveFail
	}
	return storeInfo, nil
}

func (store *LocalStoreService) DeleteImageFile(file string) (*StoreInfo, error) {
	limit := store.config.FileLimit.ImageLimit
	storeInfo := &StoreInfo{
		FileType:      IMAGES,
		FileLimit:     limit,
		RootPath:      limit.RootPath,
		FileExt:       filepath.Ext(file),
		StoreInServer: limit.StoreInServer,
	}

	storeInfo.FileName = filepath.Join(limit.StorePrefix, filepath.Base(file))
	storeInfo.FilePath = filepath.Join(limit.RootPath, storeInfo.FileName)
	storeInfo.RemotePath = strings.ReplaceAll(storeInfo.FileName, "\\", "/")

	if !storeInfo.StoreInServer {
		return storeInfo, nil
	}

	if err := os.Remove(storeInfo.FilePath); err != nil {
		store.logger.ErrorF("LocalStoreService.DeleteImageFile remove file error: %v", err)
		return nil, err
	}
	return storeInfo, nil
}

// checkUploadPermission 上传图片需要 FileUpload 权限
func checkUploadPermission(req *RequestUploadFile) error {
	if req.Uid == 0 {
		return &ErrUnauthorized
	}
	permission := operation.Permission(req.Permission)
	if !permission.HasPermission(operation.FileUpload) {
		return &ErrNoPermission
	}
	if req.File == nil {
		return &ErrLackParam
	}
	return nil
}

func (store *LocalStoreService) SaveUploadImages(req *RequestUploadFile) (*ResponseUploadFile, error) {
	if err := checkUploadPermission(req); err != nil {
		return nil, err
	}
	storeInfo, err := store.SaveImageFile(req.File)
	if err != nil {
		return nil, err
	}
	return &ResponseUploadFile{
		FileSize:   req.File.Size,
		AccessPath: storeInfo.RemotePath,
	}, nil
}
