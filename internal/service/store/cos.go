// Package store
package store

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/tencentyun/cos-go-sdk-v5"
)

type TencentCosStoreService struct {
	logger     log.LoggerInterface
	localStore StoreServiceInterface
	config     *config.HttpServerStore
	endpoint   *url.URL
	client     *cos.Client
}

func NewTencentCosStoreService(
	logger log.LoggerInterface,
	config *config.HttpServerStore,
	localStore StoreServiceInterface,
) *TencentCosStoreService {
	service := &TencentCosStoreService{logger: logger, localStore: localStore, config: config}
	region := strings.ToLower(config.Region)
	bucketUrl, _ := url.Parse(fmt.Sprintf("https://%s.cos.%s.myqcloud.com", config.Bucket, region))
	serviceUrl, _ := url.Parse(fmt.Sprintf("https://cos.%s.myqcloud.com", region))
	service.client = cos.NewClient(&cos.BaseURL{BucketURL: bucketUrl, ServiceURL: serviceUrl}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  config.AccessId,
			SecretKey: config.AccessKey,
		},
	})
	if config.CdnDomain != "" {
		service.endpoint, _ = url.Parse(config.CdnDomain)
	} else {
		service.endpoint = service.client.BaseURL.BucketURL
	}
	return service
}

func (store *TencentCosStoreService) remotePath(storeInfo *StoreInfo) string {
	return strings.ReplaceAll(filepath.Join(store.config.RemoteStorePath, storeInfo.FileName), "\\", "/")
}

func (store *TencentCosStoreService) SaveImageFile(file *multipart.FileHeader) (*StoreInfo, error) {
	storeInfo, err := store.localStore.SaveImageFile(file)
	if err != nil {
		return nil, err
	}

	storeInfo.RemotePath = store.remotePath(storeInfo)

	reader, err := file.Open()
	if err != nil {
		store.logger.ErrorF("TencentCosStoreService.SaveImageFile open form file errors: %v", err)
		return nil, &ErrFileUploadFail
	}
	defer func(reader multipart.File) {
		_ = reader.Close()
	}(reader)

	if _, err = store.client.Object.Put(context.Background(), storeInfo.RemotePath, reader, nil); err != nil {
		store.logger.ErrorF("TencentCosStoreService.SaveImageFile upload image to remote storage error: %v", err)
		return nil, &ErrFileUploadFail
	}
	return storeInfo, nil
}

func (store *TencentCosStoreService) DeleteImageFile(file string) (*StoreInfo, error) {
	storeInfo, err := store.localStore.DeleteImageFile(file)
	if err != nil {
		return nil, err
	}
	storeInfo.RemotePath = store.remotePath(storeInfo)

	if _, err = store.client.Object.Delete(context.Background(), storeInfo.RemotePath); err != nil {
		store.logger.ErrorF("TencentCosStoreService.DeleteImageFile delete image from remote storage errors: %v", err)
		return nil, err
	}
	return storeInfo, nil
}

func (store *TencentCosStoreService) SaveUploadImages(req *RequestUploadFile) (*ResponseUploadFile, error) {
	if err := checkUploadPermission(req); err != nil {
		return nil, err
	}
	storeInfo, err := store.SaveImageFile(req.File)
	if err != nil {
		return nil, err
	}
	accessUrl, err := url.JoinPath(store.endpoint.String(), storeInfo.RemotePath)
	if err != nil {
		return nil, &ErrFilePathFail
	}
	return &ResponseUploadFile{
		FileSize:   req.File.Size,
		AccessPath: accessUrl,
	}, nil
}
