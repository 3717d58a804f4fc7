// Package store
package store

import (
	"context"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

type ALiYunOssStoreService struct {
	logger     log.LoggerInterface
	localStore StoreServiceInterface
	config     *config.HttpServerStore
	endpoint   *url.URL
	client     *oss.Client
}

func NewALiYunOssStoreService(
	logger log.LoggerInterface,
	config *config.HttpServerStore,
	localStore StoreServiceInterface,
) *ALiYunOssStoreService {
	service := &ALiYunOssStoreService{logger: logger, localStore: localStore, config: config}
	cfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.AccessId, config.AccessKey)).
		WithRegion(config.Region).
		WithUseInternalEndpoint(config.UseInternalUrl)
	service.client = oss.NewClient(cfg)
	if config.CdnDomain != "" {
		service.endpoint, _ = url.Parse(config.CdnDomain)
	} else if cfg.Endpoint != nil {
		service.endpoint, _ = url.Parse(strings.Replace(*cfg.Endpoint, "-internal", "", 1))
	}
	return service
}

func (store *ALiYunOssStoreService) remotePath(storeInfo *StoreInfo) string {
	return strings.ReplaceAll(filepath.Join(store.config.RemoteStorePath, storeInfo.FileName), "\\", "/")
}

func (store *ALiYunOssStoreService) SaveImageFile(file *multipart.FileHeader) (*StoreInfo, error) {
	storeInfo, err := store.localStore.SaveImageFile(file)
	if err != nil {
		return nil, err
	}

	storeInfo.RemotePath = store.remotePath(storeInfo)

	reader, err := file.Open()
	if err != nil {
		store.logger.ErrorF("ALiYunOssStoreService.SaveImageFile open form file error: %v", err)
		return nil, &ErrFileUploadFail
	}
	defer func(reader multipart.File) {
		_ = reader.Close()
	}(reader)

	putRequest := &oss.PutObjectRequest{
		Bucket:       oss.Ptr(store.config.Bucket),
		Key:          oss.Ptr(storeInfo.RemotePath),
		StorageClass: oss.StorageClassStandard,
		Body:         reader,
	}

	if _, err = store.client.PutObject(context.TODO(), putRequest); err != nil {
		store.logger.ErrorF("ALiYunOssStoreService.SaveImageFile upload image to remote storage error: %v", err)
		return nil, &ErrFileUploadFail
	}
	return storeInfo, nil
}

func (store *ALiYunOssStoreService) DeleteImageFile(file string) (*StoreInfo, error) {
	storeInfo, err := store.localStore.DeleteImageFile(file)
	if err != nil {
		return nil, err
	}
	storeInfo.RemotePath = store.remotePath(storeInfo)
	delRequest := &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(store.config.Bucket),
		Key:    oss.Ptr(storeInfo.RemotePath),
	}
	if _, err = store.client.DeleteObject(context.TODO(), delRequest); err != nil {
		store.logger.ErrorF("ALiYunOssStoreService.DeleteImageFile delete image from remote storage error: %v", err)
		return nil, err
	}
	return storeInfo, nil
}

func (store *ALiYunOssStoreService) SaveUploadImages(req *RequestUploadFile) (*ResponseUploadFile, error) {
	if err := checkUploadPermission(req); err != nil {
		return nil, err
	}
	storeInfo, err := store.SaveImageFile(req.File)
	if err != nil {
		return nil, err
	}
	if store.endpoint == nil {
		return nil, &ErrFilePathFail
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
