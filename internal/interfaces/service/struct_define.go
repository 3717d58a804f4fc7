// Package service
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
)

type HttpCode int

const (
	Unsatisfied         HttpCode = 0
	Ok                  HttpCode = 200
	BadRequest          HttpCode = 400
	Unauthorized        HttpCode = 401
	PermissionDenied    HttpCode = 403
	NotFound            HttpCode = 404
	MethodNotAllowed    HttpCode = 405
	Conflict            HttpCode = 409
	TooManyRequests     HttpCode = 429
	ServerInternalError HttpCode = 500
)

func (hc HttpCode) Code() int {
	return int(hc)
}

// ApiStatus 业务状态, 同时作为过程返回的错误值
type ApiStatus struct {
	StatusName  string
	Description string
	HttpCode    HttpCode
}

func (status *ApiStatus) Error() string {
	return status.StatusName + ": " + status.Description
}

type ApiResponse[T any] struct {
	HttpCode int    `json:"-"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Data     *T     `json:"data"`
}

func NewApiResponse[T any](codeStatus *ApiStatus, httpCode HttpCode, data *T) *ApiResponse[T] {
	if httpCode == Unsatisfied {
		httpCode = codeStatus.HttpCode
	}
	if httpCode == Unsatisfied {
		httpCode = Ok
	}
	return &ApiResponse[T]{
		HttpCode: httpCode.Code(),
		Code:     codeStatus.StatusName,
		Message:  codeStatus.Description,
		Data:     data,
	}
}

type Claims struct {
	Uid        uint   `json:"uid"`
	Username   string `json:"username"`
	Permission int64  `json:"permission"`
	FlushToken bool   `json:"flushToken"`
	config     *c.JWTConfig
	jwt.RegisteredClaims
}

// JwtHeader 由处理函数从令牌中填充, 不接受客户端输入
type JwtHeader struct {
	Uid        uint  `json:"-"`
	Permission int64 `json:"-"`
}

func (header *JwtHeader) SetJwtHeader(value JwtHeader) { *header = value }

// ClientHeader 请求来源信息, 用于审计日志
type ClientHeader struct {
	Ip        string `json:"-"`
	UserAgent string `json:"-"`
}

func (header *ClientHeader) SetClientHeader(value ClientHeader) { *header = value }

func NewClaims(config *c.JWTConfig, user *operation.User, flushToken bool) *Claims {
	expiredDuration := config.ExpiresDuration
	if flushToken {
		expiredDuration += config.RefreshDuration
	}
	now := time.Now()
	return &Claims{
		Uid:        user.ID,
		Username:   user.Username,
		Permission: user.Permission,
		FlushToken: flushToken,
		config:     config,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.Issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiredDuration)),
		},
	}
}

func (claim *Claims) GenerateKey() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claim)
	tokenString, _ := token.SignedString([]byte(claim.config.Secret))
	return tokenString
}

// ParseClaims 使用配置中的秘钥校验并解析令牌
func ParseClaims(config *c.JWTConfig, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(config.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(config.Issuer))
	if err != nil {
		return nil, err
	}
	claims.config = config
	return claims, nil
}

var (
	ErrIllegalParam          = ApiStatus{"PARAM_ERROR", "参数不正确", BadRequest}
	ErrLackParam             = ApiStatus{"PARAM_LACK_ERROR", "缺少参数", BadRequest}
	ErrNoPermission          = ApiStatus{"NO_PERMISSION", "无权这么做", PermissionDenied}
	ErrUnauthorized          = ApiStatus{"UNAUTHORIZED", "请先登录", Unauthorized}
	ErrDatabaseFail          = ApiStatus{"DATABASE_ERROR", "服务器内部错误", ServerInternalError}
	ErrUserNotFound          = ApiStatus{"USER_NOT_FOUND", "指定用户不存在", NotFound}
	ErrNoticeNotFound        = ApiStatus{"NOTICE_NOT_FOUND", "公告不存在", NotFound}
	ErrScheduleNotFound      = ApiStatus{"SCHEDULE_NOT_FOUND", "日程不存在", NotFound}
	ErrScheduleConflict      = ApiStatus{"SCHEDULE_CONFLICT", "与已有日程时间冲突", Conflict}
	ErrScheduleFull          = ApiStatus{"SCHEDULE_FULL", "日程人数已满", Conflict}
	ErrScheduleJoined        = ApiStatus{"SCHEDULE_JOINED", "已经报名该日程", Conflict}
	ErrScheduleNotJoined     = ApiStatus{"SCHEDULE_NOT_JOINED", "没有报名该日程", BadRequest}
	ErrScheduleOwnerJoin     = ApiStatus{"SCHEDULE_OWNER_JOIN", "不能报名自己创建的日程", BadRequest}
	ErrScheduleCapacity      = ApiStatus{"SCHEDULE_CAPACITY", "人数上限不能小于已报名人数", BadRequest}
	ErrScheduleTimeRange     = ApiStatus{"SCHEDULE_TIME_RANGE", "结束时间必须晚于开始时间", BadRequest}
	ErrAlreadyInitialized    = ApiStatus{"ALREADY_INITIALIZED", "系统已经初始化", Conflict}
	ErrRegisterFail          = ApiStatus{"REGISTER_FAIL", "注册失败", ServerInternalError}
	ErrIdentifierTaken       = ApiStatus{"USER_EXISTS", "用户已存在", Conflict}
	ErrOriginPassword        = ApiStatus{"ORIGIN_PASSWORD_ERROR", "原始密码不正确", BadRequest}
	ErrMissingOrMalformedJwt = ApiStatus{"MISSING_OR_MALFORMED_JWT", "缺少JWT令牌或者令牌格式错误", BadRequest}
	ErrInvalidOrExpiredJwt   = ApiStatus{"INVALID_OR_EXPIRED_JWT", "无效或过期的JWT令牌", Unauthorized}
	ErrRateLimited           = ApiStatus{"RATE_LIMITED", "请求过于频繁", TooManyRequests}
	ErrProcedureNotFound     = ApiStatus{"PROCEDURE_NOT_FOUND", "调用的过程不存在", NotFound}
	ErrInputInvalid          = ApiStatus{"INPUT_INVALID", "输入参数校验失败", BadRequest}
	ErrMethodNotSupported    = ApiStatus{"METHOD_NOT_SUPPORTED", "请求方法与过程类型不匹配", MethodNotAllowed}
	ErrServerInternal        = ApiStatus{"SERVER_ERROR", "服务器内部错误", ServerInternalError}
	SuccessCall              = ApiStatus{"SUCCESS", "调用成功", Ok}
)

// dbErrors 数据库哨兵错误到业务状态的映射
var dbErrors = []struct {
	err    error
	status *ApiStatus
}{
	{operation.ErrIdentifierCheck, &ErrRegisterFail},
	{operation.ErrIdentifierTaken, &ErrIdentifierTaken},
	{operation.ErrUserNotFound, &ErrUserNotFound},
	{operation.ErrOldPassword, &ErrOriginPassword},
	{operation.ErrNoticeNotFound, &ErrNoticeNotFound},
	{operation.ErrScheduleNotFound, &ErrScheduleNotFound},
	{operation.ErrScheduleConflict, &ErrScheduleConflict},
	{operation.ErrScheduleFull, &ErrScheduleFull},
	{operation.ErrScheduleJoined, &ErrScheduleJoined},
	{operation.ErrScheduleNotJoined, &ErrScheduleNotJoined},
	{operation.ErrScheduleOwnerJoin, &ErrScheduleOwnerJoin},
	{operation.ErrScheduleCapacity, &ErrScheduleCapacity},
	{operation.ErrScheduleTimeRange, &ErrScheduleTimeRange},
	{operation.ErrNoticeStatus, &ErrIllegalParam},
	{operation.ErrAlreadyInitialized, &ErrAlreadyInitialized},
}

// CheckDBError 把数据库错误转换为业务状态, 未知错误记录日志后返回 ErrDatabaseFail
func CheckDBError(logger log.LoggerInterface, err error) error {
	if err == nil {
		return nil
	}
	for _, mapping := range dbErrors {
		if errors.Is(err, mapping.err) {
			return mapping.status
		}
	}
	logger.ErrorF("Error in DB function: %v", err)
	return &ErrDatabaseFail
}

// CallDBFunc 调用数据库操作函数并处理错误
func CallDBFunc[R any](logger log.LoggerInterface, fc func() (*R, error)) (*R, error) {
	result, err := fc()
	if err != nil {
		return nil, CheckDBError(logger, err)
	}
	return result, nil
}

// GetUsersAndCheckPermission 从数据库获取用户数据并检查权限
func GetUsersAndCheckPermission(logger log.LoggerInterface, userOperation operation.UserOperationInterface, uid, targetUid uint, perm operation.Permission) (*operation.User, *operation.User, error) {
	// 敏感操作获取实时数据
	user, err := CheckUserPermission(logger, userOperation, uid, perm)
	if err != nil {
		return nil, nil, err
	}
	targetUser, err := CallDBFunc(logger, func() (*operation.User, error) { return userOperation.GetUserByUid(targetUid) })
	if err != nil {
		return nil, nil, err
	}
	return user, targetUser, nil
}

// CheckUserPermission 获取用户实时数据并检查是否拥有指定权限
func CheckUserPermission(logger log.LoggerInterface, userOperation operation.UserOperationInterface, uid uint, perm operation.Permission) (*operation.User, error) {
	user, err := CallDBFunc(logger, func() (*operation.User, error) { return userOperation.GetUserByUid(uid) })
	if err != nil {
		return nil, err
	}
	permission := operation.Permission(user.Permission)
	if !permission.HasPermission(perm) {
		return nil, &ErrNoPermission
	}
	return user, nil
}

// PageRequest 分页参数
type PageRequest struct {
	Page     int `json:"page_number" validate:"gte=0"`
	PageSize int `json:"page_size" validate:"gte=0"`
}

// Normalize 页码从1开始, 页大小超出上限时截断
func (req *PageRequest) Normalize(maxPageSize int) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}
}

type PageResponse[T any] struct {
	Items    []*T  `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}
