// Package service
package service

import (
	"errors"
	"slices"
	"strings"
	"time"

	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/samber/lo"
)

type UserService struct {
	logger        log.LoggerInterface
	config        *c.HttpServerConfig
	validators    *FieldValidators
	emailService  EmailServiceInterface
	auditService  AuditServiceInterface
	storeService  StoreServiceInterface
	userOperation operation.UserOperationInterface
}

func NewUserService(
	logger log.LoggerInterface,
	config *c.HttpServerConfig,
	validators *FieldValidators,
	emailService EmailServiceInterface,
	auditService AuditServiceInterface,
	storeService StoreServiceInterface,
	userOperation operation.UserOperationInterface,
) *UserService {
	return &UserService{
		logger:        logger,
		config:        config,
		validators:    validators,
		emailService:  emailService,
		auditService:  auditService,
		storeService:  storeService,
		userOperation: userOperation,
	}
}

var (
	ErrEmailNotFound      = ApiStatus{StatusName: "EMAIL_CODE_NOT_FOUND", Description: "未向该邮箱发送验证码", HttpCode: BadRequest}
	ErrEmailExpired       = ApiStatus{StatusName: "EMAIL_CODE_EXPIRED", Description: "验证码已过期", HttpCode: BadRequest}
	ErrEmailCodeInvalid   = ApiStatus{StatusName: "EMAIL_CODE_INVALID", Description: "邮箱验证码错误", HttpCode: BadRequest}
	ErrUsernameOrPassword = ApiStatus{StatusName: "WRONG_USERNAME_OR_PASSWORD", Description: "用户名或密码错误", HttpCode: BadRequest}
)

func (userService *UserService) verifyEmailCode(email string, emailCode int) error {
	err := userService.emailService.VerifyCode(email, emailCode)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrEmailCodeNotFound):
		return &ErrEmailNotFound
	case errors.Is(err, ErrEmailCodeExpired):
		return &ErrEmailExpired
	case errors.Is(err, ErrInvalidEmailCode):
		return &ErrEmailCodeInvalid
	default:
		userService.logger.ErrorF("Fail to verify email code of %s: %v", email, err)
		return &ErrServerInternal
	}
}

func (userService *UserService) issueTokens(user *operation.User) *ResponseUserRegister {
	token := NewClaims(userService.config.JWT, user, false)
	flushToken := NewClaims(userService.config.JWT, user, true)
	return &ResponseUserRegister{
		User:       user,
		Token:      token.GenerateKey(),
		FlushToken: flushToken.GenerateKey(),
	}
}

func (userService *UserService) UserRegister(req *RequestUserRegister) (*ResponseUserRegister, error) {
	if err := userService.validators.Username.CheckString(req.Username); err != nil {
		return nil, err
	}
	if err := userService.validators.Email.CheckString(req.Email); err != nil {
		return nil, err
	}
	if err := userService.validators.Password.CheckString(req.Password); err != nil {
		return nil, err
	}
	if err := userService.verifyEmailCode(req.Email, req.EmailCode); err != nil {
		return nil, err
	}
	user, err := userService.userOperation.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		userService.logger.ErrorF("Fail to create user %s: %v", req.Username, err)
		return nil, &ErrRegisterFail
	}
	if err := userService.userOperation.AddUser(user); err != nil {
		return nil, CheckDBError(userService.logger, err)
	}
	userService.auditService.Record(operation.UserRegistered, user.ID, user.Username, &req.ClientHeader, nil)
	return userService.issueTokens(user), nil
}

func (userService *UserService) UserLogin(req *RequestUserLogin) (*ResponseUserLogin, error) {
	userId := operation.GetUserId(req.Username)
	user, err := userId.GetUser(userService.userOperation)
	if errors.Is(err, operation.ErrUserNotFound) {
		return nil, &ErrUsernameOrPassword
	}
	if err != nil {
		return nil, CheckDBError(userService.logger, err)
	}
	if !userService.userOperation.VerifyUserPassword(user, req.Password) {
		return nil, &ErrUsernameOrPassword
	}
	return (*ResponseUserLogin)(userService.issueTokens(user)), nil
}

func (userService *UserService) CheckAvailability(req *RequestUserAvailability) (*ResponseUserAvailability, error) {
	if req.Username == "" && req.Email == "" {
		return nil, &ErrLackParam
	}
	taken, err := userService.userOperation.IsUserIdentifierTaken(nil, 0, req.Username, req.Email)
	if err != nil {
		return nil, CheckDBError(userService.logger, err)
	}
	return &ResponseUserAvailability{Available: !taken}, nil
}

func (userService *UserService) RefreshToken(req *RequestRefreshToken) (*ResponseRefreshToken, error) {
	if !req.FlushToken {
		return nil, &ErrIllegalParam
	}

	user, err := CallDBFunc(userService.logger, func() (*operation.User, error) {
		return userService.userOperation.GetUserByUid(req.Uid)
	})
	if err != nil {
		return nil, err
	}

	// 刷新令牌剩余有效期足够长时不重新签发
	var flushToken string
	if req.ExpiresAt.Add(-2 * userService.config.JWT.ExpiresDuration).Before(time.Now()) {
		flushToken = NewClaims(userService.config.JWT, user, true).GenerateKey()
	}

	token := NewClaims(userService.config.JWT, user, false)
	return &ResponseRefreshToken{
		User:       user,
		Token:      token.GenerateKey(),
		FlushToken: flushToken,
	}, nil
}

func (userService *UserService) GetCurrentProfile(req *RequestUserCurrentProfile) (*ResponseUserCurrentProfile, error) {
	user, err := CallDBFunc(userService.logger, func() (*operation.User, error) {
		return userService.userOperation.GetUserByUid(req.Uid)
	})
	if err != nil {
		return nil, err
	}
	return (*ResponseUserCurrentProfile)(user), nil
}

var (
	ErrOriginPasswordRequired = ApiStatus{StatusName: "ORIGIN_PASSWORD_REQUIRED", Description: "请输入原始密码", HttpCode: BadRequest}
	ErrNewPasswordRequired    = ApiStatus{StatusName: "NEW_PASSWORD_REQUIRED", Description: "请输入新密码", HttpCode: BadRequest}
)

func (userService *UserService) checkProfileRequest(req *RequestUserEditCurrentProfile) error {
	if req.Username == "" && req.Email == "" && req.DisplayName == "" && req.AvatarUrl == "" &&
		req.OriginPassword == "" && req.NewPassword == "" {
		return &ErrLackParam
	}
	if req.OriginPassword != "" && req.NewPassword != "" {
		if err := userService.validators.Password.CheckString(req.NewPassword); err != nil {
			return err
		}
	} else if req.OriginPassword != "" {
		return &ErrNewPasswordRequired
	} else if req.NewPassword != "" {
		return &ErrOriginPasswordRequired
	}
	if req.Username != "" {
		if err := userService.validators.Username.CheckString(req.Username); err != nil {
			return err
		}
	}
	if req.DisplayName != "" {
		if err := userService.validators.Title.CheckString(req.DisplayName); err != nil {
			return err
		}
	}
	if req.Email != "" {
		if err := userService.validators.Email.CheckString(req.Email); err != nil {
			return err
		}
	}
	return nil
}

func (userService *UserService) EditCurrentProfile(req *RequestUserEditCurrentProfile) (*ResponseUserEditCurrentProfile, error) {
	if err := userService.checkProfileRequest(req); err != nil {
		return nil, err
	}

	user, err := CallDBFunc(userService.logger, func() (*operation.User, error) {
		return userService.userOperation.GetUserByUid(req.Uid)
	})
	if err != nil {
		return nil, err
	}

	if req.Email != "" && !strings.EqualFold(req.Email, user.Email) {
		if err := userService.verifyEmailCode(req.Email, req.EmailCode); err != nil {
			return nil, err
		}
	}

	updateInfo := make(map[string]interface{})
	if req.Username != "" && req.Username != user.Username {
		updateInfo["username"] = req.Username
	}
	if req.Email != "" && req.Email != user.Email {
		updateInfo["email"] = req.Email
	}
	if req.DisplayName != "" && req.DisplayName != user.DisplayName {
		updateInfo["display_name"] = req.DisplayName
	}
	if req.AvatarUrl != "" && req.AvatarUrl != user.AvatarUrl {
		userService.removeOldAvatar(user)
		updateInfo["avatar_url"] = req.AvatarUrl
	}
	if req.OriginPassword != "" {
		password, err := userService.userOperation.UpdateUserPassword(user, req.OriginPassword, req.NewPassword)
		if err != nil {
			return nil, CheckDBError(userService.logger, err)
		}
		updateInfo["password"] = string(password)
	}

	if len(updateInfo) == 0 {
		return (*ResponseUserEditCurrentProfile)(user), nil
	}

	if err := userService.userOperation.UpdateUserInfo(user, updateInfo); err != nil {
		return nil, CheckDBError(userService.logger, err)
	}
	applyProfileChange(user, updateInfo)

	changed := lo.Without(lo.Keys(updateInfo), "password")
	slices.Sort(changed)
	userService.auditService.Record(operation.UserInformationEdit, user.ID, user.Username, &req.ClientHeader,
		&operation.ChangeDetail{NewValue: strings.Join(changed, ",")})

	return (*ResponseUserEditCurrentProfile)(user), nil
}

func applyProfileChange(user *operation.User, info map[string]interface{}) {
	for key, value := range info {
		value := value.(string)
		switch key {
		case "username":
			user.Username = value
		case "email":
			user.Email = value
		case "display_name":
			user.DisplayName = value
		case "avatar_url":
			user.AvatarUrl = value
		case "password":
			user.Password = value
		}
	}
}

// removeOldAvatar 只删除保存在本服务上的旧头像
func (userService *UserService) removeOldAvatar(user *operation.User) {
	if user.AvatarUrl == "" || userService.storeService == nil {
		return
	}
	if userService.config.ServerAddress == "" || !strings.HasPrefix(user.AvatarUrl, userService.config.ServerAddress) {
		return
	}
	if _, err := userService.storeService.DeleteImageFile(user.AvatarUrl); err != nil {
		userService.logger.ErrorF("err while delete user old avatar, %v", err)
	}
}

func (userService *UserService) GetUserProfile(req *RequestUserProfile) (*ResponseUserProfile, error) {
	permission := operation.Permission(req.Permission)
	if req.TargetUid != req.Uid && !permission.HasPermission(operation.UserGetProfile) {
		return nil, &ErrNoPermission
	}
	user, err := CallDBFunc(userService.logger, func() (*operation.User, error) {
		return userService.userOperation.GetUserByUid(req.TargetUid)
	})
	if err != nil {
		return nil, err
	}
	return (*ResponseUserProfile)(user), nil
}

func (userService *UserService) GetUserList(req *RequestUserList) (*ResponseUserList, error) {
	permission := operation.Permission(req.Permission)
	if !permission.HasPermission(operation.UserShowList) {
		return nil, &ErrNoPermission
	}
	req.Normalize(userService.config.Limits.MaxPageSize)
	users, total, err := userService.userOperation.GetUsers(req.Page, req.PageSize)
	if err != nil {
		return nil, CheckDBError(userService.logger, err)
	}
	return &ResponseUserList{
		Items:    users,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	}, nil
}

var ErrPermissionNodeNotExists = ApiStatus{StatusName: "PERMISSION_NODE_NOT_EXISTS", Description: "无效权限节点", HttpCode: BadRequest}

func (userService *UserService) EditUserPermission(req *RequestUserEditPermission) (*ResponseUserEditPermission, error) {
	user, targetUser, err := GetUsersAndCheckPermission(userService.logger, userService.userOperation, req.Uid, req.TargetUid, operation.UserEditPermission)
	if err != nil {
		return nil, err
	}
	permission := operation.Permission(user.Permission)
	originPermission := operation.Permission(targetUser.Permission)
	targetPermission := originPermission
	for key, value := range req.Permissions {
		per, ok := operation.PermissionMap[key]
		if !ok {
			return nil, &ErrPermissionNodeNotExists
		}
		// 只能授予或者撤销自己拥有的权限
		if !permission.HasPermission(per) {
			return nil, &ErrNoPermission
		}
		if value {
			targetPermission.Grant(per)
		} else {
			targetPermission.Revoke(per)
		}
	}

	if targetPermission != originPermission {
		if err := userService.userOperation.UpdateUserPermission(targetUser, targetPermission); err != nil {
			return nil, CheckDBError(userService.logger, err)
		}
		userService.recordPermissionChange(req, targetUser, originPermission, targetPermission)
		if err := userService.emailService.SendPermissionChangeEmail(targetUser, user); err != nil {
			userService.logger.ErrorF("SendPermissionChangeEmail Failed: %v", err)
		}
	}

	return &ResponseUserEditPermission{
		Permission: int64(targetPermission),
		Names:      targetPermission.Names(),
	}, nil
}

func (userService *UserService) recordPermissionChange(req *RequestUserEditPermission, target *operation.User, origin, current operation.Permission) {
	detail := &operation.ChangeDetail{OldValue: origin.String(), NewValue: current.String()}
	granted := current &^ origin
	revoked := origin &^ current
	if granted != 0 {
		userService.auditService.Record(operation.UserPermissionGrant, req.Uid, target.Username, &req.ClientHeader, detail)
	}
	if revoked != 0 {
		userService.auditService.Record(operation.UserPermissionRevoke, req.Uid, target.Username, &req.ClientHeader, detail)
	}
}
