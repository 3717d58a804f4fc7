// Package database
package database

import (
	"context"
	"errors"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/config"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserOperation struct {
	config       *config.GeneralConfig
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewUserOperation(db *gorm.DB, queryTimeout time.Duration, config *config.GeneralConfig) *UserOperation {
	return &UserOperation{config: config, db: db, queryTimeout: queryTimeout}
}

func (userOperation *UserOperation) getUser(query string, args ...interface{}) (user *User, err error) {
	user = &User{}
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	err = userOperation.db.WithContext(ctx).
		Where(query, args...).
		First(user).Error
	if err != nil {
		return nil, translateNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (userOperation *UserOperation) GetUserByUid(uid uint) (user *User, err error) {
	return userOperation.getUser("id = ?", uid)
}

func (userOperation *UserOperation) GetUserByUsername(username string) (user *User, err error) {
	return userOperation.getUser("username = ?", username)
}

func (userOperation *UserOperation) GetUserByEmail(email string) (user *User, err error) {
	return userOperation.getUser("email = ?", email)
}

func (userOperation *UserOperation) GetUserByUsernameOrEmail(ident string) (user *User, err error) {
	return userOperation.getUser("username = ? OR email = ?", ident, ident)
}

func (userOperation *UserOperation) GetUsers(page, pageSize int) (users []*User, total int64, err error) {
	users = make([]*User, 0, pageSize)
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	if err = userOperation.db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err = userOperation.db.WithContext(ctx).
		Order("id").
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&users).Error
	return
}

func (userOperation *UserOperation) NewUser(username string, email string, password string) (user *User, err error) {
	encodePassword, err := bcrypt.GenerateFromPassword([]byte(password), userOperation.config.BcryptCost)
	if err != nil {
		return nil, errors.Join(ErrPasswordEncode, err)
	}
	user = &User{
		Username:    username,
		Email:       email,
		Password:    string(encodePassword),
		DisplayName: username,
		Permission:  0,
	}
	return
}

func (userOperation *UserOperation) AddUser(user *User) error {
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	return userOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return userOperation.addUser(tx, user)
	})
}

// addUser 在给定事务中检查一致性约束并写入用户
func (userOperation *UserOperation) addUser(tx *gorm.DB, user *User) error {
	taken, err := userOperation.IsUserIdentifierTaken(tx, 0, user.Username, user.Email)
	if err != nil {
		return errors.Join(ErrIdentifierCheck, err)
	}
	if taken {
		return ErrIdentifierTaken
	}
	if err := tx.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrIdentifierTaken
		}
		return err
	}
	return nil
}

func (userOperation *UserOperation) UpdateUserPermission(user *User, permission Permission) error {
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	err := userOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked := &User{}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(locked, user.ID).Error; err != nil {
			return translateNotFound(err, ErrUserNotFound)
		}
		return tx.Model(user).Update("permission", int64(permission)).Error
	})
	if err == nil {
		user.Permission = int64(permission)
	}
	return err
}

func (userOperation *UserOperation) UpdateUserInfo(user *User, info map[string]interface{}) error {
	if len(info) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	return userOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		username, _ := info["username"].(string)
		email, _ := info["email"].(string)
		if username != "" || email != "" {
			taken, err := userOperation.IsUserIdentifierTaken(tx, user.ID, username, email)
			if err != nil {
				return errors.Join(ErrIdentifierCheck, err)
			}
			if taken {
				return ErrIdentifierTaken
			}
		}
		if err := tx.Model(user).Updates(info).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrIdentifierTaken
			}
			return err
		}
		return nil
	})
}

func (userOperation *UserOperation) UpdateUserPassword(user *User, originalPassword, newPassword string) ([]byte, error) {
	if !userOperation.VerifyUserPassword(user, originalPassword) {
		return nil, ErrOldPassword
	}
	encodePassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), userOperation.config.BcryptCost)
	if err != nil {
		return nil, errors.Join(ErrPasswordEncode, err)
	}
	user.Password = string(encodePassword)
	return encodePassword, nil
}

func (userOperation *UserOperation) VerifyUserPassword(user *User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

func (userOperation *UserOperation) IsUserIdentifierTaken(tx *gorm.DB, exceptUid uint, username, email string) (bool, error) {
	if username == "" && email == "" {
		return false, nil
	}
	if tx == nil {
		ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
		defer cancel()
		tx = userOperation.db.WithContext(ctx)
	}

	query := tx.Model(&User{})
	switch {
	case username != "" && email != "":
		query = query.Where("username = ? OR email = ?", username, email)
	case username != "":
		query = query.Where("username = ?", username)
	default:
		query = query.Where("email = ?", email)
	}
	if exceptUid != 0 {
		query = query.Where("id <> ?", exceptUid)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (userOperation *UserOperation) GetTotalUsers() (total int64, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	err = userOperation.db.WithContext(ctx).Model(&User{}).Count(&total).Error
	return
}
