// Package database
package database

import (
	"context"
	"errors"
	"time"

	. "github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewSettingOperation(db *gorm.DB, queryTimeout time.Duration) *SettingOperation {
	return &SettingOperation{db: db, queryTimeout: queryTimeout}
}

func (settingOperation *SettingOperation) GetSetting(key string) (value string, err error) {
	setting := &Setting{}
	ctx, cancel := context.WithTimeout(context.Background(), settingOperation.queryTimeout)
	defer cancel()
	if err = settingOperation.db.WithContext(ctx).Where(&Setting{Key: key}).First(setting).Error; err != nil {
		return "", translateNotFound(err, ErrSettingNotFound)
	}
	return setting.Value, nil
}

func (settingOperation *SettingOperation) GetSettings() (settings map[string]string, err error) {
	var rows []*Setting
	ctx, cancel := context.WithTimeout(context.Background(), settingOperation.queryTimeout)
	defer cancel()
	if err = settingOperation.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	settings = make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}
	return settings, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Setting{Key: key, Value: value}).Error
}

func (settingOperation *SettingOperation) SetSetting(key, value string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), settingOperation.queryTimeout)
	defer cancel()
	return upsertSetting(settingOperation.db.WithContext(ctx), key, value)
}

func (settingOperation *SettingOperation) IsInitialized() (initialized bool, err error) {
	value, err := settingOperation.GetSetting(SettingInitialized)
	if errors.Is(err, ErrSettingNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

func (settingOperation *SettingOperation) Initialize(admin *User, settings map[string]string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), settingOperation.queryTimeout)
	defer cancel()
	return settingOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var initialized int64
		if err := tx.Model(&Setting{}).Where(&Setting{Key: SettingInitialized}).Count(&initialized).Error; err != nil {
			return err
		}
		if initialized > 0 {
			return ErrAlreadyInitialized
		}
		// 插入初始化标记的主键冲突保证并发初始化只有一个成功
		if err := tx.Create(&Setting{Key: SettingInitialized, Value: "true"}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyInitialized
			}
			return err
		}
		var taken int64
		if err := tx.Model(&User{}).Where("username = ? OR email = ?", admin.Username, admin.Email).Count(&taken).Error; err != nil {
			return errors.Join(ErrIdentifierCheck, err)
		}
		if taken > 0 {
			return ErrIdentifierTaken
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		for key, value := range settings {
			if key == SettingInitialized {
				continue
			}
			if err := upsertSetting(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}
