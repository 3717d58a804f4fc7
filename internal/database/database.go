// Package database
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type shutdownCallback struct {
	db *gorm.DB
}

func (dc *shutdownCallback) Invoke(_ context.Context) error {
	db, err := dc.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// ConnectDatabase 连接数据库并完成迁移, 返回关闭连接的回调和全部数据库操作
func ConnectDatabase(lg log.LoggerInterface, config *config.DatabaseConfig, generalConfig *config.GeneralConfig, debug bool) (global.Callable, *operation.DatabaseOperations, error) {
	gormConfig := &gorm.Config{
		TranslateError:            true,
		PrepareStmt:               true,
		DefaultTransactionTimeout: config.QueryDuration,
		Logger:                    logger.Default.LogMode(logger.Silent),
	}
	if debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	dialector := config.GetConnection(lg)
	if dialector == nil {
		return nil, nil, fmt.Errorf("unsupported database type %s", config.DBType)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("error occured while connecting to database: %w", err)
	}

	if err = db.Migrator().AutoMigrate(operation.AllModels()...); err != nil {
		return nil, nil, fmt.Errorf("error occured while migrating database: %w", err)
	}

	dbPool, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("error occured while creating database pool: %w", err)
	}

	if config.SingleConnection() {
		dbPool.SetMaxOpenConns(1)
		dbPool.SetMaxIdleConns(1)
		dbPool.SetConnMaxLifetime(0)
	} else {
		maxOpenConnections := max(int(float32(config.ServerMaxConnections)*0.8), 1) // 不超过数据库最大连接的80%
		maxIdleConnections := max(maxOpenConnections/5, 1)                          // 空闲连接约为最大连接的20%
		dbPool.SetMaxIdleConns(maxIdleConnections)
		dbPool.SetMaxOpenConns(maxOpenConnections)
		dbPool.SetConnMaxLifetime(config.ConnectIdleDuration)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.QueryDuration)
	defer cancel()
	if err = dbPool.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("error occured while pinging database: %w", err)
	}

	lg.InfoF("Database connected, type %s", config.DBType)

	return &shutdownCallback{db: db}, operation.NewDatabaseOperations(
		NewUserOperation(db, config.QueryDuration, generalConfig),
		NewNoticeOperation(db, config.QueryDuration),
		NewScheduleOperation(db, config.QueryDuration),
		NewSettingOperation(db, config.QueryDuration),
		NewAuditLogOperation(db, config.QueryDuration),
	), nil
}

// translateNotFound 把 gorm 的记录不存在错误替换为对应的哨兵错误
func translateNotFound(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

// normalizeTime 统一使用秒精度的 UTC 时间, SQLite 按字符串比较时间
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func pageOffset(page, pageSize int) int {
	if page <= 0 {
		page = 1
	}
	return (page - 1) * pageSize
}
