package main

import (
	"github.com/half-nothing/simple-schedule/internal/api"
	"github.com/half-nothing/simple-schedule/internal/base"
	"github.com/half-nothing/simple-schedule/internal/database"
	"github.com/half-nothing/simple-schedule/internal/interfaces"
	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
	impl "github.com/half-nothing/simple-schedule/internal/service"
)

type application struct {
	logger   *base.Logger
	cleaner  *base.Cleaner
	content  *interfaces.ApplicationContent
	services *service.Services
	router   *api.AppRouter
}

// newApplication 加载配置, 连接数据库并组装应用路由, 出错时已注册的资源会被清理
func newApplication(listenSignal bool) (app *application, err error) {
	logger := base.NewLogger()
	logger.Init(global.DebugMode)

	logger.Info("Application initializing...")

	cleaner := base.NewCleaner(logger)
	if listenSignal {
		cleaner.Init()
	}
	defer func() {
		if err != nil {
			cleaner.Clean()
		}
	}()

	configManager := base.NewManager(logger)
	config, err := configManager.Load()
	if err != nil {
		logger.ErrorF("Error occurred while loading configuration, details: %v", err)
		return nil, err
	}

	shutdownCallback, databaseOperation, err := database.ConnectDatabase(logger, config.Database, config.Server.General, global.DebugMode)
	if err != nil {
		logger.ErrorF("Error occurred while initializing operation, details: %v", err)
		return nil, err
	}
	cleaner.Add(shutdownCallback)

	content := interfaces.NewApplicationContent(configManager, cleaner, logger, databaseOperation)

	services, err := impl.NewServices(content, nil)
	if err != nil {
		logger.ErrorF("Error occurred while initializing services, details: %v", err)
		return nil, err
	}

	router, err := api.NewAppRouter(services)
	if err != nil {
		logger.ErrorF("Error occurred while composing routers, details: %v", err)
		return nil, err
	}

	return &application{
		logger:   logger,
		cleaner:  cleaner,
		content:  content,
		services: services,
		router:   router,
	}, nil
}
