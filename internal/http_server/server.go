// Package http_server
package http_server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/half-nothing/simple-schedule/internal/api"
	"github.com/half-nothing/simple-schedule/internal/http_server/controller"
	mid "github.com/half-nothing/simple-schedule/internal/http_server/middleware"
	. "github.com/half-nothing/simple-schedule/internal/interfaces"
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/samber/slog-echo"
)

type HttpServerShutdownCallback struct {
	serverHandler *echo.Echo
}

func NewHttpServerShutdownCallback(serverHandler *echo.Echo) *HttpServerShutdownCallback {
	return &HttpServerShutdownCallback{
		serverHandler: serverHandler,
	}
}

func (hc *HttpServerShutdownCallback) Invoke(ctx context.Context) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return hc.serverHandler.Shutdown(timeoutCtx)
}

// NewHttpServer 创建挂载了应用路由的 echo 实例, 限流清理任务注册到 cleaner
func NewHttpServer(applicationContent *ApplicationContent, router *api.AppRouter, services *service.Services) *echo.Echo {
	config := applicationContent.ConfigManager().Config()
	logger := applicationContent.Logger()
	httpConfig := config.Server.HttpServer

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(io.Discard)
	e.Logger.SetLevel(log.OFF)
	e.HTTPErrorHandler = controller.ErrorHandler(logger)

	switch httpConfig.ProxyType {
	case 0:
		e.IPExtractor = echo.ExtractIPDirect()
	case 1:
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	case 2:
		e.IPExtractor = echo.ExtractIPFromRealIPHeader()
	default:
		logger.WarnF("Invalid proxy type %d, using default (direct)", httpConfig.ProxyType)
		e.IPExtractor = echo.ExtractIPDirect()
	}

	if httpConfig.SSL.ForceSSL {
		e.Use(middleware.HTTPSRedirect())
	}

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{Timeout: httpConfig.RequestDuration}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(ctx echo.Context, err error, stack []byte) error {
			logger.ErrorF("Recovered from a fatal error: %v, stack: %s", err, string(stack))
			return err
		},
	}))

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))

	loggerConfig := slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}
	e.Use(slogecho.NewWithConfig(slog.Default(), loggerConfig))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		HSTSMaxAge:            httpConfig.SSL.HstsExpiredTime,
		HSTSExcludeSubdomains: !httpConfig.SSL.IncludeDomain,
	}))
	e.Use(middleware.CORS())
	if httpConfig.BodyLimit != "" {
		e.Use(middleware.BodyLimit(httpConfig.BodyLimit))
	}
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))

	var metrics *mid.Metrics
	if httpConfig.Metrics.Enabled {
		metrics = mid.NewMetrics()
		e.Use(metrics.Middleware())
		e.GET(httpConfig.Metrics.Path, metrics.Handler())
	}

	ipPathLimiter := mid.NewSlidingWindowLimiter(
		httpConfig.Limits.RateLimitDuration,
		httpConfig.Limits.RateLimit,
	)
	cleanupInterval := min(httpConfig.Limits.RateLimitDuration*2, time.Hour)
	applicationContent.Cleaner().Add(ipPathLimiter.StartCleanup(cleanupInterval))

	rpcController := controller.NewRpcController(logger, router, metrics, ipPathLimiter, httpConfig.Limits.MaxBatchSize)
	fileController := controller.NewFileController(logger, services.Store)
	routeLimit := mid.RateLimitMiddleware(ipPathLimiter, mid.RouteKeyFunc)

	apiGroup := e.Group("/api", mid.JWTMiddleware(httpConfig.JWT))
	apiGroup.GET("/rpc", rpcController.GetShape, routeLimit)
	// 过程调用在控制器内逐项限流
	apiGroup.GET("/rpc/:path", rpcController.Query)
	apiGroup.POST("/rpc/:path", rpcController.Mutation)

	fileGroup := apiGroup.Group("/files", routeLimit)
	fileGroup.POST("/images", fileController.UploadImages)
	fileGroup.Static("", httpConfig.Store.LocalStorePath)

	return e
}

// StartHttpServer 启动 HTTP 服务并阻塞到服务关闭
func StartHttpServer(applicationContent *ApplicationContent, router *api.AppRouter, services *service.Services) {
	httpConfig := applicationContent.ConfigManager().Config().Server.HttpServer
	logger := applicationContent.Logger()

	e := NewHttpServer(applicationContent, router, services)
	applicationContent.Cleaner().Add(NewHttpServerShutdownCallback(e))

	protocol := "http"
	if httpConfig.SSL.Enable {
		protocol = "https"
	}
	logger.InfoF("Starting %s server on %s", protocol, httpConfig.Address)
	logger.InfoF("Rate limit: %d requests per %v",
		httpConfig.Limits.RateLimit,
		httpConfig.Limits.RateLimitDuration)
	logger.InfoF("%d procedures registered", len(router.Paths()))

	var err error
	if httpConfig.SSL.Enable {
		err = e.StartTLS(
			httpConfig.Address,
			httpConfig.SSL.CertFile,
			httpConfig.SSL.KeyFile,
		)
	} else {
		err = e.Start(httpConfig.Address)
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.FatalF("Http server error: %v", err)
	}
}
