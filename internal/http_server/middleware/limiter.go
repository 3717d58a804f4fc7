// Package middleware
package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

// SlidingWindowLimiter 滑动窗口限流器
type SlidingWindowLimiter struct {
	windowSize     time.Duration
	maxRequests    int
	requestRecords map[string][]time.Time
	mu             sync.Mutex
	now            func() time.Time
}

func NewSlidingWindowLimiter(windowSize time.Duration, maxRequests int) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		windowSize:     windowSize,
		maxRequests:    maxRequests,
		requestRecords: make(map[string][]time.Time),
		now:            time.Now,
	}
}

// Allow 检查是否允许请求, 允许时记录本次请求
func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.windowSize)
	records := l.requestRecords[key]
	expired := 0
	for expired < len(records) && !records[expired].After(windowStart) {
		expired++
	}
	records = records[expired:]

	if len(records) >= l.maxRequests {
		l.requestRecords[key] = records
		return false
	}
	l.requestRecords[key] = append(records, now)
	return true
}

// StartCleanup 定期清理长时间没有请求的键, 返回的回调用于停止清理
func (l *SlidingWindowLimiter) StartCleanup(interval time.Duration) global.Callable {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.cleanup()
			}
		}
	}()
	return global.CallableFunc(func(context.Context) error {
		cancel()
		return nil
	})
}

func (l *SlidingWindowLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	threshold := l.now().Add(-2 * l.windowSize)
	for key, records := range l.requestRecords {
		if len(records) == 0 || records[len(records)-1].Before(threshold) {
			delete(l.requestRecords, key)
		}
	}
}

func (l *SlidingWindowLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requestRecords)
}

// RateLimitMiddleware 超出限制时返回 RATE_LIMITED
func RateLimitMiddleware(limiter *SlidingWindowLimiter, keyFunc func(c echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(keyFunc(c)) {
				res := service.NewApiResponse[any](&service.ErrRateLimited, service.Unsatisfied, nil)
				return c.JSON(res.HttpCode, res)
			}
			return next(c)
		}
	}
}

// ProcedureKey 按客户端IP和过程路径计数, 批量调用中的每一项单独计数
func ProcedureKey(ip, path string) string {
	return ip + "|" + path
}

// RouteKeyFunc 非过程调用的接口按客户端IP和路由计数
func RouteKeyFunc(c echo.Context) string {
	return ProcedureKey(c.RealIP(), c.Path())
}
