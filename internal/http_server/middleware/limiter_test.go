package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func (clock *fakeClock) now() time.Time { return clock.current }

func newTestLimiter(window time.Duration, max int) (*SlidingWindowLimiter, *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	limiter := NewSlidingWindowLimiter(window, max)
	limiter.now = clock.now
	return limiter, clock
}

func TestSlidingWindowLimiter(t *testing.T) {
	limiter, clock := newTestLimiter(time.Minute, 2)

	assert.True(t, limiter.Allow("a"))
	clock.current = clock.current.Add(10 * time.Second)
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"))

	// 第一条记录滑出窗口后恢复一个名额
	clock.current = clock.current.Add(51 * time.Second)
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
}

func TestSlidingWindowLimiterCleanup(t *testing.T) {
	limiter, clock := newTestLimiter(time.Minute, 5)
	limiter.Allow("old")
	clock.current = clock.current.Add(90 * time.Second)
	limiter.Allow("fresh")

	clock.current = clock.current.Add(40 * time.Second)
	limiter.cleanup()
	assert.Equal(t, 1, limiter.size())
}

func TestStartCleanupStops(t *testing.T) {
	limiter := NewSlidingWindowLimiter(time.Minute, 1)
	stop := limiter.StartCleanup(time.Millisecond)
	require.NoError(t, stop.Invoke(t.Context()))
}

func TestRateLimitMiddleware(t *testing.T) {
	e := echo.New()
	limiter := NewSlidingWindowLimiter(time.Minute, 1)
	handler := func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}
	e.GET("/api/rpc", handler, RateLimitMiddleware(limiter, RouteKeyFunc))
	e.GET("/api/files/:name", handler, RateLimitMiddleware(limiter, RouteKeyFunc))

	do := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do("/api/rpc").Code)
	limited := do("/api/rpc")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Contains(t, limited.Body.String(), "RATE_LIMITED")

	// 同一路由模板下的不同文件共享计数
	assert.Equal(t, http.StatusNoContent, do("/api/files/a.png").Code)
	assert.Equal(t, http.StatusTooManyRequests, do("/api/files/b.png").Code)
}
