package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const unknownProcedure = "unknown"

// Metrics 过程调用指标, 每个服务实例使用独立的注册表
type Metrics struct {
	registry        *prometheus.Registry
	callCounter     *prometheus.CounterVec
	callDuration    *prometheus.HistogramVec
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.callCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "schedule",
			Subsystem: "rpc",
			Name:      "calls_total",
			Help:      "Total number of procedure calls",
		},
		[]string{"procedure", "code"},
	)
	m.callDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "schedule",
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "Procedure call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"procedure"},
	)
	m.requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "schedule",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "schedule",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.registry.MustRegister(
		m.callCounter,
		m.callDuration,
		m.requestCounter,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCall 记录一次过程调用, 不存在的过程统一记为 unknown 以限制标签数量
func (m *Metrics) ObserveCall(procedure string, found bool, code string, duration time.Duration) {
	if !found {
		procedure = unknownProcedure
	}
	m.callCounter.WithLabelValues(procedure, code).Inc()
	m.callDuration.WithLabelValues(procedure).Observe(duration.Seconds())
}

// Middleware 按路由模板统计请求, 不按原始路径
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				status = errorStatus(err)
			}
			route := c.Path()
			if route == "" {
				route = unknownProcedure
			}
			m.requestCounter.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.requestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// errorStatus 推断尚未写出的错误最终的状态码
func errorStatus(err error) int {
	var httpError *echo.HTTPError
	var apiStatus *service.ApiStatus
	switch {
	case errors.As(err, &httpError):
		return httpError.Code
	case errors.As(err, &apiStatus):
		return apiStatus.HttpCode.Code()
	default:
		return http.StatusInternalServerError
	}
}

func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
}
