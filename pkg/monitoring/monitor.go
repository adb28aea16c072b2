package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// GatewayRequests 语言模型调用次数，按结果区分
	GatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_gateway_requests_total",
			Help: "Total number of chat completion calls",
		},
		[]string{"result"},
	)

	GatewayDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "llm_gateway_duration_seconds",
			Help:    "Duration of chat completion calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// PracticeEvents 练习会话生命周期事件（started/message/ended/deleted）
	PracticeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "practice_session_events_total",
			Help: "Practice session lifecycle events",
		},
		[]string{"event"},
	)

	// RateLimited 被限流拒绝的请求，按限流器名称区分
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)

	DigestsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daily_digest_total",
			Help: "Daily digest dispatch attempts",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(GatewayRequests)
		prometheus.MustRegister(GatewayDuration)
		prometheus.MustRegister(PracticeEvents)
		prometheus.MustRegister(DigestsSent)
		prometheus.MustRegister(RateLimited)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
