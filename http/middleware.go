package http

import (
	"net/http"
	"strconv"
	"time"

	c "github.com/d0ngw/counters/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MiddlewareFunc 处理函数
type MiddlewareFunc func(http.ResponseWriter, *http.Request)

// Middleware 定义接口
type Middleware interface {
	// Handle 处理
	Handle(next MiddlewareFunc) MiddlewareFunc
}

// statusWriter 记录响应状态码
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (p *statusWriter) WriteHeader(status int) {
	p.status = status
	p.ResponseWriter.WriteHeader(status)
}

// AccessLogMiddleware 记录访问日志
type AccessLogMiddleware struct {
}

// Handle implements Middleware.Handle
func (p *AccessLogMiddleware) Handle(next MiddlewareFunc) MiddlewareFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		begin := time.Now()
		next(sw, r)
		c.Infof("%s %s %d %s", r.Method, r.RequestURI, sw.status, time.Since(begin))
	}
}

// MetricsMiddleware 使用prometheus统计请求数和耗时
type MetricsMiddleware struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsMiddleware 创建MetricsMiddleware,并注册到默认的prometheus registry
func NewMetricsMiddleware(namespace string) *MetricsMiddleware {
	p := &MetricsMiddleware{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Count of http requests",
			},
			[]string{"method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of http requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	prometheus.MustRegister(p.requests, p.duration)
	return p
}

// Handle implements Middleware.Handle
func (p *MetricsMiddleware) Handle(next MiddlewareFunc) MiddlewareFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		begin := time.Now()
		next(sw, r)
		p.requests.WithLabelValues(r.Method, strconv.Itoa(sw.status)).Inc()
		p.duration.WithLabelValues(r.Method).Observe(time.Since(begin).Seconds())
	}
}

// MetricsHandler 返回prometheus的导出endpoint处理器
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
