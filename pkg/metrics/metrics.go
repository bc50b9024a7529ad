// Package metrics 提供 Prometheus 指标定义与独立的指标 HTTP 服务
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/storefront/pkg/logger"
)

const namespace = "storefront"

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数，按方法、路由、状态码
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 购物车操作，按操作与结果
	CartOperations *prometheus.CounterVec
	// 库存不足被拒的加购/改量次数
	StockRejections prometheus.Counter
	// 商品图片规范化结果
	ImageNormalizations *prometheus.CounterVec
	// 注册用户数
	Registrations prometheus.Counter
	// 登录尝试，按结果
	Logins *prometheus.CounterVec
}

// New 创建并注册指标，每个实例拥有独立的 registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CartOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Cart operations by kind and outcome",
		}, []string{"op", "outcome"}),
		StockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "stock_rejections_total",
			Help:      "Cart changes rejected for insufficient stock",
		}),
		ImageNormalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "image_normalizations_total",
			Help:      "Product image normalization attempts by outcome",
		}, []string{"outcome"}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "customer",
			Name:      "registrations_total",
			Help:      "Completed customer registrations",
		}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CartOperations,
		m.StockRejections,
		m.ImageNormalizations,
		m.Registrations,
		m.Logins,
	)
	return m
}

// ObserveHTTP 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// CartOp 记录购物车操作结果，outcome 取 ok/rejected/invalid/error
func (m *Metrics) CartOp(op, outcome string) {
	if m == nil {
		return
	}
	m.CartOperations.WithLabelValues(op, outcome).Inc()
	if outcome == "rejected" {
		m.StockRejections.Inc()
	}
}

// ImageNormalized 记录图片规范化结果
func (m *Metrics) ImageNormalized(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.ImageNormalizations.WithLabelValues(outcome).Inc()
}

// Registered 记录注册成功
func (m *Metrics) Registered() {
	if m == nil {
		return
	}
	m.Registrations.Inc()
}

// Login 记录登录结果
func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

// Handler 返回指标导出 handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Server 在独立端口上导出指标
type Server struct {
	srv *http.Server
}

// NewServer 创建指标 HTTP 服务
func NewServer(m *Metrics, port int, path string) *Server {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	return &Server{srv: &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Start 阻塞运行，直到 Shutdown 被调用
func (s *Server) Start() error {
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
