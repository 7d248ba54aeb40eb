// Package metrics 提供表单收集服务的 Prometheus 指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 提交结果标签
const (
	OutcomePersisted = "persisted"
	OutcomeBot       = "bot"
	OutcomeInvalid   = "invalid"
	OutcomeBadBody   = "bad_body"
	OutcomeNoConfig  = "not_configured"
	OutcomeStoreErr  = "store_error"
)

// Recorder 业务层依赖的最小指标接口
type Recorder interface {
	Submission(outcome string)
	Notification(ok bool)
	StoreLatency(d time.Duration)
}

// Manager 管理所有 Prometheus 指标
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	submissions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	storeLatency  prometheus.Histogram
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// Option 配置 Manager
type Option func(*Manager)

// WithNamespace 设置指标命名空间
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithHistogramBuckets 设置延迟直方图分桶
func WithHistogramBuckets(b []float64) Option {
	return func(m *Manager) {
		if len(b) > 0 {
			m.buckets = b
		}
	}
}

// WithRegistry 使用外部注册表（测试隔离用）
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// NewManager 创建并注册全部指标
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "formation_feedback",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.submissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "submissions_total",
		Help:      "Form submissions by outcome.",
	}, []string{"outcome"})
	m.notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "notifications_total",
		Help:      "Notification e-mails by result.",
	}, []string{"result"})
	m.storeLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "store_insert_duration_seconds",
		Help:      "Latency of the single-row insert.",
		Buckets:   m.buckets,
	})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status.",
	}, []string{"method", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   m.buckets,
	}, []string{"method"})

	m.registry.MustRegister(m.submissions, m.notifications, m.storeLatency, m.httpRequests, m.httpDuration)
	return m
}

// Submission 记录一次提交结果
func (m *Manager) Submission(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

// Notification 记录一次邮件通知结果
func (m *Manager) Notification(ok bool) {
	result := "sent"
	if !ok {
		result = "failed"
	}
	m.notifications.WithLabelValues(result).Inc()
}

// StoreLatency 记录一次入库耗时
func (m *Manager) StoreLatency(d time.Duration) {
	m.storeLatency.Observe(d.Seconds())
}

// HTTPRequest 记录一次 HTTP 请求
func (m *Manager) HTTPRequest(method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Handler 暴露 /metrics
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 返回底层注册表
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Nop 不记录任何指标
type Nop struct{}

func (Nop) Submission(string)          {}
func (Nop) Notification(bool)          {}
func (Nop) StoreLatency(time.Duration) {}
