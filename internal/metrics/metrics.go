// Package metrics 定义服务的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Toggles 按关系类型与结果统计切换次数
	Toggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidhub_toggles_total",
		Help: "Relationship toggles by relation and result",
	}, []string{"relation", "result"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidhub_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidhub_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	}, []string{"method", "route"})

	VideoViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidhub_video_views_total",
		Help: "Video view counter increments",
	})
)

// 切换结果标签
const (
	ResultActive   = "active"
	ResultInactive = "inactive"
	ResultConflict = "conflict"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// ObserveToggle 记录一次切换
func ObserveToggle(relation, result string) {
	Toggles.WithLabelValues(relation, result).Inc()
}
