// Package metrics 提供基于Prometheus的指标收集
//
// 可观测性说明：
// - Counter（计数器）：只增不减的累计值，如刷新总数、刷新失败总数
// - Gauge（仪表盘）：可增可减的瞬时值，如当前可见告警数
// - Histogram（直方图）：观测值分布，如刷新耗时的P50/P90/P99
//
// 指标通过gin的/metrics端点暴露，由Prometheus周期抓取
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// 告警管线业务指标

	// AlertRefreshTotal 告警刷新总数（Counter）
	// 标签：result（success/failure/rejected），rejected表示熔断快速失败
	AlertRefreshTotal *prometheus.CounterVec

	// AlertRefreshDuration 告警刷新耗时（Histogram）
	// 包含事实源拉取 + 评估 + 对账的完整管线
	AlertRefreshDuration prometheus.Histogram

	// AlertsVisible 当前可见告警数（Gauge，徽标数）
	AlertsVisible prometheus.Gauge

	// AlertsByUrgency 按紧急度统计的可见告警数（Gauge）
	// 标签：urgency（critical/high/medium/low）
	AlertsByUrgency *prometheus.GaugeVec

	// AlertsCreatedTotal 新告警产生总数（Counter）
	AlertsCreatedTotal prometheus.Counter

	// AlertsResolvedTotal 告警处理总数（Counter）
	// 标签：mode（manual/auto），auto表示库存恢复自动处理
	AlertsResolvedTotal *prometheus.CounterVec

	// ObsoleteProducts 最近一次检测的呆滞商品总数（Gauge）
	ObsoleteProducts prometheus.Gauge

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// 消息队列指标

	// MessagesPublishedTotal 告警事件发布总数（Counter）
	// 标签：routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 必须在程序启动时调用一次，使用promauto自动注册到默认Registry
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	// 告警管线指标
	AlertRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_refresh_total",
			Help: "告警刷新总数",
		},
		[]string{"result"},
	)

	AlertRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "alert_refresh_duration_seconds",
			Help: "告警刷新耗时（秒）",
			// 刷新包含一次全量商品拉取，桶向秒级倾斜
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	AlertsVisible = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alerts_visible",
			Help: "当前可见告警数（徽标数）",
		},
	)

	AlertsByUrgency = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "alerts_by_urgency",
			Help: "按紧急度统计的可见告警数",
		},
		[]string{"urgency"},
	)

	AlertsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_created_total",
			Help: "新告警产生总数",
		},
	)

	AlertsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_resolved_total",
			Help: "告警处理总数",
		},
		[]string{"mode"},
	)

	ObsoleteProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "obsolete_products",
			Help: "最近一次检测的呆滞商品总数",
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "告警事件发布总数",
		},
		[]string{"routing_key", "result"},
	)
}

// =========================================
// 辅助函数（调用前检查nil，指标未初始化时静默跳过，方便单元测试）
// =========================================

// IncCounter 递增计数器
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// IncCounterVec 递增带标签的计数器
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

// SetGauge 设置仪表盘值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge != nil {
		gauge.Set(value)
	}
}

// SetGaugeVec 设置带标签的仪表盘值
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge != nil {
		gauge.With(labels).Set(value)
	}
}

// ObserveHistogram 记录直方图观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec 记录带标签的直方图观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram != nil {
		histogram.With(labels).Observe(value)
	}
}
