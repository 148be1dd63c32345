package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化（幂等）
func TestInitMetrics(t *testing.T) {
	InitMetrics()

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if AlertRefreshTotal == nil {
		t.Error("AlertRefreshTotal未初始化")
	}
	if AlertsVisible == nil {
		t.Error("AlertsVisible未初始化")
	}
	if AlertsByUrgency == nil {
		t.Error("AlertsByUrgency未初始化")
	}
	if ObsoleteProducts == nil {
		t.Error("ObsoleteProducts未初始化")
	}

	// 重复调用不应panic（promauto重复注册会panic，靠initialized标记拦截）
	InitMetrics()
}

// TestCounter 测试Counter指标
func TestCounter(t *testing.T) {
	InitMetrics()

	before := counterValue(t, AlertsCreatedTotal)

	IncCounter(AlertsCreatedTotal)
	IncCounter(AlertsCreatedTotal)
	IncCounter(AlertsCreatedTotal)

	if got := counterValue(t, AlertsCreatedTotal); got != before+3 {
		t.Errorf("Counter值错误: expected=%f, got=%f", before+3, got)
	}
}

// TestCounterVec 测试带标签的Counter
func TestCounterVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"result": "success"}
	before := counterVecValue(t, AlertRefreshTotal, labels)

	IncCounterVec(AlertRefreshTotal, labels)
	IncCounterVec(AlertRefreshTotal, map[string]string{"result": "failure"})
	IncCounterVec(AlertRefreshTotal, labels)

	if got := counterVecValue(t, AlertRefreshTotal, labels); got != before+2 {
		t.Errorf("CounterVec值错误: expected=%f, got=%f", before+2, got)
	}
}

// TestGaugeVec 测试按紧急度的告警数Gauge
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(AlertsByUrgency, map[string]string{"urgency": "critical"}, 2)
	SetGaugeVec(AlertsByUrgency, map[string]string{"urgency": "low"}, 7)

	if got := gaugeVecValue(t, AlertsByUrgency, map[string]string{"urgency": "critical"}); got != 2 {
		t.Errorf("GaugeVec值错误: expected=2, got=%f", got)
	}
	if got := gaugeVecValue(t, AlertsByUrgency, map[string]string{"urgency": "low"}); got != 7 {
		t.Errorf("GaugeVec值错误: expected=7, got=%f", got)
	}
}

// TestNilSafeHelpers 指标未初始化时辅助函数静默跳过
// 单元测试大多不调用InitMetrics，辅助函数必须能安全处理nil
func TestNilSafeHelpers(t *testing.T) {
	IncCounter(nil)
	IncCounterVec(nil, map[string]string{"result": "success"})
	SetGauge(nil, 1)
	SetGaugeVec(nil, map[string]string{"urgency": "low"}, 1)
	ObserveHistogram(nil, 0.1)
	ObserveHistogramVec(nil, map[string]string{"method": "GET", "path": "/x"}, 0.1)
}

// =========================================
// 指标读数辅助函数
// =========================================

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var pb dto.Metric
	if err := c.Write(&pb); err != nil {
		t.Fatalf("读取Counter失败: %v", err)
	}
	return pb.GetCounter().GetValue()
}

func counterVecValue(t *testing.T, vec *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	var pb dto.Metric
	if err := vec.With(labels).Write(&pb); err != nil {
		t.Fatalf("读取CounterVec失败: %v", err)
	}
	return pb.GetCounter().GetValue()
}

func gaugeVecValue(t *testing.T, vec *prometheus.GaugeVec, labels map[string]string) float64 {
	t.Helper()
	var pb dto.Metric
	if err := vec.With(labels).Write(&pb); err != nil {
		t.Fatalf("读取GaugeVec失败: %v", err)
	}
	return pb.GetGauge().GetValue()
}
