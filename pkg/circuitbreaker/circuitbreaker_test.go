package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

// newTestBreaker 连续failures次失败触发熔断的测试熔断器
func newTestBreaker(failures uint32, timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker("stock-provider", Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
	})
}

// TestCircuitBreaker_StaysClosedOnSuccess 正常请求保持关闭状态
func TestCircuitBreaker_StaysClosedOnSuccess(t *testing.T) {
	cb := newTestBreaker(5, 30*time.Second)

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

// TestCircuitBreaker_TripsOnConsecutiveFailures 连续失败触发熔断
func TestCircuitBreaker_TripsOnConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(5, 30*time.Second)

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error {
			return errors.New("connection refused")
		})
	}

	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	// 熔断期间快速失败，不触碰数据源
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if err != ErrOpenState {
		t.Errorf("期望ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应调用数据源")
	}
}

// TestCircuitBreaker_HalfOpenProbeRecovers 半开探测成功后恢复关闭
func TestCircuitBreaker_HalfOpenProbeRecovers(t *testing.T) {
	cb := newTestBreaker(3, 100*time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}
	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	// 超时后进入半开，放行探测请求
	time.Sleep(150 * time.Millisecond)

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("半开状态探测请求期望成功，实际%v", err)
	}
	if !called {
		t.Error("半开状态应放行探测请求")
	}
	if cb.State() != StateClosed {
		t.Errorf("探测成功后期望CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenProbeFailsReopens 半开探测失败立即回到打开
func TestCircuitBreaker_HalfOpenProbeFailsReopens(t *testing.T) {
	cb := newTestBreaker(3, 100*time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}

	time.Sleep(150 * time.Millisecond)

	_ = cb.Execute(func() error {
		return errors.New("still down")
	})

	if cb.State() != StateOpen {
		t.Errorf("探测失败后期望回到OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_StateChangeCallback 状态变化回调（用于指标上报）
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	changes := make([]string, 0)

	cb := newTestBreaker(3, 100*time.Millisecond)
	cb.SetStateChangeCallback(func(name string, from State, to State) {
		changes = append(changes, from.String()+"->"+to.String())
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}

	time.Sleep(150 * time.Millisecond)
	_ = cb.Execute(func() error { return nil })

	want := []string{
		"CLOSED->OPEN",
		"OPEN->HALF_OPEN",
		"HALF_OPEN->CLOSED",
	}
	if len(changes) != len(want) {
		t.Fatalf("期望%d次状态变化，实际%d次: %v", len(want), len(changes), changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("第%d次状态变化期望%s，实际%s", i, want[i], changes[i])
		}
	}
}
