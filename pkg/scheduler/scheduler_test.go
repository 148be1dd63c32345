package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// TestScheduler_PeriodicRun 周期触发任务
func TestScheduler_PeriodicRun(t *testing.T) {
	var runs int32

	s := New("test", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	s.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	s.Stop()

	got := atomic.LoadInt32(&runs)
	if got < 3 {
		t.Errorf("55ms内至少应触发3次，实际%d次", got)
	}

	// 停止后不再触发
	time.Sleep(30 * time.Millisecond)
	if after := atomic.LoadInt32(&runs); after != got {
		t.Errorf("Stop后仍在触发: %d → %d", got, after)
	}
}

// TestScheduler_TaskErrorDoesNotStop 任务失败不影响下个周期
func TestScheduler_TaskErrorDoesNotStop(t *testing.T) {
	var runs int32

	s := New("test", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return errors.New("provider down")
	})

	s.Start(context.Background())
	time.Sleep(35 * time.Millisecond)
	s.Stop()

	if got := atomic.LoadInt32(&runs); got < 2 {
		t.Errorf("任务失败后仍应继续调度，实际只触发%d次", got)
	}
}

// TestScheduler_Disabled interval为0时调度器关闭
func TestScheduler_Disabled(t *testing.T) {
	s := New("test", 0, func(ctx context.Context) error {
		t.Error("关闭状态不应触发任务")
		return nil
	})

	if s.Enabled() {
		t.Error("interval=0时Enabled应为false")
	}

	// Start/Stop都是no-op，不panic不阻塞
	s.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	s.Stop()
}

// TestScheduler_ContextCancel 上游Context取消时退出调度循环
func TestScheduler_ContextCancel(t *testing.T) {
	var runs int32
	ctx, cancel := context.WithCancel(context.Background())

	s := New("test", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	s.Start(ctx)
	time.Sleep(25 * time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)

	got := atomic.LoadInt32(&runs)
	time.Sleep(30 * time.Millisecond)
	if after := atomic.LoadInt32(&runs); after != got {
		t.Errorf("Context取消后仍在触发: %d → %d", got, after)
	}
}
