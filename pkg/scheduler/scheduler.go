// Package scheduler 提供周期任务调度
//
// 设计说明：
// 1. 告警刷新本身由调用方显式触发（打开告警面板、库存调整后），
//    调度器只是把同一个refresh入口挂到周期定时器上，对账语义
//    与手动触发完全一致
// 2. 单任务固定间隔，time.Ticker足够，不引入cron表达式调度的复杂度
package scheduler

import (
	"context"
	"log"
	"time"
)

// Task 周期执行的任务
type Task func(ctx context.Context) error

// Scheduler 周期调度器
type Scheduler struct {
	name     string
	interval time.Duration
	task     Task
	stop     chan struct{}
	done     chan struct{}
}

// New 创建调度器（interval <= 0 时Disabled）
func New(name string, interval time.Duration, task Task) *Scheduler {
	return &Scheduler{
		name:     name,
		interval: interval,
		task:     task,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Enabled 是否启用（interval > 0）
func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

// Start 启动调度循环（独立goroutine）
// 任务失败只记录日志，下个周期照常触发
func (s *Scheduler) Start(ctx context.Context) {
	if !s.Enabled() {
		close(s.done)
		return
	}

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		log.Printf("周期任务[%s]已启动, 间隔=%s", s.name, s.interval)

		for {
			select {
			case <-ticker.C:
				if err := s.task(ctx); err != nil {
					log.Printf("周期任务[%s]执行失败: %v", s.name, err)
				}
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop 停止调度并等待当前任务结束
func (s *Scheduler) Stop() {
	if !s.Enabled() {
		return
	}
	close(s.stop)
	<-s.done
}
