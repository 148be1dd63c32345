// Package saga 实现带补偿的多步操作框架
//
// 在本服务中主要承载"本地优先"的告警状态变更协议：
//  1. 第一步在本地告警存储中应用变更（乐观更新，界面立即生效）
//  2. 第二步尽力把变更镜像到后端持久化
//  3. 镜像被拒绝时按逆序补偿——即回滚本地变更，并向调用方
//     报告瞬时失败
//
// 设计要点：
// - 每个步骤的补偿操作必须幂等（允许重试）
// - Saga保证"最终一致性"，而非"强一致性"
package saga

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Step 表示一个步骤
//
// Action是正向操作（如本地标记已处理、远端落库），
// Compensate是补偿操作（如恢复本地状态）；两者都可以为nil
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 表示一次带补偿的多步操作
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间
}

// NewSaga 创建Saga
//
// 示例（告警"已处理"变更）：
//
//	sg := saga.NewSaga(5 * time.Second)
//	sg.AddStep("本地标记", applyLocal, rollbackLocal)
//	sg.AddStep("远端镜像", persistRemote, nil)
//	err := sg.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加一个步骤
// 步骤顺序很重要：按添加顺序执行，按逆序补偿
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行全部步骤
//
// 某步失败时按逆序执行已完成步骤的补偿，然后返回该步骤的错误。
// 超时同样触发补偿流程（补偿使用新Context，避免补偿本身也超时）
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			s.compensate(context.Background())
			return fmt.Errorf("saga超时: %w", ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.Background())
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行已完成步骤的补偿
// 某个补偿失败时记录日志并继续执行后续补偿（尽最大努力）
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				log.Printf("saga补偿失败[步骤:%s]: %v", step.Name, err)
			}
		}
	}

	s.executed = nil
}
