package alert

import (
	"context"
	"time"

	"github.com/lubrimax/lubestock/internal/domain/alert"
	"github.com/lubrimax/lubestock/internal/infrastructure/persistence/redis"
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
	"github.com/lubrimax/lubestock/pkg/metrics"
	"github.com/lubrimax/lubestock/pkg/saga"
)

// MarkResolvedUseCase 标记告警"已处理"用例
// 与MarkViewed同构,额外承担两件事:
//  1. 发布alert.resolved事件(手动处理,auto=false)
//  2. 刷新Redis角标(可见数在处理后减一)
//
// 注意:"已处理"不等于"消失"。只要库存仍低于阈值,
// 告警条目就留在Store里(隐藏态),防止下一轮刷新把它复活。
type MarkResolvedUseCase struct {
	store         *alert.Store
	mirror        alert.Mirror          // 可选
	publisher     alert.EventPublisher  // 可选
	badge         *redis.BadgeStore     // 可选
	mirrorTimeout time.Duration
}

// NewMarkResolvedUseCase 创建用例
func NewMarkResolvedUseCase(
	store *alert.Store,
	mirror alert.Mirror,
	publisher alert.EventPublisher,
	badge *redis.BadgeStore,
	mirrorTimeout time.Duration,
) *MarkResolvedUseCase {
	if mirrorTimeout <= 0 {
		mirrorTimeout = 3 * time.Second
	}
	return &MarkResolvedUseCase{
		store:         store,
		mirror:        mirror,
		publisher:     publisher,
		badge:         badge,
		mirrorTimeout: mirrorTimeout,
	}
}

// Execute 执行标记
func (uc *MarkResolvedUseCase) Execute(ctx context.Context, alertID uint) error {
	var prev alert.Status

	sg := saga.NewSaga(uc.mirrorTimeout)
	sg.AddStep("本地标记已处理",
		func(ctx context.Context) error {
			var err error
			prev, err = uc.store.MarkResolved(alertID)
			return err
		},
		func(ctx context.Context) error {
			uc.store.RestoreStatus(alertID, prev)
			return nil
		},
	)
	sg.AddStep("镜像已处理状态",
		func(ctx context.Context) error {
			if uc.mirror == nil {
				return nil
			}
			return uc.mirror.PersistResolved(ctx, alertID)
		},
		nil,
	)

	if err := sg.Execute(ctx); err != nil {
		if apperrors.GetAppError(err).Code == apperrors.ErrCodeAlertNotFound {
			return alert.ErrAlertNotFound
		}
		return apperrors.WrapWithCode(err, apperrors.ErrCodeMirrorRejected, "告警状态同步失败，请稍后重试")
	}

	// 旁路动作:只在已处理状态真正发生变化时触发
	// (重复处理是幂等no-op,不应重复计数/发事件)
	if prev != alert.StatusResolved {
		metrics.IncCounterVec(metrics.AlertsResolvedTotal, map[string]string{"mode": "manual"})
		if uc.publisher != nil {
			_ = uc.publisher.PublishResolved(ctx, alertID, false)
		}
		if uc.badge != nil {
			_ = uc.badge.Update(ctx, uc.store.VisibleCount(), uc.store.UnseenFlag())
		}
	}
	return nil
}
