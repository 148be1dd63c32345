package alert

import (
	"context"
	"time"

	"github.com/lubrimax/lubestock/internal/domain/alert"
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
	"github.com/lubrimax/lubestock/pkg/saga"
)

// MarkViewedUseCase 标记告警"已查看"用例
// 设计说明:local-first两步Saga
//  1. 本地Store先行变更(界面立即生效,记住变更前状态)
//  2. 尽力镜像到后端;镜像拒绝时补偿——恢复本地状态,
//     向调用方报告瞬时失败
//
// 镜像未配置(nil)时退化为纯本地操作,功能不打折。
type MarkViewedUseCase struct {
	store         *alert.Store
	mirror        alert.Mirror // 可选
	mirrorTimeout time.Duration
}

// NewMarkViewedUseCase 创建用例
func NewMarkViewedUseCase(store *alert.Store, mirror alert.Mirror, mirrorTimeout time.Duration) *MarkViewedUseCase {
	if mirrorTimeout <= 0 {
		mirrorTimeout = 3 * time.Second
	}
	return &MarkViewedUseCase{
		store:         store,
		mirror:        mirror,
		mirrorTimeout: mirrorTimeout,
	}
}

// Execute 执行标记
// 幂等:重复标记同一告警不报错,也不触发第二次镜像以外的副作用
func (uc *MarkViewedUseCase) Execute(ctx context.Context, alertID uint) error {
	var prev alert.Status

	sg := saga.NewSaga(uc.mirrorTimeout)
	sg.AddStep("本地标记已查看",
		func(ctx context.Context) error {
			var err error
			prev, err = uc.store.MarkViewed(alertID)
			return err
		},
		func(ctx context.Context) error {
			uc.store.RestoreStatus(alertID, prev)
			return nil
		},
	)
	sg.AddStep("镜像已查看状态",
		func(ctx context.Context) error {
			if uc.mirror == nil {
				return nil
			}
			return uc.mirror.PersistViewed(ctx, alertID)
		},
		nil,
	)

	if err := sg.Execute(ctx); err != nil {
		if apperrors.GetAppError(err).Code == apperrors.ErrCodeAlertNotFound {
			return alert.ErrAlertNotFound
		}
		return apperrors.WrapWithCode(err, apperrors.ErrCodeMirrorRejected, "告警状态同步失败，请稍后重试")
	}
	return nil
}
