package alert

import (
	"context"

	"github.com/lubrimax/lubestock/internal/domain/alert"
	"github.com/lubrimax/lubestock/internal/infrastructure/persistence/redis"
)

// ListAlertsUseCase 告警查询用例
// 设计说明:查询走本地Store,读路径零IO。
// 打开告警面板的动作同时清除"有未读"标志(红点消失,数字保留)。
type ListAlertsUseCase struct {
	store *alert.Store
	badge *redis.BadgeStore // 可选
}

// NewListAlertsUseCase 创建查询用例
func NewListAlertsUseCase(store *alert.Store, badge *redis.BadgeStore) *ListAlertsUseCase {
	return &ListAlertsUseCase{store: store, badge: badge}
}

// BadgeInfo 角标信息DTO
type BadgeInfo struct {
	Count  int  `json:"count"`  // 可见告警数
	Unseen bool `json:"unseen"` // 是否有从未展示过的新告警
}

// List 返回可见告警(已按严重度排序)并清除未读标志
func (uc *ListAlertsUseCase) List(ctx context.Context) []alert.StockAlert {
	visible := uc.store.Visible()

	uc.store.ClearUnseen()
	if uc.badge != nil {
		_ = uc.badge.Update(ctx, len(visible), false)
	}
	return visible
}

// Get 返回单条告警详情
func (uc *ListAlertsUseCase) Get(alertID uint) (alert.StockAlert, error) {
	return uc.store.Get(alertID)
}

// Badge 返回角标信息(供通知面板轮询,不清除未读标志)
func (uc *ListAlertsUseCase) Badge() BadgeInfo {
	return BadgeInfo{
		Count:  uc.store.VisibleCount(),
		Unseen: uc.store.UnseenFlag(),
	}
}

// ClearUnseen 清除未读标志(不改变任何告警的生命周期状态)
// 场景:门店前端打开告警下拉面板但未点进列表页。
func (uc *ListAlertsUseCase) ClearUnseen(ctx context.Context) BadgeInfo {
	uc.store.ClearUnseen()
	if uc.badge != nil {
		_ = uc.badge.Update(ctx, uc.store.VisibleCount(), false)
	}
	return uc.Badge()
}
