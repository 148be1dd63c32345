package alert

import (
	"context"
	"errors"
	"time"

	"github.com/lubrimax/lubestock/internal/domain/alert"
	"github.com/lubrimax/lubestock/internal/domain/product"
	"github.com/lubrimax/lubestock/internal/infrastructure/persistence/redis"
	"github.com/lubrimax/lubestock/pkg/circuitbreaker"
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
	"github.com/lubrimax/lubestock/pkg/metrics"
	"github.com/lubrimax/lubestock/pkg/tracing"
)

// RefreshUseCase 告警刷新用例
// 设计说明:刷新是整个告警引擎的心跳——拉取库存事实、
// 纯函数评估、与本地告警集合对账,三步各司其职。
//
// 关键决策:本地告警集合是权威数据。数据源(ERP/POS同步库)
// 只提供"事实",拉取失败时保留上一轮结果,绝不清空。
// 否则一次网络抖动就会让店长看到"告警全部消失"的假象。
type RefreshUseCase struct {
	productRepo product.Repository
	store       *alert.Store
	breaker     *circuitbreaker.CircuitBreaker
	publisher   alert.EventPublisher // 可选,nil表示未接入MQ
	badge       *redis.BadgeStore    // 可选,nil表示未接入Redis角标
	timeout     time.Duration
}

// NewRefreshUseCase 创建刷新用例
func NewRefreshUseCase(
	productRepo product.Repository,
	store *alert.Store,
	breaker *circuitbreaker.CircuitBreaker,
	publisher alert.EventPublisher,
	badge *redis.BadgeStore,
	timeout time.Duration,
) *RefreshUseCase {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RefreshUseCase{
		productRepo: productRepo,
		store:       store,
		breaker:     breaker,
		publisher:   publisher,
		badge:       badge,
		timeout:     timeout,
	}
}

// RefreshResult 刷新结果DTO
type RefreshResult struct {
	Created      int             `json:"created"`
	Updated      int             `json:"updated"`
	AutoResolved int             `json:"auto_resolved"`
	VisibleCount int             `json:"visible_count"`
	Warnings     []alert.Warning `json:"warnings,omitempty"`
	DurationMS   int64           `json:"duration_ms"`
}

// Execute 执行一轮告警刷新
// 流程:
//  1. 经熔断器+超时拉取全量商品事实
//  2. alert.Evaluate纯函数评估(上一轮库存快照提供趋势基线)
//  3. store.Reconcile对账:新建/更新/自动解除
//  4. 旁路动作:指标、事件、角标,全部尽力而为
//
// 任何一步失败都不会破坏已有告警集合:第1步失败直接返回
// 可恢复错误,调用方应继续展示上一轮(带stale标记)的数据。
func (uc *RefreshUseCase) Execute(ctx context.Context) (*RefreshResult, error) {
	ctx, span := tracing.StartSpan(ctx, "application.alert", "alert.refresh")
	defer span.End()

	start := time.Now()

	products, err := uc.fetchProducts(ctx)
	if err != nil {
		metrics.IncCounterVec(metrics.AlertRefreshTotal, map[string]string{"result": "failure"})
		return nil, err
	}

	// 评估与对账
	// 关键决策:prev快照必须在Reconcile之前取出,
	// Reconcile会用本轮库存覆盖快照。
	prev := uc.store.LastStocks()
	candidates, warnings := alert.Evaluate(products, prev)

	stocks := make(map[uint]int, len(products))
	for _, p := range products {
		stocks[p.ID] = p.CurrentStock
	}

	now := time.Now()
	result := uc.store.Reconcile(candidates, stocks, now)

	uc.recordMetrics(result, time.Since(start))
	uc.publishEvents(ctx, result)
	uc.updateBadge(ctx)

	return &RefreshResult{
		Created:      len(result.Created),
		Updated:      result.Updated,
		AutoResolved: len(result.AutoResolved),
		VisibleCount: uc.store.VisibleCount(),
		Warnings:     warnings,
		DurationMS:   time.Since(start).Milliseconds(),
	}, nil
}

// fetchProducts 经熔断器拉取商品事实
// 教学要点:超时用context.WithTimeout而非自己起goroutine计时,
// 超时信号会沿着ctx传递到GORM驱动层,真正取消底层查询。
func (uc *RefreshUseCase) fetchProducts(ctx context.Context) ([]*product.Product, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	var products []*product.Product
	var err error
	if uc.breaker != nil {
		err = uc.breaker.Execute(func() error {
			var listErr error
			products, listErr = uc.productRepo.List(fetchCtx)
			return listErr
		})
	} else {
		products, err = uc.productRepo.List(fetchCtx)
	}

	if err != nil {
		if errors.Is(err, circuitbreaker.ErrOpenState) {
			return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeProviderUnavailable, "数据源熔断中")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeProviderTimeout, "数据源拉取超时")
		}
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeProviderUnavailable, "数据源拉取失败")
	}
	return products, nil
}

func (uc *RefreshUseCase) recordMetrics(result alert.ReconcileResult, elapsed time.Duration) {
	metrics.IncCounterVec(metrics.AlertRefreshTotal, map[string]string{"result": "success"})
	metrics.ObserveHistogram(metrics.AlertRefreshDuration, elapsed.Seconds())
	for range result.Created {
		metrics.IncCounter(metrics.AlertsCreatedTotal)
	}
	for range result.AutoResolved {
		metrics.IncCounterVec(metrics.AlertsResolvedTotal, map[string]string{"mode": "auto"})
	}

	visible := uc.store.Visible()
	metrics.SetGauge(metrics.AlertsVisible, float64(len(visible)))
	byUrgency := map[alert.Urgency]int{
		alert.UrgencyCritical: 0,
		alert.UrgencyHigh:     0,
		alert.UrgencyMedium:   0,
		alert.UrgencyLow:      0,
	}
	for _, a := range visible {
		byUrgency[a.Urgency]++
	}
	for u, n := range byUrgency {
		metrics.SetGaugeVec(metrics.AlertsByUrgency, map[string]string{"urgency": string(u)}, float64(n))
	}
}

// publishEvents 发布告警事件
// 教学要点:事件发布是旁路(best-effort),失败只丢事件不丢告警。
// EventPublisher内部自行记录失败日志与指标。
func (uc *RefreshUseCase) publishEvents(ctx context.Context, result alert.ReconcileResult) {
	if uc.publisher == nil {
		return
	}
	for _, a := range result.Created {
		_ = uc.publisher.PublishCreated(ctx, a)
	}
	for _, id := range result.AutoResolved {
		_ = uc.publisher.PublishResolved(ctx, id, true)
	}
}

func (uc *RefreshUseCase) updateBadge(ctx context.Context) {
	if uc.badge == nil {
		return
	}
	// 角标是缓存镜像,写失败下一轮刷新会再写
	_ = uc.badge.Update(ctx, uc.store.VisibleCount(), uc.store.UnseenFlag())
}
