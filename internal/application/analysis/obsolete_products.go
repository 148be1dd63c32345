package analysis

import (
	"context"
	"time"

	"github.com/lubrimax/lubestock/internal/domain/analysis"
	"github.com/lubrimax/lubestock/internal/domain/product"
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
	"github.com/lubrimax/lubestock/pkg/metrics"
	"github.com/lubrimax/lubestock/pkg/tracing"
)

// ObsoleteProductsUseCase 呆滞商品检测用例
// 设计说明:检测本身是纯函数(domain/analysis),用例层只负责
// 取数、打点和裁决默认值。topN只影响榜单展示条数,
// 汇总指标(总数/均龄/资金占用)永远基于全量呆滞集合计算。
type ObsoleteProductsUseCase struct {
	productRepo       product.Repository
	idleThresholdDays int
}

// NewObsoleteProductsUseCase 创建用例
func NewObsoleteProductsUseCase(productRepo product.Repository, idleThresholdDays int) *ObsoleteProductsUseCase {
	if idleThresholdDays <= 0 {
		idleThresholdDays = analysis.DefaultIdleThresholdDays
	}
	return &ObsoleteProductsUseCase{
		productRepo:       productRepo,
		idleThresholdDays: idleThresholdDays,
	}
}

// ObsoleteReport 呆滞检测报告DTO
type ObsoleteReport struct {
	ThresholdDays int                          `json:"threshold_days"`
	Entries       []analysis.ObsoleteEntry     `json:"entries"`
	Metrics       analysis.ObsolescenceMetrics `json:"metrics"`
}

// Execute 执行检测
// topN<=0时使用默认榜单长度
func (uc *ObsoleteProductsUseCase) Execute(ctx context.Context, topN int) (*ObsoleteReport, error) {
	ctx, span := tracing.StartSpan(ctx, "application.analysis", "analysis.obsolete")
	defer span.End()

	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeProviderUnavailable, "数据源拉取失败")
	}

	// 呆滞判定需要完整销售史:零时间起点表示不做窗口裁剪
	sales, err := uc.productRepo.SaleHistory(ctx, time.Time{})
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeProviderUnavailable, "销售记录拉取失败")
	}

	entries, m := analysis.DetectObsolete(products, sales, time.Now(), uc.idleThresholdDays, topN)
	metrics.SetGauge(metrics.ObsoleteProducts, float64(m.Count))

	return &ObsoleteReport{
		ThresholdDays: uc.idleThresholdDays,
		Entries:       entries,
		Metrics:       m,
	}, nil
}
