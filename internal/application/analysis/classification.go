package analysis

import (
	"context"
	"time"

	"github.com/lubrimax/lubestock/internal/domain/analysis"
	"github.com/lubrimax/lubestock/internal/domain/product"
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
	"github.com/lubrimax/lubestock/pkg/tracing"
)

// ClassificationUseCase 周转率/毛利率分层用例
// 分层算法在domain/analysis中是确定性纯函数,
// 同样的输入永远给出同样的分层,方便门店间横向对比。
type ClassificationUseCase struct {
	productRepo        product.Repository
	rotationWindowDays int
}

// NewClassificationUseCase 创建用例
func NewClassificationUseCase(productRepo product.Repository, rotationWindowDays int) *ClassificationUseCase {
	if rotationWindowDays <= 0 {
		rotationWindowDays = analysis.DefaultRotationWindowDays
	}
	return &ClassificationUseCase{
		productRepo:        productRepo,
		rotationWindowDays: rotationWindowDays,
	}
}

// ClassificationReport 分层报告DTO
type ClassificationReport struct {
	WindowDays int                           `json:"window_days"`
	Result     analysis.ClassificationResult `json:"result"`
}

// Execute 执行分层
func (uc *ClassificationUseCase) Execute(ctx context.Context) (*ClassificationReport, error) {
	ctx, span := tracing.StartSpan(ctx, "application.analysis", "analysis.classify")
	defer span.End()

	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeProviderUnavailable, "数据源拉取失败")
	}

	windowStart := time.Now().AddDate(0, 0, -uc.rotationWindowDays)
	sales, err := uc.productRepo.SaleHistory(ctx, windowStart)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeProviderUnavailable, "销售记录拉取失败")
	}

	result := analysis.Classify(products, sales, windowStart)
	return &ClassificationReport{
		WindowDays: uc.rotationWindowDays,
		Result:     result,
	}, nil
}
