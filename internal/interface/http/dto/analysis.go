package dto

import (
	"github.com/lubrimax/lubestock/internal/domain/analysis"
)

// ObsoleteEntryItem HTTP呆滞商品条目
type ObsoleteEntryItem struct {
	ProductID         uint   `json:"product_id" example:"17"`
	Name              string `json:"name" example:"嘉实多磁护 0W-40 1L"`
	Category          string `json:"category" example:"机油"`
	DaysSinceLastSale int    `json:"days_since_last_sale" example:"245"` // 从未售出为9999
	CurrentStock      int    `json:"current_stock" example:"36"`
	StockValue        int64  `json:"stock_value" example:"216000"`       // 占用资金(分)
	StockValueYuan    string `json:"stock_value_yuan" example:"2160.00"` // 占用资金(元)
}

// ObsoleteReportResponse HTTP呆滞检测报告
// metrics基于完整呆滞集合计算,entries只是展示截断
type ObsoleteReportResponse struct {
	ThresholdDays int                 `json:"threshold_days" example:"180"`
	Entries       []ObsoleteEntryItem `json:"entries"`
	Count         int                 `json:"count" example:"23"`
	AvgDays       float64             `json:"avg_days" example:"312.5"`
	Impact        int64               `json:"impact" example:"1859000"`      // 分
	ImpactYuan    string              `json:"impact_yuan" example:"18590.00"` // 元
}

// ClassificationResponse HTTP分类报告
type ClassificationResponse struct {
	WindowDays int `json:"window_days" example:"90"`

	HighRotation   []uint `json:"high_rotation"`
	MediumRotation []uint `json:"medium_rotation"`
	LowRotation    []uint `json:"low_rotation"`

	HighProfitMargin   []uint `json:"high_profit_margin"`
	MediumProfitMargin []uint `json:"medium_profit_margin"`
	LowProfitMargin    []uint `json:"low_profit_margin"`

	Skipped []uint `json:"skipped,omitempty"`
}

// NewObsoleteReport 用例报告→HTTP响应
func NewObsoleteReport(thresholdDays int, entries []analysis.ObsoleteEntry, m analysis.ObsolescenceMetrics) ObsoleteReportResponse {
	items := make([]ObsoleteEntryItem, len(entries))
	for i, e := range entries {
		items[i] = ObsoleteEntryItem{
			ProductID:         e.ProductID,
			Name:              e.Name,
			Category:          e.Category,
			DaysSinceLastSale: e.DaysSinceLastSale,
			CurrentStock:      e.CurrentStock,
			StockValue:        e.StockValue,
			StockValueYuan:    FormatPriceYuan(e.StockValue),
		}
	}
	return ObsoleteReportResponse{
		ThresholdDays: thresholdDays,
		Entries:       items,
		Count:         m.Count,
		AvgDays:       m.AvgDays,
		Impact:        m.Impact,
		ImpactYuan:    FormatPriceYuan(m.Impact),
	}
}

// NewClassificationReport 用例报告→HTTP响应
func NewClassificationReport(windowDays int, r analysis.ClassificationResult) ClassificationResponse {
	return ClassificationResponse{
		WindowDays:         windowDays,
		HighRotation:       r.HighRotation,
		MediumRotation:     r.MediumRotation,
		LowRotation:        r.LowRotation,
		HighProfitMargin:   r.HighProfitMargin,
		MediumProfitMargin: r.MediumProfitMargin,
		LowProfitMargin:    r.LowProfitMargin,
		Skipped:            r.Skipped,
	}
}
