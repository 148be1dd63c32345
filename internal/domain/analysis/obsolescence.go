// Package analysis 提供呆滞商品检测与商品分类计算
//
// 设计说明:
// 1. 本包全部是纯函数：输入商品/销售事实快照，输出即算即弃的
//    分析结果，不持有任何状态，也不触发任何副作用
// 2. 与告警存储不同，分析结果没有生命周期——每次调用都基于
//    当前事实全量重算
package analysis

import (
	"sort"
	"time"

	"github.com/lubrimax/lubestock/internal/domain/product"
)

const (
	// NeverSoldSentinelDays 从未售出商品的闲置天数哨兵值
	// 业务规则：没有任何销售记录的商品视为"最大程度闲置"，
	// 在呆滞榜单中排在最前面
	NeverSoldSentinelDays = 9999

	// DefaultIdleThresholdDays 默认呆滞判定阈值（天）
	DefaultIdleThresholdDays = 180

	// DefaultObsoleteTopN 榜单默认展示条数
	DefaultObsoleteTopN = 10
)

// ObsoleteEntry 呆滞商品条目（即算即弃，不持久化）
type ObsoleteEntry struct {
	ProductID         uint   `json:"product_id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	DaysSinceLastSale int    `json:"days_since_last_sale"`
	CurrentStock      int    `json:"current_stock"`
	StockValue        int64  `json:"stock_value"` // 占用资金 = 库存×成本（分）
}

// ObsolescenceMetrics 呆滞汇总指标
// 约束：基于完整呆滞集合计算，与榜单截断条数（topN）无关
type ObsolescenceMetrics struct {
	Count   int     `json:"count"`    // 呆滞商品总数
	AvgDays float64 `json:"avg_days"` // 平均闲置天数
	Impact  int64   `json:"impact"`   // 资金占用合计 = Σ 库存×成本（分）
}

// DetectObsolete 呆滞商品检测（纯函数）
//
// 算法：
//  1. 对每个商品取其销售记录中最大的成交时间作为最近售出时间；
//     没有任何记录的按哨兵值9999天处理
//  2. 闲置天数 = floor((now - 最近售出时间) / 1天)
//  3. 闲置天数 ≥ idleThresholdDays 即纳入呆滞集合
//  4. 榜单按闲置天数降序（同天数按商品ID升序）截断到topN，
//     汇总指标始终基于完整集合
//
// idleThresholdDays/topN 传0时使用默认值（180天/10条）
func DetectObsolete(products []*product.Product, sales []*product.SaleRecord, now time.Time, idleThresholdDays, topN int) ([]ObsoleteEntry, ObsolescenceMetrics) {
	if idleThresholdDays <= 0 {
		idleThresholdDays = DefaultIdleThresholdDays
	}
	if topN <= 0 {
		topN = DefaultObsoleteTopN
	}

	// 每个商品的最近售出时间
	lastSold := make(map[uint]time.Time, len(products))
	for _, r := range sales {
		if t, ok := lastSold[r.ProductID]; !ok || r.SoldAt.After(t) {
			lastSold[r.ProductID] = r.SoldAt
		}
	}

	full := make([]ObsoleteEntry, 0)
	var totalDays int64
	var impact int64

	for _, p := range products {
		days := NeverSoldSentinelDays
		if t, ok := lastSold[p.ID]; ok {
			days = int(now.Sub(t).Hours() / 24)
		}

		if days < idleThresholdDays {
			continue
		}

		full = append(full, ObsoleteEntry{
			ProductID:         p.ID,
			Name:              p.Name,
			Category:          p.Category,
			DaysSinceLastSale: days,
			CurrentStock:      p.CurrentStock,
			StockValue:        p.StockValue(),
		})
		totalDays += int64(days)
		impact += p.StockValue()
	}

	sort.Slice(full, func(i, j int) bool {
		if full[i].DaysSinceLastSale != full[j].DaysSinceLastSale {
			return full[i].DaysSinceLastSale > full[j].DaysSinceLastSale
		}
		return full[i].ProductID < full[j].ProductID
	})

	metrics := ObsolescenceMetrics{
		Count:  len(full),
		Impact: impact,
	}
	if len(full) > 0 {
		metrics.AvgDays = float64(totalDays) / float64(len(full))
	}

	// 榜单截断只影响展示，不影响汇总指标
	display := full
	if len(display) > topN {
		display = display[:topN]
	}

	return display, metrics
}
