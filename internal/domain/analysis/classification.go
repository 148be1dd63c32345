package analysis

import (
	"sort"
	"time"

	"github.com/lubrimax/lubestock/internal/domain/product"
)

// DefaultRotationWindowDays 周转率统计的默认滚动窗口（天）
const DefaultRotationWindowDays = 90

// ClassificationResult 商品分类结果（ABC式三档分层，即算即弃）
// 设计说明:
// 1. 周转分层按滚动窗口内售出数量排名切成三等份：
//    前1/3高周转，中1/3中周转，后1/3低周转（零销量必然落入低档）
// 2. 毛利分层按毛利率 (售价-成本)/售价 排名切三等份；
//    售价为0的商品毛利率无定义，跳过并记入Skipped
// 3. 确定性：排名并列时按商品ID升序决胜，相同输入必然产出
//    完全相同的分层
type ClassificationResult struct {
	HighRotation   []uint `json:"high_rotation"`
	MediumRotation []uint `json:"medium_rotation"`
	LowRotation    []uint `json:"low_rotation"`

	HighProfitMargin   []uint `json:"high_profit_margin"`
	MediumProfitMargin []uint `json:"medium_profit_margin"`
	LowProfitMargin    []uint `json:"low_profit_margin"`

	// Skipped 毛利率无定义（售价为0）被跳过的商品ID
	Skipped []uint `json:"skipped,omitempty"`
}

// Classify 周转/毛利分类器（纯函数）
//
// 输入：
//   - products: 商品快照（成本/售价）
//   - sales: 销售记录（只统计windowStart之后的成交）
//   - windowStart: 滚动窗口起点（如 now-90天）
//
// 保证：每个商品恰好出现在一个周转档；每个毛利率有定义的商品
// 恰好出现在一个毛利档（分层完备且互斥）
func Classify(products []*product.Product, sales []*product.SaleRecord, windowStart time.Time) ClassificationResult {
	var result ClassificationResult

	// 窗口内各商品售出数量
	soldQty := make(map[uint]int, len(products))
	for _, r := range sales {
		if r.SoldAt.Before(windowStart) {
			continue
		}
		soldQty[r.ProductID] += r.Quantity
	}

	// ---- 周转分层 ----
	byRotation := make([]*product.Product, len(products))
	copy(byRotation, products)
	sort.Slice(byRotation, func(i, j int) bool {
		qi, qj := soldQty[byRotation[i].ID], soldQty[byRotation[j].ID]
		if qi != qj {
			return qi > qj
		}
		return byRotation[i].ID < byRotation[j].ID
	})
	result.HighRotation, result.MediumRotation, result.LowRotation = splitThirds(byRotation)

	// ---- 毛利分层 ----
	eligible := make([]*product.Product, 0, len(products))
	for _, p := range products {
		if _, ok := p.MarginRatio(); !ok {
			result.Skipped = append(result.Skipped, p.ID)
			continue
		}
		eligible = append(eligible, p)
	}
	sort.Slice(eligible, func(i, j int) bool {
		ri, _ := eligible[i].MarginRatio()
		rj, _ := eligible[j].MarginRatio()
		if ri != rj {
			return ri > rj
		}
		return eligible[i].ID < eligible[j].ID
	})
	result.HighProfitMargin, result.MediumProfitMargin, result.LowProfitMargin = splitThirds(eligible)

	sort.Slice(result.Skipped, func(i, j int) bool { return result.Skipped[i] < result.Skipped[j] })

	return result
}

// splitThirds 把已排序的商品切成三等份（余数归入低档）
// 边界规则：高档取前n/3，中档取n/3..2n/3，其余归低档
func splitThirds(sorted []*product.Product) (high, medium, low []uint) {
	n := len(sorted)
	high = make([]uint, 0)
	medium = make([]uint, 0)
	low = make([]uint, 0)

	highEnd := n / 3
	mediumEnd := 2 * n / 3

	for i, p := range sorted {
		switch {
		case i < highEnd:
			high = append(high, p.ID)
		case i < mediumEnd:
			medium = append(medium, p.ID)
		default:
			low = append(low, p.ID)
		}
	}
	return high, medium, low
}
