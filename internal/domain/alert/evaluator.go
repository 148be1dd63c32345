package alert

import (
	"sort"

	"github.com/lubrimax/lubestock/internal/domain/product"
)

// Candidate 告警候选（评估器的输出，无生命周期）
// 设计说明：评估器是纯函数，只产出候选集，由Store负责与
// 在档告警做对账（创建/更新/自动处理）
type Candidate struct {
	ProductID    uint
	ProductName  string
	Category     string
	Supplier     string
	CurrentStock int
	MinStock     int
	UnitPrice    int64
	Urgency      Urgency
	Trend        Trend
}

// deficitRatio 缺口比例（排序用）
func (c Candidate) deficitRatio() float64 {
	if c.MinStock <= 0 {
		return 0
	}
	return 1 - float64(c.CurrentStock)/float64(c.MinStock)
}

// Warning 评估过程中跳过商品的非致命警告
// 阈值缺失/非法的商品不产出告警，以警告形式上报给调用方
type Warning struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
}

// Evaluate 库存评估器（纯函数）
//
// 输入：
//   - products: 当前商品快照（含库存与阈值）
//   - prevStocks: 上一次评估各商品的库存（趋势计算用），nil表示首次评估
//
// 输出：
//   - 告警候选列表，每个低于阈值（或缺货）的商品一条
//   - 被跳过商品的警告列表
//
// 候选排序（确定性）：紧急度降序 → 缺口比例降序 → 绝对库存升序 → 商品ID升序
//
// 紧急度规则：
//   - critical: 库存 = 0
//   - high:     0 < 库存 ≤ 0.25×最低阈值
//   - medium:   0.25× < 库存 ≤ 0.5×最低阈值
//   - low:      0.5× < 库存 < 最低阈值
func Evaluate(products []*product.Product, prevStocks map[uint]int) ([]Candidate, []Warning) {
	candidates := make([]Candidate, 0)
	warnings := make([]Warning, 0)

	for _, p := range products {
		// 阈值数据缺失/非法：跳过并上报警告，绝不产出告警
		if !p.HasValidThreshold() {
			warnings = append(warnings, Warning{
				ProductID: p.ID,
				Name:      p.Name,
				Reason:    "库存阈值未设置或配置非法",
			})
			continue
		}

		// 库存达标：不产出候选
		if p.CurrentStock >= p.MinStock {
			continue
		}

		candidates = append(candidates, Candidate{
			ProductID:    p.ID,
			ProductName:  p.Name,
			Category:     p.Category,
			Supplier:     p.Supplier,
			CurrentStock: p.CurrentStock,
			MinStock:     p.MinStock,
			UnitPrice:    p.UnitPrice,
			Urgency:      urgencyOf(p.CurrentStock, p.MinStock),
			Trend:        trendOf(p.ID, p.CurrentStock, prevStocks),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Urgency.Rank() != b.Urgency.Rank() {
			return a.Urgency.Rank() > b.Urgency.Rank()
		}
		if a.deficitRatio() != b.deficitRatio() {
			return a.deficitRatio() > b.deficitRatio()
		}
		if a.CurrentStock != b.CurrentStock {
			return a.CurrentStock < b.CurrentStock
		}
		return a.ProductID < b.ProductID
	})

	return candidates, warnings
}

// urgencyOf 紧急度判定
// 前置条件：stock < min 且 min > 0
func urgencyOf(stock, min int) Urgency {
	switch {
	case stock == 0:
		return UrgencyCritical
	case float64(stock) <= 0.25*float64(min):
		return UrgencyHigh
	case float64(stock) <= 0.5*float64(min):
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// trendOf 趋势判定：与上一次评估的库存比较
// 没有上次快照时视为stable
func trendOf(productID uint, stock int, prevStocks map[uint]int) Trend {
	prev, ok := prevStocks[productID]
	if !ok {
		return TrendStable
	}
	switch {
	case stock < prev:
		return TrendWorsening
	case stock > prev:
		return TrendImproving
	default:
		return TrendStable
	}
}
