package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lubrimax/lubestock/internal/domain/product"
)

var baseTime = time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)

// testProduct 构造测试商品
func testProduct(id uint, name string, stock int, cost int64) *product.Product {
	return &product.Product{
		ID:           id,
		Name:         name,
		Category:     "机油",
		CurrentStock: stock,
		UnitCost:     cost,
		UnitPrice:    cost * 3 / 2,
	}
}

// sale 构造销售记录
func sale(productID uint, daysAgo int) *product.SaleRecord {
	return &product.SaleRecord{
		ProductID: productID,
		Quantity:  1,
		UnitPrice: 15000,
		SoldAt:    baseTime.AddDate(0, 0, -daysAgo),
	}
}

// TestDetectObsolete_Threshold 闲置天数达到阈值才纳入呆滞集合
func TestDetectObsolete_Threshold(t *testing.T) {
	products := []*product.Product{
		testProduct(1, "最近卖过", 10, 10000),
		testProduct(2, "刚好达标", 5, 10000),
		testProduct(3, "远超阈值", 8, 10000),
	}
	sales := []*product.SaleRecord{
		sale(1, 30),
		sale(2, 180),
		sale(3, 400),
	}

	entries, m := DetectObsolete(products, sales, baseTime, 180, 10)

	require.Len(t, entries, 2)
	// 按闲置天数降序
	assert.Equal(t, uint(3), entries[0].ProductID)
	assert.Equal(t, 400, entries[0].DaysSinceLastSale)
	assert.Equal(t, uint(2), entries[1].ProductID)
	assert.Equal(t, 180, entries[1].DaysSinceLastSale)

	assert.Equal(t, 2, m.Count)
	assert.InDelta(t, 290.0, m.AvgDays, 0.001)
	// 占用资金 = 5×10000 + 8×10000
	assert.Equal(t, int64(130000), m.Impact)
}

// TestDetectObsolete_NeverSoldSentinel 从未售出的商品按9999天哨兵值处理
func TestDetectObsolete_NeverSoldSentinel(t *testing.T) {
	products := []*product.Product{
		testProduct(1, "从未卖出过", 20, 5000),
		testProduct(2, "卖得很久远", 3, 10000),
	}
	sales := []*product.SaleRecord{
		sale(2, 500),
	}

	entries, m := DetectObsolete(products, sales, baseTime, 180, 10)

	require.Len(t, entries, 2)
	assert.Equal(t, uint(1), entries[0].ProductID, "从未售出的排在最前")
	assert.Equal(t, NeverSoldSentinelDays, entries[0].DaysSinceLastSale)
	assert.Equal(t, 500, entries[1].DaysSinceLastSale)

	assert.InDelta(t, float64(9999+500)/2, m.AvgDays, 0.001,
		"哨兵值参与均值计算，明显拉高平均闲置天数")
}

// TestDetectObsolete_TopNOnlyTruncatesDisplay topN只截断榜单，不影响汇总指标
func TestDetectObsolete_TopNOnlyTruncatesDisplay(t *testing.T) {
	products := make([]*product.Product, 0, 5)
	for i := uint(1); i <= 5; i++ {
		products = append(products, testProduct(i, "呆滞商品", 2, 10000))
	}
	// 全部从未售出
	entries, m := DetectObsolete(products, nil, baseTime, 180, 2)

	assert.Len(t, entries, 2, "榜单截断到topN")
	assert.Equal(t, 5, m.Count, "总数基于完整集合")
	assert.Equal(t, int64(5*2*10000), m.Impact, "资金占用基于完整集合")

	// 同天数并列时按商品ID升序
	assert.Equal(t, uint(1), entries[0].ProductID)
	assert.Equal(t, uint(2), entries[1].ProductID)
}

// TestDetectObsolete_Empty 没有呆滞商品时指标归零
func TestDetectObsolete_Empty(t *testing.T) {
	products := []*product.Product{testProduct(1, "畅销品", 10, 10000)}
	sales := []*product.SaleRecord{sale(1, 1)}

	entries, m := DetectObsolete(products, sales, baseTime, 180, 10)

	assert.Empty(t, entries)
	assert.Zero(t, m.Count)
	assert.Zero(t, m.AvgDays)
	assert.Zero(t, m.Impact)
}
