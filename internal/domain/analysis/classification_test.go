package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lubrimax/lubestock/internal/domain/product"
)

// marginProduct 构造指定成本/售价的测试商品
func marginProduct(id uint, cost, price int64) *product.Product {
	return &product.Product{
		ID:        id,
		Name:      "分层测试",
		UnitCost:  cost,
		UnitPrice: price,
	}
}

// windowSale 窗口内销售记录
func windowSale(productID uint, qty int, daysAgo int) *product.SaleRecord {
	return &product.SaleRecord{
		ProductID: productID,
		Quantity:  qty,
		SoldAt:    baseTime.AddDate(0, 0, -daysAgo),
	}
}

// TestClassify_Rotation 周转分层按窗口内销量切三档
func TestClassify_Rotation(t *testing.T) {
	products := []*product.Product{
		marginProduct(1, 100, 200),
		marginProduct(2, 100, 200),
		marginProduct(3, 100, 200),
		marginProduct(4, 100, 200),
		marginProduct(5, 100, 200),
		marginProduct(6, 100, 200),
	}
	windowStart := baseTime.AddDate(0, 0, -90)
	sales := []*product.SaleRecord{
		windowSale(1, 50, 10),
		windowSale(2, 40, 10),
		windowSale(3, 30, 10),
		windowSale(4, 20, 10),
		windowSale(5, 10, 10),
		// 6 零销量
		windowSale(6, 99, 120), // 窗口外，不计
	}

	result := Classify(products, sales, windowStart)

	assert.Equal(t, []uint{1, 2}, result.HighRotation)
	assert.Equal(t, []uint{3, 4}, result.MediumRotation)
	assert.Equal(t, []uint{5, 6}, result.LowRotation, "零销量必然落入低周转档")
}

// TestClassify_ProfitMargin 毛利分层与零售价跳过
func TestClassify_ProfitMargin(t *testing.T) {
	products := []*product.Product{
		marginProduct(1, 100, 1000), // 毛利率0.9
		marginProduct(2, 500, 1000), // 0.5
		marginProduct(3, 900, 1000), // 0.1
		marginProduct(4, 100, 0),    // 售价为0，毛利率无定义
	}

	result := Classify(products, nil, baseTime.AddDate(0, 0, -90))

	assert.Equal(t, []uint{1}, result.HighProfitMargin)
	assert.Equal(t, []uint{2}, result.MediumProfitMargin)
	assert.Equal(t, []uint{3}, result.LowProfitMargin)
	assert.Equal(t, []uint{4}, result.Skipped, "售价为0的商品跳过并记录")
}

// TestClassify_ExhaustiveAndDisjoint 分层完备且互斥
func TestClassify_ExhaustiveAndDisjoint(t *testing.T) {
	products := make([]*product.Product, 0, 7)
	for i := uint(1); i <= 7; i++ {
		products = append(products, marginProduct(i, int64(i)*100, 1000))
	}

	result := Classify(products, nil, baseTime.AddDate(0, 0, -90))

	collect := func(groups ...[]uint) map[uint]int {
		seen := make(map[uint]int)
		for _, g := range groups {
			for _, id := range g {
				seen[id]++
			}
		}
		return seen
	}

	// 周转档：每个商品恰好出现一次
	rotation := collect(result.HighRotation, result.MediumRotation, result.LowRotation)
	require.Len(t, rotation, 7)
	for id, n := range rotation {
		assert.Equal(t, 1, n, "商品%d应恰好出现在一个周转档", id)
	}

	// 毛利档：有定义的商品恰好出现一次
	margin := collect(result.HighProfitMargin, result.MediumProfitMargin, result.LowProfitMargin)
	require.Len(t, margin, 7)
	for id, n := range margin {
		assert.Equal(t, 1, n, "商品%d应恰好出现在一个毛利档", id)
	}

	// 余数归低档：7个商品 → 高2中2低3
	assert.Len(t, result.HighRotation, 2)
	assert.Len(t, result.MediumRotation, 2)
	assert.Len(t, result.LowRotation, 3)
}

// TestClassify_Deterministic 并列时按商品ID决胜，结果可复现
func TestClassify_Deterministic(t *testing.T) {
	products := []*product.Product{
		marginProduct(3, 100, 200),
		marginProduct(1, 100, 200),
		marginProduct(2, 100, 200),
	}

	first := Classify(products, nil, time.Time{})
	second := Classify(products, nil, time.Time{})

	assert.Equal(t, first, second)
	// 全部并列(零销量、相同毛利率) → 按ID升序切档
	assert.Equal(t, []uint{1}, first.HighRotation)
	assert.Equal(t, []uint{2}, first.MediumRotation)
	assert.Equal(t, []uint{3}, first.LowRotation)
}
