package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lubrimax/lubestock/internal/domain/product"
)

// newProduct 构造测试商品（阈值合法）
func newProduct(id uint, name string, stock, min int) *product.Product {
	return &product.Product{
		ID:           id,
		Name:         name,
		Category:     "机油",
		CurrentStock: stock,
		MinStock:     min,
		MaxStock:     min * 10,
		UnitCost:     10000,
		UnitPrice:    15000,
	}
}

// TestEvaluate_Urgency 测试紧急度判定规则
func TestEvaluate_Urgency(t *testing.T) {
	tests := []struct {
		name    string
		stock   int
		min     int
		urgency Urgency
	}{
		{"缺货为critical", 0, 10, UrgencyCritical},
		{"不超过阈值四分之一为high", 2, 10, UrgencyHigh},
		{"恰好四分之一为high", 5, 20, UrgencyHigh},
		{"不超过阈值一半为medium", 4, 10, UrgencyMedium},
		{"恰好一半为medium", 10, 20, UrgencyMedium},
		{"超过一半但低于阈值为low", 7, 10, UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, warnings := Evaluate(
				[]*product.Product{newProduct(1, "测试机油", tt.stock, tt.min)}, nil)

			require.Len(t, candidates, 1)
			assert.Empty(t, warnings)
			assert.Equal(t, tt.urgency, candidates[0].Urgency)
		})
	}
}

// TestEvaluate_NoCandidateAtOrAboveMin 库存达标不产出候选
func TestEvaluate_NoCandidateAtOrAboveMin(t *testing.T) {
	candidates, warnings := Evaluate([]*product.Product{
		newProduct(1, "恰好等于阈值", 10, 10),
		newProduct(2, "高于阈值", 50, 10),
	}, nil)

	assert.Empty(t, candidates, "库存等于或高于阈值不应产出告警候选")
	assert.Empty(t, warnings)
}

// TestEvaluate_Trend 测试趋势判定
func TestEvaluate_Trend(t *testing.T) {
	products := []*product.Product{
		newProduct(1, "下降中", 3, 10),
		newProduct(2, "回升中", 4, 10),
		newProduct(3, "持平", 5, 20),
		newProduct(4, "首次出现", 2, 10),
	}
	prev := map[uint]int{
		1: 5, // 5 → 3 恶化
		2: 2, // 2 → 4 好转
		3: 5, // 5 → 5 持平
		// 4无快照 → stable
	}

	candidates, _ := Evaluate(products, prev)
	require.Len(t, candidates, 4)

	trends := make(map[uint]Trend)
	for _, c := range candidates {
		trends[c.ProductID] = c.Trend
	}

	assert.Equal(t, TrendWorsening, trends[1])
	assert.Equal(t, TrendImproving, trends[2])
	assert.Equal(t, TrendStable, trends[3])
	assert.Equal(t, TrendStable, trends[4], "没有历史快照时趋势视为stable")
}

// TestEvaluate_InvalidThreshold 阈值非法的商品跳过并上报警告
func TestEvaluate_InvalidThreshold(t *testing.T) {
	noThreshold := newProduct(1, "未设置阈值", 0, 0)
	badRange := newProduct(2, "阈值倒挂", 1, 30)
	badRange.MaxStock = 10 // min > max 非法
	normal := newProduct(3, "正常商品", 2, 10)

	candidates, warnings := Evaluate([]*product.Product{noThreshold, badRange, normal}, nil)

	require.Len(t, candidates, 1, "只有阈值合法的商品产出候选")
	assert.Equal(t, uint(3), candidates[0].ProductID)

	require.Len(t, warnings, 2)
	warnedIDs := []uint{warnings[0].ProductID, warnings[1].ProductID}
	assert.ElementsMatch(t, []uint{1, 2}, warnedIDs)
	assert.NotEmpty(t, warnings[0].Reason)
}

// TestEvaluate_Ordering 测试候选排序的确定性
// 规则:紧急度降序 → 缺口比例降序 → 绝对库存升序 → 商品ID升序
func TestEvaluate_Ordering(t *testing.T) {
	products := []*product.Product{
		newProduct(5, "low档", 7, 10),          // low
		newProduct(3, "critical档", 0, 10),     // critical
		newProduct(8, "high档缺口小", 2, 10),      // high, deficit=0.8
		newProduct(2, "high档缺口大", 2, 20),      // high, deficit=0.9
		newProduct(9, "medium档", 4, 10),       // medium
		newProduct(7, "critical档同缺口", 0, 10),  // critical, 与3并列→ID决胜
	}

	candidates, _ := Evaluate(products, nil)
	require.Len(t, candidates, 6)

	gotIDs := make([]uint, len(candidates))
	for i, c := range candidates {
		gotIDs[i] = c.ProductID
	}

	// critical(3,7按ID) → high(2缺口0.9, 8缺口0.8) → medium(9) → low(5)
	assert.Equal(t, []uint{3, 7, 2, 8, 9, 5}, gotIDs)

	// 相同输入必然产出相同排序
	again, _ := Evaluate(products, nil)
	assert.Equal(t, candidates, again)
}
