package alert

import "time"

// Urgency 告警紧急度（枚举）
// 语义：缺货 > 重度不足 > 中度不足 > 轻度不足
type Urgency string

const (
	UrgencyCritical Urgency = "critical" // 缺货（库存为0）
	UrgencyHigh     Urgency = "high"     // 库存 ≤ 0.25×最低阈值
	UrgencyMedium   Urgency = "medium"   // 库存 ≤ 0.5×最低阈值
	UrgencyLow      Urgency = "low"      // 库存 < 最低阈值
)

// Rank 紧急度序数（越大越紧急），用于排序
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 4
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	}
	return 0
}

// Trend 库存变化趋势（相邻两次评估之间）
type Trend string

const (
	TrendWorsening Trend = "worsening" // 比上次评估更低
	TrendStable    Trend = "stable"    // 持平，或没有上次快照
	TrendImproving Trend = "improving" // 比上次评估更高
)

// Status 告警生命周期状态
// 与紧急度/趋势相互独立：new → viewed 由店员查看触发，
// → resolved 由店员手动处理或库存恢复自动触发
type Status string

const (
	StatusNew      Status = "new"
	StatusViewed   Status = "viewed"
	StatusResolved Status = "resolved"
)

// StockAlert 库存告警实体（聚合根）
// 设计说明:
// 1. ID直接取ProductID：每个商品同时最多存在一条在档告警
// 2. 商品快照字段（名称/分类/供应商/单价）在创建时冗余一份，
//    告警列表展示不再回查商品表
// 3. resolved状态的告警对消费方不可见，但在库存恢复前仍留在
//    告警表中，防止后续评估把同一次缺货重新拉起（防复活）
type StockAlert struct {
	ID           uint // 告警ID（= ProductID，稳定）
	ProductID    uint
	ProductName  string
	Category     string
	Supplier     string
	CurrentStock int
	MinStock     int
	UnitPrice    int64 // 分
	Urgency      Urgency
	Trend        Trend
	Status       Status

	FirstSeenAt     time.Time // 首次触发时间
	LastEvaluatedAt time.Time // 最近一次评估时间
}

// DeficitRatio 缺口比例 = 1 - 当前库存/最低阈值
// 用于同紧急度告警之间的排序（缺口越大越靠前）
func (a *StockAlert) DeficitRatio() float64 {
	if a.MinStock <= 0 {
		return 0
	}
	return 1 - float64(a.CurrentStock)/float64(a.MinStock)
}

// IsVisible resolved状态的告警对消费方不可见
func (a *StockAlert) IsVisible() bool {
	return a.Status != StatusResolved
}

// markViewed new → viewed（幂等：viewed/resolved下无操作）
func (a *StockAlert) markViewed() {
	if a.Status == StatusNew {
		a.Status = StatusViewed
	}
}

// resolve 任意非resolved状态 → resolved（幂等）
func (a *StockAlert) resolve() {
	a.Status = StatusResolved
}

// applyCandidate 用最新评估结果原地更新告警
// 约束：只更新紧急度/趋势/库存快照，生命周期状态保持不变
func (a *StockAlert) applyCandidate(c Candidate, evaluatedAt time.Time) {
	a.CurrentStock = c.CurrentStock
	a.Urgency = c.Urgency
	a.Trend = c.Trend
	a.LastEvaluatedAt = evaluatedAt
}
