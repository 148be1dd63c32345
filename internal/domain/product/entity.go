package product

import "time"

// Product 商品实体（库存事实）
// 设计说明:
// 1. 本服务对商品是只读的：商品主数据由门店管理端维护，这里只消费
//    当前库存、阈值、成本/售价等事实，用于告警评估与分类计算
// 2. 价格使用int64存储"分"为单位（避免浮点数精度问题）
// 3. 不变式：MinStock ≤ MaxStock，CurrentStock ≥ 0（由写入方保证，
//    读取方仍需防御非法阈值，见HasValidThreshold）
type Product struct {
	ID           uint
	Name         string // 商品名（如 "美孚1号 5W-30 4L"）
	Category     string // 分类（机油/滤芯/添加剂/配件...）
	UnitCost     int64  // 进货成本（分）
	UnitPrice    int64  // 销售单价（分）
	CurrentStock int    // 当前库存
	MinStock     int    // 最低库存阈值（低于即触发告警）
	MaxStock     int    // 最高库存阈值（补货上限）
	Supplier     string // 供应商
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasValidThreshold 判断阈值数据是否可用于告警评估
// 业务规则：MinStock未设置（0）或为负数的商品跳过评估，
// 以警告形式上报而不是产出告警
func (p *Product) HasValidThreshold() bool {
	return p.MinStock > 0 && p.MinStock <= p.MaxStock
}

// IsOutOfStock 是否缺货
func (p *Product) IsOutOfStock() bool {
	return p.CurrentStock <= 0
}

// IsBelowMin 是否低于最低库存阈值
func (p *Product) IsBelowMin() bool {
	return p.CurrentStock < p.MinStock
}

// MarginRatio 毛利率 = (售价 - 成本) / 售价
// 返回值：比率与是否有定义（售价为0时毛利率无定义，调用方跳过）
func (p *Product) MarginRatio() (float64, bool) {
	if p.UnitPrice == 0 {
		return 0, false
	}
	return float64(p.UnitPrice-p.UnitCost) / float64(p.UnitPrice), true
}

// StockValue 库存成本价值 = 当前库存 × 进货成本（分）
// 用于呆滞商品的资金占用估算
func (p *Product) StockValue() int64 {
	return int64(p.CurrentStock) * p.UnitCost
}

// SaleRecord 销售记录（销售事实，只读）
// 设计说明：由POS收银流程写入，本服务只用于推导最近售出时间、
// 滚动窗口销量与营收
type SaleRecord struct {
	ID        uint
	ProductID uint
	Quantity  int       // 售出数量
	UnitPrice int64     // 成交单价（分，可能与商品当前售价不同）
	SoldAt    time.Time // 成交时间
}

// Revenue 该笔销售的营收（分）
func (r *SaleRecord) Revenue() int64 {
	return int64(r.Quantity) * r.UnitPrice
}

// StockMovement 库存变动流水（审计日志）
// 设计说明：库存调整流程（入库/出库/盘点修正）的审计记录，
// 与库存更新在同一事务中落库，用于对账
type StockMovement struct {
	ID         uint
	ProductID  uint
	Delta      int    // 变动数量（正数入库，负数出库）
	After      int    // 变动后库存
	Reason     string // purchase | sale | adjustment | return
	OperatorID uint   // 操作员用户ID
	CreatedAt  time.Time
}
