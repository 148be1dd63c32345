package product

import (
	"context"
	"time"
)

// Repository 库存事实仓储接口（依赖倒置原则）
// 设计说明:
// 1. 由domain层定义接口，infrastructure层实现（MySQL）
// 2. 告警评估、呆滞检测、分类计算都只通过此接口读取事实，
//    便于Mock测试，不依赖具体数据库实现
type Repository interface {
	// List 读取全量商品（含当前库存与阈值）
	// 告警刷新、呆滞检测、分类计算的统一入口，单次调用返回
	// 一个一致的商品快照
	List(ctx context.Context) ([]*Product, error)

	// FindByID 根据ID查找商品
	FindByID(ctx context.Context, id uint) (*Product, error)

	// SaleHistory 读取销售记录
	// since为零值时返回全量历史（呆滞检测需要完整的最近售出时间）
	SaleHistory(ctx context.Context, since time.Time) ([]*SaleRecord, error)

	// UpdateStock 原子更新库存（delta为正表示入库，负表示出库）
	// 库存不足时返回ErrInsufficientStock，商品不存在返回ErrProductNotFound
	UpdateStock(ctx context.Context, id uint, delta int) error
}

// MovementRepository 库存变动流水仓储
type MovementRepository interface {
	// Append 追加一条流水（与UpdateStock在同一事务中调用）
	Append(ctx context.Context, mv *StockMovement) error

	// ListByProduct 查询某商品的变动历史（审计/对账用）
	ListByProduct(ctx context.Context, productID uint, limit int) ([]*StockMovement, error)
}
