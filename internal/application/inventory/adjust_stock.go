package inventory

import (
	"context"

	"github.com/lubrimax/lubestock/internal/domain/product"
	"github.com/lubrimax/lubestock/internal/infrastructure/persistence/mysql"
)

// AdjustStockUseCase 库存调整用例
// 教学要点:库存变更与流水记录必须在同一事务中落库。
// 只改库存不记流水,月底盘点就对不上账;只记流水不改库存,
// 告警引擎看到的就是假库存。
type AdjustStockUseCase struct {
	productRepo  product.Repository
	movementRepo product.MovementRepository
	txManager    *mysql.TxManager
}

// NewAdjustStockUseCase 创建库存调整用例
func NewAdjustStockUseCase(
	productRepo product.Repository,
	movementRepo product.MovementRepository,
	txManager *mysql.TxManager,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		txManager:    txManager,
	}
}

// AdjustStockRequest 库存调整请求DTO
type AdjustStockRequest struct {
	ProductID  uint   // 商品ID
	Delta      int    // 变动数量(正数入库,负数出库)
	Reason     string // purchase | sale | adjustment | return
	OperatorID uint   // 操作员ID(从JWT中提取)
}

// AdjustStockResponse 库存调整响应DTO
type AdjustStockResponse struct {
	ProductID    uint   `json:"product_id"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
	BelowMin     bool   `json:"below_min"`
}

// Execute 执行库存调整
// 流程(单事务):
//  1. 原子UPDATE扣减/增加库存(带current_stock + delta >= 0守卫,防超扣)
//  2. 回查变动后库存
//  3. 追加流水
//
// 响应携带BelowMin提示,调用方据此决定是否立即触发一轮告警刷新。
func (uc *AdjustStockUseCase) Execute(ctx context.Context, req AdjustStockRequest) (*AdjustStockResponse, error) {
	if req.Delta == 0 {
		return nil, product.ErrInvalidQuantity
	}

	var resp *AdjustStockResponse
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.productRepo.UpdateStock(txCtx, req.ProductID, req.Delta); err != nil {
			return err
		}

		p, err := uc.productRepo.FindByID(txCtx, req.ProductID)
		if err != nil {
			return err
		}

		mv := &product.StockMovement{
			ProductID:  req.ProductID,
			Delta:      req.Delta,
			After:      p.CurrentStock,
			Reason:     req.Reason,
			OperatorID: req.OperatorID,
		}
		if err := uc.movementRepo.Append(txCtx, mv); err != nil {
			return err
		}

		resp = &AdjustStockResponse{
			ProductID:    p.ID,
			Name:         p.Name,
			CurrentStock: p.CurrentStock,
			MinStock:     p.MinStock,
			BelowMin:     p.IsBelowMin(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Movements 查询商品的库存变动历史
func (uc *AdjustStockUseCase) Movements(ctx context.Context, productID uint, limit int) ([]*product.StockMovement, error) {
	if _, err := uc.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return uc.movementRepo.ListByProduct(ctx, productID, limit)
}
