package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/lubrimax/lubestock/internal/domain/product"
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
)

// movementRepository 库存变动流水仓储实现(MySQL)
type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository 创建流水仓储
func NewMovementRepository(db *gorm.DB) product.MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Append 追加一条流水
// 约定：与UpdateStock在同一事务中调用（TxManager注入事务DB）
func (r *movementRepository) Append(ctx context.Context, mv *product.StockMovement) error {
	model := &StockMovementModel{
		ProductID:  mv.ProductID,
		Delta:      mv.Delta,
		After:      mv.After,
		Reason:     mv.Reason,
		OperatorID: mv.OperatorID,
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入库存流水失败")
	}

	mv.ID = model.ID
	mv.CreatedAt = model.CreatedAt
	return nil
}

// ListByProduct 查询某商品的变动历史（最新在前）
func (r *movementRepository) ListByProduct(ctx context.Context, productID uint, limit int) ([]*product.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}

	var models []StockMovementModel
	err := r.getDB(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询库存流水失败")
	}

	movements := make([]*product.StockMovement, len(models))
	for i, m := range models {
		movements[i] = &product.StockMovement{
			ID:         m.ID,
			ProductID:  m.ProductID,
			Delta:      m.Delta,
			After:      m.After,
			Reason:     m.Reason,
			OperatorID: m.OperatorID,
			CreatedAt:  m.CreatedAt,
		}
	}
	return movements, nil
}
