package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lubrimax/lubestock/internal/domain/product"
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
)

// productRepository 库存事实仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/product/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 数据库特定错误转换为业务错误（如库存不足）
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建库存事实仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// getDB 优先使用context中的事务DB（参与TxManager的事务）
func (r *productRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// List 读取全量商品快照
// 告警刷新/呆滞检测/分类计算的统一入口；单条SELECT保证快照一致
func (r *productRepository) List(ctx context.Context) ([]*product.Product, error) {
	var models []ProductModel
	if err := r.getDB(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeProviderUnavailable, "读取商品快照失败")
	}

	products := make([]*product.Product, len(models))
	for i := range models {
		products[i] = toProductEntity(&models[i])
	}
	return products, nil
}

// FindByID 根据ID查找商品
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}

	return toProductEntity(&model), nil
}

// SaleHistory 读取销售记录
// since为零值时返回全量历史（呆滞检测需要完整的最近售出时间）
func (r *productRepository) SaleHistory(ctx context.Context, since time.Time) ([]*product.SaleRecord, error) {
	query := r.getDB(ctx).Model(&SaleRecordModel{})
	if !since.IsZero() {
		query = query.Where("sold_at >= ?", since)
	}

	var models []SaleRecordModel
	if err := query.Order("sold_at ASC").Find(&models).Error; err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeProviderUnavailable, "读取销售记录失败")
	}

	records := make([]*product.SaleRecord, len(models))
	for i, m := range models {
		records[i] = &product.SaleRecord{
			ID:        m.ID,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			UnitPrice: m.UnitPrice,
			SoldAt:    m.SoldAt,
		}
	}
	return records, nil
}

// UpdateStock 原子更新库存
// UPDATE products SET current_stock = current_stock + delta
// WHERE id = ? AND current_stock + delta >= 0 （防止库存为负）
func (r *productRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	if delta == 0 {
		return product.ErrInvalidQuantity
	}

	db := r.getDB(ctx)
	result := db.Model(&ProductModel{}).
		Where("id = ?", id).
		Where("current_stock + ? >= 0", delta).
		Update("current_stock", gorm.Expr("current_stock + ?", delta))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 可能是商品不存在，或者库存不足；再查一次确定原因
		var model ProductModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return product.ErrProductNotFound
			}
			return apperrors.Wrap(err, "查询商品失败")
		}
		return product.ErrInsufficientStock
	}

	return nil
}

// toProductEntity GORM模型 → 领域实体
func toProductEntity(m *ProductModel) *product.Product {
	return &product.Product{
		ID:           m.ID,
		Name:         m.Name,
		Category:     m.Category,
		UnitCost:     m.UnitCost,
		UnitPrice:    m.UnitPrice,
		CurrentStock: m.CurrentStock,
		MinStock:     m.MinStock,
		MaxStock:     m.MaxStock,
		Supplier:     m.Supplier,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
