package product

import (
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
)

// 商品领域错误定义
var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品不存在")

	// ErrInsufficientStock 库存不足（出库数量超过当前库存）
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrInvalidQuantity 无效的变动数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidQuantity, "变动数量不能为0")

	// ErrInvalidThreshold 阈值配置非法（MinStock未设置或大于MaxStock）
	ErrInvalidThreshold = apperrors.New(apperrors.ErrCodeInvalidThreshold, "库存阈值配置非法")
)
