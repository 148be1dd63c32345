package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey context中事务DB的键类型（避免字符串键冲突）
type txKey struct{}

// withTx 将事务DB注入Context
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// txFrom 从Context提取事务DB，没有事务时返回nil
func txFrom(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}
