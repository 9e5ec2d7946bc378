package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// conn returns the transaction bound to ctx by RunInTx, or base, scoped to ctx.
func conn(ctx context.Context, base *gorm.DB) *gorm.DB {
	db := base
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		db = tx
	}
	return db.WithContext(ctx)
}
