package database

import (
	"context"
	"errors"

	"github.com/rpupo63/blog-service/errs"
	"gorm.io/gorm"
)

type txKey struct{}

func contextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok
}

// conn returns the transaction carried by ctx, or db bound to ctx
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db.WithContext(ctx)
}

func isApiErr(err error) bool {
	var apiErr *errs.ApiErr
	return errors.As(err, &apiErr)
}
