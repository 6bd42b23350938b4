package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type txContextKey struct{}

// TxManager runs a function inside a database transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// GormTxManager is a GORM implementation of TxManager. The transaction is
// carried in the context handed to fn; repositories pick it up through
// DBFromContext. Nested calls join the outer transaction.
type GormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new TxManager
func NewTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
func (m *GormTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("repository: transaction function is required")
	}

	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func txFromContext(ctx context.Context) (*gorm.DB, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx, ok
}

// DBFromContext returns the transaction stored in ctx, or fallback bound to ctx.
func DBFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
