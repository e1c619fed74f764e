// Package services implements the transaction pipeline: name resolution,
// denormalized expansion, metrics reads and entity lifecycle operations.
package services

import (
	"context"

	"tracker/internal/core"
)

// Store is the entity store the services operate against. Implementations
// must map "no such row" to core.ErrNotFound and uniqueness violations to
// core.ErrConflict; any other error propagates opaquely.
//
// Transaction listings are returned ordered ascending by date, then id.
type Store interface {
	CreateCategory(ctx context.Context, name string, multiplier core.Multiplier) (int64, error)
	CategoryByID(ctx context.Context, id int64) (core.Category, error)
	CategoryByName(ctx context.Context, name string) (core.Category, error)
	Categories(ctx context.Context) ([]core.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) error
	SetCategoryMultiplier(ctx context.Context, id int64, multiplier core.Multiplier) error
	DeleteCategory(ctx context.Context, id int64) error
	// DeleteCategoryCascade removes the category together with its
	// merchants and their transactions.
	DeleteCategoryCascade(ctx context.Context, id int64) error
	// OrphanCategoryMerchants clears the category reference on every
	// merchant of the category, leaving the merchants in place.
	OrphanCategoryMerchants(ctx context.Context, id int64) error

	CreateMerchant(ctx context.Context, name string, categoryID int64) (int64, error)
	MerchantByID(ctx context.Context, id int64) (core.Merchant, error)
	MerchantByName(ctx context.Context, name string) (core.Merchant, error)
	Merchants(ctx context.Context) ([]core.Merchant, error)
	MerchantsByCategory(ctx context.Context, categoryID int64) ([]core.Merchant, error)
	RenameMerchant(ctx context.Context, id int64, name string) error
	SetMerchantCategory(ctx context.Context, id, categoryID int64) error
	DeleteMerchant(ctx context.Context, id int64) error
	// DeleteMerchantCascade removes the merchant together with its
	// transactions.
	DeleteMerchantCascade(ctx context.Context, id int64) error

	CreateTransaction(ctx context.Context, merchantID int64, amount core.Money, date core.Date) (int64, error)
	TransactionByID(ctx context.Context, id int64) (core.Transaction, error)
	Transactions(ctx context.Context) ([]core.Transaction, error)
	TransactionsByMerchant(ctx context.Context, merchantID int64) ([]core.Transaction, error)
	TransactionsByDateRange(ctx context.Context, from, to core.Date) ([]core.Transaction, error)
	TransactionCountByMerchant(ctx context.Context, merchantID int64) (int64, error)
	SetTransactionMerchant(ctx context.Context, id, merchantID int64) error
	SetTransactionAmount(ctx context.Context, id int64, amount core.Money) error
	SetTransactionDate(ctx context.Context, id int64, date core.Date) error
	DeleteTransaction(ctx context.Context, id int64) error
}
