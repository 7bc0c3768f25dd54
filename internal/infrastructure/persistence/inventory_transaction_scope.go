package persistence

import (
	"context"

	appinv "github.com/stockflow/backend/internal/application/inventory"
	appreport "github.com/stockflow/backend/internal/application/report"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/report"
	"gorm.io/gorm"
)

// GormTransactionScope implements the inventory TransactionScope using GORM
// transactions. Every repository handed to fn shares the transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction, rolling back when it
// returns an error and committing otherwise.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormReportTransactionScope implements the report TransactionScope
type GormReportTransactionScope struct {
	db *gorm.DB
}

// NewGormReportTransactionScope creates a new GormReportTransactionScope.
func NewGormReportTransactionScope(db *gorm.DB) *GormReportTransactionScope {
	return &GormReportTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormReportTransactionScope) Execute(ctx context.Context, fn func(repos appreport.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// StoreRepo returns the store repository scoped to the current transaction.
func (r *gormTransactionalRepositories) StoreRepo() catalog.StoreRepository {
	return NewGormStoreRepository(r.tx)
}

// LevelRepo returns the inventory level repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LevelRepo() inventory.InventoryLevelRepository {
	return NewGormInventoryLevelRepository(r.tx)
}

// EntryRepo returns the stock entry repository scoped to the current transaction.
func (r *gormTransactionalRepositories) EntryRepo() inventory.StockEntryRepository {
	return NewGormStockEntryRepository(r.tx)
}

// CountRepo returns the stock count repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CountRepo() inventory.StockCountRepository {
	return NewGormStockCountRepository(r.tx)
}

// ReportRepo returns the weekly report repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ReportRepo() report.WeeklyReportRepository {
	return NewGormWeeklyReportRepository(r.tx)
}

var (
	_ appinv.TransactionScope             = (*GormTransactionScope)(nil)
	_ appinv.TransactionalRepositories    = (*gormTransactionalRepositories)(nil)
	_ appreport.TransactionScope          = (*GormReportTransactionScope)(nil)
	_ appreport.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
