package inventory

import (
	"context"

	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the stock repositories.
// Every repository handed to fn shares one database transaction that is
// committed when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one transaction.
//
// Product is the aggregate owning average cost and the current_stock cache;
// levels and entries are written alongside it so the cache never diverges
// from the level sum after commit.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	StoreRepo() catalog.StoreRepository
	LevelRepo() inventory.InventoryLevelRepository
	EntryRepo() inventory.StockEntryRepository
	CountRepo() inventory.StockCountRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Used by tests and by callers that provide their own atomicity.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	storeRepo   catalog.StoreRepository
	levelRepo   inventory.InventoryLevelRepository
	entryRepo   inventory.StockEntryRepository
	countRepo   inventory.StockCountRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	storeRepo catalog.StoreRepository,
	levelRepo inventory.InventoryLevelRepository,
	entryRepo inventory.StockEntryRepository,
	countRepo inventory.StockCountRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		levelRepo:   levelRepo,
		entryRepo:   entryRepo,
		countRepo:   countRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// StoreRepo returns the store repository.
func (s *NoOpTransactionScope) StoreRepo() catalog.StoreRepository {
	return s.storeRepo
}

// LevelRepo returns the inventory level repository.
func (s *NoOpTransactionScope) LevelRepo() inventory.InventoryLevelRepository {
	return s.levelRepo
}

// EntryRepo returns the stock entry repository.
func (s *NoOpTransactionScope) EntryRepo() inventory.StockEntryRepository {
	return s.entryRepo
}

// CountRepo returns the stock count repository.
func (s *NoOpTransactionScope) CountRepo() inventory.StockCountRepository {
	return s.countRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
