package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter catalog.ProductFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountLowStock(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]catalog.Subcategory, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]catalog.Subcategory), args.Error(1)
}

func (m *MockCategoryRepository) FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Subcategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Subcategory), args.Error(1)
}

func (m *MockCategoryRepository) CreateSubcategory(ctx context.Context, sub *catalog.Subcategory) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// MockStoreRepository is a mock implementation of catalog.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAll(ctx context.Context) ([]catalog.Store, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Store), args.Error(1)
}

func (m *MockStoreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreRepository) Create(ctx context.Context, store *catalog.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

// MockLevelRepository is a mock implementation of inventory.InventoryLevelRepository
type MockLevelRepository struct {
	mock.Mock
}

func (m *MockLevelRepository) Find(ctx context.Context, productID, storeID uuid.UUID) (*inventory.InventoryLevel, error) {
	args := m.Called(ctx, productID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryLevel), args.Error(1)
}

func (m *MockLevelRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryLevel, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]inventory.InventoryLevel), args.Error(1)
}

func (m *MockLevelRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]inventory.InventoryLevel, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]inventory.InventoryLevel), args.Error(1)
}

func (m *MockLevelRepository) Upsert(ctx context.Context, level *inventory.InventoryLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *MockLevelRepository) SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLevelRepository) FindInactiveProductIDs(ctx context.Context, storeID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockEntryRepository is a mock implementation of inventory.StockEntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *inventory.StockEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) FindAll(ctx context.Context, filter inventory.EntryFilter) ([]inventory.StockEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StockEntry), args.Error(1)
}

func (m *MockEntryRepository) Count(ctx context.Context, filter inventory.EntryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepository) SumQuantityByProduct(ctx context.Context, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockEntryRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

// MockCountRepository is a mock implementation of inventory.StockCountRepository
type MockCountRepository struct {
	mock.Mock
}

func (m *MockCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockCount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockCount), args.Error(1)
}

func (m *MockCountRepository) FindAll(ctx context.Context, filter inventory.CountFilter) ([]inventory.StockCount, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StockCount), args.Error(1)
}

func (m *MockCountRepository) Count(ctx context.Context, filter inventory.CountFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCountRepository) FindDraft(ctx context.Context, storeID uuid.UUID, periodKey string) (*inventory.StockCount, error) {
	args := m.Called(ctx, storeID, periodKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockCount), args.Error(1)
}

func (m *MockCountRepository) FindLatestApproved(ctx context.Context, from, to time.Time) (*inventory.StockCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockCount), args.Error(1)
}

func (m *MockCountRepository) Create(ctx context.Context, count *inventory.StockCount) error {
	args := m.Called(ctx, count)
	return args.Error(0)
}

func (m *MockCountRepository) Update(ctx context.Context, count *inventory.StockCount) error {
	args := m.Called(ctx, count)
	return args.Error(0)
}

func (m *MockCountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCountRepository) ExistsItemForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher records published event types
type MockEventPublisher struct {
	types []string
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		m.types = append(m.types, e.EventType())
	}
	return nil
}
