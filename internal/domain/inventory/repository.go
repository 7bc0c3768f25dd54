package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// InventoryLevelRepository defines the interface for inventory level persistence
type InventoryLevelRepository interface {
	// Find returns shared.ErrNotFound when the pair has no row
	Find(ctx context.Context, productID, storeID uuid.UUID) (*InventoryLevel, error)

	FindByProduct(ctx context.Context, productID uuid.UUID) ([]InventoryLevel, error)
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]InventoryLevel, error)

	// Upsert inserts or overwrites the row keyed by (product_id, store_id)
	Upsert(ctx context.Context, level *InventoryLevel) error

	// SumByProduct returns the total quantity across stores, zero when none
	SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)

	// FindInactiveProductIDs returns products explicitly deactivated at storeID
	FindInactiveProductIDs(ctx context.Context, storeID uuid.UUID) ([]uuid.UUID, error)
}

// EntryFilter narrows stock entry listings
type EntryFilter struct {
	shared.Filter
	ProductID *uuid.UUID
	StoreID   *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// StockEntryRepository defines the interface for the append-only entry log
type StockEntryRepository interface {
	Create(ctx context.Context, entry *StockEntry) error

	// FindAll lists entries newest first
	FindAll(ctx context.Context, filter EntryFilter) ([]StockEntry, error)
	Count(ctx context.Context, filter EntryFilter) (int64, error)

	// SumQuantityByProduct totals entry quantities with created_at in [from, to]
	SumQuantityByProduct(ctx context.Context, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error)

	ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}

// CountFilter narrows stock count listings
type CountFilter struct {
	shared.Filter
	Status  *CountStatus
	StoreID *uuid.UUID
}

// StockCountRepository defines the interface for stock count persistence
type StockCountRepository interface {
	// FindByID loads the count with its items
	FindByID(ctx context.Context, id uuid.UUID) (*StockCount, error)

	// FindAll lists count headers newest first; Items is left empty
	FindAll(ctx context.Context, filter CountFilter) ([]StockCount, error)
	Count(ctx context.Context, filter CountFilter) (int64, error)

	// FindDraft returns the draft of storeID in periodKey, or shared.ErrNotFound
	FindDraft(ctx context.Context, storeID uuid.UUID, periodKey string) (*StockCount, error)

	// FindLatestApproved returns the most recently created approved count
	// created in [from, to], with items, or shared.ErrNotFound
	FindLatestApproved(ctx context.Context, from, to time.Time) (*StockCount, error)

	// Create inserts the header and every item
	Create(ctx context.Context, count *StockCount) error

	// Update writes the header with a version compare-and-swap and the
	// counted quantity of every item
	Update(ctx context.Context, count *StockCount) error

	Delete(ctx context.Context, id uuid.UUID) error

	ExistsItemForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}
