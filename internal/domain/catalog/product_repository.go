package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
)

// ProductFilter narrows product listings
type ProductFilter struct {
	shared.Filter
	CategoryID *uuid.UUID
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID returns shared.ErrNotFound when the product does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate loads the product and locks its row until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll lists products ordered by name. A zero PageSize returns every row.
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// FindByIDs returns the products with the given ids, in no particular order
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	Count(ctx context.Context, filter ProductFilter) (int64, error)

	// CountLowStock counts products whose current stock is at or below min stock
	CountLowStock(ctx context.Context) (int64, error)

	Create(ctx context.Context, product *Product) error

	// Update persists the product if the stored version equals product.Version-1.
	// Returns shared.ErrConcurrencyConflict otherwise.
	Update(ctx context.Context, product *Product) error

	// Delete removes the product together with its inventory levels
	Delete(ctx context.Context, id uuid.UUID) error
}

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindAll(ctx context.Context) ([]Store, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, store *Store) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, category *Category) error

	// FindSubcategories lists subcategories by name; nil categoryID lists all
	FindSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]Subcategory, error)
	FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*Subcategory, error)
	CreateSubcategory(ctx context.Context, sub *Subcategory) error
}
