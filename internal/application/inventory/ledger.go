package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Ledger maintains per-store inventory levels and keeps every product's
// current_stock equal to the sum of its levels.
type Ledger struct {
	scope     TransactionScope
	levelRepo inventory.InventoryLevelRepository
	logger    *zap.Logger
}

// NewLedger creates a new Ledger
func NewLedger(scope TransactionScope, levelRepo inventory.InventoryLevelRepository, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		scope:     scope,
		levelRepo: levelRepo,
		logger:    logger,
	}
}

// GetLevel returns the quantity of productID held at storeID, zero when no level exists
func (l *Ledger) GetLevel(ctx context.Context, productID, storeID uuid.UUID) (decimal.Decimal, error) {
	level, err := l.levelRepo.Find(ctx, productID, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return level.Quantity, nil
}

// TotalFor returns the sum of productID's levels across every store
func (l *Ledger) TotalFor(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	return l.levelRepo.SumByProduct(ctx, productID)
}

// LevelsFor lists the per-store levels of productID
func (l *Ledger) LevelsFor(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryLevel, error) {
	return l.levelRepo.FindByProduct(ctx, productID)
}

// SetLevel overwrites the level of (productID, storeID) and refreshes the
// product's current_stock in the same transaction
func (l *Ledger) SetLevel(ctx context.Context, productID, storeID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return inventory.ErrInvalidQuantity.WithMessage("Inventory level cannot be negative")
	}

	err := l.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := findStore(ctx, repos.StoreRepo(), storeID); err != nil {
			return err
		}
		return setLevel(ctx, repos, productID, storeID, quantity)
	})
	if err != nil {
		l.logger.Error("failed to set inventory level",
			zap.String("product_id", productID.String()),
			zap.String("store_id", storeID.String()),
			zap.Error(err),
		)
		return err
	}

	l.logger.Info("inventory level set",
		zap.String("product_id", productID.String()),
		zap.String("store_id", storeID.String()),
		zap.String("quantity", quantity.String()),
	)
	return nil
}

// SetActive marks whether productID is stocked at storeID. Inactive products
// are left out of new counts at that store. The quantity is not touched.
func (l *Ledger) SetActive(ctx context.Context, productID, storeID uuid.UUID, active bool) error {
	return l.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := findProduct(ctx, repos.ProductRepo(), productID, false); err != nil {
			return err
		}
		if _, err := findStore(ctx, repos.StoreRepo(), storeID); err != nil {
			return err
		}

		level, err := loadLevel(ctx, repos.LevelRepo(), productID, storeID)
		if err != nil {
			return err
		}
		level.SetActive(active)
		return repos.LevelRepo().Upsert(ctx, level)
	})
}

// setLevel is the transactional core shared by SetLevel and count approval
func setLevel(ctx context.Context, repos TransactionalRepositories, productID, storeID uuid.UUID, quantity decimal.Decimal) error {
	level, err := loadLevel(ctx, repos.LevelRepo(), productID, storeID)
	if err != nil {
		return err
	}
	if err := level.SetQuantity(quantity); err != nil {
		return err
	}
	if err := repos.LevelRepo().Upsert(ctx, level); err != nil {
		return err
	}
	return refreshStock(ctx, repos, productID)
}

// addToLevel adds delta to the current level through setLevel
func addToLevel(ctx context.Context, repos TransactionalRepositories, productID, storeID uuid.UUID, delta decimal.Decimal) error {
	level, err := loadLevel(ctx, repos.LevelRepo(), productID, storeID)
	if err != nil {
		return err
	}
	return setLevel(ctx, repos, productID, storeID, level.Quantity.Add(delta))
}

// refreshStock writes the level sum to the product's current_stock
func refreshStock(ctx context.Context, repos TransactionalRepositories, productID uuid.UUID) error {
	total, err := repos.LevelRepo().SumByProduct(ctx, productID)
	if err != nil {
		return err
	}
	product, err := findProduct(ctx, repos.ProductRepo(), productID, false)
	if err != nil {
		return err
	}
	product.RefreshStock(total)
	return repos.ProductRepo().Update(ctx, product)
}

func loadLevel(ctx context.Context, repo inventory.InventoryLevelRepository, productID, storeID uuid.UUID) (*inventory.InventoryLevel, error) {
	level, err := repo.Find(ctx, productID, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return inventory.NewInventoryLevel(productID, storeID), nil
		}
		return nil, err
	}
	return level, nil
}

func findProduct(ctx context.Context, repo catalog.ProductRepository, id uuid.UUID, forUpdate bool) (*catalog.Product, error) {
	var (
		product *catalog.Product
		err     error
	)
	if forUpdate {
		product, err = repo.FindByIDForUpdate(ctx, id)
	} else {
		product, err = repo.FindByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func findStore(ctx context.Context, repo catalog.StoreRepository, id uuid.UUID) (*catalog.Store, error) {
	store, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, catalog.ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}
