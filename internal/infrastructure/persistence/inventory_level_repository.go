package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryLevelRepository implements InventoryLevelRepository using GORM
type GormInventoryLevelRepository struct {
	db *gorm.DB
}

// NewGormInventoryLevelRepository creates a new GormInventoryLevelRepository
func NewGormInventoryLevelRepository(db *gorm.DB) *GormInventoryLevelRepository {
	return &GormInventoryLevelRepository{db: db}
}

// Find finds the level of a product at a store
func (r *GormInventoryLevelRepository) Find(ctx context.Context, productID, storeID uuid.UUID) (*inventory.InventoryLevel, error) {
	var model models.InventoryLevelModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND store_id = ?", productID, storeID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProduct finds the levels of a product across stores
func (r *GormInventoryLevelRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryLevel, error) {
	return r.findWhere(ctx, "product_id = ?", productID)
}

// FindByStore finds every level recorded at a store
func (r *GormInventoryLevelRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]inventory.InventoryLevel, error) {
	return r.findWhere(ctx, "store_id = ?", storeID)
}

func (r *GormInventoryLevelRepository) findWhere(ctx context.Context, cond string, arg any) ([]inventory.InventoryLevel, error) {
	var rows []models.InventoryLevelModel
	if err := r.db.WithContext(ctx).Where(cond, arg).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	levels := make([]inventory.InventoryLevel, len(rows))
	for i := range rows {
		levels[i] = *rows[i].ToDomain()
	}
	return levels, nil
}

// Upsert inserts the level or overwrites quantity and active flag of the
// existing (product_id, store_id) row
func (r *GormInventoryLevelRepository) Upsert(ctx context.Context, level *inventory.InventoryLevel) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "is_active", "updated_at"}),
		}).
		Create(models.InventoryLevelModelFromDomain(level)).Error
	return translateError(err)
}

// quantityScale is the scale of every quantity column. SQLite sums
// decimals as floats, so aggregates are rounded back to it.
const quantityScale = 4

// SumByProduct totals a product's quantity across stores
func (r *GormInventoryLevelRepository) SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.InventoryLevelModel{}).
		Select("SUM(quantity)").
		Where("product_id = ?", productID).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, translateError(err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(quantityScale), nil
}

// FindInactiveProductIDs lists products deactivated at a store
func (r *GormInventoryLevelRepository) FindInactiveProductIDs(ctx context.Context, storeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.InventoryLevelModel{}).
		Where("store_id = ? AND is_active = ?", storeID, false).
		Pluck("product_id", &ids).Error; err != nil {
		return nil, translateError(err)
	}
	return ids, nil
}

// Ensure GormInventoryLevelRepository implements InventoryLevelRepository
var _ inventory.InventoryLevelRepository = (*GormInventoryLevelRepository)(nil)
