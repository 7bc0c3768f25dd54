package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockCountRepository implements StockCountRepository using GORM
type GormStockCountRepository struct {
	db *gorm.DB
}

// NewGormStockCountRepository creates a new GormStockCountRepository
func NewGormStockCountRepository(db *gorm.DB) *GormStockCountRepository {
	return &GormStockCountRepository{db: db}
}

// FindByID loads a count with its items
func (r *GormStockCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockCount, error) {
	var model models.StockCountModel
	if err := r.db.WithContext(ctx).
		Preload("Items", itemsByProductName).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists count headers newest first
func (r *GormStockCountRepository) FindAll(ctx context.Context, filter inventory.CountFilter) ([]inventory.StockCount, error) {
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.StockCountModel{}), filter)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.StockCountModel
	if err := query.Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	counts := make([]inventory.StockCount, len(rows))
	for i := range rows {
		counts[i] = *rows[i].ToDomain()
	}
	return counts, nil
}

// Count counts counts matching the filter
func (r *GormStockCountRepository) Count(ctx context.Context, filter inventory.CountFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.StockCountModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// FindDraft finds the newest draft of a store in an ISO week
func (r *GormStockCountRepository) FindDraft(ctx context.Context, storeID uuid.UUID, periodKey string) (*inventory.StockCount, error) {
	var model models.StockCountModel
	if err := r.db.WithContext(ctx).
		Preload("Items", itemsByProductName).
		Where("store_id = ? AND period_key = ? AND status = ?", storeID, periodKey, string(inventory.CountStatusDraft)).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindLatestApproved finds the most recently created approved count in [from, to]
func (r *GormStockCountRepository) FindLatestApproved(ctx context.Context, from, to time.Time) (*inventory.StockCount, error) {
	var model models.StockCountModel
	if err := r.db.WithContext(ctx).
		Preload("Items", itemsByProductName).
		Where("status = ? AND created_at >= ? AND created_at <= ?", string(inventory.CountStatusApproved), from.UTC(), to.UTC()).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Create inserts the header and its items
func (r *GormStockCountRepository) Create(ctx context.Context, count *inventory.StockCount) error {
	model := models.StockCountModelFromDomain(count)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Update saves the header with optimistic locking (checks version) and
// writes the counted quantity of every item. The snapshot column is
// never rewritten.
func (r *GormStockCountRepository) Update(ctx context.Context, count *inventory.StockCount) error {
	model := models.StockCountModelFromDomain(count)

	result := r.db.WithContext(ctx).
		Model(&models.StockCountModel{}).
		Where("id = ? AND version = ?", count.ID, count.Version-1).
		Select("status", "completed_categories", "version", "updated_at").
		Omit(clause.Associations).
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("Stock count was modified by another transaction")
	}

	for _, item := range model.Items {
		if err := r.db.WithContext(ctx).
			Model(&models.StockCountItemModel{}).
			Where("count_id = ? AND product_id = ?", item.CountID, item.ProductID).
			Update("quantity_counted", item.QuantityCounted).Error; err != nil {
			return translateError(err)
		}
	}
	return nil
}

// Delete removes a count and its items
func (r *GormStockCountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.StockCountItemModel{}, "count_id = ?", id).Error; err != nil {
			return translateError(err)
		}
		result := tx.Delete(&models.StockCountModel{}, "id = ?", id)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsItemForProduct reports whether any count line references the product
func (r *GormStockCountRepository) ExistsItemForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StockCountItemModel{}).
		Where("product_id = ?", productID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// itemsByProductName orders preloaded count lines by product name
func itemsByProductName(db *gorm.DB) *gorm.DB {
	return db.
		Joins("LEFT JOIN products ON products.id = stock_count_items.product_id").
		Order("products.name ASC").
		Order("stock_count_items.product_id ASC")
}

func (r *GormStockCountRepository) applyFilterWithoutPagination(query *gorm.DB, filter inventory.CountFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	return query
}

// Ensure GormStockCountRepository implements StockCountRepository
var _ inventory.StockCountRepository = (*GormStockCountRepository)(nil)
