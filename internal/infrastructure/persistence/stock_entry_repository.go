package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockEntryRepository implements StockEntryRepository using GORM.
// Entries are append-only: there is no update or delete.
type GormStockEntryRepository struct {
	db *gorm.DB
}

// NewGormStockEntryRepository creates a new GormStockEntryRepository
func NewGormStockEntryRepository(db *gorm.DB) *GormStockEntryRepository {
	return &GormStockEntryRepository{db: db}
}

// Create appends an entry
func (r *GormStockEntryRepository) Create(ctx context.Context, entry *inventory.StockEntry) error {
	return translateError(r.db.WithContext(ctx).Create(models.StockEntryModelFromDomain(entry)).Error)
}

// FindAll lists entries newest first
func (r *GormStockEntryRepository) FindAll(ctx context.Context, filter inventory.EntryFilter) ([]inventory.StockEntry, error) {
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.StockEntryModel{}), filter)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.StockEntryModel
	if err := query.Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	entries := make([]inventory.StockEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, nil
}

// Count counts entries matching the filter
func (r *GormStockEntryRepository) Count(ctx context.Context, filter inventory.EntryFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.StockEntryModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

type productQuantity struct {
	ProductID uuid.UUID
	Total     decimal.Decimal
}

// SumQuantityByProduct totals entry quantities per product over [from, to]
func (r *GormStockEntryRepository) SumQuantityByProduct(ctx context.Context, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []productQuantity
	if err := r.db.WithContext(ctx).Model(&models.StockEntryModel{}).
		Select("product_id, SUM(quantity) AS total").
		Where("created_at >= ? AND created_at <= ?", from.UTC(), to.UTC()).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	sums := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.ProductID] = row.Total.Round(quantityScale)
	}
	return sums, nil
}

// ExistsForProduct reports whether any entry references the product
func (r *GormStockEntryRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StockEntryModel{}).
		Where("product_id = ?", productID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (r *GormStockEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter inventory.EntryFilter) *gorm.DB {
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", filter.To.UTC())
	}
	return query
}

// Ensure GormStockEntryRepository implements StockEntryRepository
var _ inventory.StockEntryRepository = (*GormStockEntryRepository)(nil)
