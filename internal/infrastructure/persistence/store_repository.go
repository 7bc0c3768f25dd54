package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists stores by name
func (r *GormStoreRepository) FindAll(ctx context.Context) ([]catalog.Store, error) {
	var rows []models.StoreModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	stores := make([]catalog.Store, len(rows))
	for i := range rows {
		stores[i] = *rows[i].ToDomain()
	}
	return stores, nil
}

// ExistsByCode checks whether a store code is taken
func (r *GormStoreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StoreModel{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Create inserts a new store
func (r *GormStoreRepository) Create(ctx context.Context, store *catalog.Store) error {
	return translateError(r.db.WithContext(ctx).Create(models.StoreModelFromDomain(store)).Error)
}

// Ensure GormStoreRepository implements StoreRepository
var _ catalog.StoreRepository = (*GormStoreRepository)(nil)
