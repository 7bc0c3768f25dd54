package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists categories by name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	categories := make([]catalog.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, nil
}

// Create inserts a new category
func (r *GormCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	return translateError(r.db.WithContext(ctx).Create(models.CategoryModelFromDomain(category)).Error)
}

// FindSubcategories lists subcategories by name, optionally of one category
func (r *GormCategoryRepository) FindSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]catalog.Subcategory, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var rows []models.SubcategoryModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	subs := make([]catalog.Subcategory, len(rows))
	for i := range rows {
		subs[i] = *rows[i].ToDomain()
	}
	return subs, nil
}

// FindSubcategoryByID finds a subcategory by its ID
func (r *GormCategoryRepository) FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Subcategory, error) {
	var model models.SubcategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// CreateSubcategory inserts a new subcategory
func (r *GormCategoryRepository) CreateSubcategory(ctx context.Context, sub *catalog.Subcategory) error {
	return translateError(r.db.WithContext(ctx).Create(models.SubcategoryModelFromDomain(sub)).Error)
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
