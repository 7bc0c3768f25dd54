package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/shared"
)

// CategoryService handles categories and subcategories
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return &CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

// List returns categories ordered by name
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}
	return out, nil
}

// CreateSubcategory creates a subcategory under an existing category
func (s *CategoryService) CreateSubcategory(ctx context.Context, req CreateSubcategoryRequest) (*SubcategoryResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, err
	}

	sub, err := catalog.NewSubcategory(req.CategoryID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.CreateSubcategory(ctx, sub); err != nil {
		return nil, err
	}
	return &SubcategoryResponse{ID: sub.ID, CategoryID: sub.CategoryID, Name: sub.Name}, nil
}

// ListSubcategories returns subcategories by name, all of them when categoryID is nil
func (s *CategoryService) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]SubcategoryResponse, error) {
	subs, err := s.categoryRepo.FindSubcategories(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]SubcategoryResponse, len(subs))
	for i, sub := range subs {
		out[i] = SubcategoryResponse{ID: sub.ID, CategoryID: sub.CategoryID, Name: sub.Name}
	}
	return out, nil
}
