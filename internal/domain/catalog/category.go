package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
)

// Category groups products for counting and purchasing
type Category struct {
	shared.BaseEntity
	Name string
}

// Subcategory belongs to exactly one category
type Subcategory struct {
	shared.BaseEntity
	CategoryID uuid.UUID
	Name       string
}

// NewCategory creates a category
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCategory.WithMessage("Category name cannot be empty")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// NewSubcategory creates a subcategory under categoryID
func NewSubcategory(categoryID uuid.UUID, name string) (*Subcategory, error) {
	name = strings.TrimSpace(name)
	if categoryID == uuid.Nil {
		return nil, ErrInvalidCategory.WithMessage("Subcategory requires a category")
	}
	if name == "" {
		return nil, ErrInvalidCategory.WithMessage("Subcategory name cannot be empty")
	}
	return &Subcategory{
		BaseEntity: shared.NewBaseEntity(),
		CategoryID: categoryID,
		Name:       name,
	}, nil
}
