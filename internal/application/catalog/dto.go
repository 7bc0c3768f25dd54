package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
)

// ===================== Product DTOs =====================

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	SubcategoryID *uuid.UUID      `json:"subcategory_id"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	MinStock      decimal.Decimal `json:"min_stock"`
}

// UpdateProductRequest represents a request to update a product.
// Stock and cost fields are owned by the ledger and cannot be set here.
type UpdateProductRequest = CreateProductRequest

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string
	CategoryID *uuid.UUID
	Page       int
	PageSize   int
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode,omitempty"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	SubcategoryID *uuid.UUID      `json:"subcategory_id,omitempty"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	MinStock      decimal.Decimal `json:"min_stock"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	AverageCost   decimal.Decimal `json:"average_cost"`
	LastCost      decimal.Decimal `json:"last_cost"`
	LowStock      bool            `json:"low_stock"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Levels []ProductLevelResponse `json:"levels,omitempty"`
}

// ProductLevelResponse is the per-store slice of a product's stock
type ProductLevelResponse struct {
	StoreID  uuid.UUID       `json:"store_id"`
	Quantity decimal.Decimal `json:"quantity"`
	IsActive bool            `json:"is_active"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		CategoryID:    p.CategoryID,
		SubcategoryID: p.SubcategoryID,
		Category:      p.Category,
		Unit:          p.Unit,
		MinStock:      p.MinStock,
		CurrentStock:  p.CurrentStock,
		AverageCost:   p.AverageCost,
		LastCost:      p.LastCost,
		LowStock:      p.IsLowStock(),
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProductLevels(levels []inventory.InventoryLevel) []ProductLevelResponse {
	out := make([]ProductLevelResponse, len(levels))
	for i, l := range levels {
		out[i] = ProductLevelResponse{StoreID: l.StoreID, Quantity: l.Quantity, IsActive: l.IsActive}
	}
	return out
}

// ===================== Store DTOs =====================

// CreateStoreRequest represents a request to create a store
type CreateStoreRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// ToStoreResponse converts a domain Store to StoreResponse
func ToStoreResponse(s *catalog.Store) StoreResponse {
	return StoreResponse{ID: s.ID, Name: s.Name, Code: s.Code, CreatedAt: s.CreatedAt}
}

// ===================== Category DTOs =====================

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// CreateSubcategoryRequest represents a request to create a subcategory
type CreateSubcategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SubcategoryResponse represents a subcategory in API responses
type SubcategoryResponse struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}
