package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
)

// ===================== Entry DTOs =====================

// RecordEntryInput is the input of StockEntryService.Record
type RecordEntryInput struct {
	ProductID uuid.UUID
	StoreID   uuid.UUID
	Quantity  decimal.Decimal
	CostPrice decimal.Decimal
}

// EntryListFilter narrows entry listings
type EntryListFilter struct {
	Page      int
	PageSize  int
	ProductID *uuid.UUID
	StoreID   *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// StockEntryResponse represents a recorded entry in API responses
type StockEntryResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	StoreID   uuid.UUID       `json:"store_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	CostPrice decimal.Decimal `json:"cost_price"`
	TotalCost decimal.Decimal `json:"total_cost"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordEntryResponse is returned by Record with the resulting product figures
type RecordEntryResponse struct {
	Entry        StockEntryResponse `json:"entry"`
	AverageCost  decimal.Decimal    `json:"average_cost"`
	LastCost     decimal.Decimal    `json:"last_cost"`
	CurrentStock decimal.Decimal    `json:"current_stock"`
	StoreLevel   decimal.Decimal    `json:"store_level"`
}

// ToStockEntryResponse converts a domain StockEntry to its response
func ToStockEntryResponse(e *inventory.StockEntry) StockEntryResponse {
	return StockEntryResponse{
		ID:        e.ID,
		ProductID: e.ProductID,
		StoreID:   e.StoreID,
		Quantity:  e.Quantity,
		CostPrice: e.CostPrice,
		TotalCost: e.TotalCost,
		CreatedAt: e.CreatedAt,
	}
}

// ===================== Level DTOs =====================

// InventoryLevelResponse represents one per-store level
type InventoryLevelResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	StoreID   uuid.UUID       `json:"store_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	IsActive  bool            `json:"is_active"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToInventoryLevelResponse converts a domain InventoryLevel to its response
func ToInventoryLevelResponse(l *inventory.InventoryLevel) InventoryLevelResponse {
	return InventoryLevelResponse{
		ProductID: l.ProductID,
		StoreID:   l.StoreID,
		Quantity:  l.Quantity,
		IsActive:  l.IsActive,
		UpdatedAt: l.UpdatedAt,
	}
}

// ===================== Count DTOs =====================

// CreateCountInput is the input of StockCountService.Create
type CreateCountInput struct {
	StoreID uuid.UUID
	// Force creates a new draft even when one already exists this week
	Force bool
}

// UpdateItemsInput carries counted quantities and, optionally, the
// categories the counter marked as done
type UpdateItemsInput struct {
	Items               []inventory.ItemCount
	CompletedCategories []string
}

// CountListFilter narrows count listings
type CountListFilter struct {
	Page     int
	PageSize int
	Status   *inventory.CountStatus
	StoreID  *uuid.UUID
}

// StockCountItemResponse represents one count line
type StockCountItemResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	QuantitySystem  decimal.Decimal `json:"quantity_system"`
	QuantityCounted decimal.Decimal `json:"quantity_counted"`
	Variance        decimal.Decimal `json:"variance"`
}

// StockCountResponse represents a count with its items
type StockCountResponse struct {
	ID                  uuid.UUID                `json:"id"`
	StoreID             *uuid.UUID               `json:"store_id"`
	Status              string                   `json:"status"`
	PeriodKey           string                   `json:"period_key"`
	CompletedCategories []string                 `json:"completed_categories"`
	Items               []StockCountItemResponse `json:"items,omitempty"`
	Version             int                      `json:"version"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

// FinalizeResponse carries the finalized count and the completeness warning
type FinalizeResponse struct {
	Count          StockCountResponse `json:"count"`
	TotalItems     int                `json:"total_items"`
	UncountedItems int                `json:"uncounted_items"`
	Warning        string             `json:"warning,omitempty"`
}

// ToStockCountResponse converts a count. products supplies display fields
// for items and may be nil.
func ToStockCountResponse(c *inventory.StockCount, products map[uuid.UUID]*catalog.Product) StockCountResponse {
	resp := StockCountResponse{
		ID:                  c.ID,
		StoreID:             c.StoreID,
		Status:              c.Status.String(),
		PeriodKey:           c.PeriodKey,
		CompletedCategories: c.CompletedCategories,
		Version:             c.Version,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
	if resp.CompletedCategories == nil {
		resp.CompletedCategories = []string{}
	}

	if len(c.Items) > 0 {
		resp.Items = make([]StockCountItemResponse, len(c.Items))
		for i, item := range c.Items {
			r := StockCountItemResponse{
				ProductID:       item.ProductID,
				QuantitySystem:  item.QuantitySystem,
				QuantityCounted: item.QuantityCounted,
				Variance:        item.Variance(),
			}
			if p, ok := products[item.ProductID]; ok {
				r.ProductName = p.Name
				r.Category = p.Category
				r.Unit = p.Unit
			}
			resp.Items[i] = r
		}
	}
	return resp
}
