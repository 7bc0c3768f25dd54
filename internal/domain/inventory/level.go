package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryLevel is the quantity of one product held at one store.
// A missing row is equivalent to quantity zero and active.
type InventoryLevel struct {
	ProductID uuid.UUID
	StoreID   uuid.UUID
	Quantity  decimal.Decimal
	IsActive  bool
	UpdatedAt time.Time
}

// NewInventoryLevel returns the implicit zero level for a pair
func NewInventoryLevel(productID, storeID uuid.UUID) *InventoryLevel {
	return &InventoryLevel{
		ProductID: productID,
		StoreID:   storeID,
		Quantity:  decimal.Zero,
		IsActive:  true,
		UpdatedAt: time.Now(),
	}
}

// SetQuantity overwrites the quantity; negative values are rejected
func (l *InventoryLevel) SetQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return ErrInvalidQuantity.WithMessage("Inventory level cannot be negative")
	}
	l.Quantity = quantity
	l.UpdatedAt = time.Now()
	return nil
}

// SetActive marks whether the product is stocked at this store
func (l *InventoryLevel) SetActive(active bool) {
	l.IsActive = active
	l.UpdatedAt = time.Now()
}
