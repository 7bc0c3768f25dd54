package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// StockEntry is an immutable record of a purchase received at a store
type StockEntry struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	StoreID   uuid.UUID
	Quantity  decimal.Decimal
	CostPrice decimal.Decimal
	TotalCost decimal.Decimal
	CreatedAt time.Time
}

// ValidateEntry checks the recorder's input constraints
func ValidateEntry(storeID uuid.UUID, quantity, costPrice decimal.Decimal) error {
	if !quantity.IsPositive() {
		return ErrInvalidQuantity.WithMessage("Entry quantity must be greater than zero")
	}
	if costPrice.IsNegative() {
		return ErrInvalidCost
	}
	if storeID == uuid.Nil {
		return ErrMissingStore
	}
	return nil
}

// NewStockEntry creates an entry with its total cost computed
func NewStockEntry(productID, storeID uuid.UUID, quantity, costPrice decimal.Decimal) (*StockEntry, error) {
	if err := ValidateEntry(storeID, quantity, costPrice); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Product ID cannot be empty")
	}

	return &StockEntry{
		ID:        uuid.New(),
		ProductID: productID,
		StoreID:   storeID,
		Quantity:  quantity,
		CostPrice: costPrice,
		TotalCost: quantity.Mul(costPrice),
		CreatedAt: time.Now(),
	}, nil
}
