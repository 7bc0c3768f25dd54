package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// Product represents a catalog item tracked for stock.
// It is the aggregate root for cost and total-stock bookkeeping.
//
// CurrentStock is a cache of the sum of the product's inventory levels
// across all stores and must only change through RefreshStock.
type Product struct {
	shared.BaseAggregateRoot
	Name          string
	Barcode       string
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	Category      string // display label
	Unit          string
	MinStock      decimal.Decimal
	CurrentStock  decimal.Decimal
	AverageCost   decimal.Decimal
	LastCost      decimal.Decimal
}

// ProductDetails holds the descriptive fields a user may edit
type ProductDetails struct {
	Name          string
	Barcode       string
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	Category      string
	Unit          string
	MinStock      decimal.Decimal
}

// NewProduct registers a product with zero stock and zero cost
func NewProduct(details ProductDetails) (*Product, error) {
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CurrentStock:      decimal.Zero,
		AverageCost:       decimal.Zero,
		LastCost:          decimal.Zero,
	}
	p.applyDetails(details)
	p.AddDomainEvent(newProductEvent(EventTypeProductCreated, p))

	return p, nil
}

// Update replaces the descriptive fields. Stock and cost are untouched.
func (p *Product) Update(details ProductDetails) error {
	if err := validateDetails(details); err != nil {
		return err
	}

	p.applyDetails(details)
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(newProductEvent(EventTypeProductUpdated, p))
	return nil
}

// MarkDeleted records the deletion; the repository removes the row
func (p *Product) MarkDeleted() {
	p.AddDomainEvent(newProductEvent(EventTypeProductDeleted, p))
}

func (p *Product) applyDetails(d ProductDetails) {
	p.Name = strings.TrimSpace(d.Name)
	p.Barcode = strings.TrimSpace(d.Barcode)
	p.CategoryID = d.CategoryID
	p.SubcategoryID = d.SubcategoryID
	p.Category = strings.TrimSpace(d.Category)
	p.Unit = strings.TrimSpace(d.Unit)
	p.MinStock = d.MinStock
}

// ApplyCost stores a newly computed average cost and the last purchase price
func (p *Product) ApplyCost(averageCost, lastCost decimal.Decimal) {
	p.AverageCost = averageCost
	p.LastCost = lastCost
	p.Touch()
	p.IncrementVersion()
}

// RefreshStock overwrites the cached total with the ledger sum
func (p *Product) RefreshStock(total decimal.Decimal) {
	p.CurrentStock = total
	p.Touch()
	p.IncrementVersion()
}

// IsLowStock reports whether the total stock is at or below the minimum
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.LessThanOrEqual(p.MinStock)
}

func validateDetails(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return ErrInvalidProduct.WithMessage("Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return ErrInvalidProduct.WithMessage("Product name cannot exceed 200 characters")
	}
	if strings.TrimSpace(d.Unit) == "" {
		return ErrInvalidProduct.WithMessage("Unit cannot be empty")
	}
	if len(d.Unit) > 20 {
		return ErrInvalidProduct.WithMessage("Unit cannot exceed 20 characters")
	}
	if len(d.Barcode) > 50 {
		return ErrInvalidProduct.WithMessage("Barcode cannot exceed 50 characters")
	}
	if d.MinStock.IsNegative() {
		return ErrInvalidProduct.WithMessage("Minimum stock cannot be negative")
	}
	if d.SubcategoryID != nil && d.CategoryID == nil {
		return ErrInvalidProduct.WithMessage("Subcategory requires a category")
	}
	return nil
}
