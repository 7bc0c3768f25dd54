package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/inventory"
)

// InventoryLevelModel is the persistence model for one (product, store) level.
// The pair is the primary key.
type InventoryLevelModel struct {
	ProductID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID   uuid.UUID       `gorm:"type:uuid;primaryKey;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive  bool            `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryLevelModel) TableName() string {
	return "inventory_levels"
}

// ToDomain converts the persistence model to a domain InventoryLevel.
func (m *InventoryLevelModel) ToDomain() *inventory.InventoryLevel {
	return &inventory.InventoryLevel{
		ProductID: m.ProductID,
		StoreID:   m.StoreID,
		Quantity:  m.Quantity,
		IsActive:  m.IsActive,
		UpdatedAt: m.UpdatedAt,
	}
}

// InventoryLevelModelFromDomain creates a new persistence model from a domain InventoryLevel.
func InventoryLevelModelFromDomain(l *inventory.InventoryLevel) *InventoryLevelModel {
	return &InventoryLevelModel{
		ProductID: l.ProductID,
		StoreID:   l.StoreID,
		Quantity:  l.Quantity,
		IsActive:  l.IsActive,
		UpdatedAt: l.UpdatedAt.UTC(),
	}
}

// StockEntryModel is the persistence model for the append-only entry log.
type StockEntryModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockEntryModel) TableName() string {
	return "stock_entries"
}

// ToDomain converts the persistence model to a domain StockEntry.
func (m *StockEntryModel) ToDomain() *inventory.StockEntry {
	return &inventory.StockEntry{
		ID:        m.ID,
		ProductID: m.ProductID,
		StoreID:   m.StoreID,
		Quantity:  m.Quantity,
		CostPrice: m.CostPrice,
		TotalCost: m.TotalCost,
		CreatedAt: m.CreatedAt,
	}
}

// StockEntryModelFromDomain creates a new persistence model from a domain StockEntry.
func StockEntryModelFromDomain(e *inventory.StockEntry) *StockEntryModel {
	return &StockEntryModel{
		ID:        e.ID,
		ProductID: e.ProductID,
		StoreID:   e.StoreID,
		Quantity:  e.Quantity,
		CostPrice: e.CostPrice,
		TotalCost: e.TotalCost,
		CreatedAt: e.CreatedAt.UTC(),
	}
}

// StockCountModel is the persistence model for the StockCount aggregate root.
type StockCountModel struct {
	AggregateModel
	StoreID             *uuid.UUID            `gorm:"type:uuid;index"`
	Status              string                `gorm:"type:varchar(20);not null;index"`
	PeriodKey           string                `gorm:"type:varchar(10);not null;index"`
	CompletedCategories []string              `gorm:"type:text;serializer:json"`
	Items               []StockCountItemModel `gorm:"foreignKey:CountID;references:ID"`
}

// TableName returns the table name for GORM
func (StockCountModel) TableName() string {
	return "stock_counts"
}

// ToDomain converts the persistence model to a domain StockCount.
func (m *StockCountModel) ToDomain() *inventory.StockCount {
	c := &inventory.StockCount{
		BaseAggregateRoot:   m.ToAggregateRoot(),
		StoreID:             m.StoreID,
		Status:              inventory.CountStatus(m.Status),
		PeriodKey:           m.PeriodKey,
		CompletedCategories: m.CompletedCategories,
		Items:               make([]inventory.StockCountItem, len(m.Items)),
	}
	if c.CompletedCategories == nil {
		c.CompletedCategories = make([]string, 0)
	}
	for i, item := range m.Items {
		c.Items[i] = item.ToDomain()
	}
	return c
}

// StockCountModelFromDomain creates a new persistence model from a domain StockCount.
func StockCountModelFromDomain(c *inventory.StockCount) *StockCountModel {
	m := &StockCountModel{
		StoreID:             c.StoreID,
		Status:              string(c.Status),
		PeriodKey:           c.PeriodKey,
		CompletedCategories: c.CompletedCategories,
		Items:               make([]StockCountItemModel, len(c.Items)),
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	for i, item := range c.Items {
		m.Items[i] = StockCountItemModel{
			CountID:         c.ID,
			ProductID:       item.ProductID,
			QuantitySystem:  item.QuantitySystem,
			QuantityCounted: item.QuantityCounted,
		}
	}
	return m
}

// StockCountItemModel is one product line of a count, keyed by (count, product).
type StockCountItemModel struct {
	CountID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID       uuid.UUID       `gorm:"type:uuid;primaryKey;index"`
	QuantitySystem  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityCounted decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockCountItemModel) TableName() string {
	return "stock_count_items"
}

// ToDomain converts the persistence model to a domain StockCountItem.
func (m StockCountItemModel) ToDomain() inventory.StockCountItem {
	return inventory.StockCountItem{
		ProductID:       m.ProductID,
		QuantitySystem:  m.QuantitySystem,
		QuantityCounted: m.QuantityCounted,
	}
}
