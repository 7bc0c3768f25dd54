package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/shared"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	AggregateModel
	Name          string          `gorm:"type:varchar(200);not null;index"`
	Barcode       string          `gorm:"type:varchar(50);index"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	SubcategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	Category      string          `gorm:"type:varchar(100);not null;default:''"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	MinStock      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentStock  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AverageCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Barcode:           m.Barcode,
		CategoryID:        m.CategoryID,
		SubcategoryID:     m.SubcategoryID,
		Category:          m.Category,
		Unit:              m.Unit,
		MinStock:          m.MinStock,
		CurrentStock:      m.CurrentStock,
		AverageCost:       m.AverageCost,
		LastCost:          m.LastCost,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Barcode = p.Barcode
	m.CategoryID = p.CategoryID
	m.SubcategoryID = p.SubcategoryID
	m.Category = p.Category
	m.Unit = p.Unit
	m.MinStock = p.MinStock
	m.CurrentStock = p.CurrentStock
	m.AverageCost = p.AverageCost
	m.LastCost = p.LastCost
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// StoreModel is the persistence model for the Store entity.
type StoreModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null"`
	Code string `gorm:"type:varchar(20);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the persistence model to a domain Store entity.
func (m *StoreModel) ToDomain() *catalog.Store {
	return &catalog.Store{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Code:       m.Code,
	}
}

// StoreModelFromDomain creates a new persistence model from a domain Store entity.
func StoreModelFromDomain(s *catalog.Store) *StoreModel {
	m := &StoreModel{Name: s.Name, Code: s.Code}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// CategoryModel is the persistence model for the Category entity.
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name}
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{Name: c.Name}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// SubcategoryModel is the persistence model for the Subcategory entity.
type SubcategoryModel struct {
	BaseModel
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (SubcategoryModel) TableName() string {
	return "subcategories"
}

// ToDomain converts the persistence model to a domain Subcategory entity.
func (m *SubcategoryModel) ToDomain() *catalog.Subcategory {
	return &catalog.Subcategory{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		CategoryID: m.CategoryID,
		Name:       m.Name,
	}
}

// SubcategoryModelFromDomain creates a new persistence model from a domain Subcategory entity.
func SubcategoryModelFromDomain(s *catalog.Subcategory) *SubcategoryModel {
	m := &SubcategoryModel{CategoryID: s.CategoryID, Name: s.Name}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}
