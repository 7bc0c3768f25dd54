package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/report"
)

// WeeklyReportModel is the persistence model for a closed weekly report.
type WeeklyReportModel struct {
	BaseModel
	StartDate             time.Time               `gorm:"not null;uniqueIndex"`
	EndDate               time.Time               `gorm:"not null;index"`
	Status                string                  `gorm:"type:varchar(20);not null"`
	TotalConsumptionValue decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Items                 []WeeklyReportItemModel `gorm:"foreignKey:ReportID;references:ID"`
}

// TableName returns the table name for GORM
func (WeeklyReportModel) TableName() string {
	return "weekly_reports"
}

// ToDomain converts the persistence model to a domain WeeklyReport.
func (m *WeeklyReportModel) ToDomain() *report.WeeklyReport {
	r := &report.WeeklyReport{
		BaseEntity:            m.BaseModel.ToDomain(),
		StartDate:             m.StartDate,
		EndDate:               m.EndDate,
		Status:                report.ReportStatus(m.Status),
		TotalConsumptionValue: m.TotalConsumptionValue,
		Items:                 make([]report.WeeklyReportItem, len(m.Items)),
	}
	for i, item := range m.Items {
		r.Items[i] = item.ToDomain()
	}
	return r
}

// WeeklyReportModelFromDomain creates a new persistence model from a domain WeeklyReport.
func WeeklyReportModelFromDomain(r *report.WeeklyReport) *WeeklyReportModel {
	m := &WeeklyReportModel{
		StartDate:             r.StartDate.UTC(),
		EndDate:               r.EndDate.UTC(),
		Status:                string(r.Status),
		TotalConsumptionValue: r.TotalConsumptionValue,
		Items:                 make([]WeeklyReportItemModel, len(r.Items)),
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	for i, item := range r.Items {
		m.Items[i] = WeeklyReportItemModel{
			ReportID:            r.ID,
			ProductID:           item.ProductID,
			ProductName:         item.ProductName,
			Category:            item.Category,
			Unit:                item.Unit,
			InitialStock:        item.InitialStock,
			EntriesQuantity:     item.EntriesQuantity,
			FinalStock:          item.FinalStock,
			ConsumptionQuantity: item.ConsumptionQuantity,
			ConsumptionValue:    item.ConsumptionValue,
		}
	}
	return m
}

// WeeklyReportItemModel is one product line of a closed report.
type WeeklyReportItemModel struct {
	ReportID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductName         string          `gorm:"type:varchar(200);not null"`
	Category            string          `gorm:"type:varchar(100);not null;default:''"`
	Unit                string          `gorm:"type:varchar(20);not null"`
	InitialStock        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	EntriesQuantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FinalStock          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ConsumptionQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ConsumptionValue    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (WeeklyReportItemModel) TableName() string {
	return "weekly_report_items"
}

// ToDomain converts the persistence model to a domain WeeklyReportItem.
func (m WeeklyReportItemModel) ToDomain() report.WeeklyReportItem {
	return report.WeeklyReportItem{
		ProductID:           m.ProductID,
		ProductName:         m.ProductName,
		Category:            m.Category,
		Unit:                m.Unit,
		InitialStock:        m.InitialStock,
		EntriesQuantity:     m.EntriesQuantity,
		FinalStock:          m.FinalStock,
		ConsumptionQuantity: m.ConsumptionQuantity,
		ConsumptionValue:    m.ConsumptionValue,
	}
}
