package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/report"
)

// WeeklyReportResponse represents a weekly consumption report in API responses.
// ID is only set once the report has been closed.
type WeeklyReportResponse struct {
	ID                    *uuid.UUID                 `json:"id,omitempty"`
	StartDate             time.Time                  `json:"start_date"`
	EndDate               time.Time                  `json:"end_date"`
	Status                string                     `json:"status"`
	TotalConsumptionValue decimal.Decimal            `json:"total_consumption_value"`
	Items                 []WeeklyReportItemResponse `json:"items,omitempty"`
	CreatedAt             *time.Time                 `json:"created_at,omitempty"`
}

// WeeklyReportItemResponse is one consumption line
type WeeklyReportItemResponse struct {
	ProductID           uuid.UUID       `json:"product_id"`
	ProductName         string          `json:"product_name"`
	Category            string          `json:"category"`
	Unit                string          `json:"unit"`
	InitialStock        decimal.Decimal `json:"initial_stock"`
	EntriesQuantity     decimal.Decimal `json:"entries_quantity"`
	FinalStock          decimal.Decimal `json:"final_stock"`
	ConsumptionQuantity decimal.Decimal `json:"consumption_quantity"`
	ConsumptionValue    decimal.Decimal `json:"consumption_value"`
}

// ToWeeklyReportResponse converts a domain WeeklyReport to WeeklyReportResponse
func ToWeeklyReportResponse(r *report.WeeklyReport) WeeklyReportResponse {
	resp := WeeklyReportResponse{
		StartDate:             r.StartDate,
		EndDate:               r.EndDate,
		Status:                string(r.Status),
		TotalConsumptionValue: r.TotalConsumptionValue,
	}
	if r.Status == report.ReportStatusClosed {
		id, createdAt := r.ID, r.CreatedAt
		resp.ID = &id
		resp.CreatedAt = &createdAt
	}
	if len(r.Items) > 0 {
		resp.Items = make([]WeeklyReportItemResponse, len(r.Items))
		for i, item := range r.Items {
			resp.Items[i] = WeeklyReportItemResponse{
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
	}
	return resp
}

// ShoppingListFilter narrows the shopping list by product name or category
type ShoppingListFilter struct {
	Search  string
	StoreID *uuid.UUID
}

// ShoppingListResponse is the restocking list of one store
type ShoppingListResponse struct {
	StoreID    uuid.UUID              `json:"store_id"`
	StoreName  string                 `json:"store_name"`
	StoreCode  string                 `json:"store_code"`
	Categories []ShoppingListCategory `json:"categories"`
}

// ShoppingListCategory groups suggestions under one category label
type ShoppingListCategory struct {
	Category string             `json:"category"`
	Items    []ShoppingListItem `json:"items"`
}

// ShoppingListItem is a product at or below its minimum at one store
type ShoppingListItem struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	Level      decimal.Decimal `json:"level"`
	MinStock   decimal.Decimal `json:"min_stock"`
	Suggestion decimal.Decimal `json:"suggestion"`
}

// DashboardStats is the overview shown on the home screen
type DashboardStats struct {
	TotalProducts int64     `json:"total_products"`
	LowStock      int64     `json:"low_stock"`
	PendingReview int64     `json:"pending_review"`
	OpenDrafts    int64     `json:"open_drafts"`
	GeneratedAt   time.Time `json:"generated_at"`
}
