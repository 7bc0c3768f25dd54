package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

const (
	AggregateTypeWeeklyReport = "WeeklyReport"

	EventTypeWeeklyReportClosed = "WeeklyReportClosed"
)

// WeeklyReportClosedEvent is raised once a period has been persisted as closed
type WeeklyReportClosedEvent struct {
	shared.BaseDomainEvent
	StartDate             time.Time       `json:"start_date"`
	EndDate               time.Time       `json:"end_date"`
	Items                 int             `json:"items"`
	TotalConsumptionValue decimal.Decimal `json:"total_consumption_value"`
}

// NewWeeklyReportClosedEvent creates a new WeeklyReportClosedEvent
func NewWeeklyReportClosedEvent(r *WeeklyReport) *WeeklyReportClosedEvent {
	return &WeeklyReportClosedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeWeeklyReportClosed, AggregateTypeWeeklyReport, r.ID),
		StartDate:             r.StartDate,
		EndDate:               r.EndDate,
		Items:                 len(r.Items),
		TotalConsumptionValue: r.TotalConsumptionValue,
	}
}
