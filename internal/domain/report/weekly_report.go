package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

const (
	// QuantityPrecision is the number of decimal places kept on report quantities
	QuantityPrecision int32 = 3
	// ValuePrecision is the number of decimal places kept on report money values
	ValuePrecision int32 = 2

	// DefaultPeriod is the look-back used when no report has been closed yet
	DefaultPeriod = 7 * 24 * time.Hour
)

// ReportStatus represents the status of a weekly report
type ReportStatus string

const (
	ReportStatusOpen   ReportStatus = "open"
	ReportStatusClosed ReportStatus = "closed"
)

var (
	ErrReportNotFound    = shared.NewDomainError("REPORT_NOT_FOUND", "Weekly report not found")
	ErrReportClosed      = shared.NewDomainError("ILLEGAL_TRANSITION", "Weekly report is already closed")
	ErrInvalidReportSpan = shared.ErrInvalidInput.WithMessage("Report end date must not precede its start date")
)

// WeeklyReport is the consumption summary of one period.
// Open reports are previews and are never persisted.
type WeeklyReport struct {
	shared.BaseEntity
	StartDate             time.Time
	EndDate               time.Time
	Status                ReportStatus
	TotalConsumptionValue decimal.Decimal
	Items                 []WeeklyReportItem
}

// WeeklyReportItem is the per-product consumption line.
// Product fields are copied so a closed report survives renames.
type WeeklyReportItem struct {
	ProductID           uuid.UUID
	ProductName         string
	Category            string
	Unit                string
	InitialStock        decimal.Decimal
	EntriesQuantity     decimal.Decimal
	FinalStock          decimal.Decimal
	ConsumptionQuantity decimal.Decimal
	ConsumptionValue    decimal.Decimal
}

// ProductSnapshot is the product state a report line is computed from
type ProductSnapshot struct {
	ID           uuid.UUID
	Name         string
	Category     string
	Unit         string
	CurrentStock decimal.Decimal
	AverageCost  decimal.Decimal
}

// ConsumptionInput gathers everything needed to compute one period.
// Missing map keys read as zero (Initial, Entries) or fall back to the
// product's current stock (Counted).
type ConsumptionInput struct {
	Products []ProductSnapshot
	Initial  map[uuid.UUID]decimal.Decimal
	Entries  map[uuid.UUID]decimal.Decimal
	Counted  map[uuid.UUID]decimal.Decimal
}

// Compute builds an open report for [start, end].
// consumption = initial + entries - final; a negative result is a stock gain
// and is kept as is.
func Compute(start, end time.Time, in ConsumptionInput) (*WeeklyReport, error) {
	if end.Before(start) {
		return nil, ErrInvalidReportSpan
	}

	r := &WeeklyReport{
		BaseEntity:            shared.NewBaseEntity(),
		StartDate:             start,
		EndDate:               end,
		Status:                ReportStatusOpen,
		TotalConsumptionValue: decimal.Zero,
		Items:                 make([]WeeklyReportItem, 0, len(in.Products)),
	}

	for _, p := range in.Products {
		initial := in.Initial[p.ID]
		entries := in.Entries[p.ID]
		final, counted := in.Counted[p.ID]
		if !counted {
			final = p.CurrentStock
		}

		consumption := initial.Add(entries).Sub(final)
		value := consumption.Mul(p.AverageCost).Round(ValuePrecision)

		r.Items = append(r.Items, WeeklyReportItem{
			ProductID:           p.ID,
			ProductName:         p.Name,
			Category:            p.Category,
			Unit:                p.Unit,
			InitialStock:        initial.Round(QuantityPrecision),
			EntriesQuantity:     entries.Round(QuantityPrecision),
			FinalStock:          final.Round(QuantityPrecision),
			ConsumptionQuantity: consumption.Round(QuantityPrecision),
			ConsumptionValue:    value,
		})
		r.TotalConsumptionValue = r.TotalConsumptionValue.Add(value)
	}

	return r, nil
}

// Close marks the report as the closed record of its period
func (r *WeeklyReport) Close() error {
	if r.Status == ReportStatusClosed {
		return ErrReportClosed
	}
	r.Status = ReportStatusClosed
	r.Touch()
	return nil
}

// FinalStocks maps each product to its closing stock, the opening stock of
// the next period
func (r *WeeklyReport) FinalStocks() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(r.Items))
	for _, item := range r.Items {
		out[item.ProductID] = item.FinalStock
	}
	return out
}

// NextPeriodStart returns where the period following last begins.
// With no closed report the period starts DefaultPeriod before now.
func NextPeriodStart(last *WeeklyReport, now time.Time) time.Time {
	if last == nil {
		return now.Add(-DefaultPeriod)
	}
	return last.EndDate
}
