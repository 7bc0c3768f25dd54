package report

import (
	"context"

	"github.com/google/uuid"
)

// WeeklyReportRepository defines the interface for closed report persistence
type WeeklyReportRepository interface {
	// FindLatest returns the closed report with the greatest end date, with
	// items, or shared.ErrNotFound when none exists
	FindLatest(ctx context.Context) (*WeeklyReport, error)

	// FindByID loads a report with its items
	FindByID(ctx context.Context, id uuid.UUID) (*WeeklyReport, error)

	// FindAll lists report headers by end date, newest first
	FindAll(ctx context.Context) ([]WeeklyReport, error)

	// Create inserts the header and every item
	Create(ctx context.Context, report *WeeklyReport) error
}
