package report

import (
	"context"

	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/report"
)

// TransactionScope runs fn with repositories sharing one transaction, so a
// report is computed and persisted from a single consistent view.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a report reads and writes
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	EntryRepo() inventory.StockEntryRepository
	CountRepo() inventory.StockCountRepository
	ReportRepo() report.WeeklyReportRepository
}
