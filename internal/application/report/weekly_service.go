package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/report"
	"github.com/stockflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// WeeklyReportService computes consumption previews and closes periods
type WeeklyReportService struct {
	scope          TransactionScope
	reportRepo     report.WeeklyReportRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewWeeklyReportService creates a new WeeklyReportService
func NewWeeklyReportService(scope TransactionScope, reportRepo report.WeeklyReportRepository, logger *zap.Logger) *WeeklyReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeeklyReportService{
		scope:      scope,
		reportRepo: reportRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *WeeklyReportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Current computes the open report running from the end of the last closed
// period until now. Nothing is persisted.
func (s *WeeklyReportService) Current(ctx context.Context) (*WeeklyReportResponse, error) {
	var current *report.WeeklyReport
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		current, err = s.compute(ctx, repos, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := ToWeeklyReportResponse(current)
	return &resp, nil
}

// Close recomputes the current period and stores it as closed. The next
// period starts at this report's end date.
func (s *WeeklyReportService) Close(ctx context.Context) (*WeeklyReportResponse, error) {
	var closed *report.WeeklyReport
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := s.compute(ctx, repos, s.now())
		if err != nil {
			return err
		}
		if err := r.Close(); err != nil {
			return err
		}
		if err := repos.ReportRepo().Create(ctx, r); err != nil {
			return err
		}
		closed = r
		return nil
	})
	if err != nil {
		s.logger.Error("failed to close weekly report", zap.Error(err))
		return nil, err
	}

	s.logger.Info("weekly report closed",
		zap.String("report_id", closed.ID.String()),
		zap.Time("start_date", closed.StartDate),
		zap.Time("end_date", closed.EndDate),
		zap.String("total_consumption_value", closed.TotalConsumptionValue.String()),
	)
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, report.NewWeeklyReportClosedEvent(closed))
	}

	resp := ToWeeklyReportResponse(closed)
	return &resp, nil
}

// List returns closed report headers, newest period first
func (s *WeeklyReportService) List(ctx context.Context) ([]WeeklyReportResponse, error) {
	reports, err := s.reportRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WeeklyReportResponse, len(reports))
	for i := range reports {
		out[i] = ToWeeklyReportResponse(&reports[i])
	}
	return out, nil
}

// Get returns a closed report with its items
func (s *WeeklyReportService) Get(ctx context.Context, id uuid.UUID) (*WeeklyReportResponse, error) {
	r, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, report.ErrReportNotFound
		}
		return nil, err
	}
	resp := ToWeeklyReportResponse(r)
	return &resp, nil
}

func (s *WeeklyReportService) compute(ctx context.Context, repos TransactionalRepositories, now time.Time) (*report.WeeklyReport, error) {
	last, err := repos.ReportRepo().FindLatest(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		last, err = nil, nil
	}
	if err != nil {
		return nil, err
	}

	start := report.NextPeriodStart(last, now)
	in := report.ConsumptionInput{
		Initial: map[uuid.UUID]decimal.Decimal{},
		Counted: map[uuid.UUID]decimal.Decimal{},
	}
	if last != nil {
		in.Initial = last.FinalStocks()
	}

	in.Entries, err = repos.EntryRepo().SumQuantityByProduct(ctx, start, now)
	if err != nil {
		return nil, err
	}

	count, err := repos.CountRepo().FindLatestApproved(ctx, start, now)
	switch {
	case err == nil:
		for _, item := range count.Items {
			in.Counted[item.ProductID] = item.QuantityCounted
		}
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	products, err := repos.ProductRepo().FindAll(ctx, catalog.ProductFilter{})
	if err != nil {
		return nil, err
	}
	in.Products = make([]report.ProductSnapshot, len(products))
	for i, p := range products {
		in.Products[i] = report.ProductSnapshot{
			ID:           p.ID,
			Name:         p.Name,
			Category:     p.Category,
			Unit:         p.Unit,
			CurrentStock: p.CurrentStock,
			AverageCost:  p.AverageCost,
		}
	}

	return report.Compute(start, now, in)
}
