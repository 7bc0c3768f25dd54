package report

import (
	"context"
	"time"

	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/report"
	"github.com/stockflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultStatsTTL bounds how stale cached dashboard stats may get
const DefaultStatsTTL = 30 * time.Second

// StatsCache stores the last computed dashboard stats
type StatsCache interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context) (*DashboardStats, error)
	Set(ctx context.Context, stats *DashboardStats, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// DashboardService serves the overview counters
type DashboardService struct {
	productRepo catalog.ProductRepository
	countRepo   inventory.StockCountRepository
	cache       StatsCache
	ttl         time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService. cache may be nil.
func NewDashboardService(
	productRepo catalog.ProductRepository,
	countRepo inventory.StockCountRepository,
	cache StatsCache,
	ttl time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	return &DashboardService{
		productRepo: productRepo,
		countRepo:   countRepo,
		cache:       cache,
		ttl:         ttl,
		logger:      logger,
		now:         time.Now,
	}
}

// Stats returns the dashboard counters, from cache when fresh.
// Cache failures are logged and the counters are computed from the database.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardStats, error) {
	total, err := s.productRepo.Count(ctx, catalog.ProductFilter{})
	if err != nil {
		return nil, err
	}
	low, err := s.productRepo.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.countByStatus(ctx, inventory.CountStatusPendingReview)
	if err != nil {
		return nil, err
	}
	drafts, err := s.countByStatus(ctx, inventory.CountStatusDraft)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalProducts: total,
		LowStock:      low,
		PendingReview: pending,
		OpenDrafts:    drafts,
		GeneratedAt:   s.now(),
	}, nil
}

func (s *DashboardService) countByStatus(ctx context.Context, status inventory.CountStatus) (int64, error) {
	return s.countRepo.Count(ctx, inventory.CountFilter{Status: &status})
}

// StatsInvalidator drops cached dashboard stats whenever the catalog, stock
// or counts change
type StatsInvalidator struct {
	cache  StatsCache
	logger *zap.Logger
}

// NewStatsInvalidator creates a new StatsInvalidator
func NewStatsInvalidator(cache StatsCache, logger *zap.Logger) *StatsInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsInvalidator{cache: cache, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *StatsInvalidator) EventTypes() []string {
	return []string{
		inventory.EventTypeStockEntryRecorded,
		inventory.EventTypeStockCountCreated,
		inventory.EventTypeStockCountFinalized,
		inventory.EventTypeStockCountApproved,
		inventory.EventTypeStockCountRejected,
		inventory.EventTypeStockCountDeleted,
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductUpdated,
		catalog.EventTypeProductDeleted,
		report.EventTypeWeeklyReportClosed,
	}
}

// Handle implements shared.EventHandler
func (h *StatsInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx); err != nil {
		h.logger.Warn("dashboard cache invalidation failed",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

var _ shared.EventHandler = (*StatsInvalidator)(nil)
