package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CountOption configures a StockCountService
type CountOption func(*StockCountService)

// WithDraftGuard toggles the one-draft-per-store-per-week guard. Enabled by default.
func WithDraftGuard(enabled bool) CountOption {
	return func(s *StockCountService) {
		s.draftGuard = enabled
	}
}

// WithCompletenessWarning toggles the warning Finalize returns when items
// are still uncounted. Enabled by default.
func WithCompletenessWarning(enabled bool) CountOption {
	return func(s *StockCountService) {
		s.completenessWarning = enabled
	}
}

// StockCountService drives the stock count workflow
// draft -> pending_review -> approved, with reject back to draft.
type StockCountService struct {
	scope          TransactionScope
	countRepo      inventory.StockCountRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger

	draftGuard          bool
	completenessWarning bool
	now                 func() time.Time
}

// NewStockCountService creates a new StockCountService
func NewStockCountService(
	scope TransactionScope,
	countRepo inventory.StockCountRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
	opts ...CountOption,
) *StockCountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &StockCountService{
		scope:               scope,
		countRepo:           countRepo,
		productRepo:         productRepo,
		logger:              logger,
		draftGuard:          true,
		completenessWarning: true,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockCountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *StockCountService) publishDomainEvents(ctx context.Context, count *inventory.StockCount) {
	events := count.GetDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	count.ClearDomainEvents()
}

// ===================== Query Methods =====================

// Get returns a count with its items
func (s *StockCountService) Get(ctx context.Context, id uuid.UUID) (*StockCountResponse, error) {
	count, err := findCount(ctx, s.countRepo, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, count)
}

// List returns count headers newest first together with the total match count
func (s *StockCountService) List(ctx context.Context, filter CountListFilter) ([]StockCountResponse, int64, error) {
	domainFilter := inventory.CountFilter{
		Filter:  shared.Filter{Page: filter.Page, PageSize: filter.PageSize},
		Status:  filter.Status,
		StoreID: filter.StoreID,
	}
	domainFilter.ApplyDefaults()

	total, err := s.countRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	counts, err := s.countRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockCountResponse, len(counts))
	for i := range counts {
		responses[i] = ToStockCountResponse(&counts[i], nil)
	}
	return responses, total, nil
}

// ===================== Workflow =====================

// Create starts a draft count for a store, snapshotting the current total
// stock of every product not deactivated at that store.
// When the store already has a draft this ISO week a *inventory.DraftExistsError
// is returned unless in.Force is set.
func (s *StockCountService) Create(ctx context.Context, in CreateCountInput) (*StockCountResponse, error) {
	if in.StoreID == uuid.Nil {
		return nil, inventory.ErrMissingStore.WithMessage("A store is required to start a count")
	}

	var count *inventory.StockCount
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := findStore(ctx, repos.StoreRepo(), in.StoreID); err != nil {
			return err
		}

		if s.draftGuard && !in.Force {
			existing, err := repos.CountRepo().FindDraft(ctx, in.StoreID, inventory.PeriodKey(s.now()))
			if err == nil {
				return &inventory.DraftExistsError{CountID: existing.ID}
			}
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
		}

		products, err := repos.ProductRepo().FindAll(ctx, catalog.ProductFilter{})
		if err != nil {
			return err
		}
		inactiveIDs, err := repos.LevelRepo().FindInactiveProductIDs(ctx, in.StoreID)
		if err != nil {
			return err
		}
		inactive := make(map[uuid.UUID]struct{}, len(inactiveIDs))
		for _, id := range inactiveIDs {
			inactive[id] = struct{}{}
		}

		snapshot := make([]inventory.SnapshotProduct, 0, len(products))
		for _, p := range products {
			if _, skip := inactive[p.ID]; skip {
				continue
			}
			snapshot = append(snapshot, inventory.SnapshotProduct{ProductID: p.ID, CurrentStock: p.CurrentStock})
		}

		count, err = inventory.NewStockCount(in.StoreID, snapshot)
		if err != nil {
			return err
		}
		return repos.CountRepo().Create(ctx, count)
	})
	if err != nil {
		var draftErr *inventory.DraftExistsError
		if !errors.As(err, &draftErr) {
			s.logger.Error("failed to create stock count",
				zap.String("store_id", in.StoreID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.logger.Info("stock count created",
		zap.String("count_id", count.ID.String()),
		zap.String("store_id", in.StoreID.String()),
		zap.Int("items", len(count.Items)),
		zap.Bool("forced", in.Force),
	)
	s.publishDomainEvents(ctx, count)
	return s.toResponse(ctx, count)
}

// UpdateItems saves counted quantities on a draft count
func (s *StockCountService) UpdateItems(ctx context.Context, id uuid.UUID, in UpdateItemsInput) (*StockCountResponse, error) {
	var count *inventory.StockCount
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		count, err = findCount(ctx, repos.CountRepo(), id)
		if err != nil {
			return err
		}
		return saveItems(ctx, repos, count, in)
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, count)
}

// Finalize optionally flushes a last batch of counts, then submits the count
// for review. Uncounted items do not block; they are reported in the response.
func (s *StockCountService) Finalize(ctx context.Context, id uuid.UUID, flush *UpdateItemsInput) (*FinalizeResponse, error) {
	var (
		count  *inventory.StockCount
		result inventory.FinalizeResult
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		count, err = findCount(ctx, repos.CountRepo(), id)
		if err != nil {
			return err
		}
		if flush != nil {
			if err := saveItems(ctx, repos, count, *flush); err != nil {
				return err
			}
		}
		result, err = count.Finalize()
		if err != nil {
			return err
		}
		return repos.CountRepo().Update(ctx, count)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock count finalized",
		zap.String("count_id", count.ID.String()),
		zap.Int("uncounted_items", result.UncountedItems),
	)
	s.publishDomainEvents(ctx, count)

	countResp, err := s.toResponse(ctx, count)
	if err != nil {
		return nil, err
	}
	resp := &FinalizeResponse{
		Count:          *countResp,
		TotalItems:     result.TotalItems,
		UncountedItems: result.UncountedItems,
	}
	if s.completenessWarning && !result.Complete() {
		resp.Warning = fmt.Sprintf("%d of %d items still have a count of zero", result.UncountedItems, result.TotalItems)
	}
	return resp, nil
}

// Approve commits every counted quantity as the new level of
// (product, count store), overwriting the previous level, and marks the count
// approved. Either every level is written or none is.
func (s *StockCountService) Approve(ctx context.Context, id uuid.UUID) (*StockCountResponse, error) {
	var count *inventory.StockCount
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		count, err = findCount(ctx, repos.CountRepo(), id)
		if err != nil {
			return err
		}
		if err := count.Approve(); err != nil {
			return err
		}

		for _, item := range count.Items {
			if err := setLevel(ctx, repos, item.ProductID, *count.StoreID, item.QuantityCounted); err != nil {
				return inventory.ErrApprovalFailed.
					WithMessage(fmt.Sprintf("Stock count could not be approved: product %s failed", item.ProductID)).
					Wrap(err)
			}
		}

		return repos.CountRepo().Update(ctx, count)
	})
	if err != nil {
		s.logger.Error("failed to approve stock count",
			zap.String("count_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("stock count approved",
		zap.String("count_id", count.ID.String()),
		zap.String("store_id", count.StoreID.String()),
		zap.Int("items", len(count.Items)),
	)
	s.publishDomainEvents(ctx, count)
	return s.toResponse(ctx, count)
}

// Reject sends a pending count back to draft, keeping its counted values
func (s *StockCountService) Reject(ctx context.Context, id uuid.UUID) (*StockCountResponse, error) {
	var count *inventory.StockCount
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		count, err = findCount(ctx, repos.CountRepo(), id)
		if err != nil {
			return err
		}
		if err := count.Reject(); err != nil {
			return err
		}
		return repos.CountRepo().Update(ctx, count)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock count rejected", zap.String("count_id", count.ID.String()))
	s.publishDomainEvents(ctx, count)
	return s.toResponse(ctx, count)
}

// Delete removes a count that has not been approved
func (s *StockCountService) Delete(ctx context.Context, id uuid.UUID) error {
	var deleted *inventory.StockCount
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		count, err := findCount(ctx, repos.CountRepo(), id)
		if err != nil {
			return err
		}
		if err := count.MarkDeleted(); err != nil {
			return err
		}
		if err := repos.CountRepo().Delete(ctx, id); err != nil {
			return err
		}
		deleted = count
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("stock count deleted",
		zap.String("count_id", id.String()),
		zap.String("status", deleted.Status.String()),
	)
	s.publishDomainEvents(ctx, deleted)
	return nil
}

// saveItems applies and persists one batch of counted quantities
func saveItems(ctx context.Context, repos TransactionalRepositories, count *inventory.StockCount, in UpdateItemsInput) error {
	if err := count.UpdateItems(in.Items, in.CompletedCategories); err != nil {
		return err
	}
	return repos.CountRepo().Update(ctx, count)
}

func findCount(ctx context.Context, repo inventory.StockCountRepository, id uuid.UUID) (*inventory.StockCount, error) {
	count, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, inventory.ErrCountNotFound
		}
		return nil, err
	}
	return count, nil
}

func (s *StockCountService) toResponse(ctx context.Context, count *inventory.StockCount) (*StockCountResponse, error) {
	ids := make([]uuid.UUID, len(count.Items))
	for i, item := range count.Items {
		ids[i] = item.ProductID
	}

	products := make(map[uuid.UUID]*catalog.Product, len(ids))
	if len(ids) > 0 {
		found, err := s.productRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range found {
			products[found[i].ID] = &found[i]
		}
	}

	resp := ToStockCountResponse(count, products)
	return &resp, nil
}
