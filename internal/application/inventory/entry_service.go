package inventory

import (
	"context"

	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockEntryService records purchases: it updates the product's weighted
// average cost, appends the entry and raises the store level, all in one
// transaction.
type StockEntryService struct {
	scope          TransactionScope
	entryRepo      inventory.StockEntryRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStockEntryService creates a new StockEntryService
func NewStockEntryService(scope TransactionScope, entryRepo inventory.StockEntryRepository, logger *zap.Logger) *StockEntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockEntryService{
		scope:     scope,
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockEntryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Record books a purchase of in.Quantity units at in.CostPrice into in.StoreID.
// Every failure, validation included, is returned as ErrEntryRecordingFailed
// wrapping the cause.
func (s *StockEntryService) Record(ctx context.Context, in RecordEntryInput) (*RecordEntryResponse, error) {
	entry, err := inventory.NewStockEntry(in.ProductID, in.StoreID, in.Quantity, in.CostPrice)
	if err != nil {
		return nil, inventory.ErrEntryRecordingFailed.Wrap(err)
	}

	var resp RecordEntryResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := findProduct(ctx, repos.ProductRepo(), in.ProductID, true)
		if err != nil {
			return err
		}
		if _, err := findStore(ctx, repos.StoreRepo(), in.StoreID); err != nil {
			return err
		}

		cost := inventory.WeightedAverageCost(product.CurrentStock, product.AverageCost, entry.Quantity, entry.CostPrice)
		product.ApplyCost(cost.AverageCost, cost.LastCost)
		if err := repos.ProductRepo().Update(ctx, product); err != nil {
			return err
		}

		if err := repos.EntryRepo().Create(ctx, entry); err != nil {
			return err
		}

		if err := addToLevel(ctx, repos, entry.ProductID, entry.StoreID, entry.Quantity); err != nil {
			return err
		}

		level, err := repos.LevelRepo().Find(ctx, entry.ProductID, entry.StoreID)
		if err != nil {
			return err
		}
		total, err := repos.LevelRepo().SumByProduct(ctx, entry.ProductID)
		if err != nil {
			return err
		}

		resp = RecordEntryResponse{
			Entry:        ToStockEntryResponse(entry),
			AverageCost:  cost.AverageCost,
			LastCost:     cost.LastCost,
			CurrentStock: total,
			StoreLevel:   level.Quantity,
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to record stock entry",
			zap.String("product_id", in.ProductID.String()),
			zap.String("store_id", in.StoreID.String()),
			zap.String("quantity", in.Quantity.String()),
			zap.Error(err),
		)
		return nil, inventory.ErrEntryRecordingFailed.Wrap(err)
	}

	s.logger.Info("stock entry recorded",
		zap.String("entry_id", entry.ID.String()),
		zap.String("product_id", entry.ProductID.String()),
		zap.String("store_id", entry.StoreID.String()),
		zap.String("quantity", entry.Quantity.String()),
		zap.String("average_cost", resp.AverageCost.String()),
	)

	if s.eventPublisher != nil {
		// Publish errors are logged by the event bus, not propagated
		_ = s.eventPublisher.Publish(ctx, inventory.NewStockEntryRecordedEvent(entry, resp.AverageCost))
	}
	return &resp, nil
}

// List returns entries newest first together with the total match count
func (s *StockEntryService) List(ctx context.Context, filter EntryListFilter) ([]StockEntryResponse, int64, error) {
	domainFilter := inventory.EntryFilter{
		Filter:    shared.Filter{Page: filter.Page, PageSize: filter.PageSize},
		ProductID: filter.ProductID,
		StoreID:   filter.StoreID,
		From:      filter.From,
		To:        filter.To,
	}
	domainFilter.ApplyDefaults()

	total, err := s.entryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	entries, err := s.entryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToStockEntryResponse(&entries[i])
	}
	return responses, total, nil
}
