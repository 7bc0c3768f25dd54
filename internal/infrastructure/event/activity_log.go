package event

import (
	"context"

	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/report"
	"github.com/stockflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogHandler writes one structured log line per domain event, the
// operational trail of purchases, counts and report closes
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogHandler{logger: logger.Named("activity")}
}

// EventTypes returns nil: the handler receives every event
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event with its type-specific fields
func (h *ActivityLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *inventory.StockEntryRecordedEvent:
		fields = append(fields,
			zap.String("product_id", e.ProductID.String()),
			zap.String("store_id", e.StoreID.String()),
			zap.String("quantity", e.Quantity.String()),
			zap.String("cost_price", e.CostPrice.String()),
			zap.String("average_cost", e.AverageCost.String()),
		)
	case *inventory.StockCountEvent:
		fields = append(fields,
			zap.String("status", string(e.Status)),
			zap.Int("items", e.Items),
		)
		if e.StoreID != nil {
			fields = append(fields, zap.String("store_id", e.StoreID.String()))
		}
	case *catalog.ProductEvent:
		fields = append(fields, zap.String("name", e.Name))
	case *report.WeeklyReportClosedEvent:
		fields = append(fields,
			zap.Time("start_date", e.StartDate),
			zap.Time("end_date", e.EndDate),
			zap.Int("items", e.Items),
			zap.String("total_consumption_value", e.TotalConsumptionValue.String()),
		)
	}

	h.logger.Info(event.EventType(), fields...)
	return nil
}

// Subscribe registers every handler on bus under its own event types
func Subscribe(bus shared.EventSubscriber, handlers ...shared.EventHandler) {
	for _, handler := range handlers {
		bus.Subscribe(handler)
	}
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
