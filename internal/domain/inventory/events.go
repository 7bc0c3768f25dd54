package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

const (
	AggregateTypeStockCount = "StockCount"
	AggregateTypeStockEntry = "StockEntry"
)

const (
	EventTypeStockEntryRecorded  = "StockEntryRecorded"
	EventTypeStockCountCreated   = "StockCountCreated"
	EventTypeStockCountFinalized = "StockCountFinalized"
	EventTypeStockCountApproved  = "StockCountApproved"
	EventTypeStockCountRejected  = "StockCountRejected"
	EventTypeStockCountDeleted   = "StockCountDeleted"
)

// StockEntryRecordedEvent is raised after a purchase has been committed
type StockEntryRecordedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// NewStockEntryRecordedEvent creates a new StockEntryRecordedEvent
func NewStockEntryRecordedEvent(e *StockEntry, averageCost decimal.Decimal) *StockEntryRecordedEvent {
	return &StockEntryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockEntryRecorded, AggregateTypeStockEntry, e.ID),
		ProductID:       e.ProductID,
		StoreID:         e.StoreID,
		Quantity:        e.Quantity,
		CostPrice:       e.CostPrice,
		AverageCost:     averageCost,
	}
}

// StockCountEvent carries the count identity for every count transition
type StockCountEvent struct {
	shared.BaseDomainEvent
	CountID uuid.UUID   `json:"count_id"`
	StoreID *uuid.UUID  `json:"store_id,omitempty"`
	Status  CountStatus `json:"status"`
	Items   int         `json:"items"`
}

func newStockCountEvent(eventType string, c *StockCount) *StockCountEvent {
	return &StockCountEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeStockCount, c.ID),
		CountID:         c.ID,
		StoreID:         c.StoreID,
		Status:          c.Status,
		Items:           len(c.Items),
	}
}

// NewStockCountCreatedEvent creates the event raised by NewStockCount
func NewStockCountCreatedEvent(c *StockCount) *StockCountEvent {
	return newStockCountEvent(EventTypeStockCountCreated, c)
}

// NewStockCountFinalizedEvent creates the event raised by Finalize
func NewStockCountFinalizedEvent(c *StockCount) *StockCountEvent {
	return newStockCountEvent(EventTypeStockCountFinalized, c)
}

// NewStockCountApprovedEvent creates the event raised by Approve
func NewStockCountApprovedEvent(c *StockCount) *StockCountEvent {
	return newStockCountEvent(EventTypeStockCountApproved, c)
}

// NewStockCountRejectedEvent creates the event raised by Reject
func NewStockCountRejectedEvent(c *StockCount) *StockCountEvent {
	return newStockCountEvent(EventTypeStockCountRejected, c)
}

// NewStockCountDeletedEvent creates the event raised by MarkDeleted
func NewStockCountDeletedEvent(c *StockCount) *StockCountEvent {
	return newStockCountEvent(EventTypeStockCountDeleted, c)
}
