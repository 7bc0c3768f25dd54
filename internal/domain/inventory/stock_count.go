package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// CountStatus represents the lifecycle status of a stock count
type CountStatus string

const (
	CountStatusDraft         CountStatus = "draft"
	CountStatusPendingReview CountStatus = "pending_review"
	CountStatusApproved      CountStatus = "approved"
	// CountStatusRejected only appears in legacy rows. Reject returns a count
	// to draft, so nothing produces this status and nothing leaves it.
	CountStatusRejected CountStatus = "rejected"
)

// IsValid checks if the status is a known CountStatus
func (s CountStatus) IsValid() bool {
	switch s {
	case CountStatusDraft, CountStatusPendingReview, CountStatusApproved, CountStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of CountStatus
func (s CountStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s CountStatus) CanTransitionTo(target CountStatus) bool {
	switch s {
	case CountStatusDraft:
		return target == CountStatusPendingReview
	case CountStatusPendingReview:
		return target == CountStatusApproved || target == CountStatusDraft
	}
	return false
}

// PeriodKey returns the ISO week label used to guard against duplicate drafts
func PeriodKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// StockCountItem is one product line of a count.
// QuantitySystem is the snapshot taken at creation and never changes.
type StockCountItem struct {
	ProductID       uuid.UUID
	QuantitySystem  decimal.Decimal
	QuantityCounted decimal.Decimal
}

// Variance returns counted minus system quantity
func (i StockCountItem) Variance() decimal.Decimal {
	return i.QuantityCounted.Sub(i.QuantitySystem)
}

// SnapshotProduct is the input needed to seed a count item
type SnapshotProduct struct {
	ProductID    uuid.UUID
	CurrentStock decimal.Decimal
}

// ItemCount is a counted quantity submitted for one product
type ItemCount struct {
	ProductID       uuid.UUID
	QuantityCounted decimal.Decimal
}

// FinalizeResult carries the non-blocking completeness check of Finalize
type FinalizeResult struct {
	TotalItems     int
	UncountedItems int
}

// Complete reports whether every item has a non-zero count
func (r FinalizeResult) Complete() bool {
	return r.UncountedItems == 0
}

// StockCount is a snapshot-based physical count of one store.
// It is the aggregate root for the counting workflow; its item set is
// fixed at creation.
type StockCount struct {
	shared.BaseAggregateRoot
	StoreID             *uuid.UUID // nil only for legacy counts
	Status              CountStatus
	PeriodKey           string
	CompletedCategories []string
	Items               []StockCountItem
}

// NewStockCount creates a draft count with one item per snapshot product
func NewStockCount(storeID uuid.UUID, products []SnapshotProduct) (*StockCount, error) {
	if storeID == uuid.Nil {
		return nil, ErrMissingStore.WithMessage("A store is required to start a count")
	}

	c := &StockCount{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		StoreID:             &storeID,
		Status:              CountStatusDraft,
		CompletedCategories: make([]string, 0),
		Items:               make([]StockCountItem, 0, len(products)),
	}
	c.PeriodKey = PeriodKey(c.CreatedAt)

	seen := make(map[uuid.UUID]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ProductID]; dup {
			continue
		}
		seen[p.ProductID] = struct{}{}
		c.Items = append(c.Items, StockCountItem{
			ProductID:       p.ProductID,
			QuantitySystem:  p.CurrentStock,
			QuantityCounted: decimal.Zero,
		})
	}

	c.AddDomainEvent(NewStockCountCreatedEvent(c))
	return c, nil
}

// UpdateItems replaces counted quantities by product match.
// Every update is validated before any is applied. A nil completed slice
// leaves the completed categories unchanged.
func (c *StockCount) UpdateItems(updates []ItemCount, completed []string) error {
	if c.Status != CountStatusDraft {
		return illegalTransition(c.Status, "update items of")
	}

	index := c.itemIndex()
	for _, u := range updates {
		if _, ok := index[u.ProductID]; !ok {
			return ErrUnknownProduct.WithMessage(fmt.Sprintf("Product %s is not part of this count", u.ProductID))
		}
		if u.QuantityCounted.IsNegative() {
			return ErrInvalidQuantity.WithMessage("Counted quantity cannot be negative")
		}
	}

	for _, u := range updates {
		c.Items[index[u.ProductID]].QuantityCounted = u.QuantityCounted
	}
	if completed != nil {
		c.CompletedCategories = append(make([]string, 0, len(completed)), completed...)
	}

	c.Touch()
	c.IncrementVersion()
	return nil
}

// Finalize submits the count for review
func (c *StockCount) Finalize() (FinalizeResult, error) {
	if !c.Status.CanTransitionTo(CountStatusPendingReview) {
		return FinalizeResult{}, illegalTransition(c.Status, "finalize")
	}

	c.Status = CountStatusPendingReview
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewStockCountFinalizedEvent(c))

	return FinalizeResult{TotalItems: len(c.Items), UncountedItems: c.UncountedItems()}, nil
}

// Approve marks the count approved. The caller commits the counted
// quantities to the ledger in the same transaction.
func (c *StockCount) Approve() error {
	if !c.Status.CanTransitionTo(CountStatusApproved) {
		return illegalTransition(c.Status, "approve")
	}
	if c.StoreID == nil {
		return ErrCountWithoutStore
	}

	c.Status = CountStatusApproved
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewStockCountApprovedEvent(c))
	return nil
}

// Reject sends the count back to draft keeping the counted values
func (c *StockCount) Reject() error {
	if c.Status != CountStatusPendingReview {
		return illegalTransition(c.Status, "reject")
	}

	c.Status = CountStatusDraft
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewStockCountRejectedEvent(c))
	return nil
}

// EnsureDeletable fails for approved counts
func (c *StockCount) EnsureDeletable() error {
	if c.Status == CountStatusApproved {
		return ErrCannotDeleteApproved
	}
	return nil
}

// MarkDeleted checks the count can go and records its removal
func (c *StockCount) MarkDeleted() error {
	if err := c.EnsureDeletable(); err != nil {
		return err
	}
	c.AddDomainEvent(NewStockCountDeletedEvent(c))
	return nil
}

// Item returns the line for productID
func (c *StockCount) Item(productID uuid.UUID) (StockCountItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return StockCountItem{}, false
}

// UncountedItems returns how many items still have a zero count
func (c *StockCount) UncountedItems() int {
	n := 0
	for _, item := range c.Items {
		if item.QuantityCounted.IsZero() {
			n++
		}
	}
	return n
}

func (c *StockCount) itemIndex() map[uuid.UUID]int {
	index := make(map[uuid.UUID]int, len(c.Items))
	for i, item := range c.Items {
		index[item.ProductID] = i
	}
	return index
}
