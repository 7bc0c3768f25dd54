package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/stockflow/backend/internal/application/inventory"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/interfaces/http/dto"
	"github.com/stockflow/backend/internal/interfaces/http/middleware"
)

// StockCountHandler drives the physical count workflow
type StockCountHandler struct {
	BaseHandler
	countService *inventoryapp.StockCountService
}

// NewStockCountHandler creates a new StockCountHandler
func NewStockCountHandler(countService *inventoryapp.StockCountService) *StockCountHandler {
	return &StockCountHandler{countService: countService}
}

// CreateCountRequest opens a draft for a store
type CreateCountRequest struct {
	StoreID uuid.UUID `json:"store_id" binding:"required"`
	Force   bool      `json:"force"`
}

// CountItemRequest is one counted line
type CountItemRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	QuantityCounted decimal.Decimal `json:"quantity_counted" binding:"gte=0"`
}

// UpdateItemsRequest carries counted lines and, optionally, the categories
// marked as done. A null completed_categories leaves them unchanged.
type UpdateItemsRequest struct {
	Items               []CountItemRequest `json:"items" binding:"dive"`
	CompletedCategories []string           `json:"completed_categories"`
}

func (r UpdateItemsRequest) toApp() inventoryapp.UpdateItemsInput {
	items := make([]inventory.ItemCount, len(r.Items))
	for i, it := range r.Items {
		items[i] = inventory.ItemCount{ProductID: it.ProductID, QuantityCounted: it.QuantityCounted}
	}
	return inventoryapp.UpdateItemsInput{Items: items, CompletedCategories: r.CompletedCategories}
}

// ListCountsQuery holds count listing filters
type ListCountsQuery struct {
	dto.ListRequest
	Status  string `form:"status" binding:"omitempty,oneof=draft pending_review approved rejected"`
	StoreID string `form:"store_id" binding:"omitempty,uuid"`
}

// Create opens a draft count snapshotting the store's current levels.
// A second draft in the same ISO week is refused unless force is set;
// the conflict response carries the existing draft's id.
// POST /inventory/counts
func (h *StockCountHandler) Create(c *gin.Context) {
	var req CreateCountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	count, err := h.countService.Create(c.Request.Context(), inventoryapp.CreateCountInput{
		StoreID: req.StoreID,
		Force:   req.Force,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, count)
}

// List returns count headers newest first.
// GET /inventory/counts
func (h *StockCountHandler) List(c *gin.Context) {
	var q ListCountsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()

	filter := inventoryapp.CountListFilter{Page: q.Page, PageSize: q.PageSize}
	if q.Status != "" {
		status := inventory.CountStatus(q.Status)
		filter.Status = &status
	}
	if q.StoreID != "" {
		id := uuid.MustParse(q.StoreID)
		filter.StoreID = &id
	}

	counts, total, err := h.countService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, counts, total, q.Page, q.PageSize)
}

// Get returns a count with its items.
// GET /inventory/counts/:id
func (h *StockCountHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "count")
	if !ok {
		return
	}

	count, err := h.countService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// UpdateItems saves counted quantities of a draft.
// PUT /inventory/counts/:id/items
func (h *StockCountHandler) UpdateItems(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "count")
	if !ok {
		return
	}
	var req UpdateItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	count, err := h.countService.UpdateItems(c.Request.Context(), id, req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// Finalize submits a draft for review. An optional body flushes the last
// counted lines first, atomically with the transition.
// POST /inventory/counts/:id/finalize
func (h *StockCountHandler) Finalize(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "count")
	if !ok {
		return
	}

	var flush *inventoryapp.UpdateItemsInput
	var req UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			middleware.HandleValidationError(c, err)
			return
		}
	} else {
		in := req.toApp()
		flush = &in
	}

	resp, err := h.countService.Finalize(c.Request.Context(), id, flush)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve applies every counted quantity to the store's levels.
// POST /inventory/counts/:id/approve
func (h *StockCountHandler) Approve(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "count")
	if !ok {
		return
	}

	count, err := h.countService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// Reject sends a count under review back to draft.
// POST /inventory/counts/:id/reject
func (h *StockCountHandler) Reject(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "count")
	if !ok {
		return
	}

	count, err := h.countService.Reject(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// Delete removes a count that has not been approved.
// DELETE /inventory/counts/:id
func (h *StockCountHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "count")
	if !ok {
		return
	}

	if err := h.countService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
