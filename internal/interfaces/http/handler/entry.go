package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/stockflow/backend/internal/application/inventory"
	"github.com/stockflow/backend/internal/interfaces/http/dto"
)

// StockEntryHandler records incoming stock
type StockEntryHandler struct {
	BaseHandler
	entryService *inventoryapp.StockEntryService
}

// NewStockEntryHandler creates a new StockEntryHandler
func NewStockEntryHandler(entryService *inventoryapp.StockEntryService) *StockEntryHandler {
	return &StockEntryHandler{entryService: entryService}
}

// RecordEntryRequest is the body of a stock entry
type RecordEntryRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	StoreID   uuid.UUID       `json:"store_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"gt=0"`
	CostPrice decimal.Decimal `json:"cost_price" binding:"gte=0"`
}

// Record appends an entry, updates the store level and the product's
// average cost in one transaction.
// POST /inventory/entries
func (h *StockEntryHandler) Record(c *gin.Context) {
	var req RecordEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.entryService.Record(c.Request.Context(), inventoryapp.RecordEntryInput{
		ProductID: req.ProductID,
		StoreID:   req.StoreID,
		Quantity:  req.Quantity,
		CostPrice: req.CostPrice,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns entries newest first.
// GET /inventory/entries?product_id=&store_id=&from=&to=
func (h *StockEntryHandler) List(c *gin.Context) {
	var page dto.ListRequest
	if !h.bindQuery(c, &page) {
		return
	}
	page.Normalize()

	productID, ok := h.queryUUID(c, "product_id")
	if !ok {
		return
	}
	storeID, ok := h.queryUUID(c, "store_id")
	if !ok {
		return
	}
	from, ok := h.queryTime(c, "from", false)
	if !ok {
		return
	}
	to, ok := h.queryTime(c, "to", true)
	if !ok {
		return
	}

	entries, total, err := h.entryService.List(c.Request.Context(), inventoryapp.EntryListFilter{
		Page:      page.Page,
		PageSize:  page.PageSize,
		ProductID: productID,
		StoreID:   storeID,
		From:      from,
		To:        to,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, page.Page, page.PageSize)
}
