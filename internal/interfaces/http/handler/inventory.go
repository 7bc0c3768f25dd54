package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/stockflow/backend/internal/application/inventory"
)

// InventoryHandler exposes the per-store inventory ledger
type InventoryHandler struct {
	BaseHandler
	ledger *inventoryapp.Ledger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledger *inventoryapp.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// SetLevelRequest is the body of a manual level adjustment
type SetLevelRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"gte=0"`
}

// SetActiveRequest toggles whether a product is stocked at a store
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// LevelResponse is the quantity of one product at one store
type LevelResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	StoreID   uuid.UUID       `json:"store_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ProductLevelsResponse lists the levels of one product and their total
type ProductLevelsResponse struct {
	ProductID uuid.UUID                             `json:"product_id"`
	Total     decimal.Decimal                       `json:"total"`
	Levels    []inventoryapp.InventoryLevelResponse `json:"levels"`
}

func (h *InventoryHandler) productAndStore(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	productID, ok := h.pathUUID(c, "id", "product")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	storeID, ok := h.pathUUID(c, "store_id", "store")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return productID, storeID, true
}

// ListLevels returns every per-store level of a product and their sum.
// GET /inventory/products/:id/levels
func (h *InventoryHandler) ListLevels(c *gin.Context) {
	productID, ok := h.pathUUID(c, "id", "product")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	levels, err := h.ledger.LevelsFor(ctx, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.ledger.TotalFor(ctx, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := ProductLevelsResponse{
		ProductID: productID,
		Total:     total,
		Levels:    make([]inventoryapp.InventoryLevelResponse, len(levels)),
	}
	for i := range levels {
		resp.Levels[i] = inventoryapp.ToInventoryLevelResponse(&levels[i])
	}
	h.Success(c, resp)
}

// GetLevel returns the quantity of a product at one store, zero when unset.
// GET /inventory/products/:id/stores/:store_id
func (h *InventoryHandler) GetLevel(c *gin.Context) {
	productID, storeID, ok := h.productAndStore(c)
	if !ok {
		return
	}

	qty, err := h.ledger.GetLevel(c.Request.Context(), productID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LevelResponse{ProductID: productID, StoreID: storeID, Quantity: qty})
}

// SetLevel overwrites the quantity of a product at one store.
// PUT /inventory/products/:id/stores/:store_id
func (h *InventoryHandler) SetLevel(c *gin.Context) {
	productID, storeID, ok := h.productAndStore(c)
	if !ok {
		return
	}
	var req SetLevelRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.ledger.SetLevel(ctx, productID, storeID, req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	qty, err := h.ledger.GetLevel(ctx, productID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LevelResponse{ProductID: productID, StoreID: storeID, Quantity: qty})
}

// SetActive marks whether a product is stocked at a store.
// PATCH /inventory/products/:id/stores/:store_id/active
func (h *InventoryHandler) SetActive(c *gin.Context) {
	productID, storeID, ok := h.productAndStore(c)
	if !ok {
		return
	}
	var req SetActiveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.ledger.SetActive(c.Request.Context(), productID, storeID, *req.Active); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
