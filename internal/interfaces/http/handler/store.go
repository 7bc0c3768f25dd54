package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/stockflow/backend/internal/application/catalog"
)

// StoreHandler handles store endpoints
type StoreHandler struct {
	BaseHandler
	storeService *catalogapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *catalogapp.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// CreateStoreRequest is the body of store creation
type CreateStoreRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Code string `json:"code" binding:"required,min=1,max=20"`
}

// Create registers a store.
// POST /catalog/stores
func (h *StoreHandler) Create(c *gin.Context) {
	var req CreateStoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), catalogapp.CreateStoreRequest{
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, store)
}

// GetByID returns one store.
// GET /catalog/stores/:id
func (h *StoreHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "store")
	if !ok {
		return
	}

	store, err := h.storeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// List returns every store.
// GET /catalog/stores
func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.storeService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stores)
}
