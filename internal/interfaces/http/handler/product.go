package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/stockflow/backend/internal/application/catalog"
	"github.com/stockflow/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductRequest is the body of product create and update.
// Stock and cost are owned by the ledger and are not accepted here.
type ProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Barcode       string          `json:"barcode" binding:"max=64"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	SubcategoryID *uuid.UUID      `json:"subcategory_id"`
	Category      string          `json:"category" binding:"max=100"`
	Unit          string          `json:"unit" binding:"required,max=20"`
	MinStock      decimal.Decimal `json:"min_stock" binding:"gte=0"`
}

func (r ProductRequest) toApp() catalogapp.CreateProductRequest {
	return catalogapp.CreateProductRequest{
		Name:          r.Name,
		Barcode:       r.Barcode,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		Category:      r.Category,
		Unit:          r.Unit,
		MinStock:      r.MinStock,
	}
}

// ListProductsQuery holds product listing filters
type ListProductsQuery struct {
	dto.ListRequest
	Search     string `form:"search" binding:"max=100"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
}

// Create registers a product with zero stock.
// POST /catalog/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID returns a product with its per-store levels.
// GET /catalog/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List returns products ordered by name.
// GET /catalog/products
func (h *ProductHandler) List(c *gin.Context) {
	var q ListProductsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()

	filter := catalogapp.ProductListFilter{
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.CategoryID != "" {
		id := uuid.MustParse(q.CategoryID)
		filter.CategoryID = &id
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, q.Page, q.PageSize)
}

// Update replaces the descriptive fields of a product.
// PUT /catalog/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "product")
	if !ok {
		return
	}
	var req ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product that no entry or count references.
// DELETE /catalog/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "product")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
