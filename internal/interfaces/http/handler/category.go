package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/stockflow/backend/internal/application/catalog"
)

// CategoryHandler handles category and subcategory endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest is the body of category creation
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateSubcategoryRequest is the body of subcategory creation
type CreateSubcategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	Name       string    `json:"name" binding:"required,min=1,max=100"`
}

// Create registers a category.
// POST /catalog/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), catalogapp.CreateCategoryRequest{Name: req.Name})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// List returns every category.
// GET /catalog/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// CreateSubcategory registers a subcategory under an existing category.
// POST /catalog/subcategories
func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	var req CreateSubcategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sub, err := h.categoryService.CreateSubcategory(c.Request.Context(), catalogapp.CreateSubcategoryRequest{
		CategoryID: req.CategoryID,
		Name:       req.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sub)
}

// ListSubcategories returns subcategories, optionally of one category.
// GET /catalog/subcategories?category_id=
func (h *CategoryHandler) ListSubcategories(c *gin.Context) {
	categoryID, ok := h.queryUUID(c, "category_id")
	if !ok {
		return
	}

	subs, err := h.categoryService.ListSubcategories(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subs)
}
