package catalog

import "github.com/stockflow/backend/internal/domain/shared"

var (
	ErrProductNotFound  = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrStoreNotFound    = shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
	ErrCategoryNotFound = shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	ErrInvalidProduct   = shared.NewDomainError("INVALID_PRODUCT", "Invalid product")
	ErrInvalidStore     = shared.NewDomainError("INVALID_STORE", "Invalid store")
	ErrInvalidCategory  = shared.NewDomainError("INVALID_CATEGORY", "Invalid category")
	ErrDuplicateStore   = shared.NewDomainError("DUPLICATE_STORE_CODE", "A store with this code already exists")
	// ErrProductInUse blocks deletion of products referenced by entries or counts
	ErrProductInUse = shared.NewDomainError("PRODUCT_IN_USE", "Product is referenced by stock entries or counts")
)
