package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product directory operations.
// Stock and cost are never written here; they belong to the ledger and the
// entry recorder.
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	levelRepo    inventory.InventoryLevelRepository
	entryRepo    inventory.StockEntryRepository
	countRepo    inventory.StockCountRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	levelRepo inventory.InventoryLevelRepository,
	entryRepo inventory.StockEntryRepository,
	countRepo inventory.StockCountRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		levelRepo:    levelRepo,
		entryRepo:    entryRepo,
		countRepo:    countRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

func (s *ProductService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	if s.publisher != nil && len(events) > 0 {
		_ = s.publisher.Publish(ctx, events...)
	}
	product.ClearDomainEvents()
}

// Create registers a product with zero stock and zero cost
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	details, err := s.resolveDetails(ctx, req)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(details)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)
	s.publishDomainEvents(ctx, product)
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID returns a product with its per-store levels
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	levels, err := s.levelRepo.FindByProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	resp.Levels = toProductLevels(levels)
	return &resp, nil
}

// List returns products ordered by name
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		},
		CategoryID: filter.CategoryID,
	}
	domainFilter.ApplyDefaults()

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Update replaces the descriptive fields and minimum stock of a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.resolveDetails(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := product.Update(details); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product and its levels. Products referenced by stock
// entries or count items are kept for audit and ErrProductInUse is returned.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}

	hasEntries, err := s.entryRepo.ExistsForProduct(ctx, id)
	if err != nil {
		return err
	}
	inCounts, err := s.countRepo.ExistsItemForProduct(ctx, id)
	if err != nil {
		return err
	}
	if hasEntries || inCounts {
		return catalog.ErrProductInUse
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	product.MarkDeleted()
	s.publishDomainEvents(ctx, product)
	return nil
}

// resolveDetails validates category references and fills the category label
func (s *ProductService) resolveDetails(ctx context.Context, req CreateProductRequest) (catalog.ProductDetails, error) {
	details := catalog.ProductDetails{
		Name:          req.Name,
		Barcode:       req.Barcode,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Category:      req.Category,
		Unit:          req.Unit,
		MinStock:      req.MinStock,
	}

	if req.CategoryID != nil {
		category, err := s.categoryRepo.FindByID(ctx, *req.CategoryID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return details, catalog.ErrCategoryNotFound
			}
			return details, err
		}
		if details.Category == "" {
			details.Category = category.Name
		}
	}

	if req.SubcategoryID != nil {
		sub, err := s.categoryRepo.FindSubcategoryByID(ctx, *req.SubcategoryID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return details, catalog.ErrCategoryNotFound.WithMessage("Subcategory not found")
			}
			return details, err
		}
		if req.CategoryID != nil && sub.CategoryID != *req.CategoryID {
			return details, catalog.ErrInvalidProduct.WithMessage("Subcategory does not belong to the selected category")
		}
	}

	return details, nil
}

func (s *ProductService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}
