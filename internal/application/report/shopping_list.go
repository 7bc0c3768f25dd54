package report

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
)

// restockFactor is the multiple of min_stock a store is topped up to
var restockFactor = decimal.NewFromFloat(1.5)

// ShoppingListService lists what each store has to buy
type ShoppingListService struct {
	storeRepo   catalog.StoreRepository
	productRepo catalog.ProductRepository
	levelRepo   inventory.InventoryLevelRepository
}

// NewShoppingListService creates a new ShoppingListService
func NewShoppingListService(
	storeRepo catalog.StoreRepository,
	productRepo catalog.ProductRepository,
	levelRepo inventory.InventoryLevelRepository,
) *ShoppingListService {
	return &ShoppingListService{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		levelRepo:   levelRepo,
	}
}

// Suggestion returns how much to buy so the store reaches 1.5 × min_stock,
// rounded up to a whole unit and never negative
func Suggestion(minStock, level decimal.Decimal) decimal.Decimal {
	s := minStock.Mul(restockFactor).Sub(level).Ceil()
	if s.IsNegative() {
		return decimal.Zero
	}
	return s
}

// Build returns, per store, the products active there whose store level is
// at or below min_stock, grouped by category label. A product without a level
// row counts as zero and active. Stores with nothing to buy are omitted.
func (s *ShoppingListService) Build(ctx context.Context, filter ShoppingListFilter) ([]ShoppingListResponse, error) {
	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(ctx, catalog.ProductFilter{})
	if err != nil {
		return nil, err
	}
	products = matchSearch(products, filter.Search)

	out := make([]ShoppingListResponse, 0, len(stores))
	for _, store := range stores {
		if filter.StoreID != nil && store.ID != *filter.StoreID {
			continue
		}

		levels, err := s.levelRepo.FindByStore(ctx, store.ID)
		if err != nil {
			return nil, err
		}
		byProduct := make(map[uuid.UUID]inventory.InventoryLevel, len(levels))
		for _, l := range levels {
			byProduct[l.ProductID] = l
		}

		groups := map[string][]ShoppingListItem{}
		for _, p := range products {
			level, ok := byProduct[p.ID]
			if ok && !level.IsActive {
				continue
			}
			qty := decimal.Zero
			if ok {
				qty = level.Quantity
			}
			if qty.GreaterThan(p.MinStock) {
				continue
			}
			groups[p.Category] = append(groups[p.Category], ShoppingListItem{
				ProductID:  p.ID,
				Name:       p.Name,
				Unit:       p.Unit,
				Level:      qty,
				MinStock:   p.MinStock,
				Suggestion: Suggestion(p.MinStock, qty),
			})
		}
		if len(groups) == 0 {
			continue
		}

		labels := make([]string, 0, len(groups))
		for label := range groups {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		resp := ShoppingListResponse{
			StoreID:    store.ID,
			StoreName:  store.Name,
			StoreCode:  store.Code,
			Categories: make([]ShoppingListCategory, len(labels)),
		}
		for i, label := range labels {
			resp.Categories[i] = ShoppingListCategory{Category: label, Items: groups[label]}
		}
		out = append(out, resp)
	}
	return out, nil
}

func matchSearch(products []catalog.Product, search string) []catalog.Product {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return products
	}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), search) || strings.Contains(strings.ToLower(p.Category), search) {
			out = append(out, p)
		}
	}
	return out
}
