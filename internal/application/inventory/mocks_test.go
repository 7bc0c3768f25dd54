package inventory

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
)

var errInjected = errors.New("injected storage failure")

// memDB is an in-memory backing store. Execute snapshots every table and
// restores it when fn fails, which gives tests real rollback semantics.
type memDB struct {
	mu       sync.Mutex
	products map[uuid.UUID]catalog.Product
	stores   map[uuid.UUID]catalog.Store
	levels   map[[2]uuid.UUID]inventory.InventoryLevel
	entries  []inventory.StockEntry
	counts   map[uuid.UUID]inventory.StockCount

	// failUpsertFor makes level upserts fail for one product
	failUpsertFor uuid.UUID
	// failEntryCreate makes entry inserts fail
	failEntryCreate bool
}

func newMemDB() *memDB {
	return &memDB{
		products: make(map[uuid.UUID]catalog.Product),
		stores:   make(map[uuid.UUID]catalog.Store),
		levels:   make(map[[2]uuid.UUID]inventory.InventoryLevel),
		counts:   make(map[uuid.UUID]inventory.StockCount),
	}
}

func (db *memDB) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	db.mu.Lock()
	products := maps.Clone(db.products)
	stores := maps.Clone(db.stores)
	levels := maps.Clone(db.levels)
	entries := append([]inventory.StockEntry(nil), db.entries...)
	counts := make(map[uuid.UUID]inventory.StockCount, len(db.counts))
	for k, v := range db.counts {
		counts[k] = copyCount(v)
	}
	db.mu.Unlock()

	if err := fn(db); err != nil {
		db.mu.Lock()
		db.products, db.stores, db.levels, db.entries, db.counts = products, stores, levels, entries, counts
		db.mu.Unlock()
		return err
	}
	return nil
}

func (db *memDB) ProductRepo() catalog.ProductRepository { return &memProductRepo{db} }

func (db *memDB) StoreRepo() catalog.StoreRepository { return &memStoreRepo{db} }

func (db *memDB) LevelRepo() inventory.InventoryLevelRepository { return &memLevelRepo{db} }

func (db *memDB) EntryRepo() inventory.StockEntryRepository { return &memEntryRepo{db} }

func (db *memDB) CountRepo() inventory.StockCountRepository { return &memCountRepo{db} }

func copyCount(c inventory.StockCount) inventory.StockCount {
	c.Items = append([]inventory.StockCountItem(nil), c.Items...)
	c.CompletedCategories = append([]string(nil), c.CompletedCategories...)
	c.ClearDomainEvents()
	return c
}

// seed helpers

func (db *memDB) addStore(t *testing.T, name, code string) *catalog.Store {
	t.Helper()
	s, err := catalog.NewStore(name, code)
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	db.stores[s.ID] = *s
	return s
}

func (db *memDB) addProduct(t *testing.T, name string, minStock decimal.Decimal) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductDetails{Name: name, Unit: "kg", Category: "General", MinStock: minStock})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	db.products[p.ID] = *p
	return p
}

func (db *memDB) product(id uuid.UUID) catalog.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.products[id]
}

func (db *memDB) level(productID, storeID uuid.UUID) decimal.Decimal {
	db.mu.Lock()
	defer db.mu.Unlock()
	l, ok := db.levels[[2]uuid.UUID{productID, storeID}]
	if !ok {
		return decimal.Zero
	}
	return l.Quantity
}

// ===================== products =====================

type memProductRepo struct{ db *memDB }

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) FindAll(_ context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]catalog.Product, 0, len(r.db.products))
	for _, p := range r.db.products {
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.db.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Count(ctx context.Context, filter catalog.ProductFilter) (int64, error) {
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r *memProductRepo) CountLowStock(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, p := range r.db.products {
		if p.IsLowStock() {
			n++
		}
	}
	return n, nil
}

func (r *memProductRepo) Create(_ context.Context, p *catalog.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) Update(_ context.Context, p *catalog.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.products[p.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != p.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.db.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.products, id)
	for k := range r.db.levels {
		if k[0] == id {
			delete(r.db.levels, k)
		}
	}
	return nil
}

// ===================== stores =====================

type memStoreRepo struct{ db *memDB }

func (r *memStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stores[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r *memStoreRepo) FindAll(_ context.Context) ([]catalog.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]catalog.Store, 0, len(r.db.stores))
	for _, s := range r.db.stores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memStoreRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.stores {
		if s.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memStoreRepo) Create(_ context.Context, s *catalog.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.stores[s.ID] = *s
	return nil
}

// ===================== levels =====================

type memLevelRepo struct{ db *memDB }

func (r *memLevelRepo) Find(_ context.Context, productID, storeID uuid.UUID) (*inventory.InventoryLevel, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l, ok := r.db.levels[[2]uuid.UUID{productID, storeID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &l, nil
}

func (r *memLevelRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.InventoryLevel, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]inventory.InventoryLevel, 0)
	for k, l := range r.db.levels {
		if k[0] == productID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memLevelRepo) FindByStore(_ context.Context, storeID uuid.UUID) ([]inventory.InventoryLevel, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]inventory.InventoryLevel, 0)
	for k, l := range r.db.levels {
		if k[1] == storeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memLevelRepo) Upsert(_ context.Context, level *inventory.InventoryLevel) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failUpsertFor != uuid.Nil && r.db.failUpsertFor == level.ProductID {
		return shared.NewPersistenceError(errInjected)
	}
	r.db.levels[[2]uuid.UUID{level.ProductID, level.StoreID}] = *level
	return nil
}

func (r *memLevelRepo) SumByProduct(_ context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	total := decimal.Zero
	for k, l := range r.db.levels {
		if k[0] == productID {
			total = total.Add(l.Quantity)
		}
	}
	return total, nil
}

func (r *memLevelRepo) FindInactiveProductIDs(_ context.Context, storeID uuid.UUID) ([]uuid.UUID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]uuid.UUID, 0)
	for k, l := range r.db.levels {
		if k[1] == storeID && !l.IsActive {
			out = append(out, k[0])
		}
	}
	return out, nil
}

// ===================== entries =====================

type memEntryRepo struct{ db *memDB }

func (r *memEntryRepo) Create(_ context.Context, e *inventory.StockEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failEntryCreate {
		return shared.NewPersistenceError(errInjected)
	}
	r.db.entries = append(r.db.entries, *e)
	return nil
}

func (r *memEntryRepo) matching(filter inventory.EntryFilter) []inventory.StockEntry {
	out := make([]inventory.StockEntry, 0)
	for _, e := range r.db.entries {
		if filter.ProductID != nil && e.ProductID != *filter.ProductID {
			continue
		}
		if filter.StoreID != nil && e.StoreID != *filter.StoreID {
			continue
		}
		if filter.From != nil && e.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memEntryRepo) FindAll(_ context.Context, filter inventory.EntryFilter) ([]inventory.StockEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := r.matching(filter)
	start := filter.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := len(out)
	if filter.PageSize > 0 && start+filter.PageSize < end {
		end = start + filter.PageSize
	}
	return out[start:end], nil
}

func (r *memEntryRepo) Count(_ context.Context, filter inventory.EntryFilter) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *memEntryRepo) SumQuantityByProduct(_ context.Context, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, e := range r.db.entries {
		if e.CreatedAt.Before(from) || e.CreatedAt.After(to) {
			continue
		}
		out[e.ProductID] = out[e.ProductID].Add(e.Quantity)
	}
	return out, nil
}

func (r *memEntryRepo) ExistsForProduct(_ context.Context, productID uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, e := range r.db.entries {
		if e.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// ===================== counts =====================

type memCountRepo struct{ db *memDB }

func (r *memCountRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.counts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c = copyCount(c)
	return &c, nil
}

func (r *memCountRepo) matching(filter inventory.CountFilter) []inventory.StockCount {
	out := make([]inventory.StockCount, 0)
	for _, c := range r.db.counts {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.StoreID != nil && (c.StoreID == nil || *c.StoreID != *filter.StoreID) {
			continue
		}
		c = copyCount(c)
		c.Items = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memCountRepo) FindAll(_ context.Context, filter inventory.CountFilter) ([]inventory.StockCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.matching(filter), nil
}

func (r *memCountRepo) Count(_ context.Context, filter inventory.CountFilter) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *memCountRepo) FindDraft(_ context.Context, storeID uuid.UUID, periodKey string) (*inventory.StockCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.counts {
		if c.Status == inventory.CountStatusDraft && c.StoreID != nil && *c.StoreID == storeID && c.PeriodKey == periodKey {
			c = copyCount(c)
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCountRepo) FindLatestApproved(_ context.Context, from, to time.Time) (*inventory.StockCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var latest *inventory.StockCount
	for _, c := range r.db.counts {
		if c.Status != inventory.CountStatusApproved || c.CreatedAt.Before(from) || c.CreatedAt.After(to) {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			cp := copyCount(c)
			latest = &cp
		}
	}
	if latest == nil {
		return nil, shared.ErrNotFound
	}
	return latest, nil
}

func (r *memCountRepo) Create(_ context.Context, c *inventory.StockCount) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.counts[c.ID] = copyCount(*c)
	return nil
}

func (r *memCountRepo) Update(_ context.Context, c *inventory.StockCount) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.counts[c.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != c.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.db.counts[c.ID] = copyCount(*c)
	return nil
}

func (r *memCountRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.counts, id)
	return nil
}

func (r *memCountRepo) ExistsItemForProduct(_ context.Context, productID uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.counts {
		for _, item := range c.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.EventType()
	}
	return out
}
