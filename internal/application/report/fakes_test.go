package report

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/report"
	"github.com/stockflow/backend/internal/domain/shared"
)

// fakeDB backs the report services with plain slices. Each repository embeds
// its interface so only the methods the services call are implemented.
type fakeDB struct {
	products  []catalog.Product
	stores    []catalog.Store
	levels    []inventory.InventoryLevel
	entries   []inventory.StockEntry
	counts    []inventory.StockCount
	reports   []report.WeeklyReport
	failWrite error
}

func (db *fakeDB) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	saved := append([]report.WeeklyReport(nil), db.reports...)
	if err := fn(db); err != nil {
		db.reports = saved
		return err
	}
	return nil
}

func (db *fakeDB) ProductRepo() catalog.ProductRepository {
	return &stubProducts{db: db}
}

func (db *fakeDB) EntryRepo() inventory.StockEntryRepository {
	return &stubEntries{db: db}
}

func (db *fakeDB) CountRepo() inventory.StockCountRepository {
	return &stubCounts{db: db}
}

func (db *fakeDB) ReportRepo() report.WeeklyReportRepository {
	return &stubReports{db: db}
}

func (db *fakeDB) addProduct(name, category string, minStock, stock, avg string) catalog.Product {
	p, err := catalog.NewProduct(catalog.ProductDetails{
		Name: name, Category: category, Unit: "un", MinStock: decimal.RequireFromString(minStock),
	})
	if err != nil {
		panic(err)
	}
	p.CurrentStock = decimal.RequireFromString(stock)
	p.AverageCost = decimal.RequireFromString(avg)
	db.products = append(db.products, *p)
	return *p
}

func (db *fakeDB) addEntry(productID uuid.UUID, qty string, at time.Time) {
	e, err := inventory.NewStockEntry(productID, uuid.New(), decimal.RequireFromString(qty), decimal.NewFromInt(1))
	if err != nil {
		panic(err)
	}
	e.CreatedAt = at
	db.entries = append(db.entries, *e)
}

func (db *fakeDB) addApprovedCount(at time.Time, counted map[uuid.UUID]string) {
	c := inventory.StockCount{Status: inventory.CountStatusApproved}
	c.ID = uuid.New()
	c.CreatedAt = at
	for id, qty := range counted {
		c.Items = append(c.Items, inventory.StockCountItem{ProductID: id, QuantityCounted: decimal.RequireFromString(qty)})
	}
	db.counts = append(db.counts, c)
}

type stubProducts struct {
	catalog.ProductRepository
	db *fakeDB
}

func (r *stubProducts) FindAll(_ context.Context, _ catalog.ProductFilter) ([]catalog.Product, error) {
	return append([]catalog.Product(nil), r.db.products...), nil
}

func (r *stubProducts) Count(_ context.Context, _ catalog.ProductFilter) (int64, error) {
	return int64(len(r.db.products)), nil
}

func (r *stubProducts) CountLowStock(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.db.products {
		if p.IsLowStock() {
			n++
		}
	}
	return n, nil
}

type stubStores struct {
	catalog.StoreRepository
	db *fakeDB
}

func (r *stubStores) FindAll(_ context.Context) ([]catalog.Store, error) {
	return r.db.stores, nil
}

type stubLevels struct {
	inventory.InventoryLevelRepository
	db *fakeDB
}

func (r *stubLevels) FindByStore(_ context.Context, storeID uuid.UUID) ([]inventory.InventoryLevel, error) {
	var out []inventory.InventoryLevel
	for _, l := range r.db.levels {
		if l.StoreID == storeID {
			out = append(out, l)
		}
	}
	return out, nil
}

type stubEntries struct {
	inventory.StockEntryRepository
	db *fakeDB
}

func (r *stubEntries) SumQuantityByProduct(_ context.Context, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	out := map[uuid.UUID]decimal.Decimal{}
	for _, e := range r.db.entries {
		if e.CreatedAt.Before(from) || e.CreatedAt.After(to) {
			continue
		}
		out[e.ProductID] = out[e.ProductID].Add(e.Quantity)
	}
	return out, nil
}

type stubCounts struct {
	inventory.StockCountRepository
	db *fakeDB
}

func (r *stubCounts) FindLatestApproved(_ context.Context, from, to time.Time) (*inventory.StockCount, error) {
	var latest *inventory.StockCount
	for i := range r.db.counts {
		c := &r.db.counts[i]
		if c.Status != inventory.CountStatusApproved || c.CreatedAt.Before(from) || c.CreatedAt.After(to) {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, shared.ErrNotFound
	}
	return latest, nil
}

func (r *stubCounts) Count(_ context.Context, filter inventory.CountFilter) (int64, error) {
	var n int64
	for _, c := range r.db.counts {
		if filter.Status == nil || c.Status == *filter.Status {
			n++
		}
	}
	return n, nil
}

type stubReports struct {
	report.WeeklyReportRepository
	db *fakeDB
}

func (r *stubReports) FindLatest(_ context.Context) (*report.WeeklyReport, error) {
	var latest *report.WeeklyReport
	for i := range r.db.reports {
		if latest == nil || r.db.reports[i].EndDate.After(latest.EndDate) {
			latest = &r.db.reports[i]
		}
	}
	if latest == nil {
		return nil, shared.ErrNotFound
	}
	return latest, nil
}

func (r *stubReports) FindByID(_ context.Context, id uuid.UUID) (*report.WeeklyReport, error) {
	for i := range r.db.reports {
		if r.db.reports[i].ID == id {
			return &r.db.reports[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubReports) FindAll(_ context.Context) ([]report.WeeklyReport, error) {
	out := make([]report.WeeklyReport, len(r.db.reports))
	for i := range r.db.reports {
		out[len(out)-1-i] = r.db.reports[i]
		out[len(out)-1-i].Items = nil
	}
	return out, nil
}

func (r *stubReports) Create(_ context.Context, rep *report.WeeklyReport) error {
	if r.db.failWrite != nil {
		return r.db.failWrite
	}
	r.db.reports = append(r.db.reports, *rep)
	return nil
}

type memStatsCache struct {
	mu    sync.Mutex
	stats *DashboardStats
	gets  int
}

func (c *memStatsCache) Get(_ context.Context) (*DashboardStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.stats, nil
}

func (c *memStatsCache) Set(_ context.Context, stats *DashboardStats, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = stats
	return nil
}

func (c *memStatsCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = nil
	return nil
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
