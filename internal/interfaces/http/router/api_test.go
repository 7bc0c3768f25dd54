package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/stockflow/backend/internal/application/catalog"
	inventoryapp "github.com/stockflow/backend/internal/application/inventory"
	reportapp "github.com/stockflow/backend/internal/application/report"
	"github.com/stockflow/backend/internal/infrastructure/cache"
	"github.com/stockflow/backend/internal/infrastructure/config"
	"github.com/stockflow/backend/internal/infrastructure/event"
	"github.com/stockflow/backend/internal/infrastructure/persistence"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"github.com/stockflow/backend/internal/interfaces/http/handler"
	"github.com/stockflow/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sqlPinger struct{ db *gorm.DB }

func (p sqlPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// newTestAPI wires the full API over a private in-memory SQLite database
func newTestAPI(t *testing.T) *gin.Engine {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := zap.NewNop()
	productRepo := persistence.NewGormProductRepository(db)
	storeRepo := persistence.NewGormStoreRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	levelRepo := persistence.NewGormInventoryLevelRepository(db)
	entryRepo := persistence.NewGormStockEntryRepository(db)
	countRepo := persistence.NewGormStockCountRepository(db)
	reportRepo := persistence.NewGormWeeklyReportRepository(db)
	scope := persistence.NewGormTransactionScope(db)

	statsCache := cache.NewInMemoryStatsCache()
	idemStore := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = idemStore.Close() })

	bus := event.NewInMemoryEventBus(log)
	event.Subscribe(bus, reportapp.NewStatsInvalidator(statsCache, log))

	entryService := inventoryapp.NewStockEntryService(scope, entryRepo, log)
	entryService.SetEventPublisher(bus)
	countService := inventoryapp.NewStockCountService(scope, countRepo, productRepo, log)
	countService.SetEventPublisher(bus)
	weeklyService := reportapp.NewWeeklyReportService(persistence.NewGormReportTransactionScope(db), reportRepo, log)
	weeklyService.SetEventPublisher(bus)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, levelRepo, entryRepo, countRepo, log)
	productService.SetEventPublisher(bus)

	engine, err := NewEngine(config.HTTPConfig{MaxBodySize: 1 << 20}, log)
	require.NoError(t, err)
	RegisterAPI(engine, Handlers{
		Products:   handler.NewProductHandler(productService),
		Stores:     handler.NewStoreHandler(catalogapp.NewStoreService(storeRepo)),
		Categories: handler.NewCategoryHandler(catalogapp.NewCategoryService(categoryRepo)),
		Inventory:  handler.NewInventoryHandler(inventoryapp.NewLedger(scope, levelRepo, log)),
		Entries:    handler.NewStockEntryHandler(entryService),
		Counts:     handler.NewStockCountHandler(countService),
		Reports: handler.NewReportHandler(
			weeklyService,
			reportapp.NewShoppingListService(storeRepo, productRepo, levelRepo),
			reportapp.NewDashboardService(productRepo, countRepo, statsCache, time.Minute, log),
		),
		System: handler.NewSystemHandler("stockflow", "test", sqlPinger{db: db}),
	}, middleware.Idempotency(idemStore, time.Hour, log))
	return engine
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		RequestID  string `json:"request_id"`
		ExistingID string `json:"existing_id"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

func call(t *testing.T, engine *gin.Engine, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func decodeData(t *testing.T, resp apiResponse, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), append([]any{"want %s got %s", want, got}, msgAndArgs...)...)
}

type idBody struct {
	ID uuid.UUID `json:"id"`
}

func createStore(t *testing.T, engine *gin.Engine, name, code string) uuid.UUID {
	t.Helper()
	w, resp := call(t, engine, http.MethodPost, "/api/v1/catalog/stores", map[string]any{"name": name, "code": code})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out idBody
	decodeData(t, resp, &out)
	return out.ID
}

func createProduct(t *testing.T, engine *gin.Engine, name, minStock string) uuid.UUID {
	t.Helper()
	w, resp := call(t, engine, http.MethodPost, "/api/v1/catalog/products", map[string]any{
		"name": name, "unit": "kg", "category": "Mercearia", "min_stock": minStock,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out idBody
	decodeData(t, resp, &out)
	return out.ID
}

func TestAPI_Health(t *testing.T) {
	engine := newTestAPI(t)

	w, _ := call(t, engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w, _ = call(t, engine, http.MethodGet, "/api/v1/system/info", nil, middleware.RequestIDHeader, "trace-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-1", w.Header().Get(middleware.RequestIDHeader))
}

func TestAPI_Catalog(t *testing.T) {
	engine := newTestAPI(t)

	createStore(t, engine, "Centro", "CTR")
	w, resp := call(t, engine, http.MethodPost, "/api/v1/catalog/stores", map[string]any{"name": "Outra", "code": "CTR"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_STORE_CODE", resp.Error.Code)

	w, resp = call(t, engine, http.MethodPost, "/api/v1/catalog/products", map[string]any{"unit": "kg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)

	productID := createProduct(t, engine, "Arroz", "5")

	w, resp = call(t, engine, http.MethodGet, "/api/v1/catalog/products?search=arr", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.EqualValues(t, 1, resp.Meta.Total)

	w, resp = call(t, engine, http.MethodPut, "/api/v1/catalog/products/"+productID.String(), map[string]any{
		"name": "Arroz Agulhinha", "unit": "kg", "min_stock": "8",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var product catalogapp.ProductResponse
	decodeData(t, resp, &product)
	assert.Equal(t, "Arroz Agulhinha", product.Name)
	assertDecimal(t, "8", product.MinStock)

	w, resp = call(t, engine, http.MethodGet, "/api/v1/catalog/products/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", resp.Error.Code)

	w, _ = call(t, engine, http.MethodGet, "/api/v1/catalog/products/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, engine, http.MethodDelete, "/api/v1/catalog/products/"+productID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAPI_Categories(t *testing.T) {
	engine := newTestAPI(t)

	w, resp := call(t, engine, http.MethodPost, "/api/v1/catalog/categories", map[string]any{"name": "Bebidas"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category idBody
	decodeData(t, resp, &category)

	w, _ = call(t, engine, http.MethodPost, "/api/v1/catalog/subcategories", map[string]any{
		"category_id": category.ID, "name": "Sucos",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, resp = call(t, engine, http.MethodGet, "/api/v1/catalog/subcategories?category_id="+category.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []catalogapp.SubcategoryResponse
	decodeData(t, resp, &subs)
	assert.Len(t, subs, 1)
}

func TestAPI_StockEntries(t *testing.T) {
	engine := newTestAPI(t)
	storeID := createStore(t, engine, "Centro", "CTR")
	productID := createProduct(t, engine, "Arroz", "5")
	entry := map[string]any{
		"product_id": productID, "store_id": storeID, "quantity": "10", "cost_price": "2",
	}

	w, resp := call(t, engine, http.MethodPost, "/api/v1/inventory/entries", entry, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var recorded inventoryapp.RecordEntryResponse
	decodeData(t, resp, &recorded)
	assertDecimal(t, "10", recorded.CurrentStock)
	assertDecimal(t, "2", recorded.AverageCost)

	t.Run("replayed key is refused", func(t *testing.T) {
		w, resp := call(t, engine, http.MethodPost, "/api/v1/inventory/entries", entry, "Idempotency-Key", "k-1")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ERR_DUPLICATE_REQUEST", resp.Error.Code)
	})

	t.Run("weighted average", func(t *testing.T) {
		w, resp := call(t, engine, http.MethodPost, "/api/v1/inventory/entries", map[string]any{
			"product_id": productID, "store_id": storeID, "quantity": "10", "cost_price": "4",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var second inventoryapp.RecordEntryResponse
		decodeData(t, resp, &second)
		assertDecimal(t, "3", second.AverageCost)
		assertDecimal(t, "4", second.LastCost)
		assertDecimal(t, "20", second.StoreLevel)
	})

	t.Run("zero quantity fails validation", func(t *testing.T) {
		w, resp := call(t, engine, http.MethodPost, "/api/v1/inventory/entries", map[string]any{
			"product_id": productID, "store_id": storeID, "quantity": "0", "cost_price": "1",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
	})

	t.Run("unknown store is not found", func(t *testing.T) {
		w, resp := call(t, engine, http.MethodPost, "/api/v1/inventory/entries", map[string]any{
			"product_id": productID, "store_id": uuid.New(), "quantity": "1", "cost_price": "1",
		}, "Idempotency-Key", "k-2")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "STORE_NOT_FOUND", resp.Error.Code)

		// failed requests release their key
		w, _ = call(t, engine, http.MethodPost, "/api/v1/inventory/entries", entry, "Idempotency-Key", "k-2")
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("list and levels", func(t *testing.T) {
		w, resp := call(t, engine, http.MethodGet, "/api/v1/inventory/entries?store_id="+storeID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 3, resp.Meta.Total)

		w, resp = call(t, engine, http.MethodGet, "/api/v1/inventory/products/"+productID.String()+"/levels", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var levels handler.ProductLevelsResponse
		decodeData(t, resp, &levels)
		assertDecimal(t, "30", levels.Total)
		require.Len(t, levels.Levels, 1)
	})

	t.Run("products with entries cannot be deleted", func(t *testing.T) {
		w, resp := call(t, engine, http.MethodDelete, "/api/v1/catalog/products/"+productID.String(), nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "PRODUCT_IN_USE", resp.Error.Code)
	})
}

func TestAPI_Levels(t *testing.T) {
	engine := newTestAPI(t)
	storeID := createStore(t, engine, "Centro", "CTR")
	productID := createProduct(t, engine, "Feijão", "5")
	levelPath := "/api/v1/inventory/products/" + productID.String() + "/stores/" + storeID.String()

	w, resp := call(t, engine, http.MethodGet, levelPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var level handler.LevelResponse
	decodeData(t, resp, &level)
	assert.True(t, level.Quantity.IsZero())

	w, resp = call(t, engine, http.MethodPut, levelPath, map[string]any{"quantity": "3.5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, resp, &level)
	assertDecimal(t, "3.5", level.Quantity)

	w, _ = call(t, engine, http.MethodPut, levelPath, map[string]any{"quantity": "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = call(t, engine, http.MethodGet, "/api/v1/reports/shopping-list", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []reportapp.ShoppingListResponse
	decodeData(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, storeID, list[0].StoreID)

	w, _ = call(t, engine, http.MethodPatch, levelPath+"/active", map[string]any{"active": false})
	require.Equal(t, http.StatusNoContent, w.Code)
	w, _ = call(t, engine, http.MethodPatch, levelPath+"/active", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = call(t, engine, http.MethodGet, "/api/v1/reports/shopping-list", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, resp, &list)
	assert.Empty(t, list, "inactive products are not bought")
}

func TestAPI_CountWorkflow(t *testing.T) {
	engine := newTestAPI(t)
	storeID := createStore(t, engine, "Centro", "CTR")
	productID := createProduct(t, engine, "Arroz", "5")
	w, _ := call(t, engine, http.MethodPost, "/api/v1/inventory/entries", map[string]any{
		"product_id": productID, "store_id": storeID, "quantity": "20", "cost_price": "2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, resp := call(t, engine, http.MethodPost, "/api/v1/inventory/counts", map[string]any{"store_id": storeID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var count inventoryapp.StockCountResponse
	decodeData(t, resp, &count)
	assert.Equal(t, "draft", count.Status)
	require.Len(t, count.Items, 1)
	assertDecimal(t, "20", count.Items[0].QuantitySystem)
	countPath := "/api/v1/inventory/counts/" + count.ID.String()

	t.Run("second draft in the week conflicts", func(t *testing.T) {
		w, resp := call(t, engine, http.MethodPost, "/api/v1/inventory/counts", map[string]any{"store_id": storeID})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DRAFT_ALREADY_EXISTS", resp.Error.Code)
		assert.Equal(t, count.ID.String(), resp.Error.ExistingID)
	})

	t.Run("forced draft can be deleted", func(t *testing.T) {
		w, resp := call(t, engine, http.MethodPost, "/api/v1/inventory/counts", map[string]any{"store_id": storeID, "force": true})
		require.Equal(t, http.StatusCreated, w.Code)
		var forced idBody
		decodeData(t, resp, &forced)
		w, _ = call(t, engine, http.MethodDelete, "/api/v1/inventory/counts/"+forced.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("unknown product is rejected", func(t *testing.T) {
		w, resp := call(t, engine, http.MethodPut, countPath+"/items", map[string]any{
			"items": []map[string]any{{"product_id": uuid.New(), "quantity_counted": "1"}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "UNKNOWN_PRODUCT", resp.Error.Code)
	})

	w, _ = call(t, engine, http.MethodPut, countPath+"/items", map[string]any{
		"items":                []map[string]any{{"product_id": productID, "quantity_counted": "17"}},
		"completed_categories": []string{"Mercearia"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp = call(t, engine, http.MethodPost, countPath+"/approve", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "approve needs review first")
	assert.Equal(t, "ILLEGAL_TRANSITION", resp.Error.Code)

	w, resp = call(t, engine, http.MethodPost, countPath+"/finalize", map[string]any{
		"items": []map[string]any{{"product_id": productID, "quantity_counted": "18"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var finalized inventoryapp.FinalizeResponse
	decodeData(t, resp, &finalized)
	assert.Equal(t, "pending_review", finalized.Count.Status)
	assert.Zero(t, finalized.UncountedItems)

	w, resp = call(t, engine, http.MethodPost, countPath+"/reject", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, resp, &count)
	assert.Equal(t, "draft", count.Status)

	w, _ = call(t, engine, http.MethodPost, countPath+"/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, resp = call(t, engine, http.MethodGet, "/api/v1/reports/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats reportapp.DashboardStats
	decodeData(t, resp, &stats)
	assert.EqualValues(t, 1, stats.PendingReview)

	w, _ = call(t, engine, http.MethodPost, countPath+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp = call(t, engine, http.MethodGet, "/api/v1/reports/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, resp, &stats)
	assert.Zero(t, stats.PendingReview, "approval invalidates cached stats")

	w, resp = call(t, engine, http.MethodGet, "/api/v1/inventory/products/"+productID.String()+"/stores/"+storeID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var level handler.LevelResponse
	decodeData(t, resp, &level)
	assertDecimal(t, "18", level.Quantity)

	w, resp = call(t, engine, http.MethodDelete, countPath, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "CANNOT_DELETE_APPROVED", resp.Error.Code)

	w, resp = call(t, engine, http.MethodGet, "/api/v1/inventory/counts?status=approved", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp.Meta.Total)

	w, _ = call(t, engine, http.MethodGet, "/api/v1/inventory/counts?status=closed", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_DashboardFollowsCatalogAndCountDeletes(t *testing.T) {
	engine := newTestAPI(t)
	storeID := createStore(t, engine, "Centro", "CEN")
	createProduct(t, engine, "Arroz", "5")

	stats := func() reportapp.DashboardStats {
		t.Helper()
		w, resp := call(t, engine, http.MethodGet, "/api/v1/reports/dashboard", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out reportapp.DashboardStats
		decodeData(t, resp, &out)
		return out
	}
	assert.EqualValues(t, 1, stats().TotalProducts)

	feijao := createProduct(t, engine, "Feijao", "5")
	assert.EqualValues(t, 2, stats().TotalProducts, "product creation invalidates cached stats")

	w, _ := call(t, engine, http.MethodDelete, "/api/v1/catalog/products/"+feijao.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.EqualValues(t, 1, stats().TotalProducts, "product deletion invalidates cached stats")

	w, resp := call(t, engine, http.MethodPost, "/api/v1/inventory/counts", map[string]any{"store_id": storeID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var count idBody
	decodeData(t, resp, &count)
	assert.EqualValues(t, 1, stats().OpenDrafts)

	w, _ = call(t, engine, http.MethodDelete, "/api/v1/inventory/counts/"+count.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, stats().OpenDrafts, "count deletion invalidates cached stats")
}

func TestAPI_WeeklyReport(t *testing.T) {
	engine := newTestAPI(t)

	w, _ := call(t, engine, http.MethodGet, "/api/v1/reports/weekly/current", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp := call(t, engine, http.MethodPost, "/api/v1/reports/weekly/close", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var closed idBody
	decodeData(t, resp, &closed)

	w, _ = call(t, engine, http.MethodGet, "/api/v1/reports/weekly/"+closed.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = call(t, engine, http.MethodGet, "/api/v1/reports/weekly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reports []reportapp.WeeklyReportResponse
	decodeData(t, resp, &reports)
	assert.Len(t, reports, 1)

	w, resp = call(t, engine, http.MethodGet, "/api/v1/reports/weekly/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "REPORT_NOT_FOUND", resp.Error.Code)
}
