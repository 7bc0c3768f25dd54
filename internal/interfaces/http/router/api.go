package router

import (
	"github.com/gin-gonic/gin"
	"github.com/stockflow/backend/internal/infrastructure/config"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/interfaces/http/handler"
	"github.com/stockflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups every API handler mounted by RegisterAPI
type Handlers struct {
	Products   *handler.ProductHandler
	Stores     *handler.StoreHandler
	Categories *handler.CategoryHandler
	Inventory  *handler.InventoryHandler
	Entries    *handler.StockEntryHandler
	Counts     *handler.StockCountHandler
	Reports    *handler.ReportHandler
	System     *handler.SystemHandler
}

// NewEngine creates a gin engine with the global middleware chain:
// request id, panic recovery, access log, security headers, CORS and
// the body size limit.
func NewEngine(cfg config.HTTPConfig, log *zap.Logger) (*gin.Engine, error) {
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg)))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	return engine, nil
}

// RegisterAPI mounts the health probe and every /api/v1 route and returns the
// versioned routes. idempotency guards entry recording; nil disables it.
func RegisterAPI(engine *gin.Engine, h Handlers, idempotency gin.HandlerFunc) []gin.RouteInfo {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))

	catalogRoutes := NewDomainGroup("/catalog")
	catalogRoutes.POST("/products", h.Products.Create)
	catalogRoutes.GET("/products", h.Products.List)
	catalogRoutes.GET("/products/:id", h.Products.GetByID)
	catalogRoutes.PUT("/products/:id", h.Products.Update)
	catalogRoutes.DELETE("/products/:id", h.Products.Delete)
	catalogRoutes.POST("/stores", h.Stores.Create)
	catalogRoutes.GET("/stores", h.Stores.List)
	catalogRoutes.GET("/stores/:id", h.Stores.GetByID)
	catalogRoutes.POST("/categories", h.Categories.Create)
	catalogRoutes.GET("/categories", h.Categories.List)
	catalogRoutes.POST("/subcategories", h.Categories.CreateSubcategory)
	catalogRoutes.GET("/subcategories", h.Categories.ListSubcategories)

	inventoryRoutes := NewDomainGroup("/inventory")
	inventoryRoutes.GET("/products/:id/levels", h.Inventory.ListLevels)
	inventoryRoutes.GET("/products/:id/stores/:store_id", h.Inventory.GetLevel)
	inventoryRoutes.PUT("/products/:id/stores/:store_id", h.Inventory.SetLevel)
	inventoryRoutes.PATCH("/products/:id/stores/:store_id/active", h.Inventory.SetActive)

	record := []gin.HandlerFunc{h.Entries.Record}
	if idempotency != nil {
		record = append([]gin.HandlerFunc{idempotency}, record...)
	}
	inventoryRoutes.POST("/entries", record...)
	inventoryRoutes.GET("/entries", h.Entries.List)

	counts := inventoryRoutes.Group("/counts")
	counts.POST("", h.Counts.Create)
	counts.GET("", h.Counts.List)
	counts.GET("/:id", h.Counts.Get)
	counts.PUT("/:id/items", h.Counts.UpdateItems)
	counts.POST("/:id/finalize", h.Counts.Finalize)
	counts.POST("/:id/approve", h.Counts.Approve)
	counts.POST("/:id/reject", h.Counts.Reject)
	counts.DELETE("/:id", h.Counts.Delete)

	reportRoutes := NewDomainGroup("/reports")
	reportRoutes.GET("/weekly", h.Reports.ListWeeks)
	reportRoutes.GET("/weekly/current", h.Reports.CurrentWeek)
	reportRoutes.POST("/weekly/close", h.Reports.CloseWeek)
	reportRoutes.GET("/weekly/:id", h.Reports.GetWeek)
	reportRoutes.GET("/shopping-list", h.Reports.ShoppingList)
	reportRoutes.GET("/dashboard", h.Reports.Dashboard)

	systemRoutes := NewDomainGroup("/system")
	systemRoutes.GET("/info", h.System.Info)

	return r.Register(catalogRoutes, inventoryRoutes, reportRoutes, systemRoutes).Setup()
}
