package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/stockflow/backend/internal/application/catalog"
	inventoryapp "github.com/stockflow/backend/internal/application/inventory"
	reportapp "github.com/stockflow/backend/internal/application/report"
	"github.com/stockflow/backend/internal/infrastructure/cache"
	"github.com/stockflow/backend/internal/infrastructure/config"
	"github.com/stockflow/backend/internal/infrastructure/event"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/infrastructure/persistence"
	"github.com/stockflow/backend/internal/interfaces/http/handler"
	"github.com/stockflow/backend/internal/interfaces/http/middleware"
	"github.com/stockflow/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.FromAppConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting stock service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Initialize database connection with the zap-backed GORM logger
	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Redis backed stores, in memory when redis is disabled or down
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStartup()

	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	redisClient, err := cacheFactory.Connect(startupCtx)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
	}
	idempotencyStore, err := cacheFactory.CreateIdempotencyStore(startupCtx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()
	statsCache, err := cacheFactory.CreateStatsCache(startupCtx)
	if err != nil {
		log.Fatal("Failed to create stats cache", zap.Error(err))
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	levelRepo := persistence.NewGormInventoryLevelRepository(db.DB)
	entryRepo := persistence.NewGormStockEntryRepository(db.DB)
	countRepo := persistence.NewGormStockCountRepository(db.DB)
	weeklyRepo := persistence.NewGormWeeklyReportRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)
	reportScope := persistence.NewGormReportTransactionScope(db.DB)

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo, levelRepo, entryRepo, countRepo, log)
	storeService := catalogapp.NewStoreService(storeRepo)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	ledger := inventoryapp.NewLedger(scope, levelRepo, log)
	entryService := inventoryapp.NewStockEntryService(scope, entryRepo, log)
	countService := inventoryapp.NewStockCountService(scope, countRepo, productRepo, log,
		inventoryapp.WithDraftGuard(cfg.Counting.DraftGuard),
		inventoryapp.WithCompletenessWarning(cfg.Counting.CompletenessWarning),
	)
	weeklyService := reportapp.NewWeeklyReportService(reportScope, weeklyRepo, log)
	shoppingService := reportapp.NewShoppingListService(storeRepo, productRepo, levelRepo)
	dashboardService := reportapp.NewDashboardService(productRepo, countRepo, statsCache, cfg.Redis.CacheTTL, log)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	event.Subscribe(eventBus,
		event.NewActivityLogHandler(log),
		reportapp.NewStatsInvalidator(statsCache, log),
	)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	productService.SetEventPublisher(eventBus)
	entryService.SetEventPublisher(eventBus)
	countService.SetEventPublisher(eventBus)
	weeklyService.SetEventPublisher(eventBus)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := router.NewEngine(cfg.HTTP, log)
	if err != nil {
		log.Fatal("Failed to configure HTTP engine", zap.Error(err))
	}
	routes := router.RegisterAPI(engine, router.Handlers{
		Products:   handler.NewProductHandler(productService),
		Stores:     handler.NewStoreHandler(storeService),
		Categories: handler.NewCategoryHandler(categoryService),
		Inventory:  handler.NewInventoryHandler(ledger),
		Entries:    handler.NewStockEntryHandler(entryService),
		Counts:     handler.NewStockCountHandler(countService),
		Reports:    handler.NewReportHandler(weeklyService, shoppingService, dashboardService),
		System:     handler.NewSystemHandler(cfg.App.Name, version, db),
	}, middleware.Idempotency(idempotencyStore, cfg.Redis.IdempotencyTTL, log))
	log.Info("API routes registered", zap.Int("count", len(routes)))
	for _, rt := range routes {
		log.Debug("route", zap.String("method", rt.Method), zap.String("path", rt.Path))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
