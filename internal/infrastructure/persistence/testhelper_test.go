package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the schema migrated
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, db *gorm.DB, name, category, minStock string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductDetails{
		Name:     name,
		Category: category,
		Unit:     "kg",
		MinStock: dec(minStock),
	})
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), p))
	return p
}

func seedStore(t *testing.T, db *gorm.DB, name, code string) *catalog.Store {
	t.Helper()
	s, err := catalog.NewStore(name, code)
	require.NoError(t, err)
	require.NoError(t, NewGormStoreRepository(db).Create(context.Background(), s))
	return s
}

func seedLevel(t *testing.T, db *gorm.DB, productID, storeID uuid.UUID, qty string, active bool) {
	t.Helper()
	l := inventory.NewInventoryLevel(productID, storeID)
	require.NoError(t, l.SetQuantity(dec(qty)))
	l.SetActive(active)
	require.NoError(t, NewGormInventoryLevelRepository(db).Upsert(context.Background(), l))
}
