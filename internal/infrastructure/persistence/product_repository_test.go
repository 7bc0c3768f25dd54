package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Farinha", "Secos", "5")

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Farinha", got.Name)
	assert.Equal(t, "Secos", got.Category)
	assert.True(t, got.MinStock.Equal(dec("5")))
	assert.True(t, got.CurrentStock.IsZero())
	assert.Equal(t, 1, got.Version)

	locked, err := repo.FindByIDForUpdate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, locked.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormProductRepository_FindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Tomate", "Hortifruti", "1")
	seedProduct(t, db, "Arroz", "Secos", "1")
	seedProduct(t, db, "Feijao", "Secos", "1")

	t.Run("ordered by name, zero page size returns all", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{})
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, []string{"Arroz", "Feijao", "Tomate"}, []string{products[0].Name, products[1].Name, products[2].Name})
	})

	t.Run("pagination", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.Filter{Page: 2, PageSize: 2}})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Tomate", products[0].Name)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		filter := catalog.ProductFilter{Filter: shared.Filter{Search: "ARR"}}
		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("by ids", func(t *testing.T) {
		all, err := repo.FindAll(ctx, catalog.ProductFilter{})
		require.NoError(t, err)
		found, err := repo.FindByIDs(ctx, []uuid.UUID{all[0].ID, all[2].ID})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		none, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestGormProductRepository_UpdateWithVersion(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Leite", "Laticinios", "2")

	p.ApplyCost(dec("3.5"), dec("4"))
	require.NoError(t, repo.Update(ctx, p))
	p.RefreshStock(dec("12"))
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)
	assert.True(t, got.CurrentStock.Equal(dec("12")))
	assert.True(t, got.AverageCost.Equal(dec("3.5")))

	p.RefreshStock(dec("13"))
	require.NoError(t, repo.Update(ctx, p))

	// got was loaded at version 3, the row is now at 4
	got.RefreshStock(dec("1"))
	err = repo.Update(ctx, got)
	assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))

	t.Run("two changes without a save conflict", func(t *testing.T) {
		fresh, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		fresh.ApplyCost(dec("4"), dec("4"))
		fresh.RefreshStock(dec("14"))
		assert.True(t, errors.Is(repo.Update(ctx, fresh), shared.ErrConcurrencyConflict))
	})
}

func TestGormProductRepository_CountLowStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Ovos", "Frescos", "10")
	ok := seedProduct(t, db, "Sal", "Secos", "1")
	ok.RefreshStock(dec("4"))
	require.NoError(t, repo.Update(ctx, ok))

	count, err := repo.CountLowStock(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGormProductRepository_DeleteRemovesLevels(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Cafe", "Secos", "1")
	s := seedStore(t, db, "Centro", "CEN")
	seedLevel(t, db, p.ID, s.ID, "3", true)

	require.NoError(t, repo.Delete(ctx, p.ID))

	levels, err := NewGormInventoryLevelRepository(db).FindByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, levels)
	assert.True(t, errors.Is(repo.Delete(ctx, p.ID), shared.ErrNotFound))
}

func TestGormStoreAndCategoryRepositories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	stores := NewGormStoreRepository(db)
	seedStore(t, db, "Norte", "nor")
	seedStore(t, db, "Centro", "CEN")

	exists, err := stores.ExistsByCode(ctx, " nor ")
	require.NoError(t, err)
	assert.True(t, exists)

	all, err := stores.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Centro", all[0].Name)

	dup, err := catalog.NewStore("Outra", "CEN")
	require.NoError(t, err)
	assert.True(t, errors.Is(stores.Create(ctx, dup), shared.ErrPersistence), "unique code")

	categories := NewGormCategoryRepository(db)
	c, err := catalog.NewCategory("Bebidas")
	require.NoError(t, err)
	require.NoError(t, categories.Create(ctx, c))
	sub, err := catalog.NewSubcategory(c.ID, "Sucos")
	require.NoError(t, err)
	require.NoError(t, categories.CreateSubcategory(ctx, sub))

	subs, err := categories.FindSubcategories(ctx, &c.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Sucos", subs[0].Name)

	other := uuid.New()
	subs, err = categories.FindSubcategories(ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, subs)

	gotSub, err := categories.FindSubcategoryByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, gotSub.CategoryID)
}
