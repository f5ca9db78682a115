//go:build integration

package mongo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
	platformmongo "github.com/Apurer/go-gin-storefront/internal/platform/mongo"
)

func setupMenuMongoContainer(t *testing.T) (*mongo.Database, func()) {
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := platformmongo.Connect(ctx, uri, "storefront_test")
	require.NoError(t, err)

	cleanup := func() {
		_ = db.Client().Disconnect(ctx)
		_ = container.Terminate(ctx)
	}
	return db, cleanup
}

func newItem(t *testing.T, stock int) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(uuid.New(), "Panna Cotta", "Vanilla cream, berry coulis", decimal.RequireFromString("6.40"), stock, domain.CategoryDessert)
	require.NoError(t, err)
	return item
}

func TestRepository_SaveAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMenuMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	item := newItem(t, 3)
	saved, err := repo.Save(ctx, item)
	require.NoError(t, err)
	assert.True(t, item.Price.Equal(saved.Price))
	assert.True(t, saved.Rating.Unrated())

	list, err := repo.List(ctx, ports.ListFilter{Category: domain.CategoryDessert, IDs: []uuid.UUID{item.ID}})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.GetByID(ctx, item.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_AdjustStockFloor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMenuMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	item, err := repo.Save(ctx, newItem(t, 4))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AdjustStock(ctx, item.ID, -1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, succeeded)
	assert.Equal(t, 0, fetched.Stock)
}

func TestRepository_AppendReviewRecomputes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMenuMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	item, err := repo.Save(ctx, newItem(t, 1))
	require.NoError(t, err)

	first, err := domain.NewReview("u1", "Uma", 4, "$5 well spent", time.Now())
	require.NoError(t, err)
	second, err := domain.NewReview("u2", "Sam", 1, "meh", time.Now())
	require.NoError(t, err)

	updated, err := repo.AppendReview(ctx, item.ID, first)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, updated.Rating.Average, 1e-9)
	assert.Equal(t, "$5 well spent", updated.Reviews[0].Comment)

	updated, err = repo.AppendReview(ctx, item.ID, second)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, updated.Rating.Average, 1e-9)
	assert.Equal(t, 2, updated.Rating.Count)

	_, err = repo.AppendReview(ctx, item.ID, first)
	require.ErrorIs(t, err, domain.ErrDuplicateReview)

	_, err = repo.AppendReview(ctx, uuid.New(), first)
	require.ErrorIs(t, err, ports.ErrNotFound)

	recomputed, err := repo.RecomputeRating(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, recomputed.Rating.Count)
}

func TestRepository_SaveKeepsStockOfExistingItem(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMenuMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	item := newItem(t, 5)
	_, err := repo.Save(ctx, item)
	require.NoError(t, err)

	_, err = repo.AdjustStock(ctx, item.ID, -2)
	require.NoError(t, err)

	require.NoError(t, item.Rename("Renamed item"))
	saved, err := repo.Save(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, "Renamed item", saved.Name)
	assert.Equal(t, 3, saved.Stock)

	saved, err = repo.SetStock(ctx, item.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, saved.Stock)

	_, err = repo.SetStock(ctx, uuid.New(), 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
