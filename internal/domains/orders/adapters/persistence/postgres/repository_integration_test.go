//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newOrder(t *testing.T, customerID string, createdAt time.Time) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(uuid.New(), "Uma", []domain.Line{
		{ItemID: uuid.New(), Name: "Pizza", Quantity: 2, UnitPrice: decimal.RequireFromString("8.00")},
		{ItemID: uuid.New(), Name: "Cola", Quantity: 1, UnitPrice: decimal.RequireFromString("2.50")},
	}, createdAt)
	require.NoError(t, err)
	order.CustomerID = customerID
	return order
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := newOrder(t, "u1", time.Now().UTC())
	saved, err := repo.Save(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, order.ID, saved.ID)
	assert.True(t, decimal.RequireFromString("18.50").Equal(saved.Total))
	require.Len(t, saved.Lines, 2)
	assert.Equal(t, "Pizza", saved.Lines[0].Name)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListOrdering(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	older, err := repo.Save(ctx, newOrder(t, "u1", base))
	require.NoError(t, err)
	newer, err := repo.Save(ctx, newOrder(t, "u2", base.Add(time.Minute)))
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, older.ID, all[1].ID)

	mine, err := repo.ListByCustomer(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, older.ID, mine[0].ID)
}

func TestRepository_TransitionStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	order, err := repo.Save(ctx, newOrder(t, "u1", time.Now().UTC()))
	require.NoError(t, err)

	updated, err := repo.TransitionStatus(ctx, order.ID, domain.StatusPending, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)

	_, err = repo.TransitionStatus(ctx, order.ID, domain.StatusPending, domain.StatusCancelled)
	require.ErrorIs(t, err, ports.ErrStatusConflict)

	_, err = repo.TransitionStatus(ctx, uuid.New(), domain.StatusPending, domain.StatusCancelled)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestIdempotencyStore_Integration_SaveAndConflict(t *testing.T) {
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()
	now := time.Now().UTC()
	record := ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "hash-a", OrderID: uuid.New(), CreatedAt: now, UpdatedAt: now}

	missing, err := store.Get(ctx, record.Key)
	require.NoError(t, err)
	require.Nil(t, missing)

	saved, err := store.Save(ctx, record)
	require.NoError(t, err)
	require.Equal(t, record.OrderID, saved.OrderID)

	again, err := store.Save(ctx, record)
	require.NoError(t, err)
	require.Equal(t, record.OrderID, again.OrderID)

	other := record
	other.OrderID = uuid.New()
	existing, err := store.Save(ctx, other)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, record.OrderID, existing.OrderID)
}
