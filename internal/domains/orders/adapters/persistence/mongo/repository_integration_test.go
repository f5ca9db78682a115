//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	platformmongo "github.com/Apurer/go-gin-storefront/internal/platform/mongo"
)

func setupOrdersMongoContainer(t *testing.T) (*mongo.Database, func()) {
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

func newOrder(t *testing.T, customerID string, createdAt time.Time) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(uuid.New(), "Grace", []domain.Line{
		{ItemID: uuid.New(), Name: "Ramen", Quantity: 2, UnitPrice: decimal.RequireFromString("11.25")},
	}, createdAt)
	require.NoError(t, err)
	order.CustomerID = customerID
	return order
}

func TestRepository_SaveAndQuery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	older := newOrder(t, "u-1", now.Add(-time.Minute))
	newer := newOrder(t, "u-2", now)
	_, err := repo.Save(ctx, older)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, newer)
	require.NoError(t, err)
	require.True(t, saved.Total.Equal(decimal.RequireFromString("22.50")))
	require.Equal(t, domain.StatusPending, saved.Status)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, newer.ID, all[0].ID)

	mine, err := repo.ListByCustomer(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, older.ID, mine[0].ID)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_TransitionStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	order, err := repo.Save(ctx, newOrder(t, "", time.Now().UTC()))
	require.NoError(t, err)

	updated, err := repo.TransitionStatus(ctx, order.ID, domain.StatusPending, domain.StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, updated.Status)

	_, err = repo.TransitionStatus(ctx, order.ID, domain.StatusPending, domain.StatusCancelled)
	require.ErrorIs(t, err, ports.ErrStatusConflict)

	_, err = repo.TransitionStatus(ctx, uuid.New(), domain.StatusPending, domain.StatusProcessing)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
