package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	menumemory "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/memory"
	menuapp "github.com/Apurer/go-gin-storefront/internal/domains/menu/application"
	menutypes "github.com/Apurer/go-gin-storefront/internal/domains/menu/application/types"
	menudomain "github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	ordermemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

var admin = &identity.Identity{ID: "admin", Name: "Ada", Role: identity.RoleAdmin}

type fixture struct {
	menu   *menuapp.Service
	orders *orderapp.Service
}

func newFixture() fixture {
	inventory := menumemory.NewRepository()
	return fixture{
		menu:   menuapp.NewService(inventory),
		orders: orderapp.NewService(ordermemory.NewRepository(), inventory),
	}
}

func (f fixture) item(t *testing.T, name string, stock int) *menudomain.Item {
	t.Helper()
	item, err := f.menu.CreateItem(context.Background(), admin, menutypes.CreateItemInput{
		Name:        name,
		Description: name,
		Price:       decimal.RequireFromString("3.00"),
		Stock:       stock,
		Category:    string(menudomain.CategoryDessert),
	})
	require.NoError(t, err)
	return item
}

func TestCheckout_ClearsCartOnSuccess(t *testing.T) {
	f := newFixture()
	cake := f.item(t, "Cake", 4)
	session := NewSession(f.orders)
	_, err := session.Cart().AddItem(SnapshotOf(cake))
	require.NoError(t, err)
	_, err = session.Cart().AddItem(SnapshotOf(cake))
	require.NoError(t, err)

	order, err := session.Checkout(context.Background(), "u1", "Uma")
	require.NoError(t, err)
	require.Equal(t, 2, order.Lines[0].Quantity)
	require.True(t, decimal.RequireFromString("6.00").Equal(order.Total))
	require.True(t, session.Cart().IsEmpty())

	current, err := f.menu.GetItem(context.Background(), menutypes.ItemIdentifier{ID: cake.ID})
	require.NoError(t, err)
	require.Equal(t, 2, current.Stock)
}

func TestCheckout_KeepsCartOnFailure(t *testing.T) {
	f := newFixture()
	cake := f.item(t, "Cake", 1)
	session := NewSession(f.orders)
	_, err := session.Cart().AddItem(SnapshotOf(cake))
	require.NoError(t, err)

	zero := 0
	_, err = f.menu.UpdateItem(context.Background(), admin, menutypes.UpdateItemInput{ID: cake.ID, Stock: &zero})
	require.NoError(t, err)

	_, err = session.Checkout(context.Background(), "", "Uma")
	require.ErrorIs(t, err, orderapp.ErrInsufficientStock)
	require.Equal(t, 1, session.Cart().Count())
}

func TestCheckout_EmptyCart(t *testing.T) {
	session := NewSession(newFixture().orders)
	_, err := session.Checkout(context.Background(), "", "Uma")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestRefresh_ClampsAndDrops(t *testing.T) {
	f := newFixture()
	cake := f.item(t, "Cake", 5)
	pie := f.item(t, "Pie", 5)
	tart := f.item(t, "Tart", 5)
	session := NewSession(f.orders)
	for i := 0; i < 4; i++ {
		_, _ = session.Cart().AddItem(SnapshotOf(cake))
	}
	_, _ = session.Cart().AddItem(SnapshotOf(pie))
	_, _ = session.Cart().AddItem(SnapshotOf(tart))

	two, zero := 2, 0
	_, err := f.menu.UpdateItem(context.Background(), admin, menutypes.UpdateItemInput{ID: cake.ID, Stock: &two})
	require.NoError(t, err)
	_, err = f.menu.UpdateItem(context.Background(), admin, menutypes.UpdateItemInput{ID: pie.ID, Stock: &zero})
	require.NoError(t, err)
	require.NoError(t, f.menu.DeleteItem(context.Background(), admin, menutypes.ItemIdentifier{ID: tart.ID}))

	report, err := session.Refresh(context.Background(), NewMenuCatalog(f.menu))
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{cake.ID}, report.Clamped)
	require.ElementsMatch(t, []uuid.UUID{pie.ID, tart.ID}, report.Dropped)
	require.Equal(t, 2, session.Cart().Count())
}
