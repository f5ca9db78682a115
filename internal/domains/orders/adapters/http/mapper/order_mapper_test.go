package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

func TestToPlaceOrderInput_FillsCustomerFromCaller(t *testing.T) {
	itemID := uuid.New()
	payload := PlaceOrder{Items: []PlaceOrderLine{{FoodItem: itemID, Quantity: 2}}}
	caller := &identity.Identity{ID: "u-1", Name: "Uma", Role: identity.RoleUser}

	input := ToPlaceOrderInput(payload, caller, " key-1 ")
	require.Equal(t, "u-1", input.CustomerID)
	require.Equal(t, "Uma", input.CustomerName)
	require.Equal(t, "key-1", input.IdempotencyKey)
	require.Len(t, input.Lines, 1)
	require.Equal(t, itemID, input.Lines[0].ItemID)

	payload.CustomerName = "  Table 4 "
	input = ToPlaceOrderInput(payload, caller, "")
	require.Equal(t, "Table 4", input.CustomerName)

	anonymous := ToPlaceOrderInput(payload, nil, "")
	require.Empty(t, anonymous.CustomerID)
}

func TestFromDomain_IncludesSubtotals(t *testing.T) {
	order, err := domain.NewOrder(uuid.New(), "Uma", []domain.Line{
		{ItemID: uuid.New(), Name: "Tea", Quantity: 3, UnitPrice: decimal.RequireFromString("2.10")},
	}, time.Now())
	require.NoError(t, err)

	out := FromDomain(order)
	require.Equal(t, string(domain.StatusPending), out.Status)
	require.True(t, decimal.RequireFromString("6.30").Equal(out.TotalAmount))
	require.True(t, decimal.RequireFromString("6.30").Equal(out.Items[0].Subtotal))
}

func TestToDomain_RoundTripsTransportOrder(t *testing.T) {
	order, err := domain.NewOrder(uuid.New(), "Uma", []domain.Line{
		{ItemID: uuid.New(), Name: "Tea", Quantity: 2, UnitPrice: decimal.RequireFromString("2.10")},
	}, time.Now().UTC())
	require.NoError(t, err)

	parsed, err := ToDomain(FromDomain(order))
	require.NoError(t, err)
	require.Equal(t, order.ID, parsed.ID)
	require.Equal(t, order.Lines[0].ItemID, parsed.Lines[0].ItemID)
	require.True(t, order.Total.Equal(parsed.Total))

	_, err = ToDomain(Order{ID: "not-a-uuid"})
	require.Error(t, err)
}

func TestFromPlaceOrderInput(t *testing.T) {
	itemID := uuid.New()
	total := decimal.RequireFromString("4.20")
	payload := FromPlaceOrderInput(ordertypes.PlaceOrderInput{
		CustomerID:    "u-1",
		CustomerName:  "Uma",
		Lines:         []ordertypes.LineInput{{ItemID: itemID, Quantity: 2}},
		ExpectedTotal: &total,
	})
	require.Equal(t, "Uma", payload.CustomerName)
	require.Equal(t, []PlaceOrderLine{{FoodItem: itemID, Quantity: 2}}, payload.Items)
	require.Same(t, &total, payload.ExpectedTotal)
}
