package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_ComputesTotal(t *testing.T) {
	lines := []Line{
		{ItemID: uuid.New(), Name: "A", Quantity: 2, UnitPrice: decimal.RequireFromString("3.10")},
		{ItemID: uuid.New(), Name: "B", Quantity: 1, UnitPrice: decimal.RequireFromString("0.90")},
	}
	order, err := NewOrder(uuid.New(), "  Dana ", lines, time.Now())
	require.NoError(t, err)
	require.Equal(t, "Dana", order.CustomerName)
	require.Equal(t, StatusPending, order.Status)
	require.True(t, decimal.RequireFromString("7.10").Equal(order.Total), order.Total.String())
}

func TestNewOrder_Validation(t *testing.T) {
	line := Line{ItemID: uuid.New(), Name: "A", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}

	_, err := NewOrder(uuid.New(), "", []Line{line}, time.Now())
	require.ErrorIs(t, err, ErrEmptyCustomerName)

	_, err = NewOrder(uuid.New(), "Dana", nil, time.Now())
	require.ErrorIs(t, err, ErrNoLines)

	bad := line
	bad.Quantity = 0
	_, err = NewOrder(uuid.New(), "Dana", []Line{bad}, time.Now())
	require.ErrorIs(t, err, ErrInvalidQuantity)

	bad = line
	bad.ItemID = uuid.Nil
	_, err = NewOrder(uuid.New(), "Dana", []Line{bad}, time.Now())
	require.ErrorIs(t, err, ErrInvalidItemID)
}

func TestUpdateStatus_CancelledIsTerminal(t *testing.T) {
	order := &Order{Status: StatusPending}
	require.NoError(t, order.UpdateStatus(StatusProcessing))
	require.NoError(t, order.UpdateStatus(StatusCancelled))
	require.NoError(t, order.UpdateStatus(StatusCancelled))
	require.ErrorIs(t, order.UpdateStatus(StatusCompleted), ErrOrderClosed)
	require.ErrorIs(t, order.UpdateStatus("Shipped"), ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("Completed")
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, status)
	_, err = ParseStatus("completed")
	require.ErrorIs(t, err, ErrInvalidStatus)
}
