package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineInput is one requested cart line.
type LineInput struct {
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}

// PlaceOrderInput is the checkout payload. CustomerID is empty for anonymous
// orders. ExpectedTotal, when set, must match the total computed from current
// prices.
type PlaceOrderInput struct {
	CustomerID     string           `json:"customerId,omitempty"`
	CustomerName   string           `json:"customerName"`
	Lines          []LineInput      `json:"lines"`
	ExpectedTotal  *decimal.Decimal `json:"expectedTotal,omitempty"`
	IdempotencyKey string           `json:"idempotencyKey,omitempty"`
}

// UpdateStatusInput moves an order to a new status.
type UpdateStatusInput struct {
	OrderID uuid.UUID
	Status  string
}

// OrderIdentifier addresses a single order.
type OrderIdentifier struct {
	ID uuid.UUID `json:"id"`
}
