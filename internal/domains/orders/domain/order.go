package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

var (
	ErrEmptyCustomerName = errors.New("customer name is required")
	ErrNoLines           = errors.New("order must contain at least one line")
	ErrInvalidItemID     = errors.New("order line item id is required")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidUnitPrice  = errors.New("unit price must be greater or equal to zero")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrOrderClosed       = errors.New("cancelled orders cannot change status")
)

// Line is one ordered item with the name and price captured at commit time.
type Line struct {
	ItemID    uuid.UUID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity times unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Validate enforces line invariants.
func (l Line) Validate() error {
	if l.ItemID == uuid.Nil {
		return ErrInvalidItemID
	}
	if l.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if l.UnitPrice.IsNegative() {
		return ErrInvalidUnitPrice
	}
	return nil
}

// Order models a committed customer order.
type Order struct {
	ID           uuid.UUID
	CustomerID   string
	CustomerName string
	Lines        []Line
	Total        decimal.Decimal
	Status       Status
	CreatedAt    time.Time
}

// NewOrder validates the lines and builds a Pending order whose total is
// derived from them.
func NewOrder(id uuid.UUID, customerName string, lines []Line, createdAt time.Time) (*Order, error) {
	order := &Order{
		ID:           id,
		CustomerName: strings.TrimSpace(customerName),
		Lines:        append([]Line(nil), lines...),
		CreatedAt:    createdAt,
	}
	if err := order.UpdateStatus(""); err != nil {
		return nil, err
	}
	order.Total = TotalOf(order.Lines)
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.CustomerName == "" {
		return ErrEmptyCustomerName
	}
	if len(o.Lines) == 0 {
		return ErrNoLines
	}
	for _, line := range o.Lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus moves the order to status, defaulting to Pending. Cancelled is terminal.
func (o *Order) UpdateStatus(status Status) error {
	if status == "" {
		status = StatusPending
	}
	if !isValidStatus(status) {
		return ErrInvalidStatus
	}
	if o.Status == StatusCancelled && status != StatusCancelled {
		return ErrOrderClosed
	}
	o.Status = status
	return nil
}

// Clone returns a copy with its own line slice.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	copy := *o
	copy.Lines = append([]Line(nil), o.Lines...)
	return &copy
}

// TotalOf sums the line subtotals.
func TotalOf(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ParseStatus converts a transport value into a known status.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.TrimSpace(raw))
	if !isValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
