// Package domain models the customer's cart: a single-owner quantity ledger
// bounded by the stock ceiling captured in each item snapshot. A Cart is not
// safe for concurrent use and is never shared between sessions.
package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrOutOfStock is returned when adding an item whose stock is exhausted.
var ErrOutOfStock = errors.New("item is out of stock")

// Snapshot is the item state the cart was built from.
type Snapshot struct {
	ItemID   uuid.UUID
	Name     string
	Price    decimal.Decimal
	Stock    int
	ImageURL string
}

// Line is one cart entry. 1 <= Quantity <= Stock always holds.
type Line struct {
	Snapshot
	Quantity int
}

// Subtotal returns price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddResult reports what AddItem did.
type AddResult int

const (
	AddResultAdded AddResult = iota
	AddResultIncremented
	AddResultCapacityReached
)

func (r AddResult) String() string {
	switch r {
	case AddResultAdded:
		return "added"
	case AddResultIncremented:
		return "incremented"
	case AddResultCapacityReached:
		return "capacity_reached"
	default:
		return "unknown"
	}
}

// PayloadLine is one line of the checkout payload.
type PayloadLine struct {
	ItemID   uuid.UUID
	Quantity int
}

// Cart maps item ids to lines, remembering insertion order for display.
type Cart struct {
	lines map[uuid.UUID]*Line
	order []uuid.UUID
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: map[uuid.UUID]*Line{}}
}

// AddItem puts one more unit of the snapshot's item in the cart. An add at
// capacity changes nothing.
func (c *Cart) AddItem(snapshot Snapshot) (AddResult, error) {
	if snapshot.Stock <= 0 {
		return 0, ErrOutOfStock
	}
	line, ok := c.lines[snapshot.ItemID]
	if !ok {
		c.lines[snapshot.ItemID] = &Line{Snapshot: snapshot, Quantity: 1}
		c.order = append(c.order, snapshot.ItemID)
		return AddResultAdded, nil
	}
	// at capacity the line is left as is; Restock applies fresh snapshots
	if line.Quantity >= snapshot.Stock {
		return AddResultCapacityReached, nil
	}
	line.Snapshot = snapshot
	line.Quantity++
	return AddResultIncremented, nil
}

// UpdateQuantity adds delta to the line quantity, clamping to ceiling. A
// result of zero or less removes the line. Unknown items are ignored.
// It returns the resulting quantity, zero when the line is gone.
func (c *Cart) UpdateQuantity(itemID uuid.UUID, delta, ceiling int) int {
	line, ok := c.lines[itemID]
	if !ok {
		return 0
	}
	next := line.Quantity + delta
	if next > ceiling {
		next = ceiling
	}
	if next <= 0 {
		c.RemoveItem(itemID)
		return 0
	}
	line.Quantity = next
	line.Stock = ceiling
	return next
}

// RemoveItem deletes the line if present.
func (c *Cart) RemoveItem(itemID uuid.UUID) {
	if _, ok := c.lines[itemID]; !ok {
		return
	}
	delete(c.lines, itemID)
	for i, id := range c.order {
		if id == itemID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = map[uuid.UUID]*Line{}
	c.order = nil
}

// Lines returns copies of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Line returns the line for itemID.
func (c *Cart) Line(itemID uuid.UUID) (Line, bool) {
	line, ok := c.lines[itemID]
	if !ok {
		return Line{}, false
	}
	return *line, true
}

// Total is the sum of line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Payload returns the lines to submit at checkout, in insertion order.
func (c *Cart) Payload() []PayloadLine {
	out := make([]PayloadLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, PayloadLine{ItemID: id, Quantity: c.lines[id].Quantity})
	}
	return out
}

// Restock applies a fresh snapshot to an existing line, clamping its quantity
// to the new stock. The line is removed when the item sold out. It reports
// whether the line survived.
func (c *Cart) Restock(snapshot Snapshot) bool {
	line, ok := c.lines[snapshot.ItemID]
	if !ok {
		return false
	}
	if snapshot.Stock <= 0 {
		c.RemoveItem(snapshot.ItemID)
		return false
	}
	line.Snapshot = snapshot
	if line.Quantity > snapshot.Stock {
		line.Quantity = snapshot.Stock
	}
	return true
}
