package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

// ErrEmptyCart is returned when checking out a cart without lines.
var ErrEmptyCart = errors.New("cart is empty")

// OrderPlacer submits checkout payloads. The orders service, the checkout
// orchestrator and the storefront HTTP client all satisfy it.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*orderdomain.Order, error)
}

// Catalog supplies fresh item snapshots for the given ids. Unknown ids are
// left out of the result.
type Catalog interface {
	Snapshots(ctx context.Context, ids []uuid.UUID) ([]cartdomain.Snapshot, error)
}

// RefreshReport lists the lines changed by Refresh.
type RefreshReport struct {
	Clamped []uuid.UUID
	Dropped []uuid.UUID
}

// Session owns one customer's cart and drives its checkout.
type Session struct {
	cart   *cartdomain.Cart
	placer OrderPlacer
}

// NewSession starts a session with an empty cart.
func NewSession(placer OrderPlacer) *Session {
	return &Session{cart: cartdomain.New(), placer: placer}
}

// Cart exposes the session's cart for add/update/remove operations.
func (s *Session) Cart() *cartdomain.Cart {
	return s.cart
}

// Checkout submits the cart and clears it once the order is committed. The
// cart is left intact when placement fails so the customer can adjust it.
func (s *Session) Checkout(ctx context.Context, customerID, customerName string) (*orderdomain.Order, error) {
	if s.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	payload := s.cart.Payload()
	lines := make([]ordertypes.LineInput, 0, len(payload))
	for _, line := range payload {
		lines = append(lines, ordertypes.LineInput{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	total := s.cart.Total()
	order, err := s.placer.PlaceOrder(ctx, ordertypes.PlaceOrderInput{
		CustomerID:    customerID,
		CustomerName:  customerName,
		Lines:         lines,
		ExpectedTotal: &total,
	})
	if err != nil {
		return nil, err
	}
	s.cart.Clear()
	return order, nil
}

// Refresh re-reads every line's item and clamps quantities to current stock.
// Lines whose item disappeared or sold out are dropped.
func (s *Session) Refresh(ctx context.Context, catalog Catalog) (RefreshReport, error) {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return RefreshReport{}, nil
	}
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}
	snapshots, err := catalog.Snapshots(ctx, ids)
	if err != nil {
		return RefreshReport{}, err
	}
	fresh := make(map[uuid.UUID]cartdomain.Snapshot, len(snapshots))
	for _, snap := range snapshots {
		fresh[snap.ItemID] = snap
	}

	var report RefreshReport
	for _, line := range lines {
		snap, ok := fresh[line.ItemID]
		if !ok {
			s.cart.RemoveItem(line.ItemID)
			report.Dropped = append(report.Dropped, line.ItemID)
			continue
		}
		if !s.cart.Restock(snap) {
			report.Dropped = append(report.Dropped, line.ItemID)
			continue
		}
		if updated, _ := s.cart.Line(line.ItemID); updated.Quantity != line.Quantity {
			report.Clamped = append(report.Clamped, line.ItemID)
		}
	}
	return report, nil
}
