package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	menudomain "github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	menuports "github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

// CompensationObserver is notified for every stock restoration performed after
// a failed commit. err is nil when the restoration succeeded.
type CompensationObserver func(ctx context.Context, line domain.Line, err error)

// Service validates and commits orders against the inventory store.
type Service struct {
	repo        ports.Repository
	inventory   ports.Inventory
	idempotency ports.IdempotencyStore
	now         func() time.Time
	newID       func() uuid.UUID
	compensate  CompensationObserver
}

// NewService wires the order service with its dependencies.
func NewService(repo ports.Repository, inventory ports.Inventory) *Service {
	return &Service{
		repo:       repo,
		inventory:  inventory,
		now:        time.Now,
		newID:      uuid.New,
		compensate: func(context.Context, domain.Line, error) {},
	}
}

// WithClock overrides the time source used for created-at stamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// WithCompensationObserver registers a hook invoked for each restored line.
func (s *Service) WithCompensationObserver(observer CompensationObserver) *Service {
	if observer != nil {
		s.compensate = observer
	}
	return s
}

// WithIdempotencyStore enables checkout replay for requests carrying an
// idempotency key.
func (s *Service) WithIdempotencyStore(store ports.IdempotencyStore) *Service {
	s.idempotency = store
	return s
}

// PlaceOrder validates every line against current stock, then deducts stock
// line by line. When a deduction or the final save fails, every deduction
// already applied is reversed and no order is stored. A request repeating a
// known idempotency key returns the order the key produced.
func (s *Service) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.placeOrder(ctx, input)
	}
	fingerprint, err := FingerprintPlaceOrder(input)
	if err != nil {
		return nil, err
	}
	if existing, err := s.idempotency.Get(ctx, key); err != nil {
		return nil, err
	} else if existing != nil {
		return s.replay(ctx, existing, fingerprint)
	}
	order, err := s.placeOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	stored, err := s.idempotency.Save(context.WithoutCancel(ctx), ports.IdempotencyRecord{
		Key:         key,
		RequestHash: fingerprint,
		OrderID:     order.ID,
	})
	if errors.Is(err, ports.ErrIdempotencyConflict) && stored != nil {
		// a concurrent request with the same key committed first
		if _, cancelErr := s.transition(context.WithoutCancel(ctx), order.ID, domain.StatusCancelled); cancelErr != nil {
			return nil, errors.Join(err, cancelErr)
		}
		return s.replay(ctx, stored, fingerprint)
	}
	// any other save failure leaves a committed order without a replay record
	return order, nil
}

func (s *Service) replay(ctx context.Context, record *ports.IdempotencyRecord, fingerprint string) (*domain.Order, error) {
	if record.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	order, err := s.repo.GetByID(ctx, record.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (s *Service) placeOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, mapError(domain.ErrEmptyCustomerName)
	}
	if len(input.Lines) == 0 {
		return nil, mapError(domain.ErrNoLines)
	}
	for _, line := range input.Lines {
		if line.ItemID == uuid.Nil {
			return nil, mapError(domain.ErrInvalidItemID)
		}
		if line.Quantity <= 0 {
			return nil, mapError(domain.ErrInvalidQuantity)
		}
	}

	items := make(map[uuid.UUID]*menudomain.Item, len(input.Lines))
	for _, line := range input.Lines {
		if _, seen := items[line.ItemID]; seen {
			continue
		}
		item, err := s.inventory.GetByID(ctx, line.ItemID)
		if err != nil {
			return nil, inventoryError(line.ItemID, err)
		}
		items[line.ItemID] = item
	}

	requested := make(map[uuid.UUID]int, len(items))
	lines := make([]domain.Line, 0, len(input.Lines))
	for _, line := range input.Lines {
		item := items[line.ItemID]
		requested[line.ItemID] += line.Quantity
		if item.Stock < requested[line.ItemID] {
			return nil, &InsufficientStockError{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Requested: requested[line.ItemID],
				Available: item.Stock,
			}
		}
		lines = append(lines, domain.Line{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  line.Quantity,
			UnitPrice: item.Price,
		})
	}

	order, err := domain.NewOrder(s.newID(), input.CustomerName, lines, s.now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	order.CustomerID = input.CustomerID
	if input.ExpectedTotal != nil && !input.ExpectedTotal.Equal(order.Total) {
		return nil, mapError(ErrPriceChanged)
	}

	// the commit phase must run to completion once started
	commitCtx := context.WithoutCancel(ctx)
	applied := make([]domain.Line, 0, len(order.Lines))
	for _, line := range order.Lines {
		if _, err := s.inventory.AdjustStock(commitCtx, line.ItemID, -line.Quantity); err != nil {
			err = s.deductionError(commitCtx, line, err)
			return nil, s.rollback(commitCtx, applied, err)
		}
		applied = append(applied, line)
	}

	saved, err := s.repo.Save(commitCtx, order)
	if err != nil {
		return nil, s.rollback(commitCtx, applied, err)
	}
	return saved, nil
}

// GetOrder loads one order. Admins see every order, other callers only their own.
func (s *Service) GetOrder(ctx context.Context, caller *identity.Identity, input ordertypes.OrderIdentifier) (*domain.Order, error) {
	if err := identity.Authorize(caller, identity.RoleUser); err != nil {
		return nil, err
	}
	order, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if !caller.IsAdmin() && order.CustomerID != caller.ID {
		return nil, identity.ErrForbidden
	}
	return order, nil
}

// ListOrders returns every order, newest first. Admin only.
func (s *Service) ListOrders(ctx context.Context, caller *identity.Identity) ([]*domain.Order, error) {
	if err := identity.Authorize(caller, identity.RoleAdmin); err != nil {
		return nil, err
	}
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// ListMyOrders returns the caller's orders, newest first.
func (s *Service) ListMyOrders(ctx context.Context, caller *identity.Identity) ([]*domain.Order, error) {
	if err := identity.Authorize(caller, identity.RoleUser); err != nil {
		return nil, err
	}
	orders, err := s.repo.ListByCustomer(ctx, caller.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status. Admin only. Moving an order
// into Cancelled returns its stock to the inventory.
func (s *Service) UpdateStatus(ctx context.Context, caller *identity.Identity, input ordertypes.UpdateStatusInput) (*domain.Order, error) {
	if err := identity.Authorize(caller, identity.RoleAdmin); err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	return s.transition(ctx, input.OrderID, status)
}

// CancelOrder cancels an order on behalf of the checkout workflow when payment
// confirmation fails. It is not exposed to callers directly.
func (s *Service) CancelOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*domain.Order, error) {
	return s.transition(ctx, input.ID, domain.StatusCancelled)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, status domain.Status) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	from := order.Status
	if err := order.UpdateStatus(status); err != nil {
		return nil, mapError(err)
	}
	if from == status {
		return order, nil
	}
	updated, err := s.repo.TransitionStatus(ctx, id, from, status)
	if err != nil {
		return nil, mapError(err)
	}
	if status == domain.StatusCancelled {
		if err := s.release(context.WithoutCancel(ctx), updated.Lines); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// release returns cancelled stock. Items deleted since the order was placed are skipped.
func (s *Service) release(ctx context.Context, lines []domain.Line) error {
	var errs []error
	for _, line := range lines {
		_, err := s.inventory.AdjustStock(ctx, line.ItemID, line.Quantity)
		if err != nil && !errors.Is(err, menuports.ErrNotFound) {
			errs = append(errs, fmt.Errorf("release stock for item %s: %w", line.ItemID, err))
		}
	}
	return errors.Join(errs...)
}

// rollback reverses applied deductions, most recent first, and returns cause
// joined with any restoration failure.
func (s *Service) rollback(ctx context.Context, applied []domain.Line, cause error) error {
	errs := []error{cause}
	for i := len(applied) - 1; i >= 0; i-- {
		line := applied[i]
		_, err := s.inventory.AdjustStock(ctx, line.ItemID, line.Quantity)
		s.compensate(ctx, line, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("restore stock for item %s: %w", line.ItemID, err))
		}
	}
	if len(errs) == 1 {
		return cause
	}
	return errors.Join(errs...)
}

func (s *Service) deductionError(ctx context.Context, line domain.Line, err error) error {
	switch {
	case errors.Is(err, menudomain.ErrInsufficientStock):
		available := 0
		if item, getErr := s.inventory.GetByID(ctx, line.ItemID); getErr == nil {
			available = item.Stock
		}
		return &InsufficientStockError{ItemID: line.ItemID, ItemName: line.Name, Requested: line.Quantity, Available: available}
	case errors.Is(err, menuports.ErrNotFound):
		return &ItemNotFoundError{ItemID: line.ItemID}
	default:
		return err
	}
}

func inventoryError(id uuid.UUID, err error) error {
	if errors.Is(err, menuports.ErrNotFound) {
		return &ItemNotFoundError{ItemID: id}
	}
	return err
}

var _ ports.Service = (*Service)(nil)
