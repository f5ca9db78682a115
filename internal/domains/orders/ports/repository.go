package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

var (
	ErrNotFound       = errors.New("order not found")
	// ErrStatusConflict is returned by TransitionStatus when the stored status no longer matches.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// Repository persists committed orders.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// List returns every order, newest first.
	List(ctx context.Context) ([]*domain.Order, error)
	// ListByCustomer returns the orders placed by customerID, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
	// TransitionStatus atomically moves the order from one status to another.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) (*domain.Order, error)
}
