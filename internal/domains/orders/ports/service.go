package ports

import (
	"context"

	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, caller *identity.Identity, input ordertypes.OrderIdentifier) (*domain.Order, error)
	ListOrders(ctx context.Context, caller *identity.Identity) ([]*domain.Order, error)
	ListMyOrders(ctx context.Context, caller *identity.Identity) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, caller *identity.Identity, input ordertypes.UpdateStatusInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*domain.Order, error)
}
