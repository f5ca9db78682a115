package ports

import (
	"context"

	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs the checkout flow: place the order, confirm
// payment, cancel the order when payment fails.
type WorkflowOrchestrator interface {
	Checkout(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error)
}
