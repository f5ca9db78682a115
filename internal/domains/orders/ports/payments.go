package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

// PaymentConfirmer settles a committed order. Payment processing is opaque to
// the storefront; a non-nil error makes checkout cancel the order.
type PaymentConfirmer interface {
	Confirm(ctx context.Context, order *domain.Order) error
}

// AlwaysConfirm is the default confirmer: every payment succeeds.
var AlwaysConfirm PaymentConfirmer = alwaysConfirm{}

type alwaysConfirm struct{}

func (alwaysConfirm) Confirm(_ context.Context, _ *domain.Order) error { return nil }
