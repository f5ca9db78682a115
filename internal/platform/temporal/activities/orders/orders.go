package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName validates and commits an order against the inventory.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
	// ConfirmPaymentActivityName settles a committed order.
	ConfirmPaymentActivityName = "orders.activities.ConfirmPayment"
	// CancelOrderActivityName cancels an order and releases its stock.
	CancelOrderActivityName = "orders.activities.CancelOrder"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service  orderports.Service
	payments orderports.PaymentConfirmer
}

// NewActivities wires the order service and payment confirmer into the
// Temporal activities bundle. A nil confirmer confirms every payment.
func NewActivities(service orderports.Service, payments orderports.PaymentConfirmer) *Activities {
	if payments == nil {
		payments = orderports.AlwaysConfirm
	}
	return &Activities{service: service, payments: payments}
}

// PlaceOrder commits the order. Business rejections are non-retryable.
func (a *Activities) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "customer", input.CustomerName)
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "customer", input.CustomerName, "lines", len(input.Lines))
	order, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "customer", input.CustomerName, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID.String(), "total", order.Total.String())
	return order, nil
}

// ConfirmPayment hands the committed order to the payment confirmer.
func (a *Activities) ConfirmPayment(ctx context.Context, order domain.Order) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.payments == nil {
		logger.Error("confirm payment activity not initialized", "orderId", order.ID.String())
		return errors.New("confirm payment activity not initialized")
	}
	logger.Info("ConfirmPayment activity started", "orderId", order.ID.String())
	if err := a.payments.Confirm(ctx, &order); err != nil {
		logger.Error("ConfirmPayment activity failed", "orderId", order.ID.String(), "error", err)
		return err
	}
	logger.Info("ConfirmPayment activity completed", "orderId", order.ID.String())
	return nil
}

// CancelOrder cancels the order and releases its stock. A retried attempt
// finds the order already cancelled and does not release stock twice.
func (a *Activities) CancelOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("cancel order activity not initialized", "orderId", input.ID.String())
		return nil, errors.New("cancel order activity not initialized")
	}
	logger.Info("CancelOrder activity started", "orderId", input.ID.String())
	order, err := a.service.CancelOrder(ctx, input)
	if err != nil {
		logger.Error("CancelOrder activity failed", "orderId", input.ID.String(), "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("CancelOrder activity completed", "orderId", input.ID.String())
	return order, nil
}
