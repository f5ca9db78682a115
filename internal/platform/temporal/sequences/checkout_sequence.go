package sequences

import (
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/orders"
)

// RunCheckoutSequence commits the order, confirms payment and cancels the
// order when payment cannot be confirmed.
func RunCheckoutSequence(ctx workflow.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("checkout sequence started", "customer", input.CustomerName, "lines", len(input.Lines))
	placeOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	paymentOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}
	cancelOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
		},
	}

	// Retries of the place activity must replay the first commit.
	if strings.TrimSpace(input.IdempotencyKey) == "" {
		input.IdempotencyKey = CheckoutIdempotencyKey(workflow.GetInfo(ctx))
	}

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, placeOptions), orderactivities.PlaceOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("checkout sequence failed to place order", "customer", input.CustomerName, "error", err)
		return nil, err
	}
	logger.Info("checkout sequence placed order", "orderId", order.ID.String())

	payErr := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, paymentOptions), orderactivities.ConfirmPaymentActivityName, order).Get(ctx, nil)
	if payErr == nil {
		logger.Info("checkout sequence confirmed payment", "orderId", order.ID.String())
		return &order, nil
	}
	logger.Error("checkout sequence payment failed; cancelling order", "orderId", order.ID.String(), "error", payErr)

	// Cancellation must run even when the workflow itself was cancelled.
	cancelCtx, _ := workflow.NewDisconnectedContext(ctx)
	cancelInput := ordertypes.OrderIdentifier{ID: order.ID}
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(cancelCtx, cancelOptions), orderactivities.CancelOrderActivityName, cancelInput).Get(cancelCtx, nil); err != nil {
		logger.Error("checkout sequence failed to cancel order", "orderId", order.ID.String(), "error", err)
		return nil, err
	}
	logger.Info("checkout sequence cancelled order", "orderId", order.ID.String())
	return nil, temporal.NewNonRetryableApplicationError("payment confirmation failed", orderactivities.ErrorTypePaymentFailed, payErr)
}

// CheckoutIdempotencyKey derives the key used when the caller supplied none.
// It is stable across activity attempts of one workflow run.
func CheckoutIdempotencyKey(info *workflow.Info) string {
	return "workflow:" + info.WorkflowExecution.ID + "/" + info.WorkflowExecution.RunID
}
