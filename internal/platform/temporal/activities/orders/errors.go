package orders

import (
	"errors"

	"go.temporal.io/sdk/temporal"

	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

// Application error types carried across the workflow boundary.
const (
	ErrorTypeInvalidInput      = "InvalidInput"
	ErrorTypeItemNotFound      = "ItemNotFound"
	ErrorTypeInsufficientStock = "InsufficientStock"
	ErrorTypeOrderNotFound     = "OrderNotFound"
	ErrorTypeForbidden         = "Forbidden"
	ErrorTypeIdempotency       = "IdempotencyConflict"
	ErrorTypePaymentFailed     = "PaymentFailed"
)

// EncodeError turns business errors into non-retryable application errors so
// Temporal stops retrying and callers can recover the original error kind.
// Other errors are returned unchanged and retried.
func EncodeError(err error) error {
	if err == nil {
		return nil
	}
	var stockErr *orderapp.InsufficientStockError
	var notFoundErr *orderapp.ItemNotFoundError
	switch {
	case errors.As(err, &stockErr):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInsufficientStock, err, *stockErr)
	case errors.As(err, &notFoundErr):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeItemNotFound, err, *notFoundErr)
	case errors.Is(err, orderapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInvalidInput, err)
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeIdempotency, err)
	case errors.Is(err, orderports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeOrderNotFound, err)
	case errors.Is(err, identity.ErrForbidden), errors.Is(err, identity.ErrUnauthenticated):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeForbidden, err)
	default:
		return err
	}
}

// DecodeError maps an error returned by a checkout workflow run back onto the
// order sentinels. Errors that carry no known application type are returned
// unchanged.
func DecodeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrorTypeInsufficientStock:
		var details orderapp.InsufficientStockError
		if appErr.HasDetails() && appErr.Details(&details) == nil {
			return &details
		}
		return orderapp.ErrInsufficientStock
	case ErrorTypeItemNotFound:
		var details orderapp.ItemNotFoundError
		if appErr.HasDetails() && appErr.Details(&details) == nil {
			return &details
		}
		return orderapp.ErrItemNotFound
	case ErrorTypeInvalidInput:
		return &decodedError{kind: orderapp.ErrInvalidInput, msg: appErr.Error()}
	case ErrorTypeOrderNotFound:
		return orderports.ErrNotFound
	case ErrorTypeForbidden:
		return identity.ErrForbidden
	case ErrorTypeIdempotency:
		return orderports.ErrIdempotencyConflict
	case ErrorTypePaymentFailed:
		return &decodedError{kind: orderapp.ErrPaymentFailed, msg: appErr.Error()}
	default:
		return err
	}
}

// decodedError keeps the remote message while matching the local sentinel.
type decodedError struct {
	kind error
	msg  string
}

func (e *decodedError) Error() string { return e.msg }

func (e *decodedError) Unwrap() error { return e.kind }
