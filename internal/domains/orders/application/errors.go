package application

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	menudomain "github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrItemNotFound is matched by every ItemNotFoundError.
	ErrItemNotFound = errors.New("menu item not found")
	// ErrInsufficientStock is matched by every InsufficientStockError.
	ErrInsufficientStock = menudomain.ErrInsufficientStock
	// ErrPriceChanged means the client total no longer matches current prices.
	ErrPriceChanged = errors.New("order total does not match current prices")
	// ErrPaymentFailed means checkout cancelled the order after payment confirmation failed.
	ErrPaymentFailed = errors.New("payment confirmation failed")
)

// ItemNotFoundError reports an order line referencing an unknown item.
type ItemNotFoundError struct {
	ItemID uuid.UUID
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %s not found", e.ItemID)
}

func (e *ItemNotFoundError) Unwrap() error { return ErrItemNotFound }

// InsufficientStockError reports which item could not cover the requested quantity.
type InsufficientStockError struct {
	ItemID    uuid.UUID
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ItemName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCustomerName) ||
		errors.Is(err, domain.ErrNoLines) ||
		errors.Is(err, domain.ErrInvalidItemID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidUnitPrice) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrOrderClosed) ||
		errors.Is(err, ErrPriceChanged) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
