package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

// OrderLine is the HTTP representation of one order line.
type OrderLine struct {
	FoodItem string          `json:"foodItem"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Order is the HTTP representation of an order.
type Order struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customerId,omitempty"`
	CustomerName string          `json:"customerName"`
	Items        []OrderLine     `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// PlaceOrderLine is one requested line of the checkout payload.
type PlaceOrderLine struct {
	FoodItem uuid.UUID `json:"foodItem"`
	Quantity int       `json:"quantity"`
}

// PlaceOrder is the inbound checkout payload. ExpectedTotal is the total the
// client showed the customer.
type PlaceOrder struct {
	CustomerName  string           `json:"customerName"`
	Items         []PlaceOrderLine `json:"items"`
	ExpectedTotal *decimal.Decimal `json:"expectedTotal,omitempty"`
}

// UpdateStatus is the inbound payload for admin status changes.
type UpdateStatus struct {
	Status string `json:"status"`
}

// ToPlaceOrderInput builds the application input. An authenticated caller
// owns the order and supplies the customer name when the payload omits it.
func ToPlaceOrderInput(payload PlaceOrder, caller *identity.Identity, idempotencyKey string) ordertypes.PlaceOrderInput {
	input := ordertypes.PlaceOrderInput{
		CustomerName:   strings.TrimSpace(payload.CustomerName),
		Lines:          make([]ordertypes.LineInput, 0, len(payload.Items)),
		ExpectedTotal:  payload.ExpectedTotal,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
	if caller != nil {
		input.CustomerID = caller.ID
		if input.CustomerName == "" {
			input.CustomerName = caller.Name
		}
	}
	for _, line := range payload.Items {
		input.Lines = append(input.Lines, ordertypes.LineInput{ItemID: line.FoodItem, Quantity: line.Quantity})
	}
	return input
}

// FromDomain maps a domain order onto its transport form.
func FromDomain(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	out := Order{
		ID:           order.ID.String(),
		CustomerID:   order.CustomerID,
		CustomerName: order.CustomerName,
		Items:        make([]OrderLine, 0, len(order.Lines)),
		TotalAmount:  order.Total,
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt,
	}
	for _, line := range order.Lines {
		out.Items = append(out.Items, OrderLine{
			FoodItem: line.ItemID.String(),
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
			Subtotal: line.Subtotal(),
		})
	}
	return out
}

// FromDomainList maps a list of domain orders.
func FromDomainList(orders []*domain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomain(order))
	}
	return result
}

// FromPlaceOrderInput builds the outbound checkout payload used by HTTP clients.
// Customer identity travels in the bearer token, not the body.
func FromPlaceOrderInput(input ordertypes.PlaceOrderInput) PlaceOrder {
	payload := PlaceOrder{
		CustomerName:  input.CustomerName,
		Items:         make([]PlaceOrderLine, 0, len(input.Lines)),
		ExpectedTotal: input.ExpectedTotal,
	}
	for _, line := range input.Lines {
		payload.Items = append(payload.Items, PlaceOrderLine{FoodItem: line.ItemID, Quantity: line.Quantity})
	}
	return payload
}

// ToDomain parses a transport order back into the domain model.
func ToDomain(order Order) (*domain.Order, error) {
	id, err := uuid.Parse(order.ID)
	if err != nil {
		return nil, fmt.Errorf("order id %q: %w", order.ID, err)
	}
	out := &domain.Order{
		ID:           id,
		CustomerID:   order.CustomerID,
		CustomerName: order.CustomerName,
		Lines:        make([]domain.Line, 0, len(order.Items)),
		Total:        order.TotalAmount,
		Status:       domain.Status(order.Status),
		CreatedAt:    order.CreatedAt,
	}
	for _, line := range order.Items {
		itemID, err := uuid.Parse(line.FoodItem)
		if err != nil {
			return nil, fmt.Errorf("order line item id %q: %w", line.FoodItem, err)
		}
		out.Lines = append(out.Lines, domain.Line{
			ItemID:    itemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
		})
	}
	return out, nil
}
