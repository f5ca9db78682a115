package storefrontserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets clients retry a checkout without placing a second order.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrdersAPI wires HTTP transport with the orders service and checkout workflow.
type OrdersAPI struct {
	service  orderports.Service
	checkout orderports.WorkflowOrchestrator
}

// NewOrdersAPI creates an OrdersAPI. A nil checkout places orders directly
// through the service.
func NewOrdersAPI(service orderports.Service, checkout orderports.WorkflowOrchestrator) OrdersAPI {
	return OrdersAPI{service: service, checkout: checkout}
}

// Post /api/orders
// Places an order; the caller identity is optional
func (api *OrdersAPI) PlaceOrder(c *gin.Context) {
	var payload orderhttpmapper.PlaceOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := orderhttpmapper.ToPlaceOrderInput(payload, callerFrom(c), c.GetHeader(IdempotencyKeyHeader))
	order, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomain(order))
}

func (api *OrdersAPI) placeOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	if api.checkout != nil {
		return api.checkout.Checkout(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}

// Get /api/orders
// Lists every order, newest first (admin)
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainList(orders))
}

// Get /api/me/orders
// Lists the caller's orders, newest first
func (api *OrdersAPI) ListMyOrders(c *gin.Context) {
	orders, err := api.service.ListMyOrders(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainList(orders))
}

// Get /api/orders/:orderId
// Finds an order by id (admin or owner)
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	id, ok := bindUUIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), callerFrom(c), ordertypes.OrderIdentifier{ID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomain(order))
}

// Put /api/orders/:orderId/status
// Moves an order to a new status (admin)
func (api *OrdersAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := bindUUIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload orderhttpmapper.UpdateStatus
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), callerFrom(c), ordertypes.UpdateStatusInput{
		OrderID: id,
		Status:  payload.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomain(order))
}
