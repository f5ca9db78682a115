package storefrontserver

import (
	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-storefront/internal/platform/auth"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Authenticated rejects anonymous callers before the handler runs.
	Authenticated bool
}

// ApiHandleFunctions bundles the handlers the router serves. Authenticator
// resolves the caller identity and may be nil, in which case every request
// is anonymous.
type ApiHandleFunctions struct {
	MenuAPI       MenuAPI
	OrdersAPI     OrdersAPI
	Authenticator gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the storefront routes to an existing engine
// under the /api prefix.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	group := router.Group("/api")
	if handleFunctions.Authenticator != nil {
		group.Use(handleFunctions.Authenticator)
	}
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := make([]gin.HandlerFunc, 0, 2)
		if route.Authenticated {
			handlers = append(handlers, auth.RequireIdentity())
		}
		handlers = append(handlers, route.HandlerFunc)
		group.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc is the default handler for routes without one.
func DefaultHandleFunc(c *gin.Context) {
	c.String(501, "not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{Name: "ListMenu", Method: "GET", Pattern: "/menu", HandlerFunc: handleFunctions.MenuAPI.ListMenu},
		{Name: "GetMenuItem", Method: "GET", Pattern: "/menu/:itemId", HandlerFunc: handleFunctions.MenuAPI.GetMenuItem},
		{Name: "CreateMenuItem", Method: "POST", Pattern: "/menu", HandlerFunc: handleFunctions.MenuAPI.CreateMenuItem, Authenticated: true},
		{Name: "UpdateMenuItem", Method: "PUT", Pattern: "/menu/:itemId", HandlerFunc: handleFunctions.MenuAPI.UpdateMenuItem, Authenticated: true},
		{Name: "DeleteMenuItem", Method: "DELETE", Pattern: "/menu/:itemId", HandlerFunc: handleFunctions.MenuAPI.DeleteMenuItem, Authenticated: true},
		{Name: "SubmitReview", Method: "POST", Pattern: "/menu/:itemId/reviews", HandlerFunc: handleFunctions.MenuAPI.SubmitReview, Authenticated: true},
		{Name: "PlaceOrder", Method: "POST", Pattern: "/orders", HandlerFunc: handleFunctions.OrdersAPI.PlaceOrder},
		{Name: "ListOrders", Method: "GET", Pattern: "/orders", HandlerFunc: handleFunctions.OrdersAPI.ListOrders, Authenticated: true},
		{Name: "GetOrder", Method: "GET", Pattern: "/orders/:orderId", HandlerFunc: handleFunctions.OrdersAPI.GetOrder, Authenticated: true},
		{Name: "UpdateOrderStatus", Method: "PUT", Pattern: "/orders/:orderId/status", HandlerFunc: handleFunctions.OrdersAPI.UpdateOrderStatus, Authenticated: true},
		{Name: "ListMyOrders", Method: "GET", Pattern: "/me/orders", HandlerFunc: handleFunctions.OrdersAPI.ListMyOrders, Authenticated: true},
	}
}
