package storefrontserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	menumemory "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/memory"
	menuhttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/http/mapper"
	menuapp "github.com/Apurer/go-gin-storefront/internal/domains/menu/application"
	menudomain "github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	ordermemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	orderhttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/http/mapper"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	"github.com/Apurer/go-gin-storefront/internal/platform/auth"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

const testSecret = "handler-secret"

type testServer struct {
	router    *gin.Engine
	inventory *menumemory.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	inventory := menumemory.NewRepository()
	orderService := orderapp.NewService(ordermemory.NewRepository(), inventory)
	handlers := ApiHandleFunctions{
		MenuAPI:       NewMenuAPI(menuapp.NewService(inventory)),
		OrdersAPI:     NewOrdersAPI(orderService, orderworkflows.NewInlineCheckout(orderService, nil)),
		Authenticator: auth.NewVerifier(testSecret).Middleware(),
	}
	router := NewRouterWithGinEngine(gin.New(), handlers)
	return &testServer{router: router, inventory: inventory}
}

func tokenFor(t *testing.T, id, name, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{UserID: id, Name: name, Role: role}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seed(t *testing.T, name string, price string, stock int) *menudomain.Item {
	t.Helper()
	item, err := menudomain.NewItem(uuid.New(), name, name+" of the day", decimal.RequireFromString(price), stock, menudomain.CategoryMainCourse)
	require.NoError(t, err)
	saved, err := s.inventory.Save(context.Background(), item)
	require.NoError(t, err)
	return saved
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestMenu_CreateRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	payload := menuhttpmapper.CreateMenuItem{
		Name:        "Shakshuka",
		Description: "Eggs poached in tomato",
		Price:       decimal.RequireFromString("9.90"),
		Stock:       4,
		Category:    "Main Course",
	}

	rec := s.do(t, http.MethodPost, "/api/menu", "", payload)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/menu", tokenFor(t, "u-1", "Uma", "user"), payload)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/menu", tokenFor(t, "a-1", "Ada", "admin"), payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[menuhttpmapper.MenuItem](t, rec)
	require.Equal(t, "Shakshuka", created.Name)
	require.Equal(t, menudomain.DefaultImageURL, created.Image)
	require.Nil(t, created.Rating)

	rec = s.do(t, http.MethodGet, "/api/menu?category=Main%20Course", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]menuhttpmapper.MenuItem](t, rec), 1)
}

func TestMenu_InvalidPayloadIsValidationProblem(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/menu", tokenFor(t, "a-1", "Ada", "admin"), menuhttpmapper.CreateMenuItem{
		Name:     "Soup",
		Price:    decimal.RequireFromString("3"),
		Category: "Snack",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, apierrors.TypeValidation, problem.Type)
}

func TestMenu_ListByIDs(t *testing.T) {
	s := newTestServer(t)
	a := s.seed(t, "Curry", "11.00", 2)
	s.seed(t, "Stew", "10.00", 2)

	rec := s.do(t, http.MethodGet, "/api/menu?ids="+a.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]menuhttpmapper.MenuItem](t, rec)
	require.Len(t, items, 1)
	require.Equal(t, a.ID.String(), items[0].ID)

	rec = s.do(t, http.MethodGet, "/api/menu?ids=nope", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMenu_GetUnknownAndMalformedID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/menu/"+uuid.NewString(), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/menu/42", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMenu_ReviewOncePerCaller(t *testing.T) {
	s := newTestServer(t)
	item := s.seed(t, "Bibimbap", "12.00", 3)
	path := "/api/menu/" + item.ID.String() + "/reviews"
	uma := tokenFor(t, "u-1", "Uma", "user")

	rec := s.do(t, http.MethodPost, path, "", menuhttpmapper.SubmitReview{Rating: 5, Comment: "great"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, path, uma, menuhttpmapper.SubmitReview{Rating: 4, Comment: "great"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, path, tokenFor(t, "u-2", "Sam", "user"), menuhttpmapper.SubmitReview{Rating: 1, Comment: "cold"})
	require.Equal(t, http.StatusCreated, rec.Code)
	reviewed := decode[menuhttpmapper.MenuItem](t, rec)
	require.NotNil(t, reviewed.Rating)
	require.InDelta(t, 2.5, *reviewed.Rating, 1e-9)
	require.Equal(t, 2, reviewed.NumReviews)

	rec = s.do(t, http.MethodPost, path, uma, menuhttpmapper.SubmitReview{Rating: 3, Comment: "again"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, path, tokenFor(t, "u-3", "Kim", "user"), menuhttpmapper.SubmitReview{Rating: 9, Comment: "wow"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrders_PlaceAndQuery(t *testing.T) {
	s := newTestServer(t)
	item := s.seed(t, "Gnocchi", "8.25", 5)
	uma := tokenFor(t, "u-1", "Uma", "user")

	rec := s.do(t, http.MethodPost, "/api/orders", uma, orderhttpmapper.PlaceOrder{
		Items: []orderhttpmapper.PlaceOrderLine{{FoodItem: item.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	placed := decode[orderhttpmapper.Order](t, rec)
	require.Equal(t, "Uma", placed.CustomerName)
	require.Equal(t, "Pending", placed.Status)
	require.True(t, decimal.RequireFromString("16.50").Equal(placed.TotalAmount))

	current, err := s.inventory.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, 3, current.Stock)

	rec = s.do(t, http.MethodGet, "/api/orders/"+placed.ID, uma, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/orders/"+placed.ID, tokenFor(t, "u-2", "Sam", "user"), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/me/orders", uma, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]orderhttpmapper.Order](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/orders", uma, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	admin := tokenFor(t, "a-1", "Ada", "admin")
	rec = s.do(t, http.MethodGet, "/api/orders", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]orderhttpmapper.Order](t, rec), 1)
}

func TestOrders_InsufficientStockProblem(t *testing.T) {
	s := newTestServer(t)
	item := s.seed(t, "Paella", "15.00", 1)

	rec := s.do(t, http.MethodPost, "/api/orders", "", orderhttpmapper.PlaceOrder{
		CustomerName: "Walk-in",
		Items:        []orderhttpmapper.PlaceOrderLine{{FoodItem: item.ID, Quantity: 3}},
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, apierrors.TypeOutOfStock, problem.Type)
	require.Equal(t, item.ID.String(), problem.Extensions["itemId"])
	require.EqualValues(t, 3, problem.Extensions["requested"])
	require.EqualValues(t, 1, problem.Extensions["available"])
}

func TestOrders_UnknownItemAndPriceChange(t *testing.T) {
	s := newTestServer(t)
	item := s.seed(t, "Tacos", "3.00", 10)

	rec := s.do(t, http.MethodPost, "/api/orders", "", orderhttpmapper.PlaceOrder{
		CustomerName: "Walk-in",
		Items:        []orderhttpmapper.PlaceOrderLine{{FoodItem: uuid.New(), Quantity: 1}},
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	stale := decimal.RequireFromString("5.00")
	rec = s.do(t, http.MethodPost, "/api/orders", "", orderhttpmapper.PlaceOrder{
		CustomerName:  "Walk-in",
		Items:         []orderhttpmapper.PlaceOrderLine{{FoodItem: item.ID, Quantity: 2}},
		ExpectedTotal: &stale,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrders_CancelReleasesStock(t *testing.T) {
	s := newTestServer(t)
	item := s.seed(t, "Pho", "10.00", 4)
	admin := tokenFor(t, "a-1", "Ada", "admin")

	rec := s.do(t, http.MethodPost, "/api/orders", "", orderhttpmapper.PlaceOrder{
		CustomerName: "Walk-in",
		Items:        []orderhttpmapper.PlaceOrderLine{{FoodItem: item.ID, Quantity: 4}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	placed := decode[orderhttpmapper.Order](t, rec)

	path := "/api/orders/" + placed.ID + "/status"
	rec = s.do(t, http.MethodPut, path, admin, orderhttpmapper.UpdateStatus{Status: "Cancelled"})
	require.Equal(t, http.StatusOK, rec.Code)

	current, err := s.inventory.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, 4, current.Stock)

	rec = s.do(t, http.MethodPut, path, admin, orderhttpmapper.UpdateStatus{Status: "Completed"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, path, admin, orderhttpmapper.UpdateStatus{Status: "Shipped"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/menu", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
