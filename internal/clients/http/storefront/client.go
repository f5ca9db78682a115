// Package storefront is the HTTP client for the storefront API. It backs the
// cart checkout when the cart runs outside the API process.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	menuhttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/http/mapper"
	orderhttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

const idempotencyKeyHeader = "Idempotency-Key"

// Client calls the storefront API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithBearerToken authenticates every request with the given token.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// NewClient instantiates the client with sane defaults.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("storefront base URL is required")
	}
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse storefront base URL: %w", err)
	}
	c := &Client{baseURL: parsed, httpClient: &http.Client{Timeout: 5 * time.Second}}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// ListMenu returns menu items, optionally narrowed by category and ids.
func (c *Client) ListMenu(ctx context.Context, category string, ids []uuid.UUID) ([]menuhttpmapper.MenuItem, error) {
	query := url.Values{}
	if category = strings.TrimSpace(category); category != "" {
		if err := addQueryParam(query, "category", true, category); err != nil {
			return nil, err
		}
	}
	if len(ids) > 0 {
		raw := make([]string, 0, len(ids))
		for _, id := range ids {
			raw = append(raw, id.String())
		}
		if err := addQueryParam(query, "ids", false, raw); err != nil {
			return nil, err
		}
	}
	var items []menuhttpmapper.MenuItem
	if err := c.do(ctx, http.MethodGet, "api/menu", query, nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetMenuItem fetches one item.
func (c *Client) GetMenuItem(ctx context.Context, id uuid.UUID) (*menuhttpmapper.MenuItem, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "itemId", runtime.ParamLocationPath, id.String())
	if err != nil {
		return nil, err
	}
	var item menuhttpmapper.MenuItem
	if err := c.do(ctx, http.MethodGet, "api/menu/"+pathParam, nil, nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Snapshots implements the cart Catalog port. Unknown ids are left out.
func (c *Client) Snapshots(ctx context.Context, ids []uuid.UUID) ([]cartdomain.Snapshot, error) {
	if len(ids) == 0 {
		return []cartdomain.Snapshot{}, nil
	}
	items, err := c.ListMenu(ctx, "", ids)
	if err != nil {
		return nil, err
	}
	out := make([]cartdomain.Snapshot, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, fmt.Errorf("menu item id %q: %w", item.ID, err)
		}
		out = append(out, cartdomain.Snapshot{
			ItemID:   id,
			Name:     item.Name,
			Price:    item.Price,
			Stock:    item.Stock,
			ImageURL: item.Image,
		})
	}
	return out, nil
}

// PlaceOrder implements the cart OrderPlacer port. The idempotency key of the
// input travels as the Idempotency-Key header.
func (c *Client) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*orderdomain.Order, error) {
	headers := http.Header{}
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		headers.Set(idempotencyKeyHeader, key)
	}
	var order orderhttpmapper.Order
	if err := c.do(ctx, http.MethodPost, "api/orders", nil, headers, orderhttpmapper.FromPlaceOrderInput(input), &order); err != nil {
		return nil, err
	}
	return orderhttpmapper.ToDomain(order)
}

// GetOrder fetches one order visible to the authenticated caller.
func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*orderdomain.Order, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "orderId", runtime.ParamLocationPath, id.String())
	if err != nil {
		return nil, err
	}
	var order orderhttpmapper.Order
	if err := c.do(ctx, http.MethodGet, "api/orders/"+pathParam, nil, nil, nil, &order); err != nil {
		return nil, err
	}
	return orderhttpmapper.ToDomain(order)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers http.Header, body, out any) error {
	if c == nil || c.baseURL == nil {
		return errors.New("storefront client not configured")
	}
	target := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call storefront API: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode storefront response: %w", err)
	}
	return nil
}

func addQueryParam(query url.Values, name string, explode bool, value any) error {
	frag, err := runtime.StyleParamWithLocation("form", explode, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return err
	}
	parsed, err := url.ParseQuery(frag)
	if err != nil {
		return err
	}
	for key, values := range parsed {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	return nil
}

var (
	_ cartapp.Catalog     = (*Client)(nil)
	_ cartapp.OrderPlacer = (*Client)(nil)
)
