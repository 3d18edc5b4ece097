package mirror

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/example/aurora-storefront/internal/domain"
)

// CartResponse — тело ответа всех ручек корзины.
type CartResponse struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	Error     string          `json:"error,omitempty"`
	Cart      []Line          `json:"cart"`
	Items     []Line          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CartCount int             `json:"cartCount"`
}

// Lines — items, а если их нет, cart.
func (r CartResponse) Lines() []Line {
	if r.Items != nil {
		return r.Items
	}
	return r.Cart
}

type CheckoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	OrderID string `json:"orderId"`
}

// AddRequest — тело добавления в корзину, как у браузера.
type AddRequest struct {
	ID       string `json:"id"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity"`
}

type LineRequest struct {
	ProductID string `json:"productId"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	Change    *int   `json:"change,omitempty"`
}

// CheckoutRequest — поля покупателя и карты; карта не списывается.
type CheckoutRequest struct {
	domain.Buyer
	CardNumber string `json:"cardNumber,omitempty"`
	Expiry     string `json:"expiry,omitempty"`
	CVV        string `json:"cvv,omitempty"`
}

// StatusError — ошибочный HTTP-статус.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storefront: %d %s", e.Code, e.Message)
}

// Client — клиент API витрины, хранит cookie сессии между вызовами.
type Client struct {
	BaseURL string
	g       *dataflow.Gout
}

// NewClient — копия hc (или клиента по умолчанию) с cookie jar, если его нет.
func NewClient(baseURL string, hc *http.Client) (*Client, error) {
	c := http.Client{Timeout: 10 * time.Second}
	if hc != nil {
		c = *hc
	}
	if c.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "cookie jar")
		}
		c.Jar = jar
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), g: gout.New(&c)}, nil
}

func (c *Client) endpoint(path string) string { return c.BaseURL + path }

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	var code int
	err := c.g.GET(c.endpoint(path)).WithContext(ctx).Code(&code).BindJSON(out).Do()
	return check(path, err, code)
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	var code int
	err := c.g.POST(c.endpoint(path)).WithContext(ctx).SetJSON(in).Code(&code).BindJSON(out).Do()
	return check(path, err, code)
}

func check(path string, err error, code int) error {
	if code >= http.StatusBadRequest {
		return &StatusError{Code: code, Message: http.StatusText(code)}
	}
	if err != nil {
		return errors.Wrapf(err, "request %s", path)
	}
	return nil
}

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := c.get(ctx, "/api/products", &out)
	return out, err
}

func (c *Client) Cart(ctx context.Context) (CartResponse, error) {
	var out CartResponse
	// метка времени обходит промежуточные кэши, как в браузерном клиенте
	err := c.get(ctx, fmt.Sprintf("/api/cart?t=%d", time.Now().UnixNano()), &out)
	return out, err
}

func (c *Client) Add(ctx context.Context, req AddRequest) (CartResponse, error) {
	var out CartResponse
	err := c.post(ctx, "/api/cart/add", req, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, key domain.LineKey, delta int) (CartResponse, error) {
	var out CartResponse
	req := LineRequest{ProductID: key.ProductID, Color: key.Color, Size: key.Size, Change: &delta}
	err := c.post(ctx, "/api/cart/update", req, &out)
	return out, err
}

func (c *Client) Remove(ctx context.Context, key domain.LineKey) (CartResponse, error) {
	var out CartResponse
	req := LineRequest{ProductID: key.ProductID, Color: key.Color, Size: key.Size}
	err := c.post(ctx, "/api/cart/remove", req, &out)
	return out, err
}

func (c *Client) Sync(ctx context.Context, lines []Line) (CartResponse, error) {
	if lines == nil {
		lines = []Line{}
	}
	var out CartResponse
	err := c.post(ctx, "/api/cart/sync", map[string]interface{}{"cart": lines}, &out)
	return out, err
}

func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error) {
	var out CheckoutResponse
	err := c.post(ctx, "/api/checkout", req, &out)
	return out, err
}

func (c *Client) Order(ctx context.Context, id string) (domain.Order, error) {
	var out domain.Order
	err := c.get(ctx, "/api/order/"+url.PathEscape(id), &out)
	return out, err
}
