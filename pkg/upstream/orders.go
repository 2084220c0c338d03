package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// OrderLine is one resolved line submitted to the order API.
type OrderLine struct {
	ProductID        string `json:"productId"`
	ProductVariantID string `json:"productVariantId"`
	Quantity         int64  `json:"quantity"`
}

// CreateOrderResult carries the normalized outcome of an order submission.
type CreateOrderResult struct {
	OrderID string
	Raw     map[string]any
}

// CreateOrder submits a single order-creation request on behalf of the acting
// user. The returned OrderID is "" when the upstream reported success but no
// identifier could be extracted from any accepted response shape.
func (c *Client) CreateOrder(ctx context.Context, actingUserID string, lines []OrderLine) (*CreateOrderResult, error) {
	body := map[string]any{"items": lines}
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, "/v1/orders", actingUserID, body, &raw); err != nil {
		return nil, err
	}
	return &CreateOrderResult{
		OrderID: ExtractOrderID(raw),
		Raw:     raw,
	}, nil
}

// GetOrder fetches order detail for the acting user.
func (c *Client) GetOrder(ctx context.Context, actingUserID, orderID string) (map[string]any, error) {
	var raw map[string]any
	path := "/v1/orders/" + url.PathEscape(strings.TrimSpace(orderID))
	if err := c.do(ctx, http.MethodGet, path, actingUserID, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
