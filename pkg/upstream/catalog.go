package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// VariantRecord is one purchasable configuration of a product.
type VariantRecord struct {
	ID    string `json:"id"`
	SKU   string `json:"sku"`
	Size  string `json:"size"`
	Color string `json:"color"`
}

// ProductDetail is the catalog view of a single product.
type ProductDetail struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	PriceCents int64           `json:"priceCents"`
	ImageURL   string          `json:"imageUrl"`
	Variants   []VariantRecord `json:"variants"`
}

// GetProduct fetches product detail by id. A missing or malformed variants
// payload yields an empty variant list, not an error.
func (c *Client) GetProduct(ctx context.Context, productID string) (*ProductDetail, error) {
	var raw struct {
		ID         string          `json:"id"`
		Title      string          `json:"title"`
		PriceCents int64           `json:"priceCents"`
		ImageURL   string          `json:"imageUrl"`
		Variants   json.RawMessage `json:"variants"`
	}
	path := "/v1/products/" + url.PathEscape(strings.TrimSpace(productID))
	if err := c.do(ctx, http.MethodGet, path, "", nil, &raw); err != nil {
		return nil, err
	}

	detail := &ProductDetail{
		ID:         raw.ID,
		Title:      raw.Title,
		PriceCents: raw.PriceCents,
		ImageURL:   raw.ImageURL,
	}
	if len(raw.Variants) > 0 {
		var variants []VariantRecord
		if err := json.Unmarshal(raw.Variants, &variants); err == nil {
			detail.Variants = variants
		}
	}
	if detail.Variants == nil {
		detail.Variants = []VariantRecord{}
	}
	return detail, nil
}
