package cart

import "strings"

// Line is one product(+variant) entry in the shopping cart with its quantity.
// Title, price, and image are a display snapshot taken at add-time.
type Line struct {
	ProductID  string  `json:"productId"`
	VariantID  string  `json:"variantId,omitempty"`
	Title      string  `json:"title"`
	PriceCents int64   `json:"priceCents"`
	ImageURL   *string `json:"imageUrl,omitempty"`
	Quantity   int64   `json:"quantity"`

	// LegacyVariantID carries the pre-rename field some persisted carts
	// still hold. Read through RawVariantRef, never written.
	LegacyVariantID string `json:"variant,omitempty"`
}

// Key identifies a line inside the cart. A missing variant selection
// normalizes to the empty string so nil-ish spellings merge.
func (l Line) Key() string {
	return LineKey(l.ProductID, l.VariantID)
}

// LineKey builds the merge identity for a (product, variant) pair.
func LineKey(productID, variantID string) string {
	return productID + "\x00" + variantID
}

// RawVariantRef returns the trimmed variant reference, falling back to the
// legacy field name for carts persisted before the rename.
func (l Line) RawVariantRef() string {
	if ref := strings.TrimSpace(l.VariantID); ref != "" {
		return ref
	}
	return strings.TrimSpace(l.LegacyVariantID)
}
