package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/merchdrop/storefront-gateway/api/middleware"
	"github.com/merchdrop/storefront-gateway/api/responses"
	"github.com/merchdrop/storefront-gateway/api/validators"
	"github.com/merchdrop/storefront-gateway/internal/cart"
	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/merchdrop/storefront-gateway/pkg/logger"
)

type cartResponse struct {
	Items      []cart.Line `json:"items"`
	Count      int64       `json:"count"`
	TotalCents int64       `json:"totalCents"`
	Total      string      `json:"total"`
}

type addItemRequest struct {
	ProductID  string  `json:"productId" validate:"required"`
	VariantID  string  `json:"variantId"`
	Title      string  `json:"title"`
	PriceCents int64   `json:"priceCents" validate:"min=0"`
	ImageURL   *string `json:"imageUrl"`
	Quantity   int64   `json:"quantity"`
}

type setQtyRequest struct {
	ProductID string `json:"productId" validate:"required"`
	VariantID string `json:"variantId"`
	Quantity  *int64 `json:"quantity" validate:"required"`
}

func openCart(r *http.Request, slot cart.Slot, ttl time.Duration) (*cart.Store, error) {
	token := middleware.CartTokenFromContext(r.Context())
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart token missing")
	}
	return cart.Open(r.Context(), slot, token, ttl), nil
}

func writeCart(w http.ResponseWriter, store *cart.Store) {
	responses.WriteSuccess(w, cartResponse{
		Items:      store.Lines(),
		Count:      store.Count(),
		TotalCents: store.TotalCents(),
		Total:      store.Total().String(),
	})
}

// CartFetch returns the caller's cart with recomputed aggregates.
func CartFetch(slot cart.Slot, ttl time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := openCart(r, slot, ttl)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, store)
	}
}

// CartAddItem adds a line to the cart, merging on product + variant identity.
func CartAddItem(slot cart.Slot, ttl time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := openCart(r, slot, ttl)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		qty := body.Quantity
		if qty == 0 {
			qty = 1
		}
		line := cart.Line{
			ProductID:  strings.TrimSpace(body.ProductID),
			VariantID:  strings.TrimSpace(body.VariantID),
			Title:      body.Title,
			PriceCents: body.PriceCents,
			ImageURL:   body.ImageURL,
		}
		if err := store.AddItem(r.Context(), line, qty); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, store)
	}
}

// CartSetQty overwrites one line's quantity; zero or below removes the line.
func CartSetQty(slot cart.Slot, ttl time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body setQtyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := openCart(r, slot, ttl)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.SetQty(r.Context(), strings.TrimSpace(body.ProductID), strings.TrimSpace(body.VariantID), *body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, store)
	}
}

// CartRemoveItem deletes one line by product + variant identity. Removing an
// absent line is a no-op.
func CartRemoveItem(slot cart.Slot, ttl time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := strings.TrimSpace(r.URL.Query().Get("productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId is required"))
			return
		}
		variantID := strings.TrimSpace(r.URL.Query().Get("variantId"))

		store, err := openCart(r, slot, ttl)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.RemoveItem(r.Context(), productID, variantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, store)
	}
}

// CartClear empties the cart and drops its storage slot.
func CartClear(slot cart.Slot, ttl time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := openCart(r, slot, ttl)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, store)
	}
}
