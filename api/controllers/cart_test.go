package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/merchdrop/storefront-gateway/api/middleware"
)

type fakeSlot struct {
	data map[string]string
}

func newFakeSlot() *fakeSlot {
	return &fakeSlot{data: map[string]string{}}
}

func (f *fakeSlot) Get(ctx context.Context, key string) (string, error) {
	return f.data[key], nil
}

func (f *fakeSlot) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeSlot) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeSlot) CartSlotKey(cartToken string) string {
	return "cart:" + cartToken
}

type cartEnvelope struct {
	Data cartResponse `json:"data"`
}

func cartRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(middleware.WithCartToken(req.Context(), "tok"))
	return req
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var env cartEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env.Data
}

func TestCartAddItemMergesAndResponds(t *testing.T) {
	t.Parallel()

	slot := newFakeSlot()
	handler := CartAddItem(slot, time.Hour, nil)

	rec := httptest.NewRecorder()
	handler(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items",
		`{"productId":"p1","variantId":"v1","title":"Tour Tee","priceCents":2000,"quantity":2}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items",
		`{"productId":"p1","variantId":"v1","title":"Renamed","priceCents":9999}`))
	body := decodeCart(t, rec)

	if len(body.Items) != 1 || body.Count != 3 {
		t.Fatalf("expected one merged line with count 3, got %+v", body)
	}
	if body.Items[0].Title != "Tour Tee" {
		t.Fatalf("merge must keep the first snapshot, got %q", body.Items[0].Title)
	}
	if body.TotalCents != 6000 || body.Total != "60" {
		t.Fatalf("unexpected totals %+v", body)
	}
}

func TestCartAddItemRequiresProductID(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	CartAddItem(newFakeSlot(), time.Hour, nil)(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items", `{"quantity":1}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartSetQtyZeroRemovesLine(t *testing.T) {
	t.Parallel()

	slot := newFakeSlot()
	add := CartAddItem(slot, time.Hour, nil)
	rec := httptest.NewRecorder()
	add(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items", `{"productId":"p1","variantId":"v1","quantity":3}`))

	rec = httptest.NewRecorder()
	CartSetQty(slot, time.Hour, nil)(rec, cartRequest(t, http.MethodPatch, "/api/v1/cart/items",
		`{"productId":"p1","variantId":"v1","quantity":0}`))
	body := decodeCart(t, rec)
	if len(body.Items) != 0 {
		t.Fatalf("qty 0 must remove the line, got %+v", body.Items)
	}
}

func TestCartRemoveItemByQuery(t *testing.T) {
	t.Parallel()

	slot := newFakeSlot()
	rec := httptest.NewRecorder()
	CartAddItem(slot, time.Hour, nil)(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items", `{"productId":"p1","variantId":"v1"}`))

	rec = httptest.NewRecorder()
	CartRemoveItem(slot, time.Hour, nil)(rec, cartRequest(t, http.MethodDelete, "/api/v1/cart/items?productId=p1&variantId=v1", ""))
	if body := decodeCart(t, rec); len(body.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", body.Items)
	}

	// Absent line: still a 200, cart unchanged.
	rec = httptest.NewRecorder()
	CartRemoveItem(slot, time.Hour, nil)(rec, cartRequest(t, http.MethodDelete, "/api/v1/cart/items?productId=p9", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCartClearDropsSlot(t *testing.T) {
	t.Parallel()

	slot := newFakeSlot()
	rec := httptest.NewRecorder()
	CartAddItem(slot, time.Hour, nil)(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items", `{"productId":"p1"}`))

	rec = httptest.NewRecorder()
	CartClear(slot, time.Hour, nil)(rec, cartRequest(t, http.MethodDelete, "/api/v1/cart", ""))
	if body := decodeCart(t, rec); body.Count != 0 {
		t.Fatalf("expected cleared cart, got %+v", body)
	}
	if _, ok := slot.data["cart:tok"]; ok {
		t.Fatal("clear must delete the storage slot")
	}
}

func TestCartFetchSurvivesCorruptSlot(t *testing.T) {
	t.Parallel()

	slot := newFakeSlot()
	slot.data["cart:tok"] = "{broken"

	rec := httptest.NewRecorder()
	CartFetch(slot, time.Hour, nil)(rec, cartRequest(t, http.MethodGet, "/api/v1/cart", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeCart(t, rec); len(body.Items) != 0 {
		t.Fatalf("corrupt slot must read as empty cart, got %+v", body.Items)
	}
}
