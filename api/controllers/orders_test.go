package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/merchdrop/storefront-gateway/api/middleware"
	"github.com/merchdrop/storefront-gateway/pkg/enums"
	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
)

type stubOrderGetter struct {
	actingUserID string
	orderID      string
	raw          map[string]any
	err          error
}

func (s *stubOrderGetter) GetOrder(ctx context.Context, actingUserID, orderID string) (map[string]any, error) {
	s.actingUserID = actingUserID
	s.orderID = orderID
	return s.raw, s.err
}

func orderRequest(t *testing.T, orderID, userID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	if userID != "" {
		ctx = middleware.WithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

func TestOrderDetailScopesToActingUser(t *testing.T) {
	t.Parallel()

	orders := &stubOrderGetter{raw: map[string]any{"id": "o1", "state": "paid"}}
	rec := httptest.NewRecorder()
	OrderDetail(orders, nil)(rec, orderRequest(t, "o1", "user-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if orders.actingUserID != "user-1" || orders.orderID != "o1" {
		t.Fatalf("lookup not scoped: user=%q order=%q", orders.actingUserID, orders.orderID)
	}

	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data["id"] != "o1" {
		t.Fatalf("unexpected payload %+v", env.Data)
	}
}

func TestOrderDetailForwardsNotFound(t *testing.T) {
	t.Parallel()

	orders := &stubOrderGetter{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	rec := httptest.NewRecorder()
	OrderDetail(orders, nil)(rec, orderRequest(t, "missing", "user-1"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

type stubRoleFetcher struct {
	role enums.AccountRole
}

func (s stubRoleFetcher) CurrentRole(ctx context.Context, actingUserID string) enums.AccountRole {
	return s.role
}

func meRequest(t *testing.T, userID, role string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	ctx := req.Context()
	if userID != "" {
		ctx = middleware.WithUserID(ctx, userID)
		ctx = middleware.WithRole(ctx, role)
	}
	return req.WithContext(ctx)
}

func TestAuthMeReportsUpstreamRole(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	AuthMe(stubRoleFetcher{role: enums.AccountRoleArtist}, nil)(rec, meRequest(t, "user-1", "fan"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env struct {
		Data meResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.ID != "user-1" || env.Data.Role != "artist" {
		t.Fatalf("unexpected payload %+v", env.Data)
	}
}

func TestAuthMeFallsBackToTokenRole(t *testing.T) {
	t.Parallel()

	// An empty role from the identity API means the lookup degraded; the
	// claims role stands in.
	rec := httptest.NewRecorder()
	AuthMe(stubRoleFetcher{}, nil)(rec, meRequest(t, "user-1", "fan"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env struct {
		Data meResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Role != "fan" {
		t.Fatalf("unexpected payload %+v", env.Data)
	}
}

func TestAuthMeWithoutIdentity(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	AuthMe(stubRoleFetcher{}, nil)(rec, meRequest(t, "", ""))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
