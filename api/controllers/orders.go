package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/merchdrop/storefront-gateway/api/middleware"
	"github.com/merchdrop/storefront-gateway/api/responses"
	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/merchdrop/storefront-gateway/pkg/logger"
)

type orderGetter interface {
	GetOrder(ctx context.Context, actingUserID, orderID string) (map[string]any, error)
}

// OrderDetail proxies an order lookup on behalf of the signed-in caller. The
// upstream payload passes through untouched; ownership checks live upstream,
// scoped by the acting user header.
func OrderDetail(orders orderGetter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orders == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order client unavailable"))
			return
		}

		orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "orderId is required"))
			return
		}

		raw, err := orders.GetOrder(r.Context(), middleware.UserIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, raw)
	}
}
