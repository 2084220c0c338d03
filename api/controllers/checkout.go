package controllers

import (
	"net/http"
	"time"

	"github.com/merchdrop/storefront-gateway/api/middleware"
	"github.com/merchdrop/storefront-gateway/api/responses"
	"github.com/merchdrop/storefront-gateway/internal/cart"
	checkoutsvc "github.com/merchdrop/storefront-gateway/internal/checkout"
	"github.com/merchdrop/storefront-gateway/pkg/enums"
	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/merchdrop/storefront-gateway/pkg/logger"
)

type checkoutResponse struct {
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
	OrderID string `json:"orderId,omitempty"`
}

// Checkout submits the caller's cart as an order. Blocked and Failed outcomes
// come back as regular responses carrying the state and a user-facing message;
// only authentication problems surface as HTTP errors.
func Checkout(svc *checkoutsvc.Service, slot cart.Slot, ttl time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		store, err := openCart(r, slot, ttl)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, _ := enums.ParseAccountRole(middleware.RoleFromContext(r.Context()))
		result, err := svc.Execute(r.Context(), store, checkoutsvc.Input{
			CartToken: middleware.CartTokenFromContext(r.Context()),
			UserID:    middleware.UserIDFromContext(r.Context()),
			Role:      role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{
			State:   result.State.String(),
			Message: result.Message,
			OrderID: result.OrderID,
		})
	}
}
