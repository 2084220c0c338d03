package controllers

import (
	"context"
	"net/http"

	"github.com/merchdrop/storefront-gateway/api/middleware"
	"github.com/merchdrop/storefront-gateway/api/responses"
	"github.com/merchdrop/storefront-gateway/api/validators"
	"github.com/merchdrop/storefront-gateway/internal/auth"
	"github.com/merchdrop/storefront-gateway/pkg/enums"
	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/merchdrop/storefront-gateway/pkg/logger"
)

const accessTokenHeader = "X-MD-Token"

// AuthLogin wires the fan login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(accessTokenHeader, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

type roleFetcher interface {
	CurrentRole(ctx context.Context, actingUserID string) enums.AccountRole
}

type meResponse struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// AuthMe reports the signed-in caller's identity. The role is confirmed
// against the identity API; when that lookup degrades, the token's role is
// reported instead of failing the request.
func AuthMe(identity roleFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		role := middleware.RoleFromContext(r.Context())
		if identity != nil {
			if fetched := identity.CurrentRole(r.Context(), userID); fetched != "" {
				role = string(fetched)
			}
		}

		responses.WriteSuccess(w, meResponse{ID: userID, Role: role})
	}
}

// AuthPartnerLogin is the sign-in for artist, label, and admin accounts.
func AuthPartnerLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PartnerLogin(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(accessTokenHeader, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}
