package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/merchdrop/storefront-gateway/api/responses"
	"github.com/merchdrop/storefront-gateway/api/validators"
	"github.com/merchdrop/storefront-gateway/internal/drops"
	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/merchdrop/storefront-gateway/pkg/logger"
)

// DropsList returns the currently running drops.
func DropsList(svc *drops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drops service unavailable"))
			return
		}

		summaries, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"drops": summaries})
	}
}

// DropClaim handles a lead-capture attempt, enforcing the quiz gate.
func DropClaim(svc *drops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drops service unavailable"))
			return
		}

		dropID := strings.TrimSpace(chi.URLParam(r, "dropId"))
		if dropID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "dropId is required"))
			return
		}

		var body drops.ClaimRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Claim(r.Context(), dropID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "claimed", "drop": summary})
	}
}
