package controllers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/multierr"

	"github.com/merchdrop/storefront-gateway/api/responses"
	"github.com/merchdrop/storefront-gateway/pkg/config"
	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/merchdrop/storefront-gateway/pkg/logger"
)

const envHeader = "X-MerchDrop-Env"

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every wired dependency answers a ping.
// All dependencies are checked so one outage does not mask another.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		names := make([]string, 0, len(deps))
		for name := range deps {
			names = append(names, name)
		}
		sort.Strings(names)

		var failures error
		for _, name := range names {
			dep := deps[name]
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				failures = multierr.Append(failures, fmt.Errorf("%s: %w", name, err))
			}
		}
		if failures != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, failures, "dependencies unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
