package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/merchdrop/storefront-gateway/api/controllers"
	"github.com/merchdrop/storefront-gateway/api/middleware"
	"github.com/merchdrop/storefront-gateway/internal/auth"
	"github.com/merchdrop/storefront-gateway/internal/cart"
	checkoutsvc "github.com/merchdrop/storefront-gateway/internal/checkout"
	"github.com/merchdrop/storefront-gateway/internal/drops"
	"github.com/merchdrop/storefront-gateway/pkg/auth/session"
	"github.com/merchdrop/storefront-gateway/pkg/config"
	"github.com/merchdrop/storefront-gateway/pkg/enums"
	"github.com/merchdrop/storefront-gateway/pkg/logger"
	"github.com/merchdrop/storefront-gateway/pkg/redis"
	"github.com/merchdrop/storefront-gateway/pkg/upstream"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessionManager sessionManager,
	authService auth.Service,
	dropsService *drops.Service,
	checkoutService *checkoutsvc.Service,
	upstreamClient *upstream.Client,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	var slot cart.Slot
	if redisClient != nil {
		slot = redisClient
	}
	cartTTL := cfg.Cart.SlotTTL

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	loginLimiter := func(next http.Handler) http.Handler { return next }
	if redisClient != nil {
		loginLimiter = middleware.AuthRateLimit(loginPolicy, redisClient, logg)
	}

	readiness := map[string]controllers.Pinger{}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}
	if upstreamClient != nil {
		readiness["upstream"] = upstreamClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(loginLimiter).Post("/partner/login", controllers.AuthPartnerLogin(authService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
		r.With(middleware.Auth(cfg.JWT, sessionManager, logg)).Get("/me", controllers.AuthMe(upstreamClient, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartToken(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(slot, cartTTL, logg))
			r.Post("/items", controllers.CartAddItem(slot, cartTTL, logg))
			r.Patch("/items", controllers.CartSetQty(slot, cartTTL, logg))
			r.Delete("/items", controllers.CartRemoveItem(slot, cartTTL, logg))
			r.Delete("/", controllers.CartClear(slot, cartTTL, logg))
		})

		r.Get("/products/{productId}", controllers.ProductDetail(upstreamClient, logg))

		r.Route("/drops", func(r chi.Router) {
			r.Get("/", controllers.DropsList(dropsService, logg))
			r.Post("/{dropId}/claim", controllers.DropClaim(dropsService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
			r.Get("/ping", controllers.PrivatePing())
			r.With(middleware.RequireRole(string(enums.AccountRoleFan), logg)).
				Get("/orders/{orderId}", controllers.OrderDetail(upstreamClient, logg))
		})

		// Checkout authenticates softly: guests must reach the cart checks
		// and get "add something to your cart first" back, not a 401.
		r.With(middleware.SoftAuth(cfg.JWT, sessionManager, logg)).
			Post("/checkout", controllers.Checkout(checkoutService, slot, cartTTL, logg))
	})

	return r
}
