package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/merchdrop/storefront-gateway/pkg/logger"
)

const (
	cartTokenHeader = "X-Cart-Token"
	cartTokenCookie = "md_cart_token"
)

// CartToken resolves the caller's cart token, minting one when absent. The
// token is echoed back on both the cookie and the header so browser and
// non-browser clients can carry it forward. Signed-in and guest requests use
// the same token, which is what lets a cart survive the login redirect.
func CartToken(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(cartTokenHeader))
			if token == "" {
				if cookie, err := r.Cookie(cartTokenCookie); err == nil {
					token = strings.TrimSpace(cookie.Value)
				}
			}
			if token == "" {
				token = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cartTokenCookie,
				Value:    token,
				Path:     "/",
				MaxAge:   int((30 * 24 * time.Hour).Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(cartTokenHeader, token)

			ctx := WithCartToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithCartToken(ctx, token)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
