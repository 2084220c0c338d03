package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/merchdrop/storefront-gateway/pkg/auth"
	"github.com/merchdrop/storefront-gateway/pkg/config"
	"github.com/merchdrop/storefront-gateway/pkg/enums"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "merchdrop-test",
	ExpirationMinutes: 15,
}

type fakeSessionChecker struct {
	ok  bool
	err error
}

func (f *fakeSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return f.ok, f.err
}

func mintTestToken(t *testing.T, role enums.AccountRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: "user-1",
		Email:  "fan@example.com",
		Role:   role,
		JTI:    "jti-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	t.Parallel()

	handler := Auth(testJWTConfig, &fakeSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	t.Parallel()

	handler := Auth(testJWTConfig, &fakeSessionChecker{ok: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a revoked session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, enums.AccountRoleFan))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthSeedsContext(t *testing.T) {
	t.Parallel()

	var userID, role string
	handler := Auth(testJWTConfig, &fakeSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = UserIDFromContext(r.Context())
		role = RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, enums.AccountRoleFan))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if userID != "user-1" || role != string(enums.AccountRoleFan) {
		t.Fatalf("context not seeded: user=%q role=%q", userID, role)
	}
}

func TestSoftAuthPassesAnonymousThrough(t *testing.T) {
	t.Parallel()

	var ran bool
	handler := SoftAuth(testJWTConfig, &fakeSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
		if UserIDFromContext(r.Context()) != "" {
			t.Fatal("anonymous request must carry no identity")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))
	if !ran {
		t.Fatal("handler must run without credentials")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSoftAuthSeedsValidClaims(t *testing.T) {
	t.Parallel()

	var userID, role string
	handler := SoftAuth(testJWTConfig, &fakeSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = UserIDFromContext(r.Context())
		role = RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, enums.AccountRoleFan))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if userID != "user-1" || role != string(enums.AccountRoleFan) {
		t.Fatalf("context not seeded: user=%q role=%q", userID, role)
	}
}

func TestSoftAuthTreatsBadTokenAsAnonymous(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		header    string
		sessionOK bool
	}{
		{name: "garbage token", header: "Bearer not-a-jwt", sessionOK: true},
		{name: "revoked session", header: "Bearer " + mintTestToken(t, enums.AccountRoleFan), sessionOK: false},
	}
	for _, tc := range cases {
		name := tc.name
		checker := &fakeSessionChecker{ok: tc.sessionOK}

		var ran bool
		handler := SoftAuth(testJWTConfig, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ran = true
			if UserIDFromContext(r.Context()) != "" {
				t.Fatalf("%s: identity must not be seeded", name)
			}
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
		req.Header.Set("Authorization", tc.header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if !ran {
			t.Fatalf("%s: handler must still run", name)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", name, rec.Code)
		}
	}
}
