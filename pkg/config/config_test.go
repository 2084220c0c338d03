package config

import (
	"strings"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MERCHDROP_APP_ENV", "dev")
	t.Setenv("MERCHDROP_APP_PORT", "8080")
	t.Setenv("MERCHDROP_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("MERCHDROP_JWT_SECRET", "secret")
	t.Setenv("MERCHDROP_JWT_ISSUER", "merchdrop")
	t.Setenv("MERCHDROP_JWT_EXPIRATION_MINUTES", "15")
}

func TestLoadWithBaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MERCHDROP_UPSTREAM_BASE_URL", "https://api.merchdrop.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Upstream.BaseURL != "https://api.merchdrop.test" {
		t.Fatalf("unexpected base url %q", cfg.Upstream.BaseURL)
	}
	if !cfg.App.IsDev() || cfg.App.IsProd() {
		t.Fatalf("expected dev environment")
	}
}

func TestLoadLegacyHostFallback(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MERCHDROP_UPSTREAM_BASE_URL", "")
	t.Setenv("MERCHDROP_API_HOST", "api.merchdrop.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Upstream.BaseURL != "https://api.merchdrop.test" {
		t.Fatalf("unexpected base url %q", cfg.Upstream.BaseURL)
	}
}

func TestLoadMissingUpstream(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MERCHDROP_UPSTREAM_BASE_URL", "")
	t.Setenv("MERCHDROP_API_HOST", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "MERCHDROP_UPSTREAM_BASE_URL") {
		t.Fatalf("expected missing upstream error, got %v", err)
	}
}

func TestRefreshTokenTTL(t *testing.T) {
	cfg := JWTConfig{RefreshTokenTTLMinutes: 60}
	if got := cfg.RefreshTokenTTL().Minutes(); got != 60 {
		t.Fatalf("expected 60 minutes, got %v", got)
	}
	cfg.RefreshTokenTTLMinutes = 0
	if got := cfg.RefreshTokenTTL(); got != 0 {
		t.Fatalf("expected zero ttl, got %v", got)
	}
}
