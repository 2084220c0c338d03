package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Cart          CartConfig
	Checkout      CheckoutConfig
	Upstream      UpstreamConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.ensureBaseURL(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MERCHDROP_APP_ENV" required:"true"`
	Port         string `envconfig:"MERCHDROP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MERCHDROP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MERCHDROP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"MERCHDROP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MERCHDROP_REDIS_ADDR"`
	Password     string        `envconfig:"MERCHDROP_REDIS_PASSWORD"`
	DB           int           `envconfig:"MERCHDROP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MERCHDROP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MERCHDROP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MERCHDROP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MERCHDROP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MERCHDROP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MERCHDROP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MERCHDROP_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MERCHDROP_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MERCHDROP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type CartConfig struct {
	SlotTTL time.Duration `envconfig:"MERCHDROP_CART_SLOT_TTL" default:"720h"`
}

type CheckoutConfig struct {
	SubmitGuardTTL time.Duration `envconfig:"MERCHDROP_CHECKOUT_SUBMIT_GUARD_TTL" default:"30s"`
}

type UpstreamConfig struct {
	BaseURL      string        `envconfig:"MERCHDROP_UPSTREAM_BASE_URL"`
	ServiceToken string        `envconfig:"MERCHDROP_UPSTREAM_SERVICE_TOKEN"`
	Timeout      time.Duration `envconfig:"MERCHDROP_UPSTREAM_TIMEOUT" default:"15s"`

	LegacyHost   string `envconfig:"MERCHDROP_API_HOST"`
	LegacyScheme string `envconfig:"MERCHDROP_API_SCHEME" default:"https"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"MERCHDROP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"MERCHDROP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"MERCHDROP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MERCHDROP_CORS_ALLOWED_ORIGINS"`
}

func (u *UpstreamConfig) ensureBaseURL() error {
	if u.BaseURL != "" {
		return nil
	}
	if u.LegacyHost == "" {
		return fmt.Errorf("either MERCHDROP_UPSTREAM_BASE_URL or MERCHDROP_API_HOST is required")
	}
	scheme := strings.TrimSpace(strings.ToLower(u.LegacyScheme))
	if scheme == "" {
		scheme = "https"
	}
	u.BaseURL = fmt.Sprintf("%s://%s", scheme, u.LegacyHost)
	return nil
}
