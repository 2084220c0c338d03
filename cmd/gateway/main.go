package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/merchdrop/storefront-gateway/api/routes"
	"github.com/merchdrop/storefront-gateway/internal/auth"
	checkoutsvc "github.com/merchdrop/storefront-gateway/internal/checkout"
	"github.com/merchdrop/storefront-gateway/internal/drops"
	"github.com/merchdrop/storefront-gateway/pkg/auth/session"
	"github.com/merchdrop/storefront-gateway/pkg/config"
	"github.com/merchdrop/storefront-gateway/pkg/logger"
	"github.com/merchdrop/storefront-gateway/pkg/metrics"
	"github.com/merchdrop/storefront-gateway/pkg/redis"
	"github.com/merchdrop/storefront-gateway/pkg/upstream"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	upstreamClient, err := upstream.NewClient(cfg.Upstream, logg, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Identity:       upstreamClient,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	dropsService, err := drops.NewService(upstreamClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create drops service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(
		upstreamClient,
		upstreamClient,
		redisClient,
		cfg.Checkout.SubmitGuardTTL,
		checkoutMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront gateway")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			sessionManager,
			authService,
			dropsService,
			checkoutService,
			upstreamClient,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway stopped unexpectedly", err)
		os.Exit(1)
	}
}
