package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/margindesk/margindesk-backend/api/routes"
	"github.com/margindesk/margindesk-backend/internal/ads"
	"github.com/margindesk/margindesk-backend/internal/auth"
	"github.com/margindesk/margindesk-backend/internal/catalog"
	"github.com/margindesk/margindesk-backend/internal/costing"
	"github.com/margindesk/margindesk-backend/internal/decision"
	"github.com/margindesk/margindesk-backend/internal/listings"
	"github.com/margindesk/margindesk-backend/internal/marketplaces"
	"github.com/margindesk/margindesk-backend/internal/pricing"
	"github.com/margindesk/margindesk-backend/internal/users"
	"github.com/margindesk/margindesk-backend/pkg/auth/session"
	"github.com/margindesk/margindesk-backend/pkg/config"
	"github.com/margindesk/margindesk-backend/pkg/db"
	"github.com/margindesk/margindesk-backend/pkg/logger"
	"github.com/margindesk/margindesk-backend/pkg/metrics"
	"github.com/margindesk/margindesk-backend/pkg/migrate"
	"github.com/margindesk/margindesk-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

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

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	marketplacesService, err := marketplaces.NewService(marketplaces.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create marketplaces service", err)
		os.Exit(1)
	}

	listingsService, err := listings.NewService(listings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create listings service", err)
		os.Exit(1)
	}

	adsService, err := ads.NewService(ads.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create ads service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	engineMetrics := metrics.NewEngineMetrics(registry)

	costingPolicy, err := costing.ParsePolicy(cfg.Costing.MissingMaterialPolicy)
	if err != nil {
		logg.Error(context.Background(), "invalid missing material policy", err)
		os.Exit(1)
	}
	costingService, err := costing.NewService(costing.NewRepository(dbClient.DB()), costingPolicy)
	if err != nil {
		logg.Error(context.Background(), "failed to create costing service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(pricing.NewRepository(dbClient.DB()), costingService, engineMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	decisionService, err := decision.NewService(decision.NewRepository(dbClient.DB()), pricingService, decision.DefaultThresholds())
	if err != nil {
		logg.Error(context.Background(), "failed to create decision service", err)
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
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			sessionManager,
			httpMetrics,
			registry,
			authService,
			catalogService,
			marketplacesService,
			listingsService,
			adsService,
			costingService,
			pricingService,
			decisionService,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}
}
