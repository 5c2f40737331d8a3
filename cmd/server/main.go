package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rbenali/kahina/internal"
	"github.com/rbenali/kahina/internal/cache"
	"github.com/rbenali/kahina/internal/checkout"
	"github.com/rbenali/kahina/internal/domain"
	"github.com/rbenali/kahina/internal/handler"
	"github.com/rbenali/kahina/internal/location"
	"github.com/rbenali/kahina/internal/middleware"
	"github.com/rbenali/kahina/internal/orders"
	"github.com/rbenali/kahina/internal/router"
	"github.com/rbenali/kahina/internal/routes"
	"github.com/rbenali/kahina/internal/telemetry"
	"github.com/rbenali/kahina/internal/yalidine"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Directory cache: Redis when configured, in-memory otherwise
	var directoryCache cache.Cache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		defer rdb.Close()
		directoryCache = cache.NewRedisCache(rdb)
		logger.Info("Directory cache: redis", "addr", cfg.Redis.Addr)
	} else {
		directoryCache = cache.NewMemoryCache()
		logger.Info("Directory cache: in-memory")
	}

	// Yalidine client: directory + fee calculator
	logger.Info("Initializing Yalidine client...")
	yalidineClient, err := yalidine.NewClient(yalidine.Config{
		BaseURL:  cfg.Yalidine.BaseURL,
		APIID:    cfg.Yalidine.APIID,
		APIToken: cfg.Yalidine.APIToken,
		Timeout:  cfg.Yalidine.Timeout,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Yalidine client: %w", err)
	}

	// Cached location directory
	directory := location.NewService(yalidineClient, directoryCache, cfg.Redis.TTL, logger)

	// Order submission client
	submitter, err := orders.NewHTTPSubmitter(orders.Config{
		SubmitURL: cfg.Orders.SubmitURL,
		APIKey:    cfg.Orders.APIKey,
		Timeout:   cfg.Orders.Timeout,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize order submitter: %w", err)
	}

	// Checkout sessions with idle eviction
	sessions := checkout.NewSessionStore(cfg.Session.TTL, logger)
	sessions.StartJanitor(ctx, 5*time.Minute)

	// Per-session form configuration
	formCfg := checkout.Config{
		Fields:         domain.DefaultFieldConfigs(),
		OriginWilayaID: cfg.Yalidine.OriginWilayaID,
		Parcel: checkout.ParcelDefaults{
			WeightGrams: cfg.Parcel.WeightGrams,
			LengthCm:    cfg.Parcel.LengthCm,
			WidthCm:     cfg.Parcel.WidthCm,
			HeightCm:    cfg.Parcel.HeightCm,
		},
	}

	// Request validation
	validate, err := handler.NewValidator()
	if err != nil {
		return fmt.Errorf("failed to initialize validator: %w", err)
	}

	// Metrics
	metrics := middleware.NewMetrics("kahina")
	businessMetrics := telemetry.InitBusinessMetrics("kahina")

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.Logger(logger),
		middleware.WithRequestLogger(logger),
	)

	routes.Register(r, routes.Deps{
		Checkout: handler.NewCheckoutHandler(sessions, formCfg, directory, yalidineClient, submitter, validate, businessMetrics),
		Shipping: handler.NewShippingHandler(directory),
		Metrics:  metrics.Handler(),
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting checkout server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
