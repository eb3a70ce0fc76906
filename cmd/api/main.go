// Command api is the Scoracle Live API server.
//
// Usage:
//
//	scoracle-live
//	API_PORT=8080 FEED_TRANSPORT=redis REDIS_URL=redis://localhost:6379 scoracle-live

// @title Scoracle Live API
// @version 1.0.0
// @description Match tracking and live commentary feed. New commentary is broadcast over WebSocket at /ws.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @contact.name Scoracle
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/albapepper/scoracle-live/internal/api"
	"github.com/albapepper/scoracle-live/internal/api/handler"
	"github.com/albapepper/scoracle-live/internal/cache"
	"github.com/albapepper/scoracle-live/internal/commentary"
	"github.com/albapepper/scoracle-live/internal/config"
	"github.com/albapepper/scoracle-live/internal/db"
	"github.com/albapepper/scoracle-live/internal/feed"
	"github.com/albapepper/scoracle-live/internal/hub"
	"github.com/albapepper/scoracle-live/internal/maintenance"
	"github.com/albapepper/scoracle-live/internal/match"
	"github.com/albapepper/scoracle-live/internal/metrics"

	_ "github.com/albapepper/scoracle-live/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Apply schema before the pool prepares statements against it
	if cfg.DBAutoMigrate {
		logger.Info("Applying schema...")
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Error("Failed to apply schema", "error", err)
			os.Exit(1)
		}
	}

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	defer appCache.Close()
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Live feed transport, built once for the process lifetime
	transport, err := feed.New(ctx, cfg, pool, logger)
	if err != nil {
		logger.Error("Failed to initialize feed transport", "transport", cfg.FeedTransport, "error", err)
		os.Exit(1)
	}
	defer transport.Close()
	broadcaster := feed.NewBroadcaster(transport, cfg.FeedPublishTimeout, logger, m)
	logger.Info("Feed transport ready", "transport", transport.Name())

	// Stores and services
	matches := match.NewStore(pool)
	entries := commentary.NewService(commentary.NewStore(pool), broadcaster, logger, m)

	// WebSocket hub
	liveHub := hub.New(logger, m)

	h := handler.New(handler.Deps{
		Matches:    matches,
		Commentary: entries,
		Notifier:   broadcaster,
		Cache:      appCache,
		DB:         pool,
		Clients:    liveHub,
		Transport:  transport.Name(),
		Logger:     logger,
	})

	// Relay transport events to local subscribers and cache invalidation
	go feed.Relay(ctx, transport, feed.Tee(liveHub, h.Invalidator()), logger)

	// Start maintenance tickers (status sweep)
	sweeper := maintenance.NewSweeper(matches, broadcaster, m, logger)
	go maintenance.Start(ctx, sweeper, maintenance.Config{StatusSweepInterval: cfg.StatusSweepInterval}, logger)

	// Create router
	router := api.NewRouter(h, cfg, api.Options{
		Ctx:      ctx,
		Feed:     liveHub,
		Gatherer: reg,
		Logger:   logger,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Scoracle Live API",
			"addr", addr,
			"environment", cfg.Environment,
			"transport", transport.Name(),
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	liveHub.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
