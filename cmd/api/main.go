// Command api is the Volleydle API server.
//
// Usage:
//
//	volleydle-api
//	API_PORT=8080 volleydle-api
//
// With DATABASE_URL set, the roster and guess evaluation are served
// locally from Postgres. With GAME_API_URL set, both are proxied to a
// remote game API and sessions persist on the local file store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"

	"github.com/volleydle/volleydle-data/internal/api"
	"github.com/volleydle/volleydle-data/internal/api/handler"
	"github.com/volleydle/volleydle-data/internal/cache"
	"github.com/volleydle/volleydle-data/internal/client"
	"github.com/volleydle/volleydle-data/internal/config"
	"github.com/volleydle/volleydle-data/internal/db"
	"github.com/volleydle/volleydle-data/internal/game"
	"github.com/volleydle/volleydle-data/internal/session"
	"github.com/volleydle/volleydle-data/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database when configured
	var pool *db.Pool
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to database...")
		pool, err = db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
	}

	// Session documents live in Postgres when available, otherwise on disk.
	var sessionStore store.Store
	if pool != nil {
		sessionStore, err = store.NewPG(ctx, pool.Pool)
		if err != nil {
			logger.Error("Failed to prepare session store", "error", err)
			os.Exit(1)
		}
		logger.Info("Session store ready", "backend", "postgres")
	} else {
		sessionStore, err = store.NewFile(cfg.SessionDataDir)
		if err != nil {
			logger.Error("Failed to prepare session store", "error", err)
			os.Exit(1)
		}
		logger.Info("Session store ready", "backend", "file", "dir", cfg.SessionDataDir)
	}

	// Roster and evaluation backend: remote game API or local Postgres.
	var backend handler.GameBackend
	if cfg.GameAPIURL != "" {
		backend = client.New(cfg.GameAPIURL, cfg.GameAPIRateLimit, logger)
		logger.Info("Game backend ready", "backend", "remote", "url", cfg.GameAPIURL)
	} else {
		backend = game.NewService(pool.Pool, logger)
		logger.Info("Game backend ready", "backend", "postgres")
	}

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Session registry plus its day-rollover tick and idle sweep
	registry := session.NewRegistry(sessionStore, backend, backend, logger)

	sched, err := gocron.NewScheduler()
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		os.Exit(1)
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.SessionTickEvery),
		gocron.NewTask(func() { registry.TickAll(ctx) }),
	); err != nil {
		logger.Error("Failed to schedule rollover tick", "error", err)
		os.Exit(1)
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.SessionIdleSweep),
		gocron.NewTask(func() { registry.Sweep(cfg.SessionMaxIdle) }),
	); err != nil {
		logger.Error("Failed to schedule idle sweep", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer func() { _ = sched.Shutdown() }()

	// Create router
	router := api.NewRouter(registry, backend, appCache, cfg, pool)

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
		logger.Info("Starting Volleydle API",
			"addr", addr,
			"environment", cfg.Environment,
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

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
