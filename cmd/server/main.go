// Package main is the entry point for the CodePulse stats service.
//
// The service aggregates per-user solved-problem statistics from external
// competitive-programming platforms (Codeforces, LeetCode), normalizes them
// into one canonical shape, and caches the result in PostgreSQL with a
// freshness window so upstream APIs are hit at most once per window.
//
// The architecture follows Clean Architecture and DDD:
//   - Domain: normalization and classification rules, no external dependencies
//   - Application: query handlers orchestrating cache-or-refresh reads
//   - Infrastructure: platform clients, PostgreSQL store, Redis cache
//   - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/codepulse-hub/codepulse-stats/config"
	"github.com/codepulse-hub/codepulse-stats/internal/application/query"
	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
	"github.com/codepulse-hub/codepulse-stats/internal/infrastructure/external/codeforces"
	"github.com/codepulse-hub/codepulse-stats/internal/infrastructure/external/leetcode"
	"github.com/codepulse-hub/codepulse-stats/internal/infrastructure/persistence/postgres"
	"github.com/codepulse-hub/codepulse-stats/internal/infrastructure/persistence/redis"
	httpserver "github.com/codepulse-hub/codepulse-stats/internal/interface/http"
	"github.com/codepulse-hub/codepulse-stats/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	// .env is optional; environment variables win in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting CodePulse stats service",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migrations completed")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var dashboardCache *redis.DashboardCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, dashboard caching disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			dashboardCache = redis.NewDashboardCache(redisCache, cfg.Stats.DashboardTTL)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	statsRepo := postgres.NewStatsRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. EXTERNAL PLATFORM CLIENTS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing platform clients...")

	cfClientConfig := codeforces.DefaultClientConfig()
	cfClientConfig.BaseURL = cfg.Codeforces.BaseURL
	cfClientConfig.Timeout = cfg.Codeforces.RequestTimeout
	cfClientConfig.RequestsPerSecond = cfg.Codeforces.RequestsPerSecond
	cfClientConfig.Retry = []retry.Option{
		retry.WithMaxAttempts(cfg.Codeforces.MaxRetries),
		retry.WithInitialDelay(cfg.Codeforces.RetryBaseDelay),
		retry.WithMaxDelay(cfg.Codeforces.RetryMaxDelay),
	}
	cfClientConfig.Logger = log
	cfClientConfig.Debug = cfg.App.Debug
	cfClient := codeforces.NewClient(cfClientConfig)

	lcClientConfig := leetcode.DefaultClientConfig()
	lcClientConfig.Endpoint = cfg.LeetCode.Endpoint
	lcClientConfig.Referer = cfg.LeetCode.Referer
	lcClientConfig.Timeout = cfg.LeetCode.RequestTimeout
	lcClientConfig.RequestsPerSecond = cfg.LeetCode.RequestsPerSecond
	lcClientConfig.RecentLimit = cfg.Stats.RecentLimit
	lcClientConfig.Retry = []retry.Option{
		retry.WithMaxAttempts(cfg.LeetCode.MaxRetries),
		retry.WithInitialDelay(cfg.LeetCode.RetryBaseDelay),
		retry.WithMaxDelay(cfg.LeetCode.RetryMaxDelay),
	}
	lcClientConfig.Logger = log
	lcClientConfig.Debug = cfg.App.Debug
	lcClient := leetcode.NewClient(lcClientConfig)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing query handlers...")

	handlerCfg := query.GetPlatformStatsHandlerConfig{
		CacheTTL: cfg.Stats.CacheTTL,
		Logger:   log,
	}
	if dashboardCache != nil {
		handlerCfg.Invalidator = dashboardCache
	}

	statsHandlers := map[stats.Platform]*query.GetPlatformStatsHandler{
		stats.PlatformCodeforces: query.NewGetPlatformStatsHandler(statsRepo, cfClient, handlerCfg),
		stats.PlatformLeetCode:   query.NewGetPlatformStatsHandler(statsRepo, lcClient, handlerCfg),
	}

	var summaryCache query.SummaryCache
	if dashboardCache != nil {
		summaryCache = dashboardCache
	}
	dashboardHandler := query.NewGetDashboardHandler(statsRepo, summaryCache, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerSecond = cfg.HTTP.RateLimitPerSecond
	httpConfig.RateLimitBurst = cfg.HTTP.RateLimitBurst

	httpDeps := httpserver.Dependencies{
		StatsHandlers:    statsHandlers,
		DashboardHandler: dashboardHandler,
		Logger:           log,
		HealthChecker:    newHealthChecker(dbConn, redisCache),
	}

	server := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. START AND GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("CodePulse stats service is running", "address", server.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger configures structured logging.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Observability.LogLevel),
	}

	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newHealthChecker reports health of the database and, when configured, Redis.
func newHealthChecker(dbConn *postgres.Connection, redisCache *redis.Cache) httpserver.HealthChecker {
	return httpserver.HealthCheckerFunc(func(ctx context.Context) httpserver.HealthStatus {
		status := httpserver.HealthStatus{
			Healthy:    true,
			Components: make(map[string]string),
		}

		if err := dbConn.Ping(ctx); err != nil {
			status.Healthy = false
			status.Components["postgres"] = err.Error()
		} else {
			status.Components["postgres"] = "ok"
		}

		if redisCache != nil {
			if err := redisCache.Ping(ctx); err != nil {
				// Redis is optional; a down cache degrades but does not fail.
				status.Components["redis"] = err.Error()
			} else {
				status.Components["redis"] = "ok"
			}
		}

		return status
	})
}
