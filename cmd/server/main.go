package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/textflow/internal/cache"
	"github.com/JonMunkholm/textflow/internal/config"
	"github.com/JonMunkholm/textflow/internal/core"
	"github.com/JonMunkholm/textflow/internal/llm"
	"github.com/JonMunkholm/textflow/internal/logging"
	"github.com/JonMunkholm/textflow/internal/metrics"
	"github.com/JonMunkholm/textflow/internal/store"
	"github.com/JonMunkholm/textflow/internal/text"
	"github.com/JonMunkholm/textflow/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	closeLog, err := logging.Setup(cfg.Logging)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.Database.Enabled(),
		"llm", cfg.LLM.Enabled(),
		"analyze_max_concurrent", cfg.Analyze.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	// Capabilities
	opts := text.Options{}
	if cfg.LLM.Enabled() {
		opts.Summarizer = llm.NewClient(cfg.LLM).Summarize
		slog.Info("llm summarizer enabled", "model", cfg.LLM.Model)
	}
	registry := text.NewRegistry(opts)
	slog.Info("operations registered", "count", registry.Len())

	m := metrics.New()
	dispatchOpts := []core.DispatcherOption{core.WithObserver(m)}
	if cfg.Dispatch.CacheSize > 0 {
		resultCache, err := cache.NewResultCache(cfg.Dispatch.CacheSize)
		if err != nil {
			slog.Error("failed to create result cache", "error", err)
			os.Exit(1)
		}
		dispatchOpts = append(dispatchOpts, core.WithCache(resultCache))
	}
	dispatcher := core.NewDispatcher(registry, core.DispatcherConfig{
		OperationTimeout: cfg.Dispatch.OperationTimeout,
		MaxParallel:      cfg.Dispatch.MaxParallel,
	}, dispatchOpts...)

	limiter := core.NewAnalyzeLimiter(cfg.Analyze.MaxConcurrent, cfg.Analyze.MaxWaitTime)

	// Persistence is optional; without a database the service runs
	// stateless and account routes answer 503.
	var serviceOpts []core.ServiceOption
	if cfg.Database.Enabled() {
		if err := store.Migrate(ctx, cfg.Database.URL); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		pool, err := store.Open(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		serviceOpts = append(serviceOpts,
			core.WithHistory(store.NewHistoryRepository(pool)),
			core.WithUsers(store.NewUserRepository(pool)),
		)
	} else {
		slog.Warn("DATABASE_URL not set, history and accounts are disabled")
	}

	service := core.NewService(dispatcher, limiter, serviceOpts...)
	server := web.NewServer(service, cfg, m)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	go service.StartRetentionScheduler(jobCtx, core.RetentionConfig{
		RetentionDays: cfg.History.RetentionDays,
		BatchSize:     cfg.History.BatchSize,
		CheckInterval: cfg.History.CheckInterval,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active analyses to complete (with timeout)
		if status := limiter.Status(); status.Active > 0 {
			slog.Info("waiting for analyses to complete", "active", status.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("analyses did not complete in time", "error", err)
			} else {
				slog.Info("all analyses completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		return
	}
	slog.Info("server stopped")
}
