package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/reportcheck/internal/config"
	"github.com/JonMunkholm/reportcheck/internal/core"
	"github.com/JonMunkholm/reportcheck/internal/database"
	"github.com/JonMunkholm/reportcheck/internal/logging"
	"github.com/JonMunkholm/reportcheck/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"history_db", cfg.Database.Enabled(),
		"max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx := context.Background()

	var history core.HistoryStore
	if cfg.Database.Enabled() {
		pool, err := database.Open(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg, err := core.NewPgHistory(ctx, pool)
		if err != nil {
			slog.Error("failed to prepare history table", "error", err)
			os.Exit(1)
		}
		history = pg
		slog.Info("validation history stored in database")
	} else {
		slog.Info("no database configured, validation history kept in memory")
	}

	service := core.NewService(core.ServiceConfig{
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		Timeout:       cfg.Upload.Timeout,
		MaxFileSize:   cfg.Upload.MaxFileSize,
		RunRetention:  cfg.Runs.Retention,
		CorrectedName: cfg.Runs.CorrectedName,
	}, history)

	server := web.NewServer(cfg, service)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartHistoryPruner(jobCtx, core.PruneConfig{
		RetentionDays: cfg.History.RetentionDays,
		CheckInterval: cfg.History.CheckInterval,
	})

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		status := service.Limiter().Status()
		if status.Active > 0 {
			slog.Info("waiting for validations to complete", "active", status.Active)
		}
		if err := service.Shutdown(shutdownCtx); err != nil {
			slog.Warn("validations did not complete in time", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
