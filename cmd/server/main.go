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
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/csv3d/internal/config"
	"github.com/JonMunkholm/csv3d/internal/core"
	"github.com/JonMunkholm/csv3d/internal/logging"
	"github.com/JonMunkholm/csv3d/internal/web"
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
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"session_ttl", cfg.Session.TTL.String(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	service := core.NewService(serviceConfig(cfg))
	server := web.NewServer(service, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// Expire idle sessions in the background
	g.Go(func() error {
		service.StartSessionSweeper(gctx, cfg.Session.SweepInterval)
		return nil
	})

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active parses to complete (with timeout)
		if status := service.Status(); status.Parses.Active > 0 {
			slog.Info("waiting for parses to complete", "active", status.Parses.Active)
			if err := service.WaitForParses(shutdownCtx); err != nil {
				slog.Warn("parses did not complete in time", "error", err)
			} else {
				slog.Info("all parses completed")
			}
		}

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// serviceConfig maps application configuration onto the core service.
func serviceConfig(cfg *config.Config) core.ServiceConfig {
	viewer := core.DefaultViewerSettings()
	viewer.NormalizeRange = cfg.Viewer.NormalizeRange
	if scheme, err := core.ParseColorScheme(cfg.Viewer.ColorScheme); err == nil {
		viewer.ColorScheme = scheme
	}

	return core.ServiceConfig{
		MaxFileSize:         cfg.Upload.MaxFileSize,
		MaxConcurrentParses: cfg.Upload.MaxConcurrent,
		MaxWaitTime:         cfg.Upload.MaxWaitTime,
		ParseTimeout:        cfg.Upload.Timeout,
		SessionTTL:          cfg.Session.TTL,
		MaxSessions:         cfg.Session.MaxSessions,
		Viewer:              viewer,
	}
}
