package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ressourcefy/internal/config"
	"ressourcefy/internal/observability/logging"
	"ressourcefy/internal/observability/tracing"
)

const serviceName = "ressourcefy"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg.LogLevel)
	shutdownTracer := tracing.InitProvider(serviceName, cfg.Version)

	components, err := setupServer(cfg, logger)
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}

	runServer(logger, cfg, components, shutdownTracer)
}

// initLogger installs the JSON logger as the process default.
func initLogger(level string) *slog.Logger {
	logger := logging.NewLoggerTo(os.Stdout, level)
	slog.SetDefault(logger)
	return logger
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg *config.Config, components *ServerComponents, shutdownTracer func(context.Context) error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Warm.Enabled {
		go func() {
			if err := components.Content.Warm(ctx); err != nil {
				logger.Warn("initial cache warm failed", slog.Any("error", err))
			}
		}()
	}
	if components.Warmer != nil {
		components.Warmer.Start()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}
	// Open event streams only end once their subscriptions close.
	srv.RegisterOnShutdown(components.Theme.Close)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", cfg.Version),
			slog.Bool("upstream_configured", cfg.Upstream.BaseURL != ""),
			slog.Bool("cache_warm_enabled", cfg.Warm.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		logger.Info("shutting down server...", slog.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server failed", slog.Any("error", err))
		exitCode = 1
	}

	components.Ready.Drain()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if components.Warmer != nil {
		select {
		case <-components.Warmer.Stop().Done():
		case <-shutdownCtx.Done():
			logger.Warn("cache warm still running at shutdown")
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	components.Query.Stop()
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", slog.Any("error", err))
	}

	logger.Info("server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
