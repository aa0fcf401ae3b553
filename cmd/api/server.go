package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"ressourcefy/internal/config"
	hhttp "ressourcefy/internal/handler/http"
	"ressourcefy/internal/handler/http/middleware"
	honboarding "ressourcefy/internal/handler/http/onboarding"
	"ressourcefy/internal/handler/http/requestid"
	hresource "ressourcefy/internal/handler/http/resource"
	htheme "ressourcefy/internal/handler/http/theme"
	"ressourcefy/internal/infra/prefstore"
	"ressourcefy/internal/infra/upstream"
	"ressourcefy/internal/observability/tracing"
	"ressourcefy/internal/query"
	"ressourcefy/internal/usecase/content"
	"ressourcefy/internal/usecase/theme"
)

// maxBodyBytes caps request bodies. Onboarding forms and theme updates are tiny.
const maxBodyBytes = 64 << 10

// ServerComponents holds the wired gateway and what shutdown needs to stop.
type ServerComponents struct {
	Handler  http.Handler
	Upstream *upstream.Client
	Query    *query.Client
	Content  *content.Service
	Theme    *theme.Store
	Ready    *hhttp.ReadyHandler
	Warmer   *cron.Cron
}

// setupServer builds every component from cfg and returns the root handler.
func setupServer(cfg *config.Config, logger *slog.Logger) (*ServerComponents, error) {
	client := upstream.New(upstream.ConfigFrom(cfg.Upstream), logger)

	qc := query.New(
		query.WithGCTime(cfg.Query.GCTime),
		query.WithLogger(logger),
		query.WithRefetchTimeout(2*cfg.Upstream.Timeout),
	)

	svc := content.NewService(client, qc, content.StaleTimes{
		Hello:     cfg.Query.StaleHello,
		Users:     cfg.Query.StaleUsers,
		Articles:  cfg.Query.StaleArticles,
		Documents: cfg.Query.StaleDocuments,
	})

	var persister theme.Persister
	if cfg.Theme.StateFile != "" {
		persister = prefstore.NewFileStore(cfg.Theme.StateFile)
	}
	store, err := theme.NewStore(theme.Mode(cfg.Theme.Default), persister, logger)
	if err != nil {
		qc.Stop()
		return nil, fmt.Errorf("theme store: %w", err)
	}

	var warmer *cron.Cron
	if cfg.Warm.Enabled {
		warmer, err = newWarmer(cfg.Warm.Schedule, svc, 2*cfg.Upstream.Timeout, logger)
		if err != nil {
			qc.Stop()
			return nil, fmt.Errorf("cache warmer: %w", err)
		}
	}

	components := &ServerComponents{
		Upstream: client,
		Query:    qc,
		Content:  svc,
		Theme:    store,
		Ready:    &hhttp.ReadyHandler{},
		Warmer:   warmer,
	}

	rootMux := setupRoutes(cfg, components)
	components.Handler = applyMiddleware(cfg, logger, rootMux)
	return components, nil
}

// setupRoutes registers every route. API routes run under the request
// timeout; the theme event stream and health checks do not.
func setupRoutes(cfg *config.Config, c *ServerComponents) *http.ServeMux {
	apiMux := http.NewServeMux()
	hresource.Register(apiMux, c.Content)
	honboarding.Register(apiMux)
	htheme.Register(apiMux, c.Theme)

	rootMux := http.NewServeMux()
	rootMux.Handle("/api/", hhttp.Timeout(cfg.RequestTimeout)(apiMux))
	htheme.RegisterStream(rootMux, c.Theme)

	rootMux.Handle("GET /health", &hhttp.HealthHandler{
		Upstream: c.Upstream,
		Cache:    c.Query,
		Theme:    c.Theme,
		Version:  cfg.Version,
	})
	rootMux.Handle("GET /ready", c.Ready)
	rootMux.Handle("GET /live", &hhttp.LiveHandler{})
	rootMux.Handle("GET /metrics", hhttp.MetricsHandler())

	return rootMux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order, outermost first: CORS, request ID, tracing, recovery, logging, body limit, metrics.
func applyMiddleware(cfg *config.Config, logger *slog.Logger, handler http.Handler) http.Handler {
	mws := make([]func(http.Handler) http.Handler, 0, 7)

	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := middleware.DefaultCORSConfig(cfg.CORSAllowedOrigins, logger)
		logger.Info("CORS enabled",
			slog.Any("allowed_origins", corsConfig.Validator.GetAllowedOrigins()),
			slog.Any("allowed_methods", corsConfig.AllowedMethods),
			slog.Int("max_age", corsConfig.MaxAge))
		mws = append(mws, middleware.CORS(corsConfig))
	} else {
		logger.Info("CORS disabled: no allowed origins configured")
	}

	mws = append(mws,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(maxBodyBytes),
		hhttp.MetricsMiddleware,
	)
	return hhttp.Chain(handler, mws...)
}

// newWarmer schedules Service.Warm. Overlapping runs are skipped.
func newWarmer(schedule string, svc *content.Service, timeout time.Duration, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		if err := svc.Warm(ctx); err != nil {
			logger.Warn("cache warm failed", slog.Any("error", err))
			return
		}
		logger.Debug("cache warmed",
			slog.Duration("duration", time.Since(start)),
			slog.Int("entries", svc.Query.Len()))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return c, nil
}
