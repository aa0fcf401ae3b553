// Package config assembles the gateway configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	pkgconfig "ressourcefy/pkg/config"
)

// Config holds the configuration for the ressourcefy gateway.
type Config struct {
	// HTTPAddr is the listen address. Default: ":8080"
	HTTPAddr string

	// Version is reported by /health and the CLI.
	Version string

	// LogLevel is one of debug, info, warn, error. Default: "info"
	LogLevel string

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration

	// RequestTimeout bounds non-streaming API handlers. Default: 15s
	RequestTimeout time.Duration

	Upstream UpstreamConfig
	Query    QueryConfig
	Warm     WarmConfig
	Theme    ThemeConfig

	// CORSAllowedOrigins is the browser origin whitelist. Empty disables CORS headers.
	CORSAllowedOrigins []string
}

// UpstreamConfig holds settings for the content API client.
type UpstreamConfig struct {
	// BaseURL of the content API. Empty means every fetch serves fallback data.
	BaseURL string
	// Timeout per upstream request. Default: 5s
	Timeout time.Duration
	// RateLimit in requests per second. 0 disables limiting. Default: 10
	RateLimit float64
	// Burst for the rate limiter. Default: 5
	Burst int
	// RetryAttempts including the first call. Default: 1
	RetryAttempts int
}

// QueryConfig holds staleness settings for the query cache.
type QueryConfig struct {
	// GCTime is how long an unused entry is kept. Default: 30m
	GCTime         time.Duration
	StaleHello     time.Duration
	StaleUsers     time.Duration
	StaleArticles  time.Duration
	StaleDocuments time.Duration
}

// WarmConfig controls the scheduled cache warmer.
type WarmConfig struct {
	Enabled  bool
	Schedule string
}

// ThemeConfig controls the theme preference store.
type ThemeConfig struct {
	// StateFile persists the preference. Empty keeps it in memory only.
	StateFile string
	// Default mode when nothing has been stored. Default: "light"
	Default string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:        pkgconfig.GetEnvString("HTTP_ADDR", ":8080"),
		Version:         pkgconfig.GetEnvString("VERSION", "dev"),
		LogLevel:        pkgconfig.GetEnvString("LOG_LEVEL", "info"),
		ShutdownTimeout: pkgconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RequestTimeout:  pkgconfig.GetEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		Upstream: UpstreamConfig{
			BaseURL:       strings.TrimRight(pkgconfig.GetEnvString("API_BASE_URL", ""), "/"),
			Timeout:       pkgconfig.GetEnvDuration("UPSTREAM_TIMEOUT", 5*time.Second),
			RateLimit:     pkgconfig.GetEnvFloat("UPSTREAM_RATE_LIMIT", 10),
			Burst:         pkgconfig.GetEnvInt("UPSTREAM_BURST", 5),
			RetryAttempts: pkgconfig.GetEnvInt("UPSTREAM_RETRY_ATTEMPTS", 1),
		},
		Query: QueryConfig{
			GCTime:         pkgconfig.GetEnvDuration("QUERY_GC_TIME", 30*time.Minute),
			StaleHello:     pkgconfig.GetEnvDuration("QUERY_STALE_HELLO", 10*time.Minute),
			StaleUsers:     pkgconfig.GetEnvDuration("QUERY_STALE_USERS", 5*time.Minute),
			StaleArticles:  pkgconfig.GetEnvDuration("QUERY_STALE_ARTICLES", 5*time.Minute),
			StaleDocuments: pkgconfig.GetEnvDuration("QUERY_STALE_DOCUMENTS", 10*time.Minute),
		},
		Warm: WarmConfig{
			Enabled:  pkgconfig.GetEnvBool("CACHE_WARM_ENABLED", false),
			Schedule: pkgconfig.GetEnvString("CACHE_WARM_SCHEDULE", "*/5 * * * *"),
		},
		Theme: ThemeConfig{
			StateFile: pkgconfig.GetEnvString("THEME_STATE_FILE", ""),
			Default:   strings.ToLower(pkgconfig.GetEnvString("THEME_DEFAULT", "light")),
		},
		CORSAllowedOrigins: pkgconfig.GetEnvStringList("CORS_ALLOWED_ORIGINS", nil),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP_ADDR cannot be empty"))
	}
	errs = append(errs,
		pkgconfig.ValidatePositiveDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout),
		pkgconfig.ValidatePositiveDuration("REQUEST_TIMEOUT", c.RequestTimeout),
		pkgconfig.ValidateHTTPURL("API_BASE_URL", c.Upstream.BaseURL),
		pkgconfig.ValidateDurationRange("UPSTREAM_TIMEOUT", c.Upstream.Timeout, 100*time.Millisecond, time.Minute),
		pkgconfig.ValidateIntRange("UPSTREAM_BURST", c.Upstream.Burst, 1, 1000),
		pkgconfig.ValidateIntRange("UPSTREAM_RETRY_ATTEMPTS", c.Upstream.RetryAttempts, 1, 5),
	)
	if c.Upstream.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("UPSTREAM_RATE_LIMIT must be non-negative, got %v", c.Upstream.RateLimit))
	}

	stale := map[string]time.Duration{
		"QUERY_STALE_HELLO":     c.Query.StaleHello,
		"QUERY_STALE_USERS":     c.Query.StaleUsers,
		"QUERY_STALE_ARTICLES":  c.Query.StaleArticles,
		"QUERY_STALE_DOCUMENTS": c.Query.StaleDocuments,
	}
	errs = append(errs, pkgconfig.ValidatePositiveDuration("QUERY_GC_TIME", c.Query.GCTime))
	for key, d := range stale {
		errs = append(errs, pkgconfig.ValidateDurationRange(key, d, 0, c.Query.GCTime))
	}

	if c.Warm.Enabled {
		errs = append(errs, pkgconfig.ValidateCronSchedule("CACHE_WARM_SCHEDULE", c.Warm.Schedule))
	}

	if c.Theme.Default != "light" && c.Theme.Default != "dark" {
		errs = append(errs, fmt.Errorf("THEME_DEFAULT must be light or dark, got %q", c.Theme.Default))
	}

	for _, origin := range c.CORSAllowedOrigins {
		if err := pkgconfig.ValidateHTTPURL("CORS_ALLOWED_ORIGINS", origin); err != nil {
			errs = append(errs, err)
		} else if strings.HasSuffix(origin, "/") {
			errs = append(errs, fmt.Errorf("CORS_ALLOWED_ORIGINS entry must not have trailing slash: %s", origin))
		}
	}

	return errors.Join(errs...)
}
