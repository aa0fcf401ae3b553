package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream metrics track calls to the content API
var (
	// UpstreamFetchTotal counts fetches by resource and data origin
	UpstreamFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_fetch_total",
			Help: "Total number of upstream fetches by resource and data origin",
		},
		[]string{"resource", "origin"}, // origin: remote, partial, fallback
	)

	// UpstreamFetchDuration measures upstream fetch duration in seconds
	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_fetch_duration_seconds",
			Help:    "Upstream fetch duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"resource"},
	)

	// UpstreamFallbackReasons counts why fallback data was served
	UpstreamFallbackReasons = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_fallback_total",
			Help: "Total number of fallbacks served by resource and reason",
		},
		[]string{"resource", "reason"},
	)

	// CircuitBreakerState exposes the gobreaker state (0 closed, 1 half-open, 2 open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state: 0=closed, 1=half-open, 2=open",
		},
		[]string{"name"},
	)
)

// Query cache metrics
var (
	// QueryCacheRequestsTotal counts query lookups by key and cache status
	QueryCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_requests_total",
			Help: "Total number of query cache lookups",
		},
		[]string{"key", "status"}, // status: hit, miss, stale
	)

	// QueryRefetchTotal counts background refetches by key and result
	QueryRefetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_refetch_total",
			Help: "Total number of background query refetches",
		},
		[]string{"key", "result"}, // result: success, failure
	)

	// QueryCacheEntries tracks the number of cached query entries
	QueryCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "query_cache_entries",
			Help: "Number of entries held by the query cache",
		},
	)

	// CacheWarmRunsTotal counts scheduled cache warm runs
	CacheWarmRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_warm_runs_total",
			Help: "Total number of scheduled cache warm runs",
		},
		[]string{"result"},
	)
)

// Preference and onboarding metrics
var (
	// ThemeChangesTotal counts theme preference changes by resulting mode
	ThemeChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theme_changes_total",
			Help: "Total number of theme preference changes",
		},
		[]string{"mode"},
	)

	// ThemeSubscribers tracks active theme change subscribers
	ThemeSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "theme_subscribers",
			Help: "Number of active theme change subscribers",
		},
	)

	// OnboardingValidationsTotal counts onboarding form validations
	OnboardingValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_validations_total",
			Help: "Total number of onboarding form validations",
		},
		[]string{"form", "result"}, // result: valid, invalid
	)
)
