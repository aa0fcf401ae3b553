// Package http provides the gateway's HTTP middleware, health endpoints and metrics.
// Resource, onboarding and theme handlers live in subpackages.
package http

import (
	"net/http"
	"sync/atomic"
	"time"

	"ressourcefy/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "degraded"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// UpstreamStatus reports on the content API client.
type UpstreamStatus interface {
	Configured() bool
	BaseURL() string
	BreakerState() string
}

// CacheStatus reports on the query cache.
type CacheStatus interface {
	Len() int
}

// ThemeStatus reports on the theme preference store.
type ThemeStatus interface {
	Subscribers() int
	UpdatedAt() time.Time
}

// HealthHandler reports gateway health. Upstream trouble only degrades the
// gateway because every resource is served from fallback data when the
// content API is unreachable.
type HealthHandler struct {
	Upstream UpstreamStatus
	Cache    CacheStatus
	Theme    ThemeStatus
	Version  string
	Now      func() time.Time
}

// ServeHTTP writes the health report. The status code is always 200.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)
	status := "healthy"

	if h.Upstream != nil {
		check := h.checkUpstream()
		checks["upstream"] = check
		if check.Status != "healthy" {
			status = "degraded"
		}
	}

	if h.Cache != nil {
		checks["query_cache"] = CheckStatus{
			Status:  "healthy",
			Details: map[string]any{"entries": h.Cache.Len()},
		}
	}

	if h.Theme != nil {
		details := map[string]any{"subscribers": h.Theme.Subscribers()}
		if at := h.Theme.UpdatedAt(); !at.IsZero() {
			details["updated_at"] = at.UTC().Format(time.RFC3339)
		}
		checks["theme"] = CheckStatus{Status: "healthy", Details: details}
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkUpstream() CheckStatus {
	if !h.Upstream.Configured() {
		return CheckStatus{
			Status:  "degraded",
			Message: "base URL not configured, serving fallback data",
		}
	}

	state := h.Upstream.BreakerState()
	details := map[string]any{
		"base_url":        h.Upstream.BaseURL(),
		"circuit_breaker": state,
	}
	if state == "open" {
		return CheckStatus{
			Status:  "degraded",
			Message: "circuit breaker open, serving fallback data",
			Details: details,
		}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// ReadyHandler reports readiness. It answers 503 once draining starts.
type ReadyHandler struct {
	draining atomic.Bool
}

// Drain marks the gateway as shutting down.
func (h *ReadyHandler) Drain() {
	h.draining.Store(true)
}

// ServeHTTP returns 200 "ready" until Drain is called.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if h.draining.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("draining"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler reports liveness.
type LiveHandler struct{}

// ServeHTTP always returns 200 "alive".
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
