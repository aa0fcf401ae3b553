// Package metrics provides the Prometheus metrics registry and recording utilities.
//
// This package centralizes the gateway's domain metrics:
//   - Upstream fetch outcomes (remote, partial, fallback) and latency
//   - Query cache lookups (hit, miss, stale) and background refetches
//   - Circuit breaker state
//   - Theme preference changes and subscribers
//   - Onboarding validation results and cache warm runs
//
// HTTP request metrics live with the HTTP middleware in internal/handler/http.
// All metrics are registered with the Prometheus default registry and exposed
// via the /metrics endpoint.
//
// Example usage:
//
//	import "ressourcefy/internal/observability/metrics"
//
//	start := time.Now()
//	result := client.FetchUsers(ctx)
//	metrics.RecordUpstreamFetch("users", string(result.Origin), time.Since(start))
package metrics
