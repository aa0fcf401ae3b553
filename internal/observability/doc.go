// Package observability provides structured logging, Prometheus metrics and
// OpenTelemetry tracing for the gateway.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracer and HTTP middleware
//
// Example usage:
//
//	import (
//	    "ressourcefy/internal/observability/logging"
//	    "ressourcefy/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("gateway started")
//
//	    metrics.RecordCacheWarm(true)
//	}
package observability
