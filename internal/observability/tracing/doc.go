// Package tracing provides OpenTelemetry tracing integration.
//
// It installs an SDK tracer provider with W3C trace context propagation,
// wraps HTTP handlers in server spans and exposes a helper for child spans
// around upstream fetches.
//
// Example usage:
//
//	import "ressourcefy/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.InitProvider("ressourcefy-gateway", version)
//	    defer func() { _ = shutdown(context.Background()) }()
//	}
//
//	func fetch(ctx context.Context) {
//	    ctx, span := tracing.StartSpan(ctx, "upstream.fetch")
//	    defer span.End()
//	}
package tracing
