// Package resilience groups the fault tolerance primitives used for calls to
// the upstream content API.
//
// The subpackages provide:
//   - circuitbreaker: fail fast when the upstream API keeps failing
//   - retry: optional exponential backoff for transient failures
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.UpstreamConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return client.Do(req)
//	})
//
//	err := retry.WithBackoff(ctx, retry.UpstreamConfig(1), func() error {
//	    return performOperation()
//	})
package resilience
