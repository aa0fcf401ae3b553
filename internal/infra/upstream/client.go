// Package upstream fetches hello, users, articles and documents from the
// content API. Every fetch degrades to in-process fallback data instead of
// failing: callers always receive a value together with its origin.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"ressourcefy/internal/config"
	"ressourcefy/internal/domain/entity"
	"ressourcefy/internal/observability/metrics"
	"ressourcefy/internal/observability/tracing"
	"ressourcefy/internal/resilience/circuitbreaker"
	"ressourcefy/internal/resilience/retry"
)

// maxBodySize caps the response body read from the content API (1 MiB).
const maxBodySize = 1 << 20

// Origin tells where a fetched value came from.
type Origin string

const (
	// OriginRemote means the value was decoded from the upstream payload.
	OriginRemote Origin = "remote"
	// OriginPartial means the upstream payload was used but some fields or
	// records were missing and were completed from placeholders.
	OriginPartial Origin = "partial"
	// OriginFallback means the in-process fallback data was served.
	OriginFallback Origin = "fallback"
)

// Fetched carries a value and its provenance.
type Fetched[T any] struct {
	Value     T
	Origin    Origin
	FetchedAt time.Time
}

// Config holds the content API client settings.
type Config struct {
	// BaseURL of the content API without a trailing slash. Empty disables network access.
	BaseURL string
	// Timeout per HTTP request.
	Timeout time.Duration
	// RateLimit in requests per second. 0 disables limiting.
	RateLimit float64
	// Burst for the rate limiter.
	Burst int
	// Retry policy for transient failures.
	Retry retry.Config
	// CircuitBreaker settings.
	CircuitBreaker circuitbreaker.Config
}

// DefaultConfig returns the client settings used when nothing is configured.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		Timeout:        5 * time.Second,
		RateLimit:      10,
		Burst:          5,
		Retry:          retry.UpstreamConfig(1),
		CircuitBreaker: circuitbreaker.UpstreamConfig(),
	}
}

// ConfigFrom builds client settings from the loaded environment configuration.
func ConfigFrom(c config.UpstreamConfig) Config {
	uc := DefaultConfig(c.BaseURL)
	uc.Timeout = c.Timeout
	uc.RateLimit = c.RateLimit
	uc.Burst = c.Burst
	uc.Retry = retry.UpstreamConfig(c.RetryAttempts)
	return uc
}

// Client talks to the content API.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
	limiter *rate.Limiter
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Client. A nil logger uses slog.Default().
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	cbCfg := cfg.CircuitBreaker
	if cbCfg.IsSuccessful == nil {
		cbCfg.IsSuccessful = breakerSuccess
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: circuitbreaker.New(cbCfg),
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
		now:     time.Now,
	}
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c.cfg.BaseURL != ""
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// BreakerState returns the circuit breaker state name (closed, half-open, open).
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// FetchHello fetches the greeting from GET <base>/.
func (c *Client) FetchHello(ctx context.Context) Fetched[entity.HelloMessage] {
	return fetch(ctx, c, "hello", "/", parseHello, entity.FallbackHello)
}

// FetchUsers fetches the user list from GET <base>/users.
func (c *Client) FetchUsers(ctx context.Context) Fetched[[]entity.User] {
	return fetch(ctx, c, "users", "/users", parseUsers, entity.FallbackUsers)
}

// FetchArticles fetches every article from GET <base>/articles.
func (c *Client) FetchArticles(ctx context.Context) Fetched[[]entity.Article] {
	return fetch(ctx, c, "articles", "/articles", parseArticles, entity.FallbackArticles)
}

// FetchDocuments fetches every document from GET <base>/documents.
func (c *Client) FetchDocuments(ctx context.Context) Fetched[[]entity.DocumentAsset] {
	return fetch(ctx, c, "documents", "/documents", parseDocuments, entity.FallbackDocuments)
}

// fetch runs one upstream request and never fails: any problem is logged,
// counted and answered with fallback().
func fetch[T any](
	ctx context.Context,
	c *Client,
	resource, path string,
	parse func([]byte) (T, bool, error),
	fallback func() T,
) Fetched[T] {
	ctx, span := tracing.StartSpan(ctx, "upstream.fetch",
		attribute.String("upstream.resource", resource),
		attribute.String("upstream.path", path))
	defer span.End()

	start := c.now()
	logger := c.logger.With(slog.String("resource", resource))

	result, reason, err := func() (Fetched[T], string, error) {
		if !c.Configured() {
			return Fetched[T]{}, "unconfigured", nil
		}
		body, reason, err := c.get(ctx, path)
		if err != nil {
			return Fetched[T]{}, reason, err
		}
		value, partial, err := parse(body)
		if errors.Is(err, errEmptyPayload) {
			return Fetched[T]{}, "empty", err
		}
		if err != nil {
			return Fetched[T]{}, "invalid_payload", err
		}
		origin := OriginRemote
		if partial {
			origin = OriginPartial
		}
		return Fetched[T]{Value: value, Origin: origin}, "", nil
	}()

	if reason != "" {
		result = Fetched[T]{Value: fallback(), Origin: OriginFallback}
		metrics.RecordFallback(resource, reason)
		attrs := []any{slog.String("reason", reason)}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, reason)
		}
		if reason == "unconfigured" || reason == "cancelled" {
			logger.Debug("upstream not used, serving fallback", attrs...)
		} else {
			logger.Warn("upstream fetch failed, serving fallback", attrs...)
		}
	}

	duration := c.now().Sub(start)
	result.FetchedAt = start
	span.SetAttributes(attribute.String("upstream.origin", string(result.Origin)))
	metrics.RecordUpstreamFetch(resource, string(result.Origin), duration)
	logger.Debug("upstream fetch completed",
		slog.String("origin", string(result.Origin)),
		slog.Duration("duration", duration))

	return result
}

// get performs GET <base><path> through the rate limiter, retry policy and
// circuit breaker. On failure it also returns a short reason for metrics.
func (c *Client) get(ctx context.Context, path string) ([]byte, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "rate_limited", fmt.Errorf("rate limiter: %w", err)
	}

	var body []byte
	err := retry.WithBackoff(ctx, c.cfg.Retry, func() error {
		res, err := c.breaker.Execute(func() (interface{}, error) {
			return c.do(ctx, path)
		})
		if err != nil {
			return err
		}
		body = res.([]byte)
		return nil
	})
	if err == nil {
		return body, "", nil
	}

	var httpErr *retry.HTTPError
	switch {
	case circuitbreaker.IsRejection(err):
		return nil, "circuit_open", err
	case errors.Is(err, errCallerAborted):
		return nil, "cancelled", err
	case errors.As(err, &httpErr):
		return nil, "http_status", err
	default:
		return nil, "network", err
	}
}

func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ressourcefy-gateway/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", errCallerAborted, ctxErr)
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", errCallerAborted, ctxErr)
		}
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// errCallerAborted marks a request that ended because the caller's context
// was done, not because the upstream misbehaved.
var errCallerAborted = errors.New("request aborted by caller")

// breakerSuccess keeps the breaker counting only upstream faults: caller
// aborts and 4xx answers other than 408 and 429 leave it untouched.
func breakerSuccess(err error) bool {
	if err == nil || errors.Is(err, errCallerAborted) {
		return true
	}
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusRequestTimeout,
			httpErr.StatusCode == http.StatusTooManyRequests,
			httpErr.StatusCode >= 500:
			return false
		default:
			return true
		}
	}
	return false
}
