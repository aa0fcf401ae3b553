package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ressourcefy/internal/config"
	"ressourcefy/internal/domain/entity"
	"ressourcefy/internal/resilience/circuitbreaker"
	"ressourcefy/internal/resilience/retry"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := DefaultConfig(baseURL)
	cfg.Timeout = 2 * time.Second
	cfg.RateLimit = 0
	return New(cfg, nil)
}

func serve(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestClient_UnconfiguredServesFallback(t *testing.T) {
	c := newTestClient(t, "")
	ctx := context.Background()

	hello := c.FetchHello(ctx)
	assert.Equal(t, OriginFallback, hello.Origin)
	assert.Equal(t, entity.FallbackHello(), hello.Value)

	users := c.FetchUsers(ctx)
	assert.Equal(t, OriginFallback, users.Origin)
	assert.Empty(t, cmp.Diff(entity.FallbackUsers(), users.Value))

	articles := c.FetchArticles(ctx)
	assert.Equal(t, OriginFallback, articles.Origin)
	assert.Empty(t, cmp.Diff(entity.FallbackArticles(), articles.Value))

	docs := c.FetchDocuments(ctx)
	assert.Equal(t, OriginFallback, docs.Origin)
	assert.Empty(t, cmp.Diff(entity.FallbackDocuments(), docs.Value))
	assert.False(t, docs.FetchedAt.IsZero())
}

func TestClient_RequestPaths(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()
	c.FetchHello(ctx)
	c.FetchUsers(ctx)
	c.FetchArticles(ctx)
	c.FetchDocuments(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"GET /", "GET /users", "GET /articles", "GET /documents"}, paths)
}

func TestClient_NonSuccessStatusServesFallback(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, calls := serve(t, status, `{"data":[{"id":"x","name":"Remote"}]}`)
			c := newTestClient(t, srv.URL)

			got := c.FetchUsers(context.Background())

			assert.Equal(t, OriginFallback, got.Origin)
			assert.Empty(t, cmp.Diff(entity.FallbackUsers(), got.Value))
			assert.Equal(t, int32(1), calls.Load(), "single attempt by default")
		})
	}
}

func TestClient_InvalidJSONServesFallback(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"title": "broken"`)
	c := newTestClient(t, srv.URL)

	got := c.FetchHello(context.Background())
	assert.Equal(t, OriginFallback, got.Origin)
	assert.Equal(t, entity.FallbackHello(), got.Value)
}

func TestClient_NetworkErrorServesFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	got := newTestClient(t, url).FetchArticles(context.Background())
	assert.Equal(t, OriginFallback, got.Origin)
	assert.Len(t, got.Value, len(entity.FallbackArticles()))
}

func TestClient_RemoteHello(t *testing.T) {
	srv, _ := serve(t, http.StatusOK,
		`{"title":"Bonjour","message":"Live","status":"ok","image":"/img/live.png"}`)

	got := newTestClient(t, srv.URL).FetchHello(context.Background())

	assert.Equal(t, OriginRemote, got.Origin)
	assert.Equal(t, entity.HelloMessage{Title: "Bonjour", Message: "Live", Status: "ok", Image: "/img/live.png"}, got.Value)
}

func TestClient_PartialHelloKeepsPresentFields(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"heading":"Salut"}`)

	got := newTestClient(t, srv.URL).FetchHello(context.Background())
	def := entity.FallbackHello()

	assert.Equal(t, OriginPartial, got.Origin)
	assert.Equal(t, "Salut", got.Value.Title)
	assert.Equal(t, def.Message, got.Value.Message)
	assert.Equal(t, def.Image, got.Value.Image)
	assert.Equal(t, def.Status, got.Value.Status)
}

func TestClient_PartialUsersMergedWithPlaceholder(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"users":[
		{"id":"10","name":"Dana","email":"dana@example.com","image":"/d.png","createdAt":"2025-03-01T10:00:00Z"},
		{"id":11,"email":"eve@example.com"},
		{"name":"no id"}
	]}`)

	got := newTestClient(t, srv.URL).FetchUsers(context.Background())
	require.Len(t, got.Value, 2)
	assert.Equal(t, OriginPartial, got.Origin)

	placeholder := entity.PlaceholderUser()
	want := []entity.User{
		{ID: "10", Name: "Dana", Email: "dana@example.com", Image: "/d.png", CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "11", Name: placeholder.Name, Email: "eve@example.com", Image: placeholder.Image, CreatedAt: placeholder.CreatedAt},
	}
	assert.Empty(t, cmp.Diff(want, got.Value))
}

func TestClient_ArticlesDropUnknownCategory(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `[
		{"id":"a","title":"Go","summary":"s","url":"https://a.test","image":"/a.png","author":{"name":"Ann"},"category":"Development","publishedAt":"2025-01-02T00:00:00Z"},
		{"id":"b","title":"Cooking","category":"food"}
	]`)

	got := newTestClient(t, srv.URL).FetchArticles(context.Background())
	require.Len(t, got.Value, 1)
	assert.Equal(t, OriginPartial, got.Origin)
	assert.Equal(t, "Ann", got.Value[0].Author)
	assert.Equal(t, entity.CategoryDevelopment, got.Value[0].Category)
}

func TestClient_EmptyListServesFallback(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"data":[]}`)

	got := newTestClient(t, srv.URL).FetchDocuments(context.Background())
	assert.Equal(t, OriginFallback, got.Origin)
	assert.Empty(t, cmp.Diff(entity.FallbackDocuments(), got.Value))
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"title":"t","message":"m","status":"ok","image":"/i.png"}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig(srv.URL)
	cfg.RateLimit = 0
	cfg.Retry = retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
	got := New(cfg, nil).FetchHello(context.Background())

	assert.Equal(t, OriginRemote, got.Origin)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_OpenCircuitSkipsNetwork(t *testing.T) {
	srv, calls := serve(t, http.StatusInternalServerError, `{}`)

	cfg := DefaultConfig(srv.URL)
	cfg.RateLimit = 0
	cfg.CircuitBreaker = circuitbreaker.Config{
		Name:             "upstream-test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}
	c := New(cfg, nil)
	ctx := context.Background()

	c.FetchUsers(ctx)
	c.FetchUsers(ctx)
	require.Equal(t, "open", c.BreakerState())

	got := c.FetchUsers(ctx)
	assert.Equal(t, OriginFallback, got.Origin)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_CancelledContextServesFallback(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `[]`)
	cfg := DefaultConfig(srv.URL)
	cfg.RateLimit = 0.001
	cfg.Burst = 1
	c := New(cfg, nil)

	c.FetchUsers(context.Background()) // consumes the only token

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := c.FetchUsers(ctx)
	assert.Equal(t, OriginFallback, got.Origin)
}

func strictBreaker() circuitbreaker.Config {
	return circuitbreaker.Config{
		Name:             "upstream-strict",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}
}

func TestClient_CallerAbortsDoNotOpenCircuit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(50 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte(`{"title":"t","message":"m","status":"ok","image":"/i.png"}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig(srv.URL)
	cfg.RateLimit = 0
	cfg.CircuitBreaker = strictBreaker()
	c := New(cfg, nil)

	for i := 0; i < 4; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		got := c.FetchHello(ctx)
		cancel()
		assert.Equal(t, OriginFallback, got.Origin)
	}
	assert.Equal(t, "closed", c.BreakerState())

	got := c.FetchHello(context.Background())
	assert.Equal(t, OriginRemote, got.Origin)
}

func TestClient_ClientErrorsDoNotOpenCircuit(t *testing.T) {
	srv, calls := serve(t, http.StatusNotFound, `{}`)

	cfg := DefaultConfig(srv.URL)
	cfg.RateLimit = 0
	cfg.CircuitBreaker = strictBreaker()
	c := New(cfg, nil)

	for i := 0; i < 4; i++ {
		assert.Equal(t, OriginFallback, c.FetchUsers(context.Background()).Origin)
	}
	assert.Equal(t, "closed", c.BreakerState())
	assert.Equal(t, int32(4), calls.Load())
}

func TestBreakerSuccess(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: true},
		{name: "caller cancelled", err: fmt.Errorf("%w: %w", errCallerAborted, context.Canceled), want: true},
		{name: "not found", err: &retry.HTTPError{StatusCode: http.StatusNotFound}, want: true},
		{name: "too many requests", err: &retry.HTTPError{StatusCode: http.StatusTooManyRequests}, want: false},
		{name: "server error", err: &retry.HTTPError{StatusCode: http.StatusBadGateway}, want: false},
		{name: "network", err: errors.New("connection refused"), want: false},
		{name: "client timeout", err: context.DeadlineExceeded, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, breakerSuccess(tt.err))
		})
	}
}

func TestConfigFrom(t *testing.T) {
	got := ConfigFrom(config.UpstreamConfig{
		BaseURL:       "https://api.example",
		Timeout:       3 * time.Second,
		RateLimit:     2.5,
		Burst:         4,
		RetryAttempts: 3,
	})

	assert.Equal(t, "https://api.example", got.BaseURL)
	assert.Equal(t, 3*time.Second, got.Timeout)
	assert.Equal(t, 2.5, got.RateLimit)
	assert.Equal(t, 4, got.Burst)
	assert.Equal(t, 3, got.Retry.MaxAttempts)
	assert.Equal(t, circuitbreaker.UpstreamConfig().Name, got.CircuitBreaker.Name)

	assert.Equal(t, 1, ConfigFrom(config.UpstreamConfig{}).Retry.MaxAttempts)
}
