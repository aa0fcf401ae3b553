// Package query caches the results of keyed fetch functions with a per-query
// staleness window. Fresh entries are served without calling the fetch
// function; stale entries are served immediately while one background
// refetch replaces them. Concurrent loads of the same key are collapsed.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"

	"ressourcefy/internal/observability/metrics"
)

// ErrTypeMismatch is returned when a key is reused for a different result type.
var ErrTypeMismatch = errors.New("query: cached value has a different type")

// Key identifies a query. Two keys with the same elements share one cache entry.
type Key []string

// String returns the cache identity of k.
func (k Key) String() string {
	return strings.Join(k, "/")
}

// Query describes how to load and how long to trust one cached value.
type Query[T any] struct {
	Key Key
	// StaleTime is how long a stored value is served without refetching.
	// Zero means every read after the first triggers a background refetch.
	StaleTime time.Duration
	Fn        func(ctx context.Context) (T, error)
}

// Status reports how a Fetch was answered.
type Status string

const (
	StatusHit   Status = "hit"
	StatusMiss  Status = "miss"
	StatusStale Status = "stale"
)

type entry struct {
	value       any
	updatedAt   time.Time
	invalidated bool
}

// Client is a query cache. It is safe for concurrent use.
type Client struct {
	cache          *ttlcache.Cache[string, entry]
	group          singleflight.Group
	refetching     sync.Map
	mu             sync.Mutex
	now            func() time.Time
	logger         *slog.Logger
	refetchTimeout time.Duration

	bg     context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	gcTime         time.Duration
	now            func() time.Time
	logger         *slog.Logger
	refetchTimeout time.Duration
}

// WithGCTime sets how long an entry survives without being read. Default: 30m.
func WithGCTime(d time.Duration) Option {
	return func(o *clientOptions) { o.gcTime = d }
}

// WithClock replaces time.Now for staleness decisions.
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) { o.now = now }
}

// WithLogger sets the logger used for background refetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithRefetchTimeout bounds each load, whether started by a caller or in the
// background. Default: 30s.
func WithRefetchTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.refetchTimeout = d }
}

// New creates a Client and starts its expiry loop. Call Stop to release it.
func New(opts ...Option) *Client {
	o := clientOptions{
		gcTime:         30 * time.Minute,
		now:            time.Now,
		logger:         slog.Default(),
		refetchTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	cache := ttlcache.New(
		ttlcache.WithTTL[string, entry](o.gcTime),
	)
	cache.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, _ *ttlcache.Item[string, entry]) {
		metrics.SetQueryCacheEntries(cache.Len())
	})
	go cache.Start()

	bg, cancel := context.WithCancel(context.Background())
	return &Client{
		cache:          cache,
		now:            o.now,
		logger:         o.logger,
		refetchTimeout: o.refetchTimeout,
		bg:             bg,
		cancel:         cancel,
	}
}

// Fetch returns the value for q, loading it on a miss. A stale value is
// returned as is and refreshed in the background; the refresh runs on a
// context detached from ctx. A cancelled ctx ends the wait, not the load.
func Fetch[T any](ctx context.Context, c *Client, q Query[T]) (T, Status, error) {
	id := q.Key.String()

	if item := c.cache.Get(id); item != nil {
		e := item.Value()
		if v, ok := e.value.(T); ok {
			if !e.invalidated && c.now().Sub(e.updatedAt) < q.StaleTime {
				metrics.RecordQueryLookup(id, string(StatusHit))
				return v, StatusHit, nil
			}
			metrics.RecordQueryLookup(id, string(StatusStale))
			refetch(c, q)
			return v, StatusStale, nil
		}
	}

	metrics.RecordQueryLookup(id, string(StatusMiss))
	v, err := load(ctx, c, q)
	return v, StatusMiss, err
}

// Prefetch runs q.Fn unconditionally and stores the result.
func Prefetch[T any](ctx context.Context, c *Client, q Query[T]) error {
	_, err := load(ctx, c, q)
	return err
}

// Invalidate marks the entry for key stale so the next Fetch refetches it.
func (c *Client) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := key.String()
	item := c.cache.Get(id, ttlcache.WithDisableTouchOnHit[string, entry]())
	if item == nil {
		return
	}
	e := item.Value()
	e.invalidated = true
	c.cache.Set(id, e, ttlcache.DefaultTTL)
}

// Remove drops the entry for key.
func (c *Client) Remove(key Key) {
	c.cache.Delete(key.String())
	metrics.SetQueryCacheEntries(c.cache.Len())
}

// Len returns the number of cached entries.
func (c *Client) Len() int {
	return c.cache.Len()
}

// Stop cancels background refetches, waits for them and stops the expiry loop.
func (c *Client) Stop() {
	c.cancel()
	c.wg.Wait()
	c.cache.Stop()
}

func (c *Client) store(id string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Set(id, entry{value: v, updatedAt: c.now()}, ttlcache.DefaultTTL)
	metrics.SetQueryCacheEntries(c.cache.Len())
}

// load runs q.Fn once per key at a time and stores a successful result.
// The shared load does not inherit the caller's cancellation: it is bounded by
// the refetch timeout and by Stop. A caller that gives up gets its context
// error while the load goes on to fill the cache.
func load[T any](ctx context.Context, c *Client, q Query[T]) (T, error) {
	var zero T
	id := q.Key.String()

	ch := c.group.DoChan(id, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refetchTimeout)
		defer cancel()
		stop := context.AfterFunc(c.bg, cancel)
		defer stop()

		v, err := q.Fn(lctx)
		if err != nil {
			return nil, err
		}
		c.store(id, v)
		return v, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return zero, fmt.Errorf("query %s: %w", id, ctx.Err())
	}
	if res.Err != nil {
		return zero, fmt.Errorf("query %s: %w", id, res.Err)
	}
	v, ok := res.Val.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: %w", id, ErrTypeMismatch)
	}
	return v, nil
}

// refetch starts at most one background load per key.
func refetch[T any](c *Client, q Query[T]) {
	id := q.Key.String()
	if c.bg.Err() != nil {
		return
	}
	if _, running := c.refetching.LoadOrStore(id, struct{}{}); running {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.refetching.Delete(id)

		ctx, cancel := context.WithTimeout(c.bg, c.refetchTimeout)
		defer cancel()

		_, err := load(ctx, c, q)
		metrics.RecordQueryRefetch(id, err == nil)
		if err != nil {
			c.logger.Warn("background refetch failed, keeping stale value",
				slog.String("key", id),
				slog.Any("error", err))
		}
	}()
}
