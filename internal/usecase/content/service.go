// Package content exposes the cached read hooks for hello, users, articles
// and documents. Each hook pairs a cache key and a staleness window with one
// upstream fetch function.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ressourcefy/internal/domain/entity"
	"ressourcefy/internal/infra/upstream"
	"ressourcefy/internal/observability/metrics"
	"ressourcefy/internal/query"
)

// Cache keys. Articles and documents are cached unfiltered; the category
// filter is applied to the cached list.
var (
	KeyHello     = query.Key{"hello"}
	KeyUsers     = query.Key{"users"}
	KeyArticles  = query.Key{"articles"}
	KeyDocuments = query.Key{"documents"}
)

// Source is the content API.
type Source interface {
	FetchHello(ctx context.Context) upstream.Fetched[entity.HelloMessage]
	FetchUsers(ctx context.Context) upstream.Fetched[[]entity.User]
	FetchArticles(ctx context.Context) upstream.Fetched[[]entity.Article]
	FetchDocuments(ctx context.Context) upstream.Fetched[[]entity.DocumentAsset]
}

// StaleTimes holds the staleness window of each hook.
type StaleTimes struct {
	Hello     time.Duration
	Users     time.Duration
	Articles  time.Duration
	Documents time.Duration
}

// DefaultStaleTimes returns the default staleness windows.
func DefaultStaleTimes() StaleTimes {
	return StaleTimes{
		Hello:     10 * time.Minute,
		Users:     5 * time.Minute,
		Articles:  5 * time.Minute,
		Documents: 10 * time.Minute,
	}
}

// Result is a hook answer: the data, where it came from and how the cache served it.
type Result[T any] struct {
	Data      T
	Origin    upstream.Origin
	Cache     query.Status
	FetchedAt time.Time
}

// Service provides the content hooks.
type Service struct {
	Source Source
	Query  *query.Client
	Stale  StaleTimes
}

// NewService creates a Service.
func NewService(src Source, qc *query.Client, stale StaleTimes) *Service {
	return &Service{Source: src, Query: qc, Stale: stale}
}

func (s *Service) helloQuery() query.Query[upstream.Fetched[entity.HelloMessage]] {
	return query.Query[upstream.Fetched[entity.HelloMessage]]{
		Key:       KeyHello,
		StaleTime: s.Stale.Hello,
		Fn:        load(s.Source.FetchHello),
	}
}

func (s *Service) usersQuery() query.Query[upstream.Fetched[[]entity.User]] {
	return query.Query[upstream.Fetched[[]entity.User]]{
		Key:       KeyUsers,
		StaleTime: s.Stale.Users,
		Fn:        load(s.Source.FetchUsers),
	}
}

func (s *Service) articlesQuery() query.Query[upstream.Fetched[[]entity.Article]] {
	return query.Query[upstream.Fetched[[]entity.Article]]{
		Key:       KeyArticles,
		StaleTime: s.Stale.Articles,
		Fn:        load(s.Source.FetchArticles),
	}
}

func (s *Service) documentsQuery() query.Query[upstream.Fetched[[]entity.DocumentAsset]] {
	return query.Query[upstream.Fetched[[]entity.DocumentAsset]]{
		Key:       KeyDocuments,
		StaleTime: s.Stale.Documents,
		Fn:        load(s.Source.FetchDocuments),
	}
}

// Hello returns the greeting.
func (s *Service) Hello(ctx context.Context) (Result[entity.HelloMessage], error) {
	return run(ctx, s.Query, s.helloQuery(), "hello")
}

// Users returns the user list.
func (s *Service) Users(ctx context.Context) (Result[[]entity.User], error) {
	return run(ctx, s.Query, s.usersQuery(), "users")
}

// Articles returns the articles of category, or all articles when category is empty.
// An unknown category yields a *entity.ValidationError.
func (s *Service) Articles(ctx context.Context, category string) (Result[[]entity.Article], error) {
	c, err := parseCategory(category)
	if err != nil {
		return Result[[]entity.Article]{}, err
	}
	res, err := run(ctx, s.Query, s.articlesQuery(), "articles")
	if err != nil {
		return res, err
	}
	res.Data = entity.FilterArticles(res.Data, c)
	return res, nil
}

// Documents returns the documents of category, or all documents when category is empty.
// An unknown category yields a *entity.ValidationError.
func (s *Service) Documents(ctx context.Context, category string) (Result[[]entity.DocumentAsset], error) {
	c, err := parseCategory(category)
	if err != nil {
		return Result[[]entity.DocumentAsset]{}, err
	}
	res, err := run(ctx, s.Query, s.documentsQuery(), "documents")
	if err != nil {
		return res, err
	}
	res.Data = entity.FilterDocuments(res.Data, c)
	return res, nil
}

// Warm loads all four queries concurrently, replacing whatever is cached.
func (s *Service) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return query.Prefetch(ctx, s.Query, s.helloQuery()) })
	g.Go(func() error { return query.Prefetch(ctx, s.Query, s.usersQuery()) })
	g.Go(func() error { return query.Prefetch(ctx, s.Query, s.articlesQuery()) })
	g.Go(func() error { return query.Prefetch(ctx, s.Query, s.documentsQuery()) })

	err := g.Wait()
	metrics.RecordCacheWarm(err == nil)
	if err != nil {
		return fmt.Errorf("warm content cache: %w", err)
	}
	slog.Debug("content cache warmed", slog.Int("entries", s.Query.Len()))
	return nil
}

func run[T any](ctx context.Context, qc *query.Client, q query.Query[upstream.Fetched[T]], name string) (Result[T], error) {
	fetched, status, err := query.Fetch(ctx, qc, q)
	if err != nil {
		return Result[T]{}, fmt.Errorf("%s: %w", name, err)
	}
	return Result[T]{
		Data:      fetched.Value,
		Origin:    fetched.Origin,
		Cache:     status,
		FetchedAt: fetched.FetchedAt,
	}, nil
}

// load adapts a Source method to a query function. A fallback served because
// the load itself was cancelled or timed out is returned as an error, so the
// cache keeps its previous value instead of storing the fallback.
func load[T any](fetch func(context.Context) upstream.Fetched[T]) func(context.Context) (upstream.Fetched[T], error) {
	return func(ctx context.Context) (upstream.Fetched[T], error) {
		f := fetch(ctx)
		if f.Origin == upstream.OriginFallback && ctx.Err() != nil {
			return f, fmt.Errorf("fetch interrupted: %w", ctx.Err())
		}
		return f, nil
	}
}

func parseCategory(s string) (entity.ResourceCategory, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return entity.ParseResourceCategory(s)
}
