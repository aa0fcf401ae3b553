// Package resource provides the read-only content endpoints.
// Every response carries X-Data-Origin (remote, partial, fallback) and X-Cache (hit, miss, stale).
package resource

import (
	"context"
	"net/http"

	"ressourcefy/internal/domain/entity"
	"ressourcefy/internal/usecase/content"
)

// Service is the content hook surface the handlers read from.
type Service interface {
	Hello(ctx context.Context) (content.Result[entity.HelloMessage], error)
	Users(ctx context.Context) (content.Result[[]entity.User], error)
	Articles(ctx context.Context, category string) (content.Result[[]entity.Article], error)
	Documents(ctx context.Context, category string) (content.Result[[]entity.DocumentAsset], error)
}

// Register registers the content routes with the given mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("GET /api/hello", HelloHandler{svc})
	mux.Handle("GET /api/users", UsersHandler{svc})
	mux.Handle("GET /api/articles", ArticlesHandler{svc})
	mux.Handle("GET /api/articles/{category}", ArticlesHandler{svc})
	mux.Handle("GET /api/documents", DocumentsHandler{svc})
	mux.Handle("GET /api/documents/{category}", DocumentsHandler{svc})
}
