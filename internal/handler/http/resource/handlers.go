package resource

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ressourcefy/internal/domain/entity"
	"ressourcefy/internal/handler/http/respond"
	"ressourcefy/internal/observability/logging"
	"ressourcefy/internal/usecase/content"
)

// Response headers describing how the payload was produced.
const (
	HeaderDataOrigin = "X-Data-Origin"
	HeaderCache      = "X-Cache"
	HeaderFetchedAt  = "X-Fetched-At"
)

type HelloHandler struct{ Svc Service }

func (h HelloHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Hello(r.Context())
	write(w, r, "hello", res, err)
}

type UsersHandler struct{ Svc Service }

func (h UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Users(r.Context())
	write(w, r, "users", res, err)
}

// ArticlesHandler serves articles, optionally narrowed by the category query
// parameter or path segment.
type ArticlesHandler struct{ Svc Service }

func (h ArticlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Articles(r.Context(), category(r))
	write(w, r, "articles", res, err)
}

// DocumentsHandler serves document assets, narrowed like ArticlesHandler.
type DocumentsHandler struct{ Svc Service }

func (h DocumentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Documents(r.Context(), category(r))
	write(w, r, "documents", res, err)
}

// category prefers the path segment over the query parameter.
func category(r *http.Request) string {
	if c := r.PathValue("category"); c != "" {
		return c
	}
	return r.URL.Query().Get("category")
}

func write[T any](w http.ResponseWriter, r *http.Request, resource string, res content.Result[T], err error) {
	logger := logging.FromContext(r.Context())

	if err != nil {
		var ve *entity.ValidationError
		if errors.As(err, &ve) {
			logger.Warn("invalid resource query",
				slog.String("resource", resource),
				slog.String("error", err.Error()))
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		if r.Context().Err() != nil {
			logger.Debug("request ended before resource was loaded",
				slog.String("resource", resource),
				slog.Any("error", err))
			return
		}
		logger.Error("failed to load resource",
			slog.String("resource", resource),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set(HeaderDataOrigin, string(res.Origin))
	w.Header().Set(HeaderCache, string(res.Cache))
	if !res.FetchedAt.IsZero() {
		w.Header().Set(HeaderFetchedAt, res.FetchedAt.UTC().Format(time.RFC3339))
	}

	logger.Debug("resource served",
		slog.String("resource", resource),
		slog.String("origin", string(res.Origin)),
		slog.String("cache", string(res.Cache)))

	respond.JSON(w, http.StatusOK, res.Data)
}
