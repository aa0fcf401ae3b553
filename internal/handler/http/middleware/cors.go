// Package middleware holds cross-origin handling for the browser frontend.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedMethods are returned on preflight responses.
	AllowedMethods []string

	// AllowedHeaders are the request headers a browser may send.
	AllowedHeaders []string

	// ExposedHeaders are the response headers scripts may read.
	ExposedHeaders []string

	// MaxAge is how long preflight results can be cached, in seconds.
	MaxAge int

	// Validator decides which origins are allowed.
	Validator OriginValidator

	// Logger receives rejected origins at warn level. Optional.
	Logger *slog.Logger
}

// DefaultCORSConfig returns the gateway's CORS policy for the given origins.
func DefaultCORSConfig(origins []string, logger *slog.Logger) CORSConfig {
	return CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Data-Origin", "X-Cache", "X-Request-ID"},
		MaxAge:         86400,
		Validator:      NewWhitelistValidator(origins),
		Logger:         logger,
	}
}

// CORS returns middleware that sets CORS headers for allowed origins.
//
// Requests without an Origin header pass through untouched. Disallowed origins
// get no CORS headers, so the browser blocks the response. Preflight requests
// from allowed origins are answered with 204 and never reach next.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	exposed := strings.Join(config.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")

			if config.Validator == nil || !config.Validator.IsAllowed(origin) {
				if config.Logger != nil {
					config.Logger.Warn("CORS: origin not allowed",
						slog.String("origin", origin),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			if exposed != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposed)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)

				if config.Logger != nil {
					config.Logger.Debug("CORS: preflight request",
						slog.String("origin", origin),
						slog.String("requested_method", r.Header.Get("Access-Control-Request-Method")),
					)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
