package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func newCORS(buf *bytes.Buffer) func(http.Handler) http.Handler {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return CORS(DefaultCORSConfig([]string{"http://localhost:3000"}, logger))
}

func TestCORS_PreflightAllowedOrigin(t *testing.T) {
	var buf bytes.Buffer
	called := false
	handler := newCORS(&buf)(okHandler(&called))

	req := httptest.NewRequest(http.MethodOptions, "/api/preferences/theme", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, X-Request-ID", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, buf.String(), "CORS: preflight request")
}

func TestCORS_PreflightDisallowedOrigin(t *testing.T) {
	var buf bytes.Buffer
	called := false
	handler := newCORS(&buf)(okHandler(&called))

	req := httptest.NewRequest(http.MethodOptions, "/api/preferences/theme", nil)
	req.Header.Set("Origin", "http://malicious.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, buf.String(), "CORS: origin not allowed")
	assert.Contains(t, buf.String(), "malicious.example")
}

func TestCORS_ActualRequestAllowedOrigin(t *testing.T) {
	var buf bytes.Buffer
	called := false
	handler := newCORS(&buf)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Data-Origin, X-Cache, X-Request-ID", rec.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_NoOriginHeader(t *testing.T) {
	var buf bytes.Buffer
	called := false
	handler := newCORS(&buf)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hello", nil))

	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Vary"))
	assert.Empty(t, buf.String())
}

func TestCORS_PlainOptionsReachesHandler(t *testing.T) {
	var buf bytes.Buffer
	called := false
	handler := newCORS(&buf)(okHandler(&called))

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
}

func TestCORS_NilValidatorAndLogger(t *testing.T) {
	called := false
	handler := CORS(CORSConfig{})(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() { handler.ServeHTTP(rec, req) })
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
