package theme_test

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	themeHTTP "ressourcefy/internal/handler/http/theme"
	themeUC "ressourcefy/internal/usecase/theme"
)

// nextEvent reads lines until a blank line and returns the data payload.
func nextEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if event != "" || data != "" {
				return event, data
			}
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func openStream(t *testing.T, handler http.Handler) (*http.Response, *bufio.Reader) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/preferences/theme/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp, bufio.NewReader(resp.Body)
}

func TestEventsHandler_StreamsChanges(t *testing.T) {
	store := newStore(t)
	mux := http.NewServeMux()
	themeHTTP.RegisterStream(mux, store)

	resp, r := openStream(t, mux)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	event, data := nextEvent(t, r)
	assert.Equal(t, "theme", event)
	assert.JSONEq(t, `{"mode":"light"}`, data)

	require.NoError(t, store.Set(themeUC.Dark))
	_, data = nextEvent(t, r)
	assert.JSONEq(t, `{"mode":"dark"}`, data)

	store.Toggle()
	_, data = nextEvent(t, r)
	assert.JSONEq(t, `{"mode":"light"}`, data)

	store.Close()
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(rest)))
	assert.Eventually(t, func() bool { return store.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestEventsHandler_Heartbeat(t *testing.T) {
	store := newStore(t)
	handler := &themeHTTP.EventsHandler{Store: store, Heartbeat: 20 * time.Millisecond}
	mux := http.NewServeMux()
	mux.Handle("GET /api/preferences/theme/events", handler)

	_, r := openStream(t, mux)
	nextEvent(t, r)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": ping\n", line)

	store.Close()
}

func TestEventsHandler_ClientDisconnectUnsubscribes(t *testing.T) {
	store := newStore(t)
	mux := http.NewServeMux()
	themeHTTP.RegisterStream(mux, store)

	resp, r := openStream(t, mux)
	nextEvent(t, r)
	assert.Equal(t, 1, store.Subscribers())

	require.NoError(t, resp.Body.Close())
	assert.Eventually(t, func() bool { return store.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
