package theme

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ressourcefy/internal/observability/logging"
	themeUC "ressourcefy/internal/usecase/theme"
)

const (
	defaultWriteTimeout = 10 * time.Second
	defaultHeartbeat    = 25 * time.Second
)

// EventsHandler streams the current mode followed by every change as
// "theme" events. The stream ends when the client goes away or the store
// closes its subscriptions on shutdown.
type EventsHandler struct {
	Store Store

	// WriteTimeout bounds each write so a stuck client cannot pin the handler.
	WriteTimeout time.Duration
	// Heartbeat is the interval between keep-alive comments.
	Heartbeat time.Duration
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	writeTimeout := h.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	heartbeat := h.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	rc := http.NewResponseController(w)
	deadlines := true

	send := func(frame string) error {
		if deadlines {
			if err := rc.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				logger.Debug("write deadlines not supported", slog.Any("error", err))
				deadlines = false
			}
		}
		if _, err := fmt.Fprint(w, frame); err != nil {
			return err
		}
		return rc.Flush()
	}

	sendMode := func(m themeUC.Mode) error {
		data, err := json.Marshal(DTO{Mode: m})
		if err != nil {
			return err
		}
		return send(fmt.Sprintf("event: theme\ndata: %s\n\n", data))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := h.Store.Subscribe()
	defer h.Store.Unsubscribe(ch)

	if err := sendMode(h.Store.Get()); err != nil {
		return
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case m, ok := <-ch:
			if !ok {
				return
			}
			if err := sendMode(m); err != nil {
				logger.Debug("theme stream write failed", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			if err := send(": ping\n\n"); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
