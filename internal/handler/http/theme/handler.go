// Package theme provides the display preference endpoints, including a
// Server-Sent Events stream of mode changes.
package theme

import (
	"net/http"
	"time"

	"ressourcefy/internal/handler/http/respond"
	themeUC "ressourcefy/internal/usecase/theme"
)

// Store is the preference holder the handlers operate on.
type Store interface {
	Get() themeUC.Mode
	UpdatedAt() time.Time
	Set(themeUC.Mode) error
	Toggle() themeUC.Mode
	Subscribe() <-chan themeUC.Mode
	Unsubscribe(<-chan themeUC.Mode)
}

// DTO is the JSON shape of the preference.
type DTO struct {
	Mode      themeUC.Mode `json:"mode"`
	UpdatedAt *time.Time   `json:"updatedAt,omitempty"`
}

func dto(s Store) DTO {
	out := DTO{Mode: s.Get()}
	if at := s.UpdatedAt(); !at.IsZero() {
		at = at.UTC()
		out.UpdatedAt = &at
	}
	return out
}

// Register registers the request/response theme routes.
func Register(mux *http.ServeMux, store Store) {
	mux.Handle("GET /api/preferences/theme", GetHandler{store})
	mux.Handle("PUT /api/preferences/theme", PutHandler{store})
	mux.Handle("POST /api/preferences/theme/toggle", ToggleHandler{store})
}

// RegisterStream registers the events route. Streams outlive any request
// timeout, so callers mount it outside the timeout middleware.
func RegisterStream(mux *http.ServeMux, store Store) {
	mux.Handle("GET /api/preferences/theme/events", &EventsHandler{Store: store})
}

type GetHandler struct{ Store Store }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, dto(h.Store))
}

// PutHandler sets the mode from a {"mode": "light"|"dark"} body.
type PutHandler struct{ Store Store }

func (h PutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Failure(w, http.StatusBadRequest, err)
		return
	}

	mode, err := themeUC.ParseMode(req.Mode)
	if err == nil {
		err = h.Store.Set(mode)
	}
	if err != nil {
		respond.Failure(w, http.StatusBadRequest, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto(h.Store))
}

type ToggleHandler struct{ Store Store }

func (h ToggleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Store.Toggle()
	respond.JSON(w, http.StatusOK, dto(h.Store))
}
