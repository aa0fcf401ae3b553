// Package onboarding provides the onboarding form validation endpoints.
package onboarding

import (
	"log/slog"
	"net/http"

	obDomain "ressourcefy/internal/domain/onboarding"
	"ressourcefy/internal/handler/http/respond"
	"ressourcefy/internal/observability/logging"
	"ressourcefy/internal/observability/metrics"
)

// Register registers the onboarding routes with the given mux.
func Register(mux *http.ServeMux) {
	mux.Handle("POST /api/onboarding/profile", ProfileHandler{})
	mux.Handle("POST /api/onboarding/interests", InterestsHandler{})
}

// ProfileHandler validates the profile step and echoes the normalized profile.
type ProfileHandler struct{}

func (ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in obDomain.ProfileInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Failure(w, http.StatusBadRequest, err)
		return
	}
	out, err := obDomain.ValidateProfile(in)
	finish(w, r, "profile", out, err)
}

// InterestsHandler validates the interests step and echoes the normalized list.
type InterestsHandler struct{}

func (InterestsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in obDomain.InterestsInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Failure(w, http.StatusBadRequest, err)
		return
	}
	out, err := obDomain.ValidateInterests(in)
	finish(w, r, "interests", out, err)
}

func finish(w http.ResponseWriter, r *http.Request, form string, out any, err error) {
	metrics.RecordOnboardingValidation(form, err == nil)

	if err != nil {
		logging.FromContext(r.Context()).Info("onboarding form rejected",
			slog.String("form", form),
			slog.String("error", err.Error()))
		if !respond.Validation(w, err) {
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	respond.JSON(w, http.StatusOK, out)
}
