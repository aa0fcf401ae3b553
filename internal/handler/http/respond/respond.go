// Package respond writes JSON responses and maps errors to safe client messages.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ressourcefy/internal/domain/entity"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers are already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes {"error": err.Error()} with the given status code.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// safeFragments mark messages that describe client input and may be echoed back.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"must be",
	"must not",
	"cannot be",
	"at least",
	"at most",
	"too long",
	"too short",
	"too large",
}

// SafeError returns client-facing errors as is and replaces anything else
// (and every 5xx) with "internal server error", logging the sanitized details.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	if code < 500 && isSafe(msg) {
		JSON(w, code, map[string]string{"error": msg})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

func isSafe(msg string) bool {
	lower := strings.ToLower(msg)
	for _, fragment := range safeFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// FieldErrors is the body of a 422 response.
type FieldErrors struct {
	Errors []*entity.ValidationError `json:"errors"`
}

// Validation writes the field errors carried by err with 422 Unprocessable Entity.
// It returns false, writing nothing, when err carries no field errors.
func Validation(w http.ResponseWriter, err error) bool {
	var list entity.ValidationErrors
	if errors.As(err, &list) && len(list) > 0 {
		JSON(w, http.StatusUnprocessableEntity, FieldErrors{Errors: list})
		return true
	}
	var single *entity.ValidationError
	if errors.As(err, &single) {
		JSON(w, http.StatusUnprocessableEntity, FieldErrors{Errors: []*entity.ValidationError{single}})
		return true
	}
	return false
}

// AppError is an error type that carries a user-facing message.
type AppError struct {
	UserMsg string // Message to display to users
	Err     error  // Internal error (logged for debugging)
	Code    int    // HTTP status code
}

// Error returns the error message, implementing the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given parameters.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// Failure writes err. AppErrors answer with their own code and user message;
// field errors answer 422; everything else goes through SafeError with code.
func Failure(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.Default().Error("application error",
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		JSON(w, appErr.Code, map[string]string{"error": appErr.UserMsg})
		return
	}

	if Validation(w, err) {
		return
	}
	SafeError(w, code, err)
}
