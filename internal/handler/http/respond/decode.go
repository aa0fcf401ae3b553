package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DecodeJSON reads a single JSON value from r's body into v.
// Failures come back as *AppError so Failure can answer them directly:
// 413 when the body exceeds the configured limit, 400 otherwise.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return NewAppError(http.StatusRequestEntityTooLarge, "request body too large", err)
		case errors.Is(err, io.EOF):
			return NewAppError(http.StatusBadRequest, "request body is required", err)
		default:
			return NewAppError(http.StatusBadRequest, "request body must be valid JSON", err)
		}
	}
	if dec.More() {
		return NewAppError(http.StatusBadRequest, "request body must be a single JSON value",
			fmt.Errorf("trailing data after JSON value"))
	}
	return nil
}
