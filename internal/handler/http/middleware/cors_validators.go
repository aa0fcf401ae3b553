package middleware

import (
	"strings"
)

// OriginValidator decides whether a request origin may make CORS requests.
type OriginValidator interface {
	IsAllowed(origin string) bool

	// GetAllowedOrigins returns a copy of the configured origins for logging.
	GetAllowedOrigins() []string
}

// WhitelistValidator implements exact-match origin validation.
// Comparison ignores case and a trailing slash.
type WhitelistValidator struct {
	allowed map[string]struct{}
	origins []string
}

// NewWhitelistValidator creates a validator for the given origins. Blank entries are skipped.
func NewWhitelistValidator(origins []string) *WhitelistValidator {
	v := &WhitelistValidator{allowed: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		origin = normalizeOrigin(origin)
		if origin == "" {
			continue
		}
		if _, dup := v.allowed[origin]; dup {
			continue
		}
		v.allowed[origin] = struct{}{}
		v.origins = append(v.origins, origin)
	}
	return v
}

// IsAllowed reports whether origin is on the whitelist.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	_, ok := v.allowed[origin]
	return ok
}

// GetAllowedOrigins returns the normalized origins in configuration order.
func (v *WhitelistValidator) GetAllowedOrigins() []string {
	out := make([]string, len(v.origins))
	copy(out, v.origins)
	return out
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}
