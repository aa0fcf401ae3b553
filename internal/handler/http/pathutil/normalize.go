package pathutil

import (
	"regexp"
	"strings"
)

// Unmatched is the label used for paths outside the known routes.
const Unmatched = "/:unmatched"

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// knownPaths are the static routes served by the gateway.
var knownPaths = map[string]struct{}{
	"/":                             {},
	"/api/hello":                    {},
	"/api/users":                    {},
	"/api/articles":                 {},
	"/api/documents":                {},
	"/api/onboarding/profile":       {},
	"/api/onboarding/interests":     {},
	"/api/preferences/theme":        {},
	"/api/preferences/theme/toggle": {},
	"/api/preferences/theme/events": {},
	"/health":                       {},
	"/live":                         {},
	"/ready":                        {},
	"/metrics":                      {},
}

// pathPatterns map dynamic segments onto templates. Evaluated in order.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/(articles|documents)/[a-z-]+$`), Template: "/api/:resource/:category"},
}

// NormalizePath maps a request path onto a bounded set of metric labels.
// Known routes pass through, dynamic routes collapse to their template and
// everything else becomes Unmatched, so scanners cannot inflate label cardinality.
//
//	NormalizePath("/api/users")          // "/api/users"
//	NormalizePath("/api/users/")         // "/api/users"
//	NormalizePath("/api/articles?x=1")   // "/api/articles"
//	NormalizePath("/wp-login.php")       // "/:unmatched"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := knownPaths[path]; ok {
		return path
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	return Unmatched
}

// ExpectedCardinality returns the upper bound of distinct labels NormalizePath produces.
func ExpectedCardinality() int {
	return len(knownPaths) + len(pathPatterns) + 1
}
