package pathutil

import "testing"

// BenchmarkNormalizePath measures normalization across known, dynamic and unknown paths.
func BenchmarkNormalizePath(b *testing.B) {
	paths := []string{
		"/api/users",
		"/api/articles?category=web",
		"/api/documents/design",
		"/health",
		"/unknown/path/123",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = NormalizePath(paths[i%len(paths)])
	}
}
