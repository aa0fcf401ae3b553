package metrics

import "time"

// RecordUpstreamFetch records the outcome and duration of one upstream fetch.
func RecordUpstreamFetch(resource, origin string, duration time.Duration) {
	UpstreamFetchTotal.WithLabelValues(resource, origin).Inc()
	UpstreamFetchDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

// RecordFallback records why fallback data was served for resource.
func RecordFallback(resource, reason string) {
	UpstreamFallbackReasons.WithLabelValues(resource, reason).Inc()
}

// RecordQueryLookup records a query cache lookup.
func RecordQueryLookup(key, status string) {
	QueryCacheRequestsTotal.WithLabelValues(key, status).Inc()
}

// RecordQueryRefetch records the result of a background refetch.
func RecordQueryRefetch(key string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	QueryRefetchTotal.WithLabelValues(key, result).Inc()
}

// SetQueryCacheEntries updates the query cache size gauge.
func SetQueryCacheEntries(n int) {
	QueryCacheEntries.Set(float64(n))
}

// RecordCacheWarm records a scheduled cache warm run.
func RecordCacheWarm(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	CacheWarmRunsTotal.WithLabelValues(result).Inc()
}

// RecordThemeChange records a theme preference change.
func RecordThemeChange(mode string) {
	ThemeChangesTotal.WithLabelValues(mode).Inc()
}

// RecordOnboardingValidation records the result of validating an onboarding form.
func RecordOnboardingValidation(form string, valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	OnboardingValidationsTotal.WithLabelValues(form, result).Inc()
}
