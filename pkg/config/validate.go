package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidateCronSchedule checks a standard 5-field cron expression
// ("minute hour day month weekday") or a descriptor such as "@every 5m".
func ValidateCronSchedule(key, schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid %s '%s': %w", key, schedule, err)
	}
	return nil
}

// ValidateIntRange returns an error naming key when value is outside [min, max].
func ValidateIntRange(key string, value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range for %s: min (%d) cannot be greater than max (%d)", key, min, max)
	}
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", key, min, max, value)
	}
	return nil
}

// ValidateHTTPURL checks that raw is an absolute http or https URL with a host.
// An empty value is accepted; callers decide whether the setting is optional.
func ValidateHTTPURL(key, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s '%s': %w", key, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme: %s", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host: %s", key, raw)
	}
	return nil
}
