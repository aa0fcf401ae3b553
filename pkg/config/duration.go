package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration returns an error naming key when d is zero or negative.
//
// Example:
//
//	if err := ValidatePositiveDuration("UPSTREAM_TIMEOUT", cfg.Timeout); err != nil {
//	    return err
//	}
func ValidatePositiveDuration(key string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return nil
}

// ValidateDurationRange returns an error naming key when d is outside [min, max].
func ValidateDurationRange(key string, d, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range for %s: min (%v) cannot be greater than max (%v)", key, min, max)
	}
	if d < min {
		return fmt.Errorf("%s %v is below minimum %v", key, d, min)
	}
	if d > max {
		return fmt.Errorf("%s %v exceeds maximum %v", key, d, max)
	}
	return nil
}
