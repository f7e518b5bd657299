package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration rejects zero and negative durations.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidatePositiveFloat rejects zero, negative and NaN values.
func ValidatePositiveFloat(v float64) error {
	if !(v > 0) {
		return fmt.Errorf("value must be positive, got %v", v)
	}
	return nil
}

// ValidateIntRange reports an error unless lo <= v <= hi.
func ValidateIntRange(v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("value %d must be between %d and %d", v, lo, hi)
	}
	return nil
}
