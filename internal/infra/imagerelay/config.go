package imagerelay

import (
	"fmt"
	"time"

	"catchup-news/pkg/config"
)

// Config holds the relay's upstream limits.
type Config struct {
	// Timeout bounds the whole upstream exchange, redirects and body included.
	// Default: 8s
	Timeout time.Duration `yaml:"timeout"`

	// MaxBytes is the largest image relayed. Default: 5MiB
	MaxBytes int64 `yaml:"maxBytes"`

	// MaxRedirects is the number of redirects followed, each re-checked. Default: 5
	MaxRedirects int `yaml:"maxRedirects"`

	// UserAgent is sent upstream.
	UserAgent string `yaml:"userAgent"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:      8 * time.Second,
		MaxBytes:     5 * 1024 * 1024, // 5MiB
		MaxRedirects: 5,
		UserAgent:    "CatchUpNewsImageRelay/1.0",
	}
}

// LoadFromEnv overlays IMAGE_RELAY_* environment variables on base.
// Invalid values keep the base value and log a warning.
func LoadFromEnv(base Config) Config {
	return Config{
		Timeout:      config.GetEnvDuration("IMAGE_RELAY_TIMEOUT", base.Timeout),
		MaxBytes:     config.GetEnvInt64("IMAGE_RELAY_MAX_BYTES", base.MaxBytes),
		MaxRedirects: config.GetEnvInt("IMAGE_RELAY_MAX_REDIRECTS", base.MaxRedirects),
		UserAgent:    config.GetEnvString("IMAGE_RELAY_USER_AGENT", base.UserAgent),
	}
}

// Validate checks that all configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	if c.MaxBytes < 1024 || c.MaxBytes > 50*1024*1024 {
		return fmt.Errorf("max bytes must be between 1KB and 50MB, got %d", c.MaxBytes)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}
	return nil
}
