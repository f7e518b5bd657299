package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// FeedFetchConfig holds configuration for fetching feed documents.
//
// Values come from DefaultConfig, an optional YAML file and finally the
// FEED_* environment variables (see LoadConfigFromEnv).
type FeedFetchConfig struct {
	// Timeout is the per-feed deadline. A request that exceeds it becomes a
	// source_timeout warning. Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// MaxBodySize caps the bytes read from one feed. Default: 10MB
	MaxBodySize int64 `yaml:"maxBodySize"`

	// MaxRedirects is the maximum number of redirects followed per feed. Default: 10
	MaxRedirects int `yaml:"maxRedirects"`

	// DenyPrivateIPs routes every request, redirect and dial through the SSRF guard.
	// Default: true
	DenyPrivateIPs bool `yaml:"denyPrivateIPs"`

	// UserAgent is sent with every feed request.
	UserAgent string `yaml:"userAgent"`
}

// DefaultConfig returns a FeedFetchConfig with production defaults.
func DefaultConfig() FeedFetchConfig {
	return FeedFetchConfig{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   10,
		DenyPrivateIPs: true,
		UserAgent:      "CatchUpNewsBot/1.0",
	}
}

// Validate checks that all configuration values are within acceptable ranges.
func (c *FeedFetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 20 {
		return fmt.Errorf("max redirects must be between 0 and 20, got %d", c.MaxRedirects)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}

	return nil
}

// LoadConfigFromEnv overlays FEED_* environment variables on base.
// Unparseable values are reported as errors rather than silently defaulted.
//
// Environment variables:
//   - FEED_FETCH_TIMEOUT: duration, e.g. "8s"
//   - FEED_MAX_BODY_SIZE: bytes
//   - FEED_MAX_REDIRECTS: integer
//   - FEED_DENY_PRIVATE_IPS: "true" or "false"
//   - FEED_USER_AGENT: string
func LoadConfigFromEnv(base FeedFetchConfig) (FeedFetchConfig, error) {
	cfg := base

	if val := os.Getenv("FEED_FETCH_TIMEOUT"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			cfg.Timeout = parsed
		} else {
			return cfg, fmt.Errorf("invalid FEED_FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
	}

	if val := os.Getenv("FEED_MAX_BODY_SIZE"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.MaxBodySize = parsed
		} else {
			return cfg, fmt.Errorf("invalid FEED_MAX_BODY_SIZE: %v", err)
		}
	}

	if val := os.Getenv("FEED_MAX_REDIRECTS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			cfg.MaxRedirects = parsed
		} else {
			return cfg, fmt.Errorf("invalid FEED_MAX_REDIRECTS: %v", err)
		}
	}

	if val := os.Getenv("FEED_DENY_PRIVATE_IPS"); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FEED_DENY_PRIVATE_IPS: %v", err)
		}
		cfg.DenyPrivateIPs = parsed
	}

	if val := os.Getenv("FEED_USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
