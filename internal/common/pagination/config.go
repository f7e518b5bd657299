// Package pagination provides page/limit parsing, offset windows and
// pagination metrics shared by the list endpoints.
package pagination

import (
	"fmt"

	"catchup-news/pkg/config"
)

// Config holds pagination configuration settings.
// These values can be loaded from environment variables or config files.
type Config struct {
	DefaultPage  int `yaml:"defaultPage"`  // Default page number (typically 1)
	DefaultLimit int `yaml:"defaultLimit"` // Default items per page (typically 20)
	MaxLimit     int `yaml:"maxLimit"`     // Maximum allowed items per page (hard ceiling 100)
}

// HardMaxLimit is the ceiling no configuration may raise.
const HardMaxLimit = 100

// DefaultConfig returns the default pagination configuration.
// Default values: page=1, limit=20, max=100
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     HardMaxLimit,
	}
}

// LoadFromEnv overlays environment variables on top of base.
// Supported environment variables:
//   - PAGINATION_DEFAULT_PAGE: Default page number
//   - PAGINATION_DEFAULT_LIMIT: Default items per page
//   - PAGINATION_MAX_LIMIT: Maximum items per page
func LoadFromEnv(base Config) Config {
	return Config{
		DefaultPage:  config.GetEnvInt("PAGINATION_DEFAULT_PAGE", base.DefaultPage),
		DefaultLimit: config.GetEnvInt("PAGINATION_DEFAULT_LIMIT", base.DefaultLimit),
		MaxLimit:     config.GetEnvInt("PAGINATION_MAX_LIMIT", base.MaxLimit),
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.DefaultPage < 1 {
		return fmt.Errorf("default page must be a positive integer, got %d", c.DefaultPage)
	}
	if c.MaxLimit < 1 || c.MaxLimit > HardMaxLimit {
		return fmt.Errorf("max limit must be between 1 and %d, got %d", HardMaxLimit, c.MaxLimit)
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("default limit must be between 1 and %d, got %d", c.MaxLimit, c.DefaultLimit)
	}
	return nil
}
