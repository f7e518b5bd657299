// Package config assembles the process configuration for the news API.
//
// Values are layered: built-in defaults, then an optional YAML file named by
// CONFIG_FILE, then individual environment variables. The merged result is
// validated once at startup.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"catchup-news/internal/common/pagination"
	"catchup-news/internal/handler/http/middleware"
	"catchup-news/internal/infra/fetcher"
	"catchup-news/internal/infra/imagerelay"
	"catchup-news/pkg/config"
)

// Config is the full API process configuration.
type Config struct {
	HTTPAddr    string `yaml:"httpAddr"`
	CatalogFile string `yaml:"catalogFile"`
	Version     string `yaml:"version"`
	LogLevel    string `yaml:"logLevel"`

	// TrustedProxies are IPs or CIDRs whose X-Forwarded-For is believed
	// when keying the image relay rate limit. Empty means use the peer address.
	TrustedProxies []string `yaml:"trustedProxies"`

	Tracing        TracingConfig           `yaml:"tracing"`
	Fetch          fetcher.FeedFetchConfig `yaml:"fetch"`
	ImageRelay     imagerelay.Config       `yaml:"imageRelay"`
	ImageRateLimit RateLimitConfig         `yaml:"imageRateLimit"`
	Pagination     pagination.Config       `yaml:"pagination"`
}

// TracingConfig controls the OpenTelemetry SDK.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	SampleRatio float64 `yaml:"sampleRatio"`
}

// RateLimitConfig is a per-client token bucket.
type RateLimitConfig struct {
	// RequestsPerSecond is the refill rate. Default: 10
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	// Burst is the bucket size. Default: 20
	Burst int `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTPAddr:    ":8080",
		CatalogFile: "configs/sources.yaml",
		Version:     "dev",
		LogLevel:    "info",
		Tracing: TracingConfig{
			SampleRatio: 1,
		},
		Fetch:      fetcher.DefaultConfig(),
		ImageRelay: imagerelay.DefaultConfig(),
		ImageRateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Pagination: pagination.DefaultConfig(),
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if any) and the environment.
func Load() (Config, error) {
	return LoadFile(config.GetEnvString("CONFIG_FILE", ""))
}

// LoadFile is Load with an explicit file path. An empty path skips the file layer.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg, err := applyEnv(cfg)
	if err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	// #nosec G304 -- path comes from the operator (CONFIG_FILE), not from requests
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg Config) (Config, error) {
	cfg.HTTPAddr = config.GetEnvString("HTTP_ADDR", cfg.HTTPAddr)
	cfg.CatalogFile = config.GetEnvString("CATALOG_FILE", cfg.CatalogFile)
	cfg.Version = config.GetEnvString("VERSION", cfg.Version)
	cfg.LogLevel = config.GetEnvString("LOG_LEVEL", cfg.LogLevel)
	cfg.TrustedProxies = config.GetEnvStringList("TRUSTED_PROXIES", cfg.TrustedProxies)
	cfg.Tracing.Enabled = config.GetEnvBool("TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.SampleRatio = config.GetEnvFloat("TRACING_SAMPLE_RATIO", cfg.Tracing.SampleRatio)

	fetch, err := fetcher.LoadConfigFromEnv(cfg.Fetch)
	if err != nil {
		return cfg, err
	}
	cfg.Fetch = fetch

	cfg.ImageRelay = imagerelay.LoadFromEnv(cfg.ImageRelay)
	cfg.ImageRateLimit.RequestsPerSecond = config.GetEnvFloat("IMAGE_RELAY_RATE_LIMIT", cfg.ImageRateLimit.RequestsPerSecond)
	cfg.ImageRateLimit.Burst = config.GetEnvInt("IMAGE_RELAY_RATE_BURST", cfg.ImageRateLimit.Burst)
	cfg.Pagination = pagination.LoadFromEnv(cfg.Pagination)
	return cfg, nil
}

// Validate checks every section and reports the first problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("http address must not be empty")
	}
	if strings.TrimSpace(c.CatalogFile) == "" {
		return errors.New("catalog file must not be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if _, err := middleware.ParseTrustedProxies(c.TrustedProxies); err != nil {
		return err
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample ratio must be between 0 and 1, got %v", c.Tracing.SampleRatio)
	}
	if err := c.Fetch.Validate(); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if err := c.ImageRelay.Validate(); err != nil {
		return fmt.Errorf("image relay: %w", err)
	}
	if err := config.ValidatePositiveFloat(c.ImageRateLimit.RequestsPerSecond); err != nil {
		return fmt.Errorf("image rate limit: %w", err)
	}
	if err := config.ValidateIntRange(c.ImageRateLimit.Burst, 1, 1000); err != nil {
		return fmt.Errorf("image rate burst: %w", err)
	}
	if err := c.Pagination.Validate(); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}
