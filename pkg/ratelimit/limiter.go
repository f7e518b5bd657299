// Package ratelimit provides an in-memory, per-key token bucket limiter.
//
// Each key (usually a client IP) gets its own golang.org/x/time/rate
// limiter. Idle keys are swept lazily while serving requests, so the
// limiter needs no background goroutine.
package ratelimit

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Clock provides an abstraction for time operations to enable testing.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock implementation that uses the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Config configures a KeyedLimiter.
type Config struct {
	// Name labels metrics, e.g. "image_relay".
	Name string
	// RequestsPerSecond is the refill rate of every bucket.
	RequestsPerSecond float64
	// Burst is the bucket size.
	Burst int
	// IdleTTL is how long an untouched key is kept. Default: 5m
	IdleTTL time.Duration
	// MaxKeys caps the number of tracked keys; the least recently seen key is
	// evicted when a new one would exceed it. Default: 10000
	MaxKeys int
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.RequestsPerSecond <= 0 || math.IsInf(c.RequestsPerSecond, 0) || math.IsNaN(c.RequestsPerSecond) {
		return fmt.Errorf("requests per second must be a positive number, got %v", c.RequestsPerSecond)
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1, got %d", c.Burst)
	}
	if c.IdleTTL < 0 {
		return errors.New("idle ttl cannot be negative")
	}
	if c.MaxKeys < 0 {
		return errors.New("max keys cannot be negative")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.IdleTTL == 0 {
		c.IdleTTL = 5 * time.Minute
	}
	if c.MaxKeys == 0 {
		c.MaxKeys = 10000
	}
	return c
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter is safe for concurrent use.
type KeyedLimiter struct {
	config  Config
	clock   Clock
	metrics Metrics

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// New creates a KeyedLimiter. A nil clock means SystemClock and nil metrics
// means NoOpMetrics.
func New(config Config, clock Clock, metrics Metrics) (*KeyedLimiter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate limit config: %w", err)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if metrics == nil {
		metrics = NoOpMetrics{}
	}
	return &KeyedLimiter{
		config:    config.withDefaults(),
		clock:     clock,
		metrics:   metrics,
		buckets:   make(map[string]*bucket),
		lastSweep: clock.Now(),
	}, nil
}

// Allow takes one token from key's bucket.
func (l *KeyedLimiter) Allow(key string) Decision {
	now := l.clock.Now()

	l.mu.Lock()
	l.maybeSweep(now)
	b, ok := l.buckets[key]
	if !ok {
		l.evictIfFull()
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)
	var retryAfter time.Duration
	if !allowed {
		missing := 1 - b.limiter.TokensAt(now)
		retryAfter = time.Duration(missing / l.config.RequestsPerSecond * float64(time.Second))
	}
	active := len(l.buckets)
	l.mu.Unlock()

	l.metrics.SetActiveKeys(l.config.Name, active)
	if !allowed {
		l.metrics.RecordDenied(l.config.Name)
		return Decision{Key: key, Allowed: false, Limit: l.config.Burst, RetryAfter: retryAfter}
	}
	l.metrics.RecordAllowed(l.config.Name)
	return Decision{Key: key, Allowed: true, Limit: l.config.Burst}
}

// Len returns the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// maybeSweep drops idle keys at most once per IdleTTL. Callers hold mu.
func (l *KeyedLimiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.config.IdleTTL {
		return
	}
	l.lastSweep = now
	removed := 0
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.config.IdleTTL {
			delete(l.buckets, key)
			removed++
		}
	}
	if removed > 0 {
		l.metrics.RecordEviction(l.config.Name, removed)
	}
}

// evictIfFull makes room for one more key. Callers hold mu.
func (l *KeyedLimiter) evictIfFull() {
	if len(l.buckets) < l.config.MaxKeys {
		return
	}
	var oldestKey string
	var oldest time.Time
	for key, b := range l.buckets {
		if oldestKey == "" || b.lastSeen.Before(oldest) {
			oldestKey, oldest = key, b.lastSeen
		}
	}
	delete(l.buckets, oldestKey)
	l.metrics.RecordEviction(l.config.Name, 1)
}
