package cache

import (
	"context"
	"time"
)

// Cache provides a generic caching interface with TTL support
type Cache interface {
	// Get retrieves a value by key
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with optional TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists
	Exists(ctx context.Context, key string) (bool, error)

	// GetJSON retrieves and unmarshals JSON data
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// SetJSON marshals and stores JSON data
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// RateLimiter provides sliding window rate limiting shared across API replicas
type RateLimiter interface {
	// Allow checks if a request is allowed under the rate limit
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Remaining returns how many requests are remaining in the current window
	Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)

	// Reset clears the rate limit counter for a key
	Reset(ctx context.Context, key string) error
}

// ReportCache keeps downloaded area code reports so repeated cross-check runs
// do not hit the publishers.
type ReportCache interface {
	// GetReport returns the cached body for url, with ok false on a miss
	GetReport(ctx context.Context, url string) (body []byte, ok bool, err error)

	// PutReport stores body for url
	PutReport(ctx context.Context, url string, body []byte, ttl time.Duration) error
}

// Key prefixes for consistent cache key naming
const (
	ReportPrefix     = "nanp:report:"
	RateLimitPrefix  = "nanp:ratelimit:"
	CrossCheckPrefix = "nanp:crosscheck:"
)

// Common TTL values
const (
	ReportTTL     = 12 * time.Hour
	RateLimitTTL  = 1 * time.Minute
	LastResultTTL = 7 * 24 * time.Hour
)

// ErrCacheKeyNotFound is returned when a cache key doesn't exist
type ErrCacheKeyNotFound struct {
	Key string
}

func (e ErrCacheKeyNotFound) Error() string {
	return "cache key not found: " + e.Key
}
