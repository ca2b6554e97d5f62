package cache

import (
	"context"
	"errors"
	"os"
	"time"
)

var (
	ErrCacheMiss         = errors.New("cache miss")
	ErrUnknownDriver     = errors.New("unknown cache driver")
	ErrInvalidCapacity   = errors.New("cache capacity must be positive")
	ErrFailedToParseURL  = errors.New("failed to parse redis connection string")
	ErrRedisNotReady     = errors.New("redis did not become ready within the given time period")
	ErrHealthcheckFailed = errors.New("cache healthcheck failed")
)

// Cache stores opaque values under string keys. Every variant reports a
// missing or expired key as ErrCacheMiss.
type Cache interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	// GetByFile returns the value stored under key only when it was written
	// after the last modification of the file at path.
	GetByFile(ctx context.Context, key, path string) ([]byte, error)
	// Timestamp returns when key was last written.
	Timestamp(ctx context.Context, key string) (time.Time, error)
	// Set stores value under key. A zero or negative exp keeps it until evicted.
	Set(ctx context.Context, key string, value []byte, exp time.Duration) error
}

// staleFor reports whether a value written at ts predates the file at path.
// A file that cannot be stat'ed makes the value unusable.
func staleFor(ts time.Time, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Join(ErrCacheMiss, err)
	}
	if ts.Before(info.ModTime()) {
		return ErrCacheMiss
	}
	return nil
}
