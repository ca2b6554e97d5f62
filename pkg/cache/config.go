package cache

import (
	"context"
	"fmt"
	"time"
)

// Driver names accepted by Config.Driver.
const (
	DriverVoid   = "void"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

type Config struct {
	// Driver selects the variant: void, memory or redis.
	Driver         string        `env:"CACHE_DRIVER" envDefault:"void"`
	// TTL is the lifetime callers should use for entries.
	TTL            time.Duration `env:"CACHE_TTL" envDefault:"1m"`
	// Capacity bounds the memory variant.
	Capacity       int           `env:"CACHE_CAPACITY" envDefault:"1024"`
	// RedisURL in the format "redis://:password@localhost:6379/0".
	RedisURL       string        `env:"CACHE_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	// RedisPrefix is prepended to every key.
	RedisPrefix    string        `env:"CACHE_REDIS_PREFIX" envDefault:"searchkit:"`
	// RetryAttempts is the number of attempts to reach redis.
	RetryAttempts  int           `env:"CACHE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	// RetryInterval is the delay between attempts.
	RetryInterval  time.Duration `env:"CACHE_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	// ConnectTimeout bounds the whole connection phase.
	ConnectTimeout time.Duration `env:"CACHE_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// New builds the variant named by cfg.Driver. An empty driver means void.
func New(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Driver {
	case "", DriverVoid:
		return Void{}, nil
	case DriverMemory:
		return NewMemory(cfg.Capacity)
	case DriverRedis:
		client, err := ConnectRedis(ctx, cfg.RedisURL, cfg.RetryAttempts, cfg.RetryInterval, cfg.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		return NewRedis(client, cfg.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
