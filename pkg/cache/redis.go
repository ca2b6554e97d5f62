package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldValue = "v"
	fieldTS    = "ts"
)

// Redis stores each key as a hash holding the value and its write time in
// Unix nanoseconds.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis wraps an existing client. Keys are stored under prefix.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// ConnectRedis dials url, pinging up to attempts times with interval between
// tries, and gives up once timeout elapses.
func ConnectRedis(ctx context.Context, url string, attempts int, interval, timeout time.Duration) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	for range max(attempts, 1) {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(interval):
		}
	}
	return nil, ErrRedisNotReady
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.client.HGet(ctx, c.prefix+key, fieldValue).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return v, err
}

func (c *Redis) GetByFile(ctx context.Context, key, path string) ([]byte, error) {
	vals, err := c.client.HMGet(ctx, c.prefix+key, fieldValue, fieldTS).Result()
	if err != nil {
		return nil, err
	}
	value, ok := vals[0].(string)
	if !ok {
		return nil, ErrCacheMiss
	}
	ts, err := parseTS(vals[1])
	if err != nil {
		return nil, err
	}
	if err := staleFor(ts, path); err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (c *Redis) Timestamp(ctx context.Context, key string) (time.Time, error) {
	v, err := c.client.HGet(ctx, c.prefix+key, fieldTS).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, ErrCacheMiss
	}
	if err != nil {
		return time.Time{}, err
	}
	return parseTS(v)
}

func (c *Redis) Set(ctx context.Context, key string, value []byte, exp time.Duration) error {
	k := c.prefix + key
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, fieldValue, value, fieldTS, time.Now().UnixNano())
		if exp > 0 {
			pipe.Expire(ctx, k, exp)
		} else {
			pipe.Persist(ctx, k)
		}
		return nil
	})
	return err
}

// Healthcheck pings the server.
func (c *Redis) Healthcheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

func (c *Redis) Close() error {
	return c.client.Close()
}

func parseTS(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, ErrCacheMiss
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, errors.Join(ErrCacheMiss, err)
	}
	return time.Unix(0, n), nil
}
