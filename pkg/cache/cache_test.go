package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/cache"
)

func TestVoid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var c cache.Cache = cache.Void{}

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = c.GetByFile(ctx, "k", "/does/not/matter")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	ts, err := c.Timestamp(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	assert.True(t, ts.IsZero())
}

type clock struct{ now time.Time }

func newClock(t time.Time) *clock        { return &clock{now: t} }
func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newMemory(t *testing.T, n int) *cache.Memory {
	t.Helper()
	c, err := cache.NewMemory(n)
	require.NoError(t, err)
	return c
}

func TestMemory_Basic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c := newMemory(t, 3)
		require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))

		v, err := c.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), v)
	})

	t.Run("miss", func(t *testing.T) {
		c := newMemory(t, 3)
		_, err := c.Get(ctx, "missing")
		assert.ErrorIs(t, err, cache.ErrCacheMiss)
	})

	t.Run("overwrite keeps one entry", func(t *testing.T) {
		c := newMemory(t, 3)
		require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
		require.NoError(t, c.Set(ctx, "a", []byte("2"), 0))

		v, err := c.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), v)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("stored value is a copy", func(t *testing.T) {
		c := newMemory(t, 3)
		buf := []byte("abc")
		require.NoError(t, c.Set(ctx, "a", buf, 0))
		buf[0] = 'x'

		v, err := c.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), v)
	})

	t.Run("clear", func(t *testing.T) {
		c := newMemory(t, 3)
		require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
		c.Clear()
		assert.Zero(t, c.Len())
	})
}

func TestMemory_InvalidCapacity(t *testing.T) {
	t.Parallel()
	_, err := cache.NewMemory(0)
	assert.ErrorIs(t, err, cache.ErrInvalidCapacity)
}

func TestMemory_Eviction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newMemory(t, 3)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))

	// touching "a" makes "b" the least recently used
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "d", []byte("4"), 0))

	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	for _, k := range []string{"a", "c", "d"} {
		_, err := c.Get(ctx, k)
		assert.NoError(t, err, k)
	}
	assert.Equal(t, 3, c.Len())
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := newClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	c := newMemory(t, 3)
	c.SetClock(clk.Now)

	require.NoError(t, c.Set(ctx, "short", []byte("1"), time.Second))
	require.NoError(t, c.Set(ctx, "forever", []byte("2"), 0))

	ts, err := c.Timestamp(ctx, "short")
	require.NoError(t, err)
	assert.Equal(t, clk.Now(), ts)

	clk.Advance(time.Second)

	_, err = c.Get(ctx, "short")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = c.Timestamp(ctx, "short")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestMemory_GetByFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cores.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cores: {}"), 0o600))
	modified := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, modified, modified))

	clk := newClock(modified.Add(-time.Hour))
	c := newMemory(t, 3)
	c.SetClock(clk.Now)

	require.NoError(t, c.Set(ctx, "old", []byte("1"), 0))
	clk.Advance(2 * time.Hour)
	require.NoError(t, c.Set(ctx, "fresh", []byte("2"), 0))

	_, err := c.GetByFile(ctx, "old", path)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	v, err := c.GetByFile(ctx, "fresh", path)
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)

	_, err = c.GetByFile(ctx, "fresh", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	_, err = c.GetByFile(ctx, "missing", path)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestNew(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, err := cache.New(ctx, cache.Config{})
	require.NoError(t, err)
	assert.IsType(t, cache.Void{}, c)

	c, err = cache.New(ctx, cache.Config{Driver: cache.DriverMemory, Capacity: 4})
	require.NoError(t, err)
	assert.IsType(t, &cache.Memory{}, c)

	_, err = cache.New(ctx, cache.Config{Driver: cache.DriverMemory})
	assert.ErrorIs(t, err, cache.ErrInvalidCapacity)

	_, err = cache.New(ctx, cache.Config{Driver: "memcached"})
	assert.ErrorIs(t, err, cache.ErrUnknownDriver)

	_, err = cache.New(ctx, cache.Config{Driver: cache.DriverRedis, RedisURL: "://bad", ConnectTimeout: time.Second})
	assert.ErrorIs(t, err, cache.ErrFailedToParseURL)
}
