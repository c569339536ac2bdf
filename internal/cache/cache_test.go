package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis-backed cache
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, New(rdb, time.Minute)
}

func TestSetGetDelete(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	var got map[string]int
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, got["a"])

	require.NoError(t, c.Delete(ctx, "k"))
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeletePrefix(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "catalog:products:page=1", 1))
	require.NoError(t, c.Set(ctx, "catalog:products:page=2", 2))
	require.NoError(t, c.Set(ctx, "catalog:banners", 3))

	require.NoError(t, c.DeletePrefix(ctx, "catalog:products:"))
	assert.False(t, mr.Exists("catalog:products:page=1"))
	assert.False(t, mr.Exists("catalog:products:page=2"))
	assert.True(t, mr.Exists("catalog:banners"))
}

func TestRememberLoadsOnce(t *testing.T) {
	_, c := setupTestRedis(t)
	ctx := context.Background()

	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"x"}, nil
	}
	for i := 0; i < 3; i++ {
		got, err := Remember(ctx, c, "list", load)
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, got)
	}
	assert.Equal(t, 1, calls)
}

func TestRememberPropagatesLoadError(t *testing.T) {
	mr, c := setupTestRedis(t)
	boom := errors.New("boom")

	_, err := Remember(context.Background(), c, "k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestRememberFallsThroughWhenRedisIsDown(t *testing.T) {
	mr, c := setupTestRedis(t)
	mr.Close()

	got, err := Remember(context.Background(), c, "k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestNilCache(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", 1))
	found, err := c.Get(ctx, "k", new(int))
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, c.DeletePrefix(ctx, "k"))
}
