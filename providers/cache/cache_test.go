package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroclima.app/config"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := NewMemoryCache()
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "geo:Ribeirão Preto:SP", []byte(`{"latitude":-21.17,"longitude":-47.81}`), time.Minute)

	val, ok := c.Get(ctx, "geo:Ribeirão Preto:SP")
	require.True(t, ok)
	assert.JSONEq(t, `{"latitude":-21.17,"longitude":-47.81}`, string(val))
}

func TestMemoryCache_MissAndExpiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Stop()
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "short", []byte("v"), -time.Second)
	_, ok = c.Get(ctx, "short")
	assert.False(t, ok)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "key", []byte("v"), time.Minute)
	c.Delete(ctx, "key")

	_, ok := c.Get(ctx, "key")
	assert.False(t, ok)
}

func TestMemoryCache_NilValueIgnored(t *testing.T) {
	c := NewMemoryCache()
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "key", nil, time.Minute)

	_, ok := c.Get(ctx, "key")
	assert.False(t, ok)
}

func TestRedisCache_SetAndGet(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(&RedisCacheConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	c.Set(ctx, "geo:Uberaba:MG", []byte(`{"latitude":-19.75,"longitude":-47.93}`), time.Minute)

	val, ok := c.Get(ctx, "geo:Uberaba:MG")
	require.True(t, ok)
	assert.JSONEq(t, `{"latitude":-19.75,"longitude":-47.93}`, string(val))
}

func TestRedisCache_Miss(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(&RedisCacheConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, ok := c.Get(context.Background(), "missing")
	assert.False(t, ok)
}

func TestRedisCache_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(&RedisCacheConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	c.Set(ctx, "key", []byte("v"), time.Minute)
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "key")
	assert.False(t, ok)
}

func TestRedisCache_ConnectionFailure(t *testing.T) {
	_, err := NewRedisCache(&RedisCacheConfig{Addr: "localhost:1"})
	assert.Error(t, err)
}

func TestNew_Factory(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		c, err := New(&config.CacheConfig{Type: "memory", TTLMinutes: 60})
		require.NoError(t, err)
		_, ok := c.(*MemoryCache)
		assert.True(t, ok)
	})

	t.Run("None", func(t *testing.T) {
		c, err := New(&config.CacheConfig{Type: "none", TTLMinutes: 60})
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c, err := New(&config.CacheConfig{Type: "redis", RedisAddr: mr.Addr(), TTLMinutes: 60})
		require.NoError(t, err)
		_, ok := c.(*RedisCache)
		assert.True(t, ok)
	})
}
