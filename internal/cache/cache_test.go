package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := ProductKey("cache-test")

	var got item
	ok, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, item{Name: "tv", Price: 100}, time.Minute))
	ok, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, item{Name: "tv", Price: 100}, got)

	require.NoError(t, c.Delete(ctx, key))
	ok, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	t.Parallel()
	exercise(t, NewMemory())
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var v int
	ok, err := m.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, m.Len())
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}

	c, err := NewRedis(context.Background(), RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer c.Close()

	exercise(t, c)
}
