package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewWithClient(client, 5*time.Minute)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "rfm:all", payload{Name: "Champions", Score: 4.5})

	var got payload
	require.True(t, c.Get(ctx, "rfm:all", &got))
	assert.Equal(t, "Champions", got.Name)
	assert.Equal(t, 4.5, got.Score)
}

func TestCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	var got payload
	assert.False(t, c.Get(context.Background(), "missing", &got))
}

func TestCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", payload{Name: "x"})
	mr.FastForward(10 * time.Minute)

	var got payload
	assert.False(t, c.Get(ctx, "k", &got))
}

func TestCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "analytics:rfm", payload{Name: "a"})
	c.Set(ctx, "analytics:trends", payload{Name: "b"})
	c.Set(ctx, "other:key", payload{Name: "c"})

	c.Invalidate(ctx, "analytics:*")

	var got payload
	assert.False(t, c.Get(ctx, "analytics:rfm", &got))
	assert.False(t, c.Get(ctx, "analytics:trends", &got))
	assert.True(t, c.Get(ctx, "other:key", &got))
}

func TestCache_NilSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	c.Set(ctx, "k", payload{})
	var got payload
	assert.False(t, c.Get(ctx, "k", &got))
	c.Invalidate(ctx, "*")
	assert.NoError(t, c.Close())
}

func TestCache_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewWithClient(client, time.Minute)
	mr.Close()

	var got payload
	assert.False(t, c.Get(context.Background(), "k", &got))
	c.Set(context.Background(), "k", payload{})
}
