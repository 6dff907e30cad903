package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheWithClient(client)
}

func TestSetGetDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	val, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.Equal(t, redis.Nil, err)
}

func TestJSONRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Code string  `json:"code"`
		Fees float64 `json:"fees"`
	}

	require.NoError(t, c.SetJSON(ctx, "appointment_cache:APT-1", payload{Code: "APT-1", Fees: 500}, time.Minute))

	var got payload
	found, err := c.GetJSON(ctx, "appointment_cache:APT-1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "APT-1", got.Code)
	assert.Equal(t, 500.0, got.Fees)

	found, err = c.GetJSON(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteAllByPattern(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "slots_cache:D1_2025-06-10", "a", time.Minute))
	require.NoError(t, c.Set(ctx, "slots_cache:D1_2025-06-11", "b", time.Minute))
	require.NoError(t, c.Set(ctx, "other", "c", time.Minute))

	require.NoError(t, c.DeleteAll(ctx, "slots_cache:*"))

	_, err := c.Get(ctx, "slots_cache:D1_2025-06-10")
	assert.Equal(t, redis.Nil, err)
	val, err := c.Get(ctx, "other")
	assert.NoError(t, err)
	assert.Equal(t, "c", val)
}
