package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = RedisClient.Close()
		RedisClient = nil
	})
}

func TestNextChatSeqIsMonotonic(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	first, err := NextChatSeq(ctx, "appointment:AP-000001")
	require.NoError(t, err)
	second, err := NextChatSeq(ctx, "appointment:AP-000001")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)

	// Each chat keeps its own counter.
	other, err := NextChatSeq(ctx, "appointment:AP-000002")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)
}

func TestLockIsExclusivePerKey(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	ok, err := NewLock(ctx, "slot_lock:DR-000001_1700000000", "owner-a", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewLock(ctx, "slot_lock:DR-000001_1700000000", "owner-b", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	// Only the holder can release.
	err = ReleaseLock(ctx, "slot_lock:DR-000001_1700000000", "owner-b")
	assert.Error(t, err)
	err = ReleaseLock(ctx, "slot_lock:DR-000001_1700000000", "owner-a")
	require.NoError(t, err)

	ok, err = NewLock(ctx, "slot_lock:DR-000001_1700000000", "owner-b", 0)
	require.NoError(t, err)
	assert.True(t, ok)
}
