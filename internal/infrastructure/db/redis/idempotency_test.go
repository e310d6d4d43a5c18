package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, ttl), mr
}

func TestParseEntry(t *testing.T) {
	id, claimed, err := parseEntry("pending")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Zero(t, id)

	id, claimed, err = parseEntry("42")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, int64(42), id)

	_, _, err = parseEntry("garbage")
	assert.Error(t, err)
}

func TestIdempotencyStore_KeyAndDefaults(t *testing.T) {
	s := NewIdempotencyStore(nil, 0)
	assert.Equal(t, defaultIdempotencyTTL, s.ttl)
	assert.Equal(t, "idempotency:orders:7:abc", s.key("7", "abc"))
	assert.Equal(t, time.Minute, NewIdempotencyStore(nil, time.Minute).ttl)
}

func TestIdempotencyStore_ClaimLifecycle(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, time.Hour)

	id, claimed, err := s.Claim(ctx, "1", "k")
	require.NoError(t, err)
	assert.True(t, claimed, "first claim wins")
	assert.Zero(t, id)

	got, err := mr.Get("idempotency:orders:1:k")
	require.NoError(t, err)
	assert.Equal(t, pendingMarker, got)
	assert.Equal(t, time.Hour, mr.TTL("idempotency:orders:1:k"))

	id, claimed, err = s.Claim(ctx, "1", "k")
	require.NoError(t, err)
	assert.False(t, claimed, "key is held while the first request runs")
	assert.Zero(t, id)

	require.NoError(t, s.Complete(ctx, "1", "k", 7))
	id, claimed, err = s.Claim(ctx, "1", "k")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, int64(7), id, "completed key replays the order id")

	require.NoError(t, s.Release(ctx, "1", "k"))
	id, claimed, err = s.Claim(ctx, "1", "k")
	require.NoError(t, err)
	assert.True(t, claimed, "released key can be claimed again")
	assert.Zero(t, id)
}

func TestIdempotencyStore_ScopesAreIndependent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, time.Hour)

	_, claimed, err := s.Claim(ctx, "1", "same-key")
	require.NoError(t, err)
	require.True(t, claimed)

	_, claimed, err = s.Claim(ctx, "2", "same-key")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestIdempotencyStore_ClaimExpires(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, time.Minute)

	require.NoError(t, s.Complete(ctx, "1", "k", 3))
	mr.FastForward(2 * time.Minute)

	_, claimed, err := s.Claim(ctx, "1", "k")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestIdempotencyStore_CorruptEntry(t *testing.T) {
	s, mr := newTestStore(t, time.Hour)
	require.NoError(t, mr.Set("idempotency:orders:1:k", "not-a-number"))

	_, _, err := s.Claim(context.Background(), "1", "k")
	assert.Error(t, err)
}

func TestIdempotencyStore_ServerDown(t *testing.T) {
	s, mr := newTestStore(t, time.Hour)
	mr.Close()

	_, _, err := s.Claim(context.Background(), "1", "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idempotency claim")
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := Connect(context.Background(), Config{Addr: addr, Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = Connect(context.Background(), Config{})
	assert.Error(t, err)

	mr.Close()
	_, err = Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
