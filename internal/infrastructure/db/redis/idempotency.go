package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	pendingMarker         = "pending"
)

// IdempotencyStore remembers which order an Idempotency-Key produced.
// Key format: idempotency:orders:<scope>:<key>, value is "pending" until the
// order is stored, then the order ID.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client; entries expire after ttl.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim atomically reserves the key. If someone else holds it, the recorded
// order ID is returned, or 0 while that request is still running.
func (s *IdempotencyStore) Claim(ctx context.Context, scope, key string) (int64, bool, error) {
	k := s.key(scope, key)
	ok, err := s.client.SetNX(ctx, k, pendingMarker, s.ttl).Result()
	if err != nil {
		return 0, false, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return 0, true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// Expired or released between SETNX and GET.
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return parseEntry(val)
}

// Complete records the order created under the key.
func (s *IdempotencyStore) Complete(ctx context.Context, scope, key string, orderID int64) error {
	return s.client.Set(ctx, s.key(scope, key), strconv.FormatInt(orderID, 10), s.ttl).Err()
}

// Release drops a claim whose request failed so the client may retry.
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	return s.client.Del(ctx, s.key(scope, key)).Err()
}

func (s *IdempotencyStore) key(scope, key string) string {
	return fmt.Sprintf("idempotency:orders:%s:%s", scope, key)
}

func parseEntry(val string) (int64, bool, error) {
	if val == pendingMarker {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency entry %q: %w", val, err)
	}
	return id, false, nil
}
