package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/envios-ar/shipping-tracker/internal/core/ports"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour

	// pendingTTL bounds how long a crashed owner can hold a key.
	pendingTTL = 30 * time.Second

	// pendingValue marks a reservation whose create has not finished.
	// Tracking codes always start with ENV, so it cannot collide.
	pendingValue = "pending"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// releaseScript deletes the key only while it still holds the pending marker,
// so a late Release cannot drop a completed record.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// IdempotencyStore maps client Idempotency-Keys to the tracking code their
// first create produced.
// Key format: idempotency:shipment:<key>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. A non-positive ttl uses the 24h default.
func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key with SETNX. A losing caller gets the recorded code, or
// "" while the owner is still creating.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	k := s.key(key)
	// Two rounds cover a reservation that expires between SETNX and GET.
	for range 2 {
		ok, err := s.client.SetNX(ctx, k, pendingValue, pendingTTL).Result()
		if err != nil {
			return "", false, fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return "", true, nil
		}

		code, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("idempotency reserve: %w", err)
		}
		if code == pendingValue {
			return "", false, nil
		}
		return code, false, nil
	}
	return "", false, nil
}

// Complete replaces the reservation with code for the full ttl.
func (s *IdempotencyStore) Complete(ctx context.Context, key, code string) error {
	if err := s.client.Set(ctx, s.key(key), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a pending reservation. Completed records are left alone.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.key(key)}, pendingValue).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idempotency:shipment:" + key
}
