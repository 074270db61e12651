// Package redis implements the idempotency store on Redis. A key holds
// either the "processing" placeholder while a transfer is in flight or the
// committed transfer id once it finishes; both expire with the same TTL.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ledgercore:idem:"

// placeholder marks a key claimed by an in-flight request.
const placeholder = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// CheckAndSet atomically claims the key if it is fresh. It returns
// (true, storedValue) when the key was already claimed; the value is empty
// while the original request is still in flight.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := keyPrefix + key

	value := []byte(placeholder)
	if response != nil {
		value = response
	}

	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}

	if set {
		return false, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		// Expired between SetNX and Get. Report the key as claimed with
		// no recorded result; a later attempt finds the key gone.
		if err == redis.Nil {
			return true, nil, nil
		}

		return false, nil, err
	}

	if string(existing) == placeholder {
		return true, nil, nil
	}

	return true, existing, nil
}

// Update records the final result under an already-claimed key.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+key, response, ttl).Err()
}
