package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireInitiationLock attempts to acquire the payment-initiation lock for
// a booking. Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireInitiationLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:payment:init:%s", bookingID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseInitiationLock releases the payment-initiation lock for a booking.
func (s *LockStore) ReleaseInitiationLock(ctx context.Context, bookingID string) error {
	key := fmt.Sprintf("lock:payment:init:%s", bookingID)

	return s.client.Del(ctx, key).Err()
}
