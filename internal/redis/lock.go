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

// AcquireDonationLock attempts to acquire the matching lock for a donation.
// At most one match attempt may run per donation at a time.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireDonationLock(ctx context.Context, donationID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:donation:%s", donationID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseDonationLock releases the matching lock for a donation.
func (s *LockStore) ReleaseDonationLock(ctx context.Context, donationID string) error {
	key := fmt.Sprintf("lock:donation:%s", donationID)

	return s.client.Del(ctx, key).Err()
}

// AcquireDonorLock attempts to acquire the incentive-update lock for a donor.
// The lock serializes the read-modify-write cycle on points and badges.
func (s *LockStore) AcquireDonorLock(ctx context.Context, donorID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:donor:%s", donorID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseDonorLock releases the incentive-update lock for a donor.
func (s *LockStore) ReleaseDonorLock(ctx context.Context, donorID string) error {
	key := fmt.Sprintf("lock:donor:%s", donorID)

	return s.client.Del(ctx, key).Err()
}
