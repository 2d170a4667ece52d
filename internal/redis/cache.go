package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	RecipientPoolCacheTTL = 30 * time.Second // Profiles change on recipient updates
	LeaderboardCacheTTL   = 30 * time.Second // Points change on every award
)

// Cache keys
const (
	recipientPoolCacheKey = "cache:recipient_pool"
	leaderboardCacheKey   = "cache:leaderboard"
)

// CachedProfile is the cached shape of a recipient matching profile.
type CachedProfile struct {
	UserID          string       `json:"user_id"`
	FoodPreferences []string     `json:"food_preferences"`
	Capacity        float64      `json:"capacity"`
	AvailableHours  []CachedHour `json:"available_hours"`
	Lat             float64      `json:"lat"`
	Lng             float64      `json:"lng"`
	Address         string       `json:"address"`
}

// CachedHour is an available-hours window in cached form.
type CachedHour struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// GetRecipientPool retrieves the cached candidate pool.
// A nil result with nil error is a cache miss.
func (s *CacheStore) GetRecipientPool(ctx context.Context) ([]CachedProfile, error) {
	data, err := s.client.Get(ctx, recipientPoolCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var pool []CachedProfile
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, err
	}
	return pool, nil
}

// SetRecipientPool stores the candidate pool snapshot.
func (s *CacheStore) SetRecipientPool(ctx context.Context, pool []CachedProfile) error {
	data, err := json.Marshal(pool)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, recipientPoolCacheKey, data, RecipientPoolCacheTTL).Err()
}

// InvalidateRecipientPool drops the cached pool after a profile update.
func (s *CacheStore) InvalidateRecipientPool(ctx context.Context) error {
	return s.client.Del(ctx, recipientPoolCacheKey).Err()
}

// GetLeaderboard retrieves the cached leaderboard response.
// A nil result with nil error is a cache miss.
func (s *CacheStore) GetLeaderboard(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, leaderboardCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}
	return data, nil
}

// SetLeaderboard stores the serialized leaderboard.
func (s *CacheStore) SetLeaderboard(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, leaderboardCacheKey, data, LeaderboardCacheTTL).Err()
}

// InvalidateLeaderboard drops the cached leaderboard after an award.
func (s *CacheStore) InvalidateLeaderboard(ctx context.Context) error {
	return s.client.Del(ctx, leaderboardCacheKey).Err()
}
