package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const donorPointsKey = "donors:points"

// DonorRank is a donor's position on the points ladder.
type DonorRank struct {
	DonorID string
	Rank    int64 // 1-based, highest points first
	Points  float64
}

// RankStore mirrors donor points into a Redis sorted set for fast rank
// lookups. PostgreSQL remains the source of truth; the mirror is rebuilt
// incrementally on each award.
type RankStore struct {
	client *redis.Client
}

// NewRankStore creates a new RankStore.
func NewRankStore(client *redis.Client) *RankStore {
	return &RankStore{client: client}
}

// AddPoints increments a donor's mirrored score using ZINCRBY.
func (s *RankStore) AddPoints(ctx context.Context, donorID string, points int) error {
	return s.client.ZIncrBy(ctx, donorPointsKey, float64(points), donorID).Err()
}

// SetPoints overwrites a donor's mirrored score, used to repair drift.
func (s *RankStore) SetPoints(ctx context.Context, donorID string, points int) error {
	return s.client.ZAdd(ctx, donorPointsKey, redis.Z{
		Score:  float64(points),
		Member: donorID,
	}).Err()
}

// GetRank returns a donor's rank and mirrored points.
// A nil result with nil error means the donor has no mirrored score yet.
func (s *RankStore) GetRank(ctx context.Context, donorID string) (*DonorRank, error) {
	rank, err := s.client.ZRevRank(ctx, donorPointsKey, donorID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	points, err := s.client.ZScore(ctx, donorPointsKey, donorID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	return &DonorRank{
		DonorID: donorID,
		Rank:    rank + 1,
		Points:  points,
	}, nil
}

// RemoveDonor drops a donor from the mirror.
func (s *RankStore) RemoveDonor(ctx context.Context, donorID string) error {
	return s.client.ZRem(ctx, donorPointsKey, donorID).Err()
}
