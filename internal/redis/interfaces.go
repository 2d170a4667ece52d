package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireDonationLock(ctx context.Context, donationID string, ttl time.Duration) (bool, error)
	ReleaseDonationLock(ctx context.Context, donationID string) error
	AcquireDonorLock(ctx context.Context, donorID string, ttl time.Duration) (bool, error)
	ReleaseDonorLock(ctx context.Context, donorID string) error
}

// RankStoreInterface defines the interface for the donor points mirror.
type RankStoreInterface interface {
	AddPoints(ctx context.Context, donorID string, points int) error
	SetPoints(ctx context.Context, donorID string, points int) error
	GetRank(ctx context.Context, donorID string) (*DonorRank, error)
	RemoveDonor(ctx context.Context, donorID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface = (*LockStore)(nil)
	_ RankStoreInterface = (*RankStore)(nil)
)
