package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"feedai/internal/domain"
	"feedai/internal/redis"
	"feedai/internal/repository"
)

// Badge names.
const (
	BadgeFirstTimeHero    = "First-Time Hero"
	BadgeZeroWasteWarrior = "Zero-Waste Warrior"
	BadgeFoodHero         = "Food Hero"
	BadgeHungerFighter    = "Hunger Fighter"
)

// Point calculation constants.
const (
	basePoints        = 10
	quantityPointRate = 0.5
	perishableBonus   = 5
)

const (
	donorLockTTL    = 5 * time.Second
	leaderboardSize = 10
)

// AwardResult is the outcome of one incentive award.
type AwardResult struct {
	PointsAwarded int
	TotalPoints   int
	Badges        []string
	NewBadges     []string
}

// LeaderboardEntry is one row of the donor leaderboard.
type LeaderboardEntry struct {
	Name   string   `json:"name"`
	Points int      `json:"points"`
	Badges []string `json:"badges"`
}

// GamificationService maintains donor incentive state.
type GamificationService struct {
	lockStore           redis.LockStoreInterface
	cacheStore          *redis.CacheStore
	rankStore           redis.RankStoreInterface
	userRepo            repository.UserRepository
	notificationService *NotificationService
}

// NewGamificationService creates a new GamificationService.
func NewGamificationService(
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
	rankStore redis.RankStoreInterface,
	userRepo repository.UserRepository,
	notificationService *NotificationService,
) *GamificationService {
	return &GamificationService{
		lockStore:           lockStore,
		cacheStore:          cacheStore,
		rankStore:           rankStore,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// CalculatePoints computes the point award for a donation: a fixed base,
// half a point per quantity unit rounded down, and a bonus for perishable
// items since they are harder to coordinate.
func CalculatePoints(donation *domain.Donation) int {
	points := basePoints
	points += int(math.Floor(donation.Quantity * quantityPointRate))
	if donation.Perishable {
		points += perishableBonus
	}
	return points
}

// CheckBadges evaluates badge thresholds against the post-award total.
// Thresholds are independent: one award crossing several at once earns all
// of them. First-Time Hero fires only on the donation that lands the total
// at exactly the base award, never retroactively.
func CheckBadges(points int, held []string) []string {
	has := func(name string) bool {
		for _, b := range held {
			if b == name {
				return true
			}
		}
		return false
	}

	var newBadges []string

	if points == basePoints && !has(BadgeFirstTimeHero) {
		newBadges = append(newBadges, BadgeFirstTimeHero)
	}
	if points >= 100 && !has(BadgeZeroWasteWarrior) {
		newBadges = append(newBadges, BadgeZeroWasteWarrior)
	}
	if points >= 500 && !has(BadgeFoodHero) {
		newBadges = append(newBadges, BadgeFoodHero)
	}
	if points >= 1000 && !has(BadgeHungerFighter) {
		newBadges = append(newBadges, BadgeHungerFighter)
	}

	return newBadges
}

// AwardForDonation credits a donor for one successful donation. The
// read-modify-write on points and badges runs under a per-donor lock and a
// conditional write, so two concurrent awards for the same donor cannot
// lose an update: the later writer simply retries against fresh state.
func (s *GamificationService) AwardForDonation(ctx context.Context, donorID string, donation *domain.Donation) (*AwardResult, error) {
	if donorID == "" {
		return nil, ErrInvalidDonorID
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireDonorLock(ctx, donorID, donorLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrConcurrentUpdate
		}
		defer s.lockStore.ReleaseDonorLock(ctx, donorID)
	}

	donor, err := s.userRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, err
	}

	awarded := CalculatePoints(donation)
	total := donor.Points + awarded

	newBadges := CheckBadges(total, donor.Badges)
	badges := append(append([]string(nil), donor.Badges...), newBadges...)

	// Conditional on the points read above; a concurrent award that slipped
	// past the lock (expired TTL) is detected here instead of being lost.
	if err := s.userRepo.UpdateIncentive(ctx, donorID, donor.Points, total, badges); err != nil {
		if err == repository.ErrConflict {
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}

	if s.rankStore != nil {
		_ = s.rankStore.AddPoints(ctx, donorID, awarded)
	}
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateLeaderboard(ctx)
	}

	if s.notificationService != nil && len(newBadges) > 0 {
		_ = s.notificationService.NotifyBadgesEarned(ctx, donorID, newBadges)
	}

	return &AwardResult{
		PointsAwarded: awarded,
		TotalPoints:   total,
		Badges:        badges,
		NewBadges:     newBadges,
	}, nil
}

// Leaderboard returns the top donors by points, cached for a short window.
// With no intervening awards, repeated calls return the identical sequence.
func (s *GamificationService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.cacheStore != nil {
		if data, err := s.cacheStore.GetLeaderboard(ctx); err == nil && data != nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal(data, &entries); err == nil {
				return entries, nil
			}
		}
	}

	donors, err := s.userRepo.QueryTopDonors(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(donors))
	for _, d := range donors {
		entries = append(entries, LeaderboardEntry{
			Name:   d.Name,
			Points: d.Points,
			Badges: d.Badges,
		})
	}

	if s.cacheStore != nil {
		if data, err := json.Marshal(entries); err == nil {
			_ = s.cacheStore.SetLeaderboard(ctx, data)
		}
	}

	return entries, nil
}

// DonorRank returns the donor's position on the points ladder from the Redis
// mirror, repairing the mirror from PostgreSQL when the donor is missing.
func (s *GamificationService) DonorRank(ctx context.Context, donorID string) (*redis.DonorRank, error) {
	if donorID == "" {
		return nil, ErrInvalidDonorID
	}
	if s.rankStore == nil {
		return nil, repository.ErrNotFound
	}

	rank, err := s.rankStore.GetRank(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if rank != nil {
		return rank, nil
	}

	// Mirror miss: seed from the source of truth and retry once.
	donor, err := s.userRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if err := s.rankStore.SetPoints(ctx, donorID, donor.Points); err != nil {
		return nil, err
	}

	rank, err = s.rankStore.GetRank(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if rank == nil {
		return nil, repository.ErrNotFound
	}
	return rank, nil
}
