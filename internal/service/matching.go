package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"feedai/internal/domain"
	"feedai/internal/redis"
	"feedai/internal/repository"
	"feedai/internal/repository/postgres"
)

// MatchConfig contains the matching parameters.
type MatchConfig struct {
	Threshold       float64       // Minimum score (exclusive) to create a match
	AverageSpeed    float64       // Distance units per hour for delivery estimates
	DonationLockTTL time.Duration // Lock TTL during a matching attempt
}

// DefaultMatchConfig returns the default matching configuration.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Threshold:       0.5,
		AverageSpeed:    defaultAverageSpeed,
		DonationLockTTL: 10 * time.Second,
	}
}

// MatchingService selects the best-fit recipient for a donation.
type MatchingService struct {
	db            *sql.DB
	lockStore     redis.LockStoreInterface
	cacheStore    *redis.CacheStore
	recipientRepo repository.RecipientRepository
	donationRepo  repository.DonationRepository
	matchRepo     repository.MatchRepository
	cfg           MatchConfig
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(
	db *sql.DB,
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
	recipientRepo repository.RecipientRepository,
	donationRepo repository.DonationRepository,
	matchRepo repository.MatchRepository,
	cfg MatchConfig,
) *MatchingService {
	if cfg.Threshold <= 0 {
		cfg = DefaultMatchConfig()
	}
	return &MatchingService{
		db:            db,
		lockStore:     lockStore,
		cacheStore:    cacheStore,
		recipientRepo: recipientRepo,
		donationRepo:  donationRepo,
		matchRepo:     matchRepo,
		cfg:           cfg,
	}
}

// FindOptimalMatch scores every candidate in the recipient pool against the
// donation and persists a pending match for the best candidate when its score
// strictly exceeds the acceptance threshold. Returns (nil, nil) when no
// candidate qualifies; the donation then stays available.
func (s *MatchingService) FindOptimalMatch(ctx context.Context, donation *domain.Donation) (*domain.Match, error) {
	// Acquire donation lock so two concurrent submissions of the same
	// donation cannot both create a match.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireDonationLock(ctx, donation.ID, s.cfg.DonationLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrDonationBeingMatched
		}
		defer s.lockStore.ReleaseDonationLock(ctx, donation.ID)
	}

	if donation.Status != domain.DonationStatusAvailable {
		return nil, ErrDonationNotAvailable
	}

	pool, err := s.getRecipientPool(ctx)
	if err != nil {
		return nil, err
	}

	best := s.selectBestCandidate(donation, pool)
	if best == nil {
		return nil, nil
	}

	match := &domain.Match{
		ID:                  uuid.New().String(),
		DonationID:          donation.ID,
		DonorID:             donation.DonorID,
		RecipientID:         best.UserID,
		Score:               MatchScore(donation, best),
		Route:               EstimateRoute(donation, best),
		EstimatedDeliveryAt: EstimateDeliveryTime(donation, best, s.cfg.AverageSpeed),
		Status:              domain.MatchStatusPending,
		CreatedAt:           time.Now(),
	}

	if err := s.persistMatch(ctx, match); err != nil {
		return nil, err
	}

	donation.Status = domain.DonationStatusMatched
	return match, nil
}

// selectBestCandidate returns the highest-scoring candidate above the
// threshold, or nil. Candidates are visited in pool order (recipient ID
// ascending) and only a strictly greater score displaces the current best,
// so ties resolve to the first-encountered recipient.
func (s *MatchingService) selectBestCandidate(donation *domain.Donation, pool []*domain.RecipientProfile) *domain.RecipientProfile {
	var best *domain.RecipientProfile
	bestScore := 0.0

	for _, candidate := range pool {
		score := MatchScore(donation, candidate)
		if best == nil || score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	if best == nil || bestScore <= s.cfg.Threshold {
		return nil
	}
	return best
}

// getRecipientPool reads the candidate pool, preferring the cached snapshot.
func (s *MatchingService) getRecipientPool(ctx context.Context) ([]*domain.RecipientProfile, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetRecipientPool(ctx)
		if err == nil && cached != nil {
			return cachedToProfiles(cached), nil
		}
		// Cache errors fall through to the repository.
	}

	pool, err := s.recipientRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetRecipientPool(ctx, profilesToCached(pool))
	}

	return pool, nil
}

// persistMatch writes the match and flips the donation to matched. With a
// database handle both writes share one transaction; the conditional status
// update guarantees the donation was still available at commit time.
func (s *MatchingService) persistMatch(ctx context.Context, match *domain.Match) error {
	if s.db == nil {
		// No shared handle: guard with the conditional transition first,
		// then undo it if the match insert fails.
		if err := s.donationRepo.UpdateStatusFrom(ctx, match.DonationID, domain.DonationStatusAvailable, domain.DonationStatusMatched); err != nil {
			if err == repository.ErrConflict {
				return ErrDonationNotAvailable
			}
			return err
		}
		if err := s.matchRepo.Create(ctx, match); err != nil {
			_ = s.donationRepo.UpdateStatusFrom(ctx, match.DonationID, domain.DonationStatusMatched, domain.DonationStatusAvailable)
			return err
		}
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txMatchRepo := postgres.NewMatchRepositoryWithTx(tx)
	txDonationRepo := postgres.NewDonationRepositoryWithTx(tx)

	if err = txMatchRepo.Create(ctx, match); err != nil {
		return err
	}

	if err = txDonationRepo.UpdateStatusFrom(ctx, match.DonationID, domain.DonationStatusAvailable, domain.DonationStatusMatched); err != nil {
		if err == repository.ErrConflict {
			err = ErrDonationNotAvailable
		}
		return err
	}

	return tx.Commit()
}

func cachedToProfiles(cached []redis.CachedProfile) []*domain.RecipientProfile {
	profiles := make([]*domain.RecipientProfile, 0, len(cached))
	for _, c := range cached {
		profile := &domain.RecipientProfile{
			UserID:          c.UserID,
			FoodPreferences: c.FoodPreferences,
			Capacity:        c.Capacity,
			Location:        domain.Location{Lat: c.Lat, Lng: c.Lng, Address: c.Address},
			Active:          true,
		}
		for _, h := range c.AvailableHours {
			profile.AvailableHours = append(profile.AvailableHours, domain.HourWindow{Start: h.Start, End: h.End})
		}
		profiles = append(profiles, profile)
	}
	return profiles
}

func profilesToCached(profiles []*domain.RecipientProfile) []redis.CachedProfile {
	cached := make([]redis.CachedProfile, 0, len(profiles))
	for _, p := range profiles {
		c := redis.CachedProfile{
			UserID:          p.UserID,
			FoodPreferences: p.FoodPreferences,
			Capacity:        p.Capacity,
			Lat:             p.Location.Lat,
			Lng:             p.Location.Lng,
			Address:         p.Location.Address,
		}
		for _, w := range p.AvailableHours {
			c.AvailableHours = append(c.AvailableHours, redis.CachedHour{Start: w.Start, End: w.End})
		}
		cached = append(cached, c)
	}
	return cached
}
