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

// matchStatusOrder ranks match statuses so transitions can be checked for
// forward motion. pending may skip directly to completed.
var matchStatusOrder = map[domain.MatchStatus]int{
	domain.MatchStatusPending:   0,
	domain.MatchStatusAccepted:  1,
	domain.MatchStatusCompleted: 2,
}

// MatchService drives the match lifecycle and the recipient-initiated
// matching path.
type MatchService struct {
	db                  *sql.DB
	matchRepo           repository.MatchRepository
	donationRepo        repository.DonationRepository
	recipientRepo       repository.RecipientRepository
	cacheStore          *redis.CacheStore
	notificationService *NotificationService
	averageSpeed        float64
}

// NewMatchService creates a new MatchService.
func NewMatchService(
	db *sql.DB,
	matchRepo repository.MatchRepository,
	donationRepo repository.DonationRepository,
	recipientRepo repository.RecipientRepository,
	cacheStore *redis.CacheStore,
	notificationService *NotificationService,
) *MatchService {
	return &MatchService{
		db:                  db,
		matchRepo:           matchRepo,
		donationRepo:        donationRepo,
		recipientRepo:       recipientRepo,
		cacheStore:          cacheStore,
		notificationService: notificationService,
		averageSpeed:        defaultAverageSpeed,
	}
}

// UpdateMatchStatusRequest contains the parameters for a lifecycle transition.
type UpdateMatchStatusRequest struct {
	MatchID   string
	ActorID   string // The user requesting the transition
	NewStatus domain.MatchStatus
}

// UpdateStatus advances a match through pending → accepted → completed.
// Only a party to the match may transition it, writes must move strictly
// forward, and reaching completed cascades to the donation in the same
// transaction so a skip cannot strand the donation in matched.
func (s *MatchService) UpdateStatus(ctx context.Context, req UpdateMatchStatusRequest) (*domain.Match, error) {
	if req.MatchID == "" {
		return nil, ErrInvalidMatchID
	}
	if req.ActorID == "" {
		return nil, ErrInvalidUserID
	}
	if _, ok := matchStatusOrder[req.NewStatus]; !ok {
		return nil, ErrInvalidStatus
	}

	match, err := s.matchRepo.GetByID(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}

	if match.DonorID != req.ActorID && match.RecipientID != req.ActorID {
		return nil, ErrNotPartyToMatch
	}

	if matchStatusOrder[req.NewStatus] <= matchStatusOrder[match.Status] {
		return nil, ErrInvalidStatusTransition
	}

	match.Status = req.NewStatus

	if req.NewStatus == domain.MatchStatusCompleted {
		if err := s.completeMatch(ctx, match); err != nil {
			return nil, err
		}
	} else {
		if err := s.matchRepo.Update(ctx, match); err != nil {
			return nil, err
		}
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyMatchStatusChanged(ctx, match, req.ActorID)
	}

	return match, nil
}

// completeMatch persists the terminal transition together with the donation
// cascade. The donation moves from whatever non-terminal status it holds.
func (s *MatchService) completeMatch(ctx context.Context, match *domain.Match) error {
	if s.db == nil {
		if err := s.matchRepo.Update(ctx, match); err != nil {
			return err
		}
		return s.cascadeDonation(ctx, s.donationRepo, match.DonationID)
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

	if err = txMatchRepo.Update(ctx, match); err != nil {
		return err
	}

	if err = s.cascadeDonation(ctx, txDonationRepo, match.DonationID); err != nil {
		return err
	}

	return tx.Commit()
}

// cascadeDonation moves the match's donation to completed. Already-completed
// donations are left alone so a repeated terminal write stays idempotent.
func (s *MatchService) cascadeDonation(ctx context.Context, donationRepo repository.DonationRepository, donationID string) error {
	donation, err := donationRepo.GetByID(ctx, donationID)
	if err != nil {
		return err
	}

	if donation.Status == domain.DonationStatusCompleted {
		return nil
	}

	return donationRepo.UpdateStatusFrom(ctx, donationID, donation.Status, domain.DonationStatusCompleted)
}

// RequestMatchRequest contains the parameters for a recipient-initiated match.
type RequestMatchRequest struct {
	RecipientID string
	DonationID  string
}

// RequestMatch creates a match on a recipient's explicit claim of an
// available donation. The acceptance threshold does not apply here: any
// eligible recipient may claim any available donation. The computed score is
// still recorded so match history stays comparable.
func (s *MatchService) RequestMatch(ctx context.Context, req RequestMatchRequest) (*domain.Match, error) {
	if req.RecipientID == "" {
		return nil, ErrInvalidRecipientID
	}
	if req.DonationID == "" {
		return nil, ErrInvalidDonationID
	}

	profile, err := s.recipientRepo.GetProfile(ctx, req.RecipientID)
	if err != nil {
		return nil, err
	}

	donation, err := s.donationRepo.GetByID(ctx, req.DonationID)
	if err != nil {
		return nil, err
	}

	if donation.Status != domain.DonationStatusAvailable {
		return nil, ErrDonationNotAvailable
	}

	match := &domain.Match{
		ID:                  uuid.New().String(),
		DonationID:          donation.ID,
		DonorID:             donation.DonorID,
		RecipientID:         profile.UserID,
		Score:               MatchScore(donation, profile),
		Route:               EstimateRoute(donation, profile),
		EstimatedDeliveryAt: EstimateDeliveryTime(donation, profile, s.averageSpeed),
		Status:              domain.MatchStatusPending,
		CreatedAt:           time.Now(),
	}

	if err := s.persistRequestedMatch(ctx, match); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyMatchFound(ctx, match, donation)
	}

	return match, nil
}

func (s *MatchService) persistRequestedMatch(ctx context.Context, match *domain.Match) error {
	if s.db == nil {
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

	// The conditional write closes the race against the automatic matcher.
	if err = txDonationRepo.UpdateStatusFrom(ctx, match.DonationID, domain.DonationStatusAvailable, domain.DonationStatusMatched); err != nil {
		if err == repository.ErrConflict {
			err = ErrDonationNotAvailable
		}
		return err
	}

	return tx.Commit()
}

// ListForUser retrieves the matches a user is party to, newest first.
func (s *MatchService) ListForUser(ctx context.Context, userID string, userType domain.UserType) ([]*domain.Match, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	switch userType {
	case domain.UserTypeDonor:
		return s.matchRepo.ListByDonor(ctx, userID)
	case domain.UserTypeRecipient:
		return s.matchRepo.ListByRecipient(ctx, userID)
	default:
		return nil, ErrInvalidUserID
	}
}

// GetMatch retrieves a match by ID.
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*domain.Match, error) {
	if matchID == "" {
		return nil, ErrInvalidMatchID
	}

	return s.matchRepo.GetByID(ctx, matchID)
}
