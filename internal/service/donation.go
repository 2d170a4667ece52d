package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"feedai/internal/domain"
	"feedai/internal/repository"
)

// MatchingServiceInterface defines the matching service contract.
// This interface allows for testing with mock implementations.
type MatchingServiceInterface interface {
	FindOptimalMatch(ctx context.Context, donation *domain.Donation) (*domain.Match, error)
}

// GamificationServiceInterface defines the incentive engine contract.
type GamificationServiceInterface interface {
	AwardForDonation(ctx context.Context, donorID string, donation *domain.Donation) (*AwardResult, error)
}

// Ensure the concrete services implement their interfaces.
var (
	_ MatchingServiceInterface     = (*MatchingService)(nil)
	_ GamificationServiceInterface = (*GamificationService)(nil)
)

// DonationService handles donation operations.
type DonationService struct {
	donationRepo        repository.DonationRepository
	matchingService     MatchingServiceInterface
	gamificationService GamificationServiceInterface
	notificationService *NotificationService
}

// NewDonationService creates a new DonationService.
func NewDonationService(
	donationRepo repository.DonationRepository,
	matchingService MatchingServiceInterface,
	gamificationService GamificationServiceInterface,
	notificationService *NotificationService,
) *DonationService {
	return &DonationService{
		donationRepo:        donationRepo,
		matchingService:     matchingService,
		gamificationService: gamificationService,
		notificationService: notificationService,
	}
}

// SubmitDonationRequest contains the parameters for submitting a donation.
type SubmitDonationRequest struct {
	DonorID    string
	FoodType   string
	Quantity   float64
	Unit       string
	Perishable bool
	ExpiresAt  time.Time // Optional
	PickupAt   time.Time
	Location   domain.Location
}

// SubmitDonationResponse contains the result of submitting a donation.
type SubmitDonationResponse struct {
	Donation *domain.Donation
	Match    *domain.Match // Nil when no candidate qualified
	Award    *AwardResult
}

// SubmitDonation creates a donation, attempts to match it, and credits the
// donor. Match creation and the incentive award are intentionally
// independent: each is all-or-nothing on its own, but a failed award does
// not undo an already persisted match.
func (s *DonationService) SubmitDonation(ctx context.Context, req SubmitDonationRequest) (*SubmitDonationResponse, error) {
	if err := s.validateSubmitRequest(req); err != nil {
		return nil, err
	}

	donation := &domain.Donation{
		ID:         uuid.New().String(),
		DonorID:    req.DonorID,
		FoodType:   req.FoodType,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		Perishable: req.Perishable,
		ExpiresAt:  req.ExpiresAt,
		PickupAt:   req.PickupAt,
		Location:   req.Location,
		Status:     domain.DonationStatusAvailable,
		CreatedAt:  time.Now(),
	}

	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	match, err := s.matchingService.FindOptimalMatch(ctx, donation)
	if err != nil {
		return nil, err
	}

	if match != nil && s.notificationService != nil {
		_ = s.notificationService.NotifyMatchFound(ctx, match, donation)
	}

	award, err := s.gamificationService.AwardForDonation(ctx, req.DonorID, donation)
	if err != nil {
		return nil, err
	}

	return &SubmitDonationResponse{
		Donation: donation,
		Match:    match,
		Award:    award,
	}, nil
}

// GetDonation retrieves a donation by ID.
func (s *DonationService) GetDonation(ctx context.Context, donationID string) (*domain.Donation, error) {
	if donationID == "" {
		return nil, ErrInvalidDonationID
	}

	return s.donationRepo.GetByID(ctx, donationID)
}

// ListByDonor retrieves a donor's donations, newest first.
func (s *DonationService) ListByDonor(ctx context.Context, donorID string) ([]*domain.Donation, error) {
	if donorID == "" {
		return nil, ErrInvalidDonorID
	}

	return s.donationRepo.ListByDonor(ctx, donorID)
}

// ListAvailable retrieves donations still open for matching.
func (s *DonationService) ListAvailable(ctx context.Context) ([]*domain.Donation, error) {
	return s.donationRepo.ListAvailable(ctx)
}

// UpdateStatusRequest contains the parameters for a donor status patch.
type UpdateStatusRequest struct {
	DonationID string
	DonorID    string
	NewStatus  domain.DonationStatus
}

// UpdateStatus applies a donor-requested status change. Only the owning
// donor may write, the status must move strictly forward, and `matched` is
// reserved for the matcher.
func (s *DonationService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*domain.Donation, error) {
	if req.DonationID == "" {
		return nil, ErrInvalidDonationID
	}
	if req.DonorID == "" {
		return nil, ErrInvalidDonorID
	}

	if req.NewStatus != domain.DonationStatusCompleted {
		// available is never a forward target and matched is machine-set.
		if req.NewStatus == domain.DonationStatusAvailable || req.NewStatus == domain.DonationStatusMatched {
			return nil, ErrInvalidStatusTransition
		}
		return nil, ErrInvalidStatus
	}

	donation, err := s.donationRepo.GetByID(ctx, req.DonationID)
	if err != nil {
		return nil, err
	}

	if donation.DonorID != req.DonorID {
		return nil, ErrNotDonationOwner
	}

	if donation.Status == domain.DonationStatusCompleted {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.donationRepo.UpdateStatusFrom(ctx, donation.ID, donation.Status, req.NewStatus); err != nil {
		return nil, err
	}

	donation.Status = req.NewStatus
	return donation, nil
}

// validateSubmitRequest validates the submit donation request.
func (s *DonationService) validateSubmitRequest(req SubmitDonationRequest) error {
	if req.DonorID == "" {
		return ErrInvalidDonorID
	}

	if req.FoodType == "" {
		return ErrInvalidFoodType
	}

	if req.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	if req.Unit == "" {
		return ErrInvalidUnit
	}

	if req.PickupAt.IsZero() {
		return ErrInvalidPickupTime
	}

	return nil
}
