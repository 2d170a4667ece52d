package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"feedai/internal/domain"
	"feedai/internal/service"
)

func newMatchingFixture() (*service.MatchingService, *MockRecipientRepository, *MockDonationRepository, *MockMatchRepository, *MockLockStore) {
	recipientRepo := NewMockRecipientRepository()
	donationRepo := NewMockDonationRepository()
	matchRepo := NewMockMatchRepository()
	lockStore := NewMockLockStore()

	svc := service.NewMatchingService(nil, lockStore, nil, recipientRepo, donationRepo, matchRepo, service.DefaultMatchConfig())
	return svc, recipientRepo, donationRepo, matchRepo, lockStore
}

func TestFindOptimalMatch_EmptyPoolProducesNoMatch(t *testing.T) {
	ctx := context.Background()
	svc, _, donationRepo, matchRepo, _ := newMatchingFixture()

	donation := bakeryDonation()
	donationRepo.AddDonation(donation)

	match, err := svc.FindOptimalMatch(ctx, donation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match != nil {
		t.Errorf("expected no match with empty pool, got %+v", match)
	}
	if donation.Status != domain.DonationStatusAvailable {
		t.Errorf("expected donation to stay available, got %s", donation.Status)
	}
	if matchRepo.CountMatches() != 0 {
		t.Errorf("expected no persisted matches, got %d", matchRepo.CountMatches())
	}
}

func TestFindOptimalMatch_PerfectFitCreatesPendingMatch(t *testing.T) {
	ctx := context.Background()
	svc, recipientRepo, donationRepo, matchRepo, _ := newMatchingFixture()

	donation := bakeryDonation()
	donationRepo.AddDonation(donation)
	recipientRepo.AddProfile(perfectFitProfile(donation))

	match, err := svc.FindOptimalMatch(ctx, donation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match for a perfect-fit recipient")
	}
	if match.RecipientID != "recipient-1" {
		t.Errorf("expected recipient-1, got %s", match.RecipientID)
	}
	if match.Score != 1.0 {
		t.Errorf("expected score 1.0, got %f", match.Score)
	}
	if match.Status != domain.MatchStatusPending {
		t.Errorf("expected pending match, got %s", match.Status)
	}
	if donation.Status != domain.DonationStatusMatched {
		t.Errorf("expected donation matched, got %s", donation.Status)
	}
	if stored := donationRepo.GetDonation(donation.ID); stored.Status != domain.DonationStatusMatched {
		t.Errorf("expected stored donation matched, got %s", stored.Status)
	}
	if matchRepo.CountMatches() != 1 {
		t.Errorf("expected 1 persisted match, got %d", matchRepo.CountMatches())
	}
}

func TestFindOptimalMatch_ScoreAtThresholdDoesNotMatch(t *testing.T) {
	ctx := context.Background()
	svc, recipientRepo, donationRepo, _, _ := newMatchingFixture()

	donation := bakeryDonation()
	donationRepo.AddDonation(donation)

	// Category + capacity only: 0.3 + 0.2 = 0.5, exactly the threshold.
	profile := &domain.RecipientProfile{
		UserID:          "recipient-1",
		FoodPreferences: []string{donation.FoodType},
		Capacity:        donation.Quantity,
		Location:        domain.Location{Lat: 50, Lng: 50},
		Active:          true,
	}
	recipientRepo.AddProfile(profile)

	match, err := svc.FindOptimalMatch(ctx, donation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match != nil {
		t.Errorf("expected no match at exactly the threshold, got score %f", match.Score)
	}
	if donation.Status != domain.DonationStatusAvailable {
		t.Errorf("expected donation to stay available, got %s", donation.Status)
	}
}

func TestFindOptimalMatch_CutoffDistanceStillMatches(t *testing.T) {
	ctx := context.Background()
	svc, recipientRepo, donationRepo, _, _ := newMatchingFixture()

	donation := bakeryDonation()
	donationRepo.AddDonation(donation)

	// Distance exactly at the proximity cutoff: 0.3 + 0.2 + 0.1 = 0.6.
	profile := perfectFitProfile(donation)
	profile.Location = domain.Location{Lat: 10, Lng: 0}
	recipientRepo.AddProfile(profile)

	match, err := svc.FindOptimalMatch(ctx, donation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match at score 0.6")
	}
}

func TestFindOptimalMatch_PicksHighestScore(t *testing.T) {
	ctx := context.Background()
	svc, recipientRepo, donationRepo, _, _ := newMatchingFixture()

	donation := bakeryDonation()
	donationRepo.AddDonation(donation)

	far := perfectFitProfile(donation)
	far.UserID = "recipient-far"
	far.Location = domain.Location{Lat: 5, Lng: 0}

	near := perfectFitProfile(donation)
	near.UserID = "recipient-near"

	recipientRepo.AddProfile(far)
	recipientRepo.AddProfile(near)

	match, err := svc.FindOptimalMatch(ctx, donation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.RecipientID != "recipient-near" {
		t.Errorf("expected the closer recipient to win, got %s", match.RecipientID)
	}
}

func TestFindOptimalMatch_TieBreaksOnFirstCandidate(t *testing.T) {
	ctx := context.Background()
	svc, recipientRepo, donationRepo, _, _ := newMatchingFixture()

	donation := bakeryDonation()
	donationRepo.AddDonation(donation)

	// Two identical profiles. The pool is ordered by user ID, so the
	// lexicographically smaller ID is encountered first and keeps the slot.
	first := perfectFitProfile(donation)
	first.UserID = "recipient-a"
	second := perfectFitProfile(donation)
	second.UserID = "recipient-b"

	recipientRepo.AddProfile(second)
	recipientRepo.AddProfile(first)

	match, err := svc.FindOptimalMatch(ctx, donation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.RecipientID != "recipient-a" {
		t.Errorf("expected tie to resolve to recipient-a, got %s", match.RecipientID)
	}
}

func TestFindOptimalMatch_LockedDonationRejected(t *testing.T) {
	ctx := context.Background()
	svc, recipientRepo, donationRepo, _, lockStore := newMatchingFixture()

	donation := bakeryDonation()
	donationRepo.AddDonation(donation)
	recipientRepo.AddProfile(perfectFitProfile(donation))

	// Another matching attempt holds the lock.
	lockStore.AcquireDonationLock(ctx, donation.ID, 10*time.Second)

	_, err := svc.FindOptimalMatch(ctx, donation)
	if err != service.ErrDonationBeingMatched {
		t.Errorf("expected ErrDonationBeingMatched, got %v", err)
	}
}

func TestFindOptimalMatch_ReleasesLockAfterMatching(t *testing.T) {
	ctx := context.Background()
	svc, recipientRepo, donationRepo, _, lockStore := newMatchingFixture()

	donation := bakeryDonation()
	donationRepo.AddDonation(donation)
	recipientRepo.AddProfile(perfectFitProfile(donation))

	if _, err := svc.FindOptimalMatch(ctx, donation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lockStore.IsLocked("lock:donation:" + donation.ID) {
		t.Error("expected donation lock to be released")
	}
}

func TestFindOptimalMatch_NonAvailableDonationRejected(t *testing.T) {
	ctx := context.Background()
	svc, recipientRepo, donationRepo, _, _ := newMatchingFixture()

	donation := bakeryDonation()
	donation.Status = domain.DonationStatusMatched
	donationRepo.AddDonation(donation)
	recipientRepo.AddProfile(perfectFitProfile(donation))

	_, err := svc.FindOptimalMatch(ctx, donation)
	if err != service.ErrDonationNotAvailable {
		t.Errorf("expected ErrDonationNotAvailable, got %v", err)
	}
}

func TestFindOptimalMatch_ConcurrentAttemptsCreateOneMatch(t *testing.T) {
	ctx := context.Background()

	recipientRepo := NewMockRecipientRepository()
	donationRepo := NewMockDonationRepository()
	matchRepo := NewMockMatchRepository()

	// No lock store: force both goroutines through to the conditional
	// status write so it alone decides the winner.
	svc := service.NewMatchingService(nil, nil, nil, recipientRepo, donationRepo, matchRepo, service.DefaultMatchConfig())

	donation := bakeryDonation()
	donationRepo.AddDonation(donation)
	recipientRepo.AddProfile(perfectFitProfile(donation))

	var wg sync.WaitGroup
	results := make(chan error, 2)
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			// Each goroutine works from its own snapshot of the donation.
			snapshot := *donation
			snapshot.Status = domain.DonationStatusAvailable
			_, err := svc.FindOptimalMatch(ctx, &snapshot)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var failures int
	for err := range results {
		if err != nil {
			if err != service.ErrDonationNotAvailable {
				t.Errorf("expected ErrDonationNotAvailable for the loser, got %v", err)
			}
			failures++
		}
	}

	if matchRepo.CountMatches() != 1 {
		t.Errorf("expected exactly 1 match, got %d", matchRepo.CountMatches())
	}
	if failures != 1 {
		t.Errorf("expected exactly 1 losing attempt, got %d", failures)
	}
}
