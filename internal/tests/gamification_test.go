package tests

import (
	"context"
	"sync"
	"testing"

	"feedai/internal/domain"
	"feedai/internal/service"
)

func newGamificationFixture() (*service.GamificationService, *MockUserRepository, *MockLockStore, *MockRankStore) {
	userRepo := NewMockUserRepository()
	lockStore := NewMockLockStore()
	rankStore := NewMockRankStore()

	svc := service.NewGamificationService(lockStore, nil, rankStore, userRepo, nil)
	return svc, userRepo, lockStore, rankStore
}

func donor(id string, points int, badges ...string) *domain.User {
	return &domain.User{
		ID:     id,
		Email:  id + "@example.com",
		Name:   id,
		Type:   domain.UserTypeDonor,
		Points: points,
		Badges: badges,
	}
}

func TestCalculatePoints_Deterministic(t *testing.T) {
	donation := bakeryDonation() // Quantity 20, not perishable.

	if p := service.CalculatePoints(donation); p != 20 {
		t.Errorf("expected 20 points for quantity 20, got %d", p)
	}

	donation.Perishable = true
	if p := service.CalculatePoints(donation); p != 25 {
		t.Errorf("expected 25 points for perishable quantity 20, got %d", p)
	}

	// Fractional quantity credit rounds down.
	donation.Perishable = false
	donation.Quantity = 3
	if p := service.CalculatePoints(donation); p != 11 {
		t.Errorf("expected 11 points for quantity 3, got %d", p)
	}

	// Repeated evaluation is stable.
	first := service.CalculatePoints(donation)
	second := service.CalculatePoints(donation)
	if first != second {
		t.Errorf("expected deterministic points, got %d then %d", first, second)
	}
}

func TestCheckBadges_FirstDonationExactlyBase(t *testing.T) {
	badges := service.CheckBadges(10, nil)

	if len(badges) != 1 || badges[0] != service.BadgeFirstTimeHero {
		t.Errorf("expected only First-Time Hero at exactly 10 points, got %v", badges)
	}
}

func TestCheckBadges_OvershootingBaseSkipsFirstTimeHero(t *testing.T) {
	// A donor at 5 points whose award lands them at 25 never passed through
	// exactly 10, so the first-donation badge is skipped for good.
	badges := service.CheckBadges(25, nil)

	for _, b := range badges {
		if b == service.BadgeFirstTimeHero {
			t.Errorf("expected no First-Time Hero at 25 points, got %v", badges)
		}
	}
}

func TestCheckBadges_ThresholdsIndependent(t *testing.T) {
	// One large award can cross several thresholds at once.
	badges := service.CheckBadges(1200, nil)

	want := map[string]bool{
		service.BadgeZeroWasteWarrior: false,
		service.BadgeFoodHero:         false,
		service.BadgeHungerFighter:    false,
	}
	for _, b := range badges {
		if _, ok := want[b]; !ok {
			t.Errorf("unexpected badge %s", b)
			continue
		}
		want[b] = true
	}
	for name, got := range want {
		if !got {
			t.Errorf("expected badge %s at 1200 points", name)
		}
	}
}

func TestCheckBadges_HeldBadgesNotReissued(t *testing.T) {
	held := []string{service.BadgeZeroWasteWarrior}
	badges := service.CheckBadges(150, held)

	if len(badges) != 0 {
		t.Errorf("expected no new badges when threshold badge already held, got %v", badges)
	}
}

func TestAwardForDonation_CreditsPointsAndMirror(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, rankStore := newGamificationFixture()

	userRepo.AddUser(donor("donor-1", 0))

	donation := bakeryDonation()
	result, err := svc.AwardForDonation(ctx, "donor-1", donation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PointsAwarded != 20 {
		t.Errorf("expected 20 points awarded, got %d", result.PointsAwarded)
	}
	if result.TotalPoints != 20 {
		t.Errorf("expected total 20, got %d", result.TotalPoints)
	}
	if stored := userRepo.GetUser("donor-1"); stored.Points != 20 {
		t.Errorf("expected stored points 20, got %d", stored.Points)
	}
	if rankStore.Points("donor-1") != 20 {
		t.Errorf("expected mirror points 20, got %f", rankStore.Points("donor-1"))
	}
}

func TestAwardForDonation_BadgeSetOnlyGrows(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, _ := newGamificationFixture()

	userRepo.AddUser(donor("donor-1", 90, service.BadgeFirstTimeHero))

	donation := bakeryDonation() // 20 points, crossing 100.
	result, err := svc.AwardForDonation(ctx, "donor-1", donation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.NewBadges) != 1 || result.NewBadges[0] != service.BadgeZeroWasteWarrior {
		t.Errorf("expected Zero-Waste Warrior, got %v", result.NewBadges)
	}

	// The held badge survives and nothing is duplicated.
	stored := userRepo.GetUser("donor-1")
	if len(stored.Badges) != 2 {
		t.Errorf("expected 2 badges, got %v", stored.Badges)
	}

	// A second award past the same threshold earns nothing new.
	again, err := svc.AwardForDonation(ctx, "donor-1", donation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again.NewBadges) != 0 {
		t.Errorf("expected no new badges on repeat, got %v", again.NewBadges)
	}
}

func TestAwardForDonation_ConcurrentAwardsLoseNoUpdate(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	rankStore := NewMockRankStore()
	// No lock store: the conditional write is the only guard, so a loser
	// must surface as a conflict instead of silently overwriting.
	svc := service.NewGamificationService(nil, nil, rankStore, userRepo, nil)

	userRepo.AddUser(donor("donor-1", 0))
	donation := bakeryDonation()

	const attempts = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.AwardForDonation(ctx, "donor-1", donation); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stored := userRepo.GetUser("donor-1")
	if stored.Points != succeeded*20 {
		t.Errorf("lost update: %d successful awards but %d points", succeeded, stored.Points)
	}
	if succeeded == 0 {
		t.Error("expected at least one award to succeed")
	}
}

func TestAwardForDonation_DonorLockBusy(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, lockStore, _ := newGamificationFixture()

	userRepo.AddUser(donor("donor-1", 0))
	lockStore.ForceAcquireFailure = true

	_, err := svc.AwardForDonation(ctx, "donor-1", bakeryDonation())
	if err != service.ErrConcurrentUpdate {
		t.Errorf("expected ErrConcurrentUpdate when lock busy, got %v", err)
	}
}

func TestLeaderboard_OrderedAndStable(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, _ := newGamificationFixture()

	userRepo.AddUser(donor("donor-a", 50))
	userRepo.AddUser(donor("donor-b", 200))
	userRepo.AddUser(donor("donor-c", 50))
	userRepo.AddUser(&domain.User{ID: "rec-1", Name: "rec-1", Type: domain.UserTypeRecipient, Points: 999})

	entries, err := svc.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 donor entries, got %d", len(entries))
	}
	if entries[0].Name != "donor-b" {
		t.Errorf("expected donor-b first, got %s", entries[0].Name)
	}
	// Equal points tie-break on name.
	if entries[1].Name != "donor-a" || entries[2].Name != "donor-c" {
		t.Errorf("expected name-ordered tie, got %s then %s", entries[1].Name, entries[2].Name)
	}

	// No intervening awards: the second read is identical.
	again, err := svc.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range entries {
		if entries[i].Name != again[i].Name || entries[i].Points != again[i].Points {
			t.Errorf("leaderboard changed between reads at position %d", i)
		}
	}
}

func TestLeaderboard_CapsAtTen(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, _ := newGamificationFixture()

	for i := 0; i < 15; i++ {
		userRepo.AddUser(donor(string(rune('a'+i))+"-donor", i*10))
	}

	entries, err := svc.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("expected 10 entries, got %d", len(entries))
	}
}

func TestDonorRank_RepairsMirrorFromRepository(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, rankStore := newGamificationFixture()

	// Donor exists in PostgreSQL but not in the Redis mirror.
	userRepo.AddUser(donor("donor-1", 120))

	rank, err := svc.DonorRank(ctx, "donor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rank.Points != 120 {
		t.Errorf("expected mirrored points 120, got %f", rank.Points)
	}
	if rank.Rank != 1 {
		t.Errorf("expected rank 1, got %d", rank.Rank)
	}
	if rankStore.Points("donor-1") != 120 {
		t.Errorf("expected mirror seeded to 120, got %f", rankStore.Points("donor-1"))
	}
}

func TestDonorRank_UnknownDonor(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newGamificationFixture()

	if _, err := svc.DonorRank(ctx, "missing"); err == nil {
		t.Error("expected error for unknown donor")
	}
}
