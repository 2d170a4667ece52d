package tests

import (
	"math"
	"testing"
	"time"

	"feedai/internal/domain"
	"feedai/internal/service"
)

func perfectFitProfile(donation *domain.Donation) *domain.RecipientProfile {
	return &domain.RecipientProfile{
		UserID:          "recipient-1",
		FoodPreferences: []string{donation.FoodType},
		Capacity:        donation.Quantity,
		AvailableHours:  []domain.HourWindow{{Start: 0, End: 23}},
		Location:        donation.Location,
		Active:          true,
	}
}

func bakeryDonation() *domain.Donation {
	return &domain.Donation{
		ID:       "donation-1",
		DonorID:  "donor-1",
		FoodType: "bakery",
		Quantity: 20,
		Unit:     "kg",
		PickupAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Location: domain.Location{Lat: 0, Lng: 0},
		Status:   domain.DonationStatusAvailable,
	}
}

func TestMatchScore_PerfectFitScoresOne(t *testing.T) {
	donation := bakeryDonation()
	profile := perfectFitProfile(donation)

	score := service.MatchScore(donation, profile)

	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("expected score 1.0 for perfect fit, got %f", score)
	}
}

func TestMatchScore_AlwaysWithinUnitInterval(t *testing.T) {
	donation := bakeryDonation()

	profiles := []*domain.RecipientProfile{
		{UserID: "r1"}, // Empty profile.
		{UserID: "r2", Location: domain.Location{Lat: 500, Lng: 500}},
		{UserID: "r3", FoodPreferences: []string{"produce"}, Capacity: 1},
		perfectFitProfile(donation),
		{UserID: "r5", FoodPreferences: []string{"bakery"}, Capacity: 1000, AvailableHours: []domain.HourWindow{{Start: 9, End: 17}}, Location: domain.Location{Lat: 3, Lng: 4}},
	}

	for _, p := range profiles {
		score := service.MatchScore(donation, p)
		if score < 0 || score > 1 {
			t.Errorf("profile %s: score %f outside [0,1]", p.UserID, score)
		}
	}
}

func TestMatchScore_EmptyProfileScoresZero(t *testing.T) {
	donation := bakeryDonation()
	donation.Location = domain.Location{Lat: 100, Lng: 100}

	profile := &domain.RecipientProfile{UserID: "r1"}

	score := service.MatchScore(donation, profile)
	if score != 0 {
		t.Errorf("expected score 0 for empty distant profile, got %f", score)
	}
}

func TestMatchScore_ProximityCapsAtCutoff(t *testing.T) {
	donation := bakeryDonation()
	profile := perfectFitProfile(donation)

	// Exactly at the cutoff the proximity term is zero; everything else
	// still counts.
	profile.Location = domain.Location{Lat: 10, Lng: 0}
	score := service.MatchScore(donation, profile)
	if math.Abs(score-0.6) > 1e-9 {
		t.Errorf("expected 0.6 at cutoff distance, got %f", score)
	}

	// Far beyond the cutoff nothing changes.
	profile.Location = domain.Location{Lat: 400, Lng: 300}
	far := service.MatchScore(donation, profile)
	if math.Abs(far-0.6) > 1e-9 {
		t.Errorf("expected 0.6 far past cutoff, got %f", far)
	}
}

func TestMatchScore_ProximityLinearWithinCutoff(t *testing.T) {
	donation := bakeryDonation()
	profile := perfectFitProfile(donation)

	// 3-4-5 triangle: distance 5, half the cutoff, half the weight.
	profile.Location = domain.Location{Lat: 3, Lng: 4}

	score := service.MatchScore(donation, profile)
	expected := 0.4*0.5 + 0.3 + 0.2 + 0.1
	if math.Abs(score-expected) > 1e-9 {
		t.Errorf("expected %f, got %f", expected, score)
	}
}

func TestMatchScore_CategoryMismatchLosesWeight(t *testing.T) {
	donation := bakeryDonation()
	profile := perfectFitProfile(donation)
	profile.FoodPreferences = []string{"produce", "dairy"}

	score := service.MatchScore(donation, profile)
	if math.Abs(score-0.7) > 1e-9 {
		t.Errorf("expected 0.7 without category match, got %f", score)
	}
}

func TestMatchScore_InsufficientCapacityLosesWeight(t *testing.T) {
	donation := bakeryDonation()
	profile := perfectFitProfile(donation)
	profile.Capacity = donation.Quantity - 0.5

	score := service.MatchScore(donation, profile)
	if math.Abs(score-0.8) > 1e-9 {
		t.Errorf("expected 0.8 with insufficient capacity, got %f", score)
	}
}

func TestMatchScore_HourWindowEndpointsInclusive(t *testing.T) {
	donation := bakeryDonation()
	profile := perfectFitProfile(donation)
	profile.AvailableHours = []domain.HourWindow{{Start: 10, End: 14}}

	// Pickup at the window start.
	donation.PickupAt = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if score := service.MatchScore(donation, profile); math.Abs(score-1.0) > 1e-9 {
		t.Errorf("window start hour: expected 1.0, got %f", score)
	}

	// Pickup at the window end.
	donation.PickupAt = time.Date(2026, 3, 14, 14, 59, 0, 0, time.UTC)
	if score := service.MatchScore(donation, profile); math.Abs(score-1.0) > 1e-9 {
		t.Errorf("window end hour: expected 1.0, got %f", score)
	}

	// One hour past the window.
	donation.PickupAt = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	if score := service.MatchScore(donation, profile); math.Abs(score-0.9) > 1e-9 {
		t.Errorf("outside window: expected 0.9, got %f", score)
	}
}

func TestMatchScore_PickupHourEvaluatedInUTC(t *testing.T) {
	donation := bakeryDonation()
	profile := perfectFitProfile(donation)
	profile.AvailableHours = []domain.HourWindow{{Start: 10, End: 10}}

	// 15:00 UTC+5 is 10:00 UTC.
	loc := time.FixedZone("UTC+5", 5*3600)
	donation.PickupAt = time.Date(2026, 3, 14, 15, 0, 0, 0, loc)

	if score := service.MatchScore(donation, profile); math.Abs(score-1.0) > 1e-9 {
		t.Errorf("expected UTC hour to land in window, got %f", score)
	}
}

func TestDistance_Euclidean(t *testing.T) {
	a := domain.Location{Lat: 0, Lng: 0}
	b := domain.Location{Lat: 3, Lng: 4}

	if d := service.Distance(a, b); math.Abs(d-5.0) > 1e-9 {
		t.Errorf("expected distance 5, got %f", d)
	}
	if d := service.Distance(a, a); d != 0 {
		t.Errorf("expected zero distance, got %f", d)
	}
}

func TestEstimateDeliveryTime_UsesAverageSpeed(t *testing.T) {
	donation := bakeryDonation()
	profile := perfectFitProfile(donation)
	// Distance 15 at 30 units/hour is a 30 minute leg.
	profile.Location = domain.Location{Lat: 15, Lng: 0}

	eta := service.EstimateDeliveryTime(donation, profile, 30.0)
	expected := donation.PickupAt.Add(30 * time.Minute)
	if !eta.Equal(expected) {
		t.Errorf("expected eta %v, got %v", expected, eta)
	}
}

func TestEstimateRoute_CarriesEndpointsAndDistance(t *testing.T) {
	donation := bakeryDonation()
	profile := perfectFitProfile(donation)
	profile.Location = domain.Location{Lat: 3, Lng: 4, Address: "12 Depot St"}

	route := service.EstimateRoute(donation, profile)

	if route.Pickup != donation.Location {
		t.Errorf("expected pickup %v, got %v", donation.Location, route.Pickup)
	}
	if route.Delivery != profile.Location {
		t.Errorf("expected delivery %v, got %v", profile.Location, route.Delivery)
	}
	if math.Abs(route.Distance-5.0) > 1e-9 {
		t.Errorf("expected distance 5, got %f", route.Distance)
	}
}
