package tests

import (
	"context"
	"testing"

	"feedai/internal/domain"
	"feedai/internal/service"
)

func newRecipientFixture() (*service.RecipientService, *MockRecipientRepository, *MockUserRepository) {
	recipientRepo := NewMockRecipientRepository()
	userRepo := NewMockUserRepository()

	svc := service.NewRecipientService(recipientRepo, userRepo, nil)
	return svc, recipientRepo, userRepo
}

func registeredRecipient(recipientRepo *MockRecipientRepository, userRepo *MockUserRepository) *domain.RecipientProfile {
	userRepo.AddUser(&domain.User{ID: "recipient-1", Name: "Shelter", Type: domain.UserTypeRecipient})
	profile := &domain.RecipientProfile{
		UserID:          "recipient-1",
		FoodPreferences: []string{"bakery"},
		Capacity:        50,
		AvailableHours:  []domain.HourWindow{{Start: 9, End: 17}},
		Location:        domain.Location{Lat: 1, Lng: 1},
		Active:          true,
	}
	recipientRepo.AddProfile(profile)
	return profile
}

func TestUpdateProfile_PartialUpdateKeepsOmittedFields(t *testing.T) {
	ctx := context.Background()
	svc, recipientRepo, userRepo := newRecipientFixture()
	registeredRecipient(recipientRepo, userRepo)

	capacity := 80.0
	updated, err := svc.UpdateProfile(ctx, service.UpdateProfileRequest{
		UserID:   "recipient-1",
		Capacity: &capacity,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Capacity != 80 {
		t.Errorf("expected capacity 80, got %f", updated.Capacity)
	}
	// Everything omitted keeps its prior value.
	if len(updated.FoodPreferences) != 1 || updated.FoodPreferences[0] != "bakery" {
		t.Errorf("expected preferences preserved, got %v", updated.FoodPreferences)
	}
	if len(updated.AvailableHours) != 1 || updated.AvailableHours[0].Start != 9 {
		t.Errorf("expected hours preserved, got %v", updated.AvailableHours)
	}
	if !updated.Active {
		t.Error("expected active flag preserved")
	}
}

func TestUpdateProfile_RejectsInvalidHourWindow(t *testing.T) {
	ctx := context.Background()
	svc, recipientRepo, userRepo := newRecipientFixture()
	registeredRecipient(recipientRepo, userRepo)

	cases := []struct {
		name    string
		windows []domain.HourWindow
	}{
		{"negative start", []domain.HourWindow{{Start: -1, End: 5}}},
		{"end past 23", []domain.HourWindow{{Start: 5, End: 24}}},
		{"inverted", []domain.HourWindow{{Start: 15, End: 9}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			windows := tc.windows
			_, err := svc.UpdateProfile(ctx, service.UpdateProfileRequest{
				UserID:         "recipient-1",
				AvailableHours: &windows,
			})
			if err != service.ErrInvalidHourWindow {
				t.Errorf("expected ErrInvalidHourWindow, got %v", err)
			}
		})
	}
}

func TestUpdateProfile_RejectsNegativeCapacity(t *testing.T) {
	ctx := context.Background()
	svc, recipientRepo, userRepo := newRecipientFixture()
	registeredRecipient(recipientRepo, userRepo)

	capacity := -1.0
	_, err := svc.UpdateProfile(ctx, service.UpdateProfileRequest{
		UserID:   "recipient-1",
		Capacity: &capacity,
	})
	if err != service.ErrInvalidCapacity {
		t.Errorf("expected ErrInvalidCapacity, got %v", err)
	}
}

func TestUpdateProfile_DonorAccountRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, userRepo := newRecipientFixture()

	userRepo.AddUser(&domain.User{ID: "donor-1", Type: domain.UserTypeDonor})

	active := true
	_, err := svc.UpdateProfile(ctx, service.UpdateProfileRequest{
		UserID: "donor-1",
		Active: &active,
	})
	if err != service.ErrNotARecipient {
		t.Errorf("expected ErrNotARecipient, got %v", err)
	}
}

func TestGetProfile_MissingProfileNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRecipientFixture()

	if _, err := svc.GetProfile(ctx, "nobody"); err == nil {
		t.Error("expected error for missing profile")
	}
}
