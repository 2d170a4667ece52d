package service

import (
	"math"

	"feedai/internal/domain"
)

// Scoring weights. They must sum to 1.0 so every score lands in [0,1].
const (
	proximityWeight = 0.4
	categoryWeight  = 0.3
	capacityWeight  = 0.2
	timeWeight      = 0.1
)

// proximityCutoff is the planar distance beyond which the proximity
// criterion contributes nothing.
const proximityCutoff = 10.0

// Distance computes the planar Euclidean distance between two locations.
// Coordinates are abstract distance units, not geodesic degrees.
func Distance(a, b domain.Location) float64 {
	dx := a.Lat - b.Lat
	dy := a.Lng - b.Lng
	return math.Sqrt(dx*dx + dy*dy)
}

// MatchScore computes the compatibility score between a donation and a
// recipient profile. It is deterministic and total: missing profile fields
// simply contribute zero to their criterion.
func MatchScore(donation *domain.Donation, profile *domain.RecipientProfile) float64 {
	score := 0.0

	// Proximity: distance 0 earns the full weight, distance >= cutoff earns
	// nothing, linear in between.
	distance := Distance(donation.Location, profile.Location)
	score += (1 - math.Min(distance/proximityCutoff, 1)) * proximityWeight

	// Category: all-or-nothing membership in the preference set.
	if profile.AcceptsFoodType(donation.FoodType) {
		score += categoryWeight
	}

	// Capacity: no partial credit for a recipient that cannot take the lot.
	if profile.Capacity >= donation.Quantity {
		score += capacityWeight
	}

	// Time window: pickup hour inside any window, endpoints inclusive.
	hour := donation.PickupAt.UTC().Hour()
	for _, window := range profile.AvailableHours {
		if window.Contains(hour) {
			score += timeWeight
			break
		}
	}

	return score
}
