package service

import (
	"time"

	"feedai/internal/domain"
)

// defaultAverageSpeed is the assumed courier speed in distance units per hour.
const defaultAverageSpeed = 30.0

// EstimateRoute builds the route summary for a donation/recipient pair.
func EstimateRoute(donation *domain.Donation, profile *domain.RecipientProfile) domain.Route {
	return domain.Route{
		Pickup:   donation.Location,
		Delivery: profile.Location,
		Distance: Distance(donation.Location, profile.Location),
	}
}

// EstimateDeliveryTime projects the delivery timestamp: pickup time plus the
// travel time at the given average speed (distance units per hour).
func EstimateDeliveryTime(donation *domain.Donation, profile *domain.RecipientProfile, averageSpeed float64) time.Time {
	if averageSpeed <= 0 {
		averageSpeed = defaultAverageSpeed
	}

	distance := Distance(donation.Location, profile.Location)
	hours := distance / averageSpeed

	return donation.PickupAt.Add(time.Duration(hours * float64(time.Hour)))
}
