package domain

import "time"

// DonationStatus represents the current status of a donation.
type DonationStatus string

const (
	DonationStatusAvailable DonationStatus = "available"
	DonationStatusMatched   DonationStatus = "matched"
	DonationStatusCompleted DonationStatus = "completed"
)

// Location is a coordinate pair with a human-readable address.
// Coordinates are abstract planar units, not geodesic degrees.
type Location struct {
	Lat     float64
	Lng     float64
	Address string
}

// Donation represents an offered unit of surplus food.
type Donation struct {
	ID         string
	DonorID    string
	FoodType   string
	Quantity   float64
	Unit       string
	Perishable bool
	ExpiresAt  time.Time // Zero when the donation has no expiry.
	PickupAt   time.Time
	Location   Location
	Status     DonationStatus
	CreatedAt  time.Time
}
