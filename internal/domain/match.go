package domain

import "time"

// MatchStatus represents the current status of a match.
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusCompleted MatchStatus = "completed"
)

// Route summarizes the pickup-to-delivery leg of a match.
type Route struct {
	Pickup   Location
	Delivery Location
	Distance float64
}

// Match binds one donation to one recipient. Matches are append-only:
// they are never deleted, only status-mutated.
type Match struct {
	ID                  string
	DonationID          string
	DonorID             string // Denormalized for per-donor queries.
	RecipientID         string
	Score               float64
	Route               Route
	EstimatedDeliveryAt time.Time
	Status              MatchStatus
	CreatedAt           time.Time
}
