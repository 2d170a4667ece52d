package service

import "errors"

var (
	// ErrInvalidDonorID is returned when donor ID is empty.
	ErrInvalidDonorID = errors.New("invalid donor id")

	// ErrInvalidRecipientID is returned when recipient ID is empty.
	ErrInvalidRecipientID = errors.New("invalid recipient id")

	// ErrInvalidDonationID is returned when donation ID is empty.
	ErrInvalidDonationID = errors.New("invalid donation id")

	// ErrInvalidMatchID is returned when match ID is empty.
	ErrInvalidMatchID = errors.New("invalid match id")

	// ErrInvalidUserID is returned when the acting user's ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidFoodType is returned when the food type is empty.
	ErrInvalidFoodType = errors.New("invalid food type")

	// ErrInvalidQuantity is returned when quantity is zero or negative.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidUnit is returned when the quantity unit is empty.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrInvalidPickupTime is returned when the pickup time is unset.
	ErrInvalidPickupTime = errors.New("invalid pickup time")

	// ErrInvalidStatus is returned when a status value is outside the
	// enumerated set.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidStatusTransition is returned when a status write would move
	// backward or repeat the current state.
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrInvalidHourWindow is returned when an available-hours window is
	// outside 0-23 or ends before it starts.
	ErrInvalidHourWindow = errors.New("invalid hour window")

	// ErrInvalidCapacity is returned when capacity is negative.
	ErrInvalidCapacity = errors.New("invalid capacity")

	// ErrNotPartyToMatch is returned when the requesting user is neither the
	// donor nor the recipient of the match.
	ErrNotPartyToMatch = errors.New("user is not a party to this match")

	// ErrNotDonationOwner is returned when a donation write is attempted by
	// someone other than the owning donor.
	ErrNotDonationOwner = errors.New("user does not own this donation")

	// ErrDonationNotAvailable is returned when a match is attempted against a
	// donation that is no longer available.
	ErrDonationNotAvailable = errors.New("donation not available")

	// ErrDonationBeingMatched is returned when another matching attempt holds
	// the donation lock.
	ErrDonationBeingMatched = errors.New("donation is already being matched")

	// ErrConcurrentUpdate is returned when an incentive update lost the race
	// against a concurrent award for the same donor.
	ErrConcurrentUpdate = errors.New("concurrent incentive update detected")

	// ErrNotARecipient is returned when a recipient-only operation is
	// attempted by a non-recipient account.
	ErrNotARecipient = errors.New("user is not a recipient")

	// ErrNotADonor is returned when a donor-only operation is attempted by a
	// non-donor account.
	ErrNotADonor = errors.New("user is not a donor")
)
