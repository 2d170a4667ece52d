package domain

import "time"

// UserType distinguishes donor accounts from recipient organizations.
type UserType string

const (
	UserTypeDonor     UserType = "donor"
	UserTypeRecipient UserType = "recipient"
)

// User represents an account in the system. Donor accounts carry the
// incentive state: points only ever grow and badges are only ever added.
type User struct {
	ID        string
	Email     string
	Name      string
	Type      UserType
	Points    int
	Badges    []string
	Location  Location
	CreatedAt time.Time
}

// HasBadge reports whether the user already holds the named badge.
func (u *User) HasBadge(name string) bool {
	for _, b := range u.Badges {
		if b == name {
			return true
		}
	}
	return false
}
