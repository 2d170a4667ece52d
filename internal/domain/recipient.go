package domain

// HourWindow is an available-hours window in local clock hours, both
// endpoints inclusive. Valid hours are 0-23.
type HourWindow struct {
	Start int
	End   int
}

// Contains reports whether the given hour falls inside the window.
func (w HourWindow) Contains(hour int) bool {
	return hour >= w.Start && hour <= w.End
}

// RecipientProfile holds the matching-relevant attributes of a recipient
// organization. It is owned by the recipient account and mutated only
// through profile updates.
type RecipientProfile struct {
	UserID          string
	FoodPreferences []string
	Capacity        float64
	AvailableHours  []HourWindow
	Location        Location
	Active          bool
}

// AcceptsFoodType reports whether the food type is in the preference set.
func (p *RecipientProfile) AcceptsFoodType(foodType string) bool {
	for _, pref := range p.FoodPreferences {
		if pref == foodType {
			return true
		}
	}
	return false
}
