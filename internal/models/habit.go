package models

import "time"

// Habit is one tracked activity in the registry.
type Habit struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`

	// CountMinuteValue is the minute-equivalent of one counted unit when
	// converting count-metric entries into the credit currency.
	CountMinuteValue float64 `json:"count_minute_value"`

	// CreditEligibleOutsideSchedule marks activity on this habit as
	// credit-earning even when the habit is not part of the active template.
	CreditEligibleOutsideSchedule bool `json:"credit_eligible_outside_schedule"`
}

// Archived reports whether the habit has been archived.
func (h Habit) Archived() bool {
	return h.ArchivedAt != nil
}
