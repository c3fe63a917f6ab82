package models

import "time"

// HabitResult is one habit's evaluated entry inside a day summary.
type HabitResult struct {
	Mode      Mode    `json:"mode"`
	Target    int     `json:"target"`
	Done      float64 `json:"done"`
	Percent   int     `json:"percent"`
	Remaining float64 `json:"remaining"`
	Exceeded  float64 `json:"exceeded"`
}

// CreditBreakdown carries the credit ledger's accounting for one day.
// All fields are minute-equivalents.
type CreditBreakdown struct {
	BudgetMin             float64 `json:"budget_min"`
	ProductiveRealMin     float64 `json:"productive_real_min"`
	ProductiveAdjustedMin float64 `json:"productive_adjusted_min"`
	MissingMin            float64 `json:"missing_min"`
	MissingAfterMin       float64 `json:"missing_after_min"`
	WasteExcessMin        float64 `json:"waste_excess_min"`
	WasteAfterMin         float64 `json:"waste_after_min"`
	CreditsEarned         float64 `json:"credits_earned"`
	CreditsToGoals        float64 `json:"credits_to_goals"`
	CreditsToLimits       float64 `json:"credits_to_limits"`
}

// DaySummary is the immutable snapshot written when a day is closed. It is
// only ever replaced wholesale by a later close of the same date, never
// merged.
type DaySummary struct {
	Type          string                 `json:"type"`
	DayKey        string                 `json:"day_key"`
	Score         int                    `json:"score"`
	NetScore      int                    `json:"net_score,omitempty"`
	Label         string                 `json:"label"`
	Shift         ShiftType              `json:"shift"`
	PlanScore     int                    `json:"plan_score"`
	CreditScore   int                    `json:"credit_score"`
	PerHabit      map[string]HabitResult `json:"per_habit"`
	ThresholdUsed int                    `json:"threshold_used"`
	Credit        CreditBreakdown        `json:"credit"`
	ClosedAt      time.Time              `json:"closed_at"`
	CloseSource   string                 `json:"close_source"`
}

// Summary labels.
const (
	LabelMet    = "met"
	LabelMissed = "missed"
)
