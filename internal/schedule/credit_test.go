package schedule

import (
	"testing"

	"github.com/jvrecio/ritmo/internal/models"
)

func TestAllocate_GoalsFirst(t *testing.T) {
	goals := []CreditEntry{{HabitID: "a", TargetEq: 60, DoneEq: 30}} // deficit 30
	limits := []CreditEntry{{HabitID: "c", TargetEq: 30, DoneEq: 50}} // excess 20

	dc := Allocate(30, goals, limits, []string{"goals", "limits"})
	if got := dc.SpentByHabit["a"]; got != 30 {
		t.Errorf("spent on goal a = %v, want 30", got)
	}
	if got := dc.SpentToLimits["c"]; got != 0 {
		t.Errorf("spent on limit c = %v, want 0", got)
	}
}

func TestAllocate_LimitsFirst(t *testing.T) {
	goals := []CreditEntry{{HabitID: "a", TargetEq: 60, DoneEq: 30}}
	limits := []CreditEntry{{HabitID: "c", TargetEq: 30, DoneEq: 50}}

	dc := Allocate(30, goals, limits, []string{"limits", "goals"})
	if got := dc.SpentToLimits["c"]; got != 20 {
		t.Errorf("spent on limit c = %v, want 20", got)
	}
	if got := dc.SpentByHabit["a"]; got != 10 {
		t.Errorf("spent on goal a = %v, want 10", got)
	}
}

func TestAllocate_LargestDeficitFirst(t *testing.T) {
	goals := []CreditEntry{
		{HabitID: "small", TargetEq: 20, DoneEq: 10}, // deficit 10
		{HabitID: "big", TargetEq: 90, DoneEq: 30},   // deficit 60
	}

	dc := Allocate(50, goals, nil, []string{"goals", "limits"})
	if got := dc.SpentByHabit["big"]; got != 50 {
		t.Errorf("spent on big = %v, want 50", got)
	}
	if got := dc.SpentByHabit["small"]; got != 0 {
		t.Errorf("spent on small = %v, want 0", got)
	}
}

func TestAllocate_CapsAtOwnDeficit(t *testing.T) {
	goals := []CreditEntry{{HabitID: "a", TargetEq: 60, DoneEq: 50}} // deficit 10
	dc := Allocate(100, goals, nil, []string{"goals", "limits"})
	if got := dc.SpentByHabit["a"]; got != 10 {
		t.Errorf("spent on a = %v, want 10 (capped at deficit)", got)
	}
}

func TestComputeCredit_ClipsOverSpend(t *testing.T) {
	goals := []CreditEntry{{HabitID: "a", TargetEq: 60, DoneEq: 40}}  // missing 20
	limits := []CreditEntry{{HabitID: "c", TargetEq: 30, DoneEq: 45}} // excess 15

	// Externally supplied spends exceed the deficits; the ledger must clip.
	dc := DayCredit{
		SpentByHabit:  map[string]float64{"a": 500},
		SpentToLimits: map[string]float64{"c": 500},
	}
	bd := ComputeCredit(goals, limits, 0, dc)

	if bd.CreditsToGoals != 20 {
		t.Errorf("CreditsToGoals = %v, want 20 (clipped to missing)", bd.CreditsToGoals)
	}
	if bd.CreditsToLimits != 15 {
		t.Errorf("CreditsToLimits = %v, want 15 (clipped to excess)", bd.CreditsToLimits)
	}
	if bd.MissingAfterMin != 0 {
		t.Errorf("MissingAfterMin = %v, want 0", bd.MissingAfterMin)
	}
	if bd.WasteAfterMin != 0 {
		t.Errorf("WasteAfterMin = %v, want 0", bd.WasteAfterMin)
	}
}

func TestComputeCredit_Accounting(t *testing.T) {
	goals := []CreditEntry{
		{HabitID: "a", TargetEq: 60, DoneEq: 30}, // missing 30
		{HabitID: "b", TargetEq: 30, DoneEq: 60}, // overage 30
	}
	limits := []CreditEntry{{HabitID: "c", TargetEq: 30, DoneEq: 50}} // excess 20

	dc := Allocate(30, goals, limits, []string{"goals", "limits"})
	bd := ComputeCredit(goals, limits, 30, dc)

	if bd.BudgetMin != 90 {
		t.Errorf("BudgetMin = %v, want 90", bd.BudgetMin)
	}
	if bd.ProductiveRealMin != 60 {
		t.Errorf("ProductiveRealMin = %v, want 60", bd.ProductiveRealMin)
	}
	if bd.CreditsToGoals != 30 {
		t.Errorf("CreditsToGoals = %v, want 30", bd.CreditsToGoals)
	}
	if bd.ProductiveAdjustedMin != 90 {
		t.Errorf("ProductiveAdjustedMin = %v, want 90", bd.ProductiveAdjustedMin)
	}
	if got := CreditScore(bd); got != 100 {
		t.Errorf("CreditScore = %d, want 100", got)
	}
	// 20 unforgiven limit minutes against a 90 minute budget.
	if got := NetScore(bd); got != 78 {
		t.Errorf("NetScore = %d, want 78", got)
	}
}

func TestCreditScore_ZeroBudget(t *testing.T) {
	bd := ComputeCredit(nil, nil, 50, DayCredit{})
	if got := CreditScore(bd); got != 0 {
		t.Errorf("CreditScore with no goals = %d, want 0", got)
	}
	if got := NetScore(bd); got != 0 {
		t.Errorf("NetScore with no goals = %d, want 0", got)
	}
}

func TestBuildDayData_CreditConservation(t *testing.T) {
	data := newFakeData()
	data.habits = []models.Habit{
		{ID: "read", Name: "Read"},
		{ID: "gym", Name: "Gym"},
		{ID: "tv", Name: "TV"},
		{ID: "walk", Name: "Walk", CreditEligibleOutsideSchedule: true},
	}
	data.shifts["2026-03-10"] = models.ShiftMorning
	data.minutes[key("read", "2026-03-10")] = 120 // overage 60
	data.minutes[key("gym", "2026-03-10")] = 5    // missing 40
	data.minutes[key("tv", "2026-03-10")] = 90    // excess 60
	data.minutes[key("walk", "2026-03-10")] = 25  // off-template credit

	state := baseTemplate(models.ShiftMorning, models.Template{
		"read": {Mode: models.ModeTargetMinutes, Value: 60},
		"gym":  {Mode: models.ModeTargetMinutes, Value: 45},
		"tv":   {Mode: models.ModeLimitMinutes, Value: 30},
	})
	state.Settings.AllowCreditsOutsideTemplate = true
	e := newTestEngine(state, data)

	day := e.BuildDayData("2026-03-10")
	if day.Credit.CreditsEarned != 85 {
		t.Errorf("CreditsEarned = %v, want 85 (60 overage + 25 off-template)", day.Credit.CreditsEarned)
	}

	// Conservation: no goal is forgiven beyond its deficit, no limit
	// beyond its excess.
	if got := day.Spent.SpentByHabit["gym"]; got > 40 {
		t.Errorf("spent on gym = %v, exceeds deficit 40", got)
	}
	if got := day.Spent.SpentToLimits["tv"]; got > 60 {
		t.Errorf("spent on tv = %v, exceeds excess 60", got)
	}
	if day.Credit.CreditsToGoals > day.Credit.MissingMin {
		t.Errorf("CreditsToGoals %v exceeds MissingMin %v", day.Credit.CreditsToGoals, day.Credit.MissingMin)
	}
	if day.Credit.CreditsToLimits > day.Credit.WasteExcessMin {
		t.Errorf("CreditsToLimits %v exceeds WasteExcessMin %v", day.Credit.CreditsToLimits, day.Credit.WasteExcessMin)
	}

	// Goals first: the 85 earned cover gym's 40 deficit, then 45 go to tv.
	if got := day.Spent.SpentByHabit["gym"]; got != 40 {
		t.Errorf("spent on gym = %v, want 40", got)
	}
	if got := day.Spent.SpentToLimits["tv"]; got != 45 {
		t.Errorf("spent on tv = %v, want 45", got)
	}

	if day.CreditScore < 0 || day.CreditScore > 100 {
		t.Errorf("CreditScore out of bounds: %d", day.CreditScore)
	}
}

func TestBuildDayData_OffTemplateRequiresEligibility(t *testing.T) {
	data := newFakeData()
	data.habits = []models.Habit{
		{ID: "read", Name: "Read"},
		{ID: "walk", Name: "Walk"}, // not credit eligible
	}
	data.shifts["2026-03-10"] = models.ShiftMorning
	data.minutes[key("read", "2026-03-10")] = 30
	data.minutes[key("walk", "2026-03-10")] = 500

	state := baseTemplate(models.ShiftMorning, models.Template{
		"read": {Mode: models.ModeTargetMinutes, Value: 60},
	})
	state.Settings.AllowCreditsOutsideTemplate = true
	e := newTestEngine(state, data)

	day := e.BuildDayData("2026-03-10")
	if day.Credit.CreditsEarned != 0 {
		t.Errorf("CreditsEarned = %v, want 0 for ineligible off-template habit", day.Credit.CreditsEarned)
	}
}
