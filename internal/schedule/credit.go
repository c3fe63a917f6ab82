package schedule

import (
	"math"
	"sort"

	"github.com/jvrecio/ritmo/internal/models"
)

// CreditEntry is one template entry normalized into the shared credit
// currency: minute-equivalents, with count metrics converted through the
// habit's per-unit rate.
type CreditEntry struct {
	HabitID  string
	TargetEq float64
	DoneEq   float64
}

// DayCredit is the allocation of earned credit across a day's shortfalls
// and overruns, keyed by habit.
type DayCredit struct {
	SpentByHabit  map[string]float64
	SpentToLimits map[string]float64
}

func (dc DayCredit) spentOnGoal(habitID string) float64 {
	return math.Max(0, dc.SpentByHabit[habitID])
}

func (dc DayCredit) spentOnLimit(habitID string) float64 {
	return math.Max(0, dc.SpentToLimits[habitID])
}

// Allocate distributes a credit balance across goal deficits and limit
// excesses. The pass is greedy: categories are visited in the configured
// order, habits within a category by largest deficit or excess first
// (habit ID as tie-break), each capped at its own deficit or excess,
// until the balance runs out.
func Allocate(balance float64, goals, limits []CreditEntry, order []string) DayCredit {
	dc := DayCredit{
		SpentByHabit:  make(map[string]float64),
		SpentToLimits: make(map[string]float64),
	}
	if balance <= 0 {
		return dc
	}

	if len(order) == 0 {
		order = []string{"goals", "limits"}
	}
	for _, category := range order {
		switch category {
		case "goals":
			balance = allocateCategory(balance, goals, goalDeficit, dc.SpentByHabit)
		case "limits":
			balance = allocateCategory(balance, limits, limitExcess, dc.SpentToLimits)
		}
	}
	return dc
}

func goalDeficit(e CreditEntry) float64 {
	return math.Max(0, e.TargetEq-e.DoneEq)
}

func limitExcess(e CreditEntry) float64 {
	return math.Max(0, e.DoneEq-e.TargetEq)
}

func allocateCategory(balance float64, entries []CreditEntry, need func(CreditEntry) float64, spent map[string]float64) float64 {
	ordered := make([]CreditEntry, len(entries))
	copy(ordered, entries)
	sort.Slice(ordered, func(i, j int) bool {
		ni, nj := need(ordered[i]), need(ordered[j])
		if ni != nj {
			return ni > nj
		}
		return ordered[i].HabitID < ordered[j].HabitID
	})

	for _, entry := range ordered {
		if balance <= 0 {
			break
		}
		amount := math.Min(balance, need(entry))
		if amount <= 0 {
			continue
		}
		spent[entry.HabitID] += amount
		balance -= amount
	}
	return balance
}

// ComputeCredit runs the credit ledger for one day. It consumes a
// pre-computed allocation and only validates: recorded spend against each
// goal is clipped to that goal's deficit and spend against each limit to
// that limit's excess, so the ledger never over-forgives. earned is the
// day's earned credit (goal overage plus eligible off-template activity,
// already rated).
func ComputeCredit(goals, limits []CreditEntry, earned float64, dc DayCredit) models.CreditBreakdown {
	bd := models.CreditBreakdown{CreditsEarned: math.Max(0, earned)}

	for _, g := range goals {
		bd.BudgetMin += g.TargetEq
		bd.ProductiveRealMin += math.Min(g.DoneEq, g.TargetEq)
		missing := goalDeficit(g)
		bd.MissingMin += missing
		bd.CreditsToGoals += math.Min(missing, dc.spentOnGoal(g.HabitID))
	}

	for _, l := range limits {
		excess := limitExcess(l)
		bd.WasteExcessMin += excess
		bd.CreditsToLimits += math.Min(excess, dc.spentOnLimit(l.HabitID))
	}

	bd.ProductiveAdjustedMin = bd.ProductiveRealMin + bd.CreditsToGoals
	bd.MissingAfterMin = math.Max(0, bd.MissingMin-bd.CreditsToGoals)
	bd.WasteAfterMin = math.Max(0, bd.WasteExcessMin-bd.CreditsToLimits)
	return bd
}

// CreditScore converts a breakdown into the credit-adjusted score, an
// integer 0-100. A zero budget scores 0, never NaN.
func CreditScore(bd models.CreditBreakdown) int {
	if bd.BudgetMin <= 0 {
		return 0
	}
	return int(clamp(math.Round(bd.ProductiveAdjustedMin/bd.BudgetMin*100), 0, 100))
}

// NetScore penalizes the credit score by the share of budget lost to
// unforgiven limit overruns.
func NetScore(bd models.CreditBreakdown) int {
	if bd.BudgetMin <= 0 {
		return 0
	}
	penalty := math.Round(bd.WasteAfterMin / bd.BudgetMin * 100)
	return int(clamp(float64(CreditScore(bd))-penalty, 0, 100))
}

// applyCredit converts the day's rows into credit entries, earns and
// allocates credit, and scores the result.
func (e *Engine) applyCredit(data *DayData, resolved ResolvedTemplate, habits map[string]models.Habit) {
	settings := e.state.Settings()

	var goals, limits []CreditEntry
	var overage float64
	for _, row := range data.Goals {
		entry := toCreditEntry(row, habits[row.HabitID])
		goals = append(goals, entry)
		overage += math.Max(0, entry.DoneEq-entry.TargetEq)
	}
	for _, row := range data.Limits {
		limits = append(limits, toCreditEntry(row, habits[row.HabitID]))
	}

	offTemplate := 0.0
	if settings.AllowCreditsOutsideTemplate {
		offTemplate = e.offTemplateMinutes(data.DayKey, resolved.Template, habits)
	}

	earned := settings.CreditRate * (overage + offTemplate)
	data.Spent = Allocate(earned, goals, limits, settings.CreditAllocationOrder)
	data.Credit = ComputeCredit(goals, limits, earned, data.Spent)
	data.CreditScore = CreditScore(data.Credit)
	data.NetScore = NetScore(data.Credit)
}

// toCreditEntry normalizes a progress row to minute-equivalents. Count
// metrics convert through the habit's per-unit minute value, defaulting
// to one minute per unit.
func toCreditEntry(row HabitProgress, habit models.Habit) CreditEntry {
	rate := habit.CountMinuteValue
	if rate <= 0 {
		rate = 1
	}

	entry := CreditEntry{HabitID: row.HabitID, TargetEq: float64(row.Target), DoneEq: row.Done}
	if row.Mode.IsCount() {
		entry.TargetEq *= rate
		entry.DoneEq *= rate
	}
	return entry
}

// offTemplateMinutes sums minute-equivalent activity on credit-eligible
// habits outside the active template.
func (e *Engine) offTemplateMinutes(dayKey string, tpl models.Template, habits map[string]models.Habit) float64 {
	var total float64
	for id, habit := range habits {
		if !habit.CreditEligibleOutsideSchedule {
			continue
		}
		if _, inTemplate := tpl[id]; inTemplate {
			continue
		}

		totals := e.Totals(id, dayKey, false)
		rate := habit.CountMinuteValue
		if rate <= 0 {
			rate = 1
		}
		total += totals.DoneMin + float64(totals.DoneCount)*rate
	}
	return total
}
