package schedule

import (
	"math"
	"sort"
	"time"

	"github.com/jvrecio/ritmo/internal/logger"
	"github.com/jvrecio/ritmo/internal/models"
)

// HabitProgress is one habit's evaluated template entry for a day.
type HabitProgress struct {
	HabitID   string
	Name      string
	Mode      models.Mode
	Target    int
	Done      float64
	DoneMin   float64
	DoneCount int
	Percent   int
	Remaining float64
	Exceeded  float64
	Completed bool
	Running   bool
}

// DayData is everything a renderer needs for one schedule day.
type DayData struct {
	DayKey         string
	Shift          models.ShiftType
	Weekday        time.Weekday
	UsingOverride  bool
	Goals          []HabitProgress
	Limits         []HabitProgress
	Neutrals       []HabitProgress
	PlanScore      int
	CreditScore    int
	NetScore       int
	Credit         models.CreditBreakdown
	Spent          DayCredit
	RunningHabitID string
}

// BuildDayData evaluates the resolved template for a date against live
// totals and runs the credit ledger over the result.
func (e *Engine) BuildDayData(dayKey string) DayData {
	resolved := e.Resolve(dayKey)

	data := DayData{
		DayKey:        dayKey,
		Shift:         resolved.Shift,
		Weekday:       resolved.Weekday,
		UsingOverride: resolved.UsingOverride,
	}

	habits := e.habitIndex()
	data.RunningHabitID = e.runningHabitID()

	for habitID, entry := range resolved.Template {
		totals := e.Totals(habitID, dayKey, true)
		row := buildProgress(habitID, habits[habitID].Name, entry, totals)
		row.Running = habitID == data.RunningHabitID

		switch {
		case entry.Mode.IsGoal():
			data.Goals = append(data.Goals, row)
		case entry.Mode.IsLimit():
			data.Limits = append(data.Limits, row)
		default:
			// Neutral entries are shown only once they have activity.
			if totals.DoneMin > 0 || totals.DoneCount > 0 {
				data.Neutrals = append(data.Neutrals, row)
			}
		}
	}

	e.sortGoals(data.Goals)
	e.sortByName(data.Limits)
	e.sortByName(data.Neutrals)

	data.PlanScore = planScore(data.Goals)
	e.applyCredit(&data, resolved, habits)
	return data
}

// buildProgress evaluates a single template entry. Done follows the
// entry's metric: counts for count modes, minutes otherwise.
func buildProgress(habitID, name string, entry models.TemplateEntry, totals DayTotals) HabitProgress {
	if name == "" {
		name = habitID
	}
	done := totals.DoneMin
	if entry.Mode.IsCount() {
		done = float64(totals.DoneCount)
	}

	row := HabitProgress{
		HabitID:   habitID,
		Name:      name,
		Mode:      entry.Mode,
		Target:    entry.Value,
		Done:      done,
		DoneMin:   totals.DoneMin,
		DoneCount: totals.DoneCount,
	}

	target := float64(entry.Value)
	ratio := 0.0
	if target > 0 {
		ratio = done / target
	}
	row.Percent = int(math.Round(clamp(ratio, 0, 1) * 100))
	row.Remaining = math.Max(0, target-done)
	row.Exceeded = math.Max(0, done-target)
	row.Completed = entry.Mode.IsGoal() && done >= target
	return row
}

// sortGoals orders goals for display: the habit with a running session
// first, then incomplete before complete, larger remaining first among the
// incomplete, name as the locale-aware tie-break.
func (e *Engine) sortGoals(goals []HabitProgress) {
	sort.SliceStable(goals, func(i, j int) bool {
		a, b := goals[i], goals[j]
		if a.Running != b.Running {
			return a.Running
		}
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if !a.Completed && a.Remaining != b.Remaining {
			return a.Remaining > b.Remaining
		}
		return e.collator.CompareString(a.Name, b.Name) < 0
	})
}

func (e *Engine) sortByName(rows []HabitProgress) {
	sort.SliceStable(rows, func(i, j int) bool {
		return e.collator.CompareString(rows[i].Name, rows[j].Name) < 0
	})
}

// planScore is the weighted mean of goal progress, weight max(1, target),
// as an integer 0-100. No goals means 0.
func planScore(goals []HabitProgress) int {
	if len(goals) == 0 {
		return 0
	}

	var weighted, weights float64
	for _, g := range goals {
		weight := math.Max(1, float64(g.Target))
		progress := 0.0
		if g.Target > 0 {
			progress = clamp(g.Done/float64(g.Target), 0, 1)
		}
		weighted += progress * weight
		weights += weight
	}
	if weights == 0 {
		return 0
	}
	return int(math.Round(weighted / weights * 100))
}

func (e *Engine) habitIndex() map[string]models.Habit {
	index := make(map[string]models.Habit)
	if e.habits == nil {
		return index
	}
	all, err := e.habits.GetAllHabits(true)
	if err != nil {
		logger.Warn("Reading habit registry failed", "error", err)
		return index
	}
	for _, h := range all {
		index[h.ID] = h
	}
	return index
}

func (e *Engine) runningHabitID() string {
	if e.running == nil {
		return ""
	}
	sess, err := e.running.RunningSession()
	if err != nil || sess == nil {
		return ""
	}
	return sess.HabitID
}
