package schedule

import (
	"fmt"
	"time"

	"github.com/jvrecio/ritmo/internal/logger"
	"github.com/jvrecio/ritmo/internal/models"
	"github.com/jvrecio/ritmo/internal/utils"
)

// CloseDay snapshots a schedule day into an immutable summary. The
// snapshot is recomputed from live data, ignoring any prior summary for
// the date, and unconditionally overwrites an existing entry: closing
// twice with different underlying totals yields different summaries, the
// later call winning.
func (e *Engine) CloseDay(dayKey, source string) (models.DaySummary, error) {
	if _, err := utils.ParseDateInLocation(dayKey, e.location()); err != nil {
		return models.DaySummary{}, fmt.Errorf("invalid day key %q: %w", dayKey, err)
	}
	if source != models.CloseSourceAuto {
		source = models.CloseSourceManual
	}

	data := e.BuildDayData(dayKey)
	settings := e.state.Settings()

	summary := models.DaySummary{
		Type:          "day",
		DayKey:        dayKey,
		Shift:         data.Shift,
		PlanScore:     data.PlanScore,
		CreditScore:   data.CreditScore,
		PerHabit:      make(map[string]models.HabitResult),
		ThresholdUsed: settings.SuccessThreshold,
		Credit:        data.Credit,
		ClosedAt:      e.now(),
		CloseSource:   source,
	}

	for _, rows := range [][]HabitProgress{data.Goals, data.Limits, data.Neutrals} {
		for _, row := range rows {
			summary.PerHabit[row.HabitID] = models.HabitResult{
				Mode:      row.Mode,
				Target:    row.Target,
				Done:      row.Done,
				Percent:   row.Percent,
				Remaining: row.Remaining,
				Exceeded:  row.Exceeded,
			}
		}
	}

	summary.Score = data.PlanScore
	if settings.ScoreModeDefault == "credit" {
		summary.Score = data.CreditScore
	}
	effective := summary.Score
	if settings.NetScoreEnabled {
		summary.NetScore = data.NetScore
		effective = data.NetScore
	}
	summary.Label = models.LabelMissed
	if effective >= settings.SuccessThreshold {
		summary.Label = models.LabelMet
	}

	e.state.SetSummary(summary)
	logger.Info("Closed day", "day", dayKey, "score", summary.Score, "label", summary.Label, "source", source)
	return summary, nil
}

// AutoCloseCheck closes the schedule day that most recently ended, if the
// wall clock has passed its boundary and neither a summary nor an
// auto-close marker exists for it yet. The marker prevents re-triggering
// after a successful auto close but never blocks a later manual close
// from overwriting the summary.
func (e *Engine) AutoCloseCheck(now time.Time) (string, bool, error) {
	closeMin := e.closeMin()
	loc := e.location()
	closeTime := e.state.Settings().DayCloseTime

	// The day that just ended is the one before the day containing now.
	current := scheduleDayStart(now, closeMin, loc)
	prevKey := DayKeyAt(current.Add(-time.Hour), closeMin, loc)

	if _, exists := e.state.Summary(prevKey); exists {
		return prevKey, false, nil
	}
	if e.markers != nil {
		done, err := e.markers.HasAutoCloseMarker(prevKey, closeTime)
		if err != nil {
			return prevKey, false, fmt.Errorf("checking auto-close marker: %w", err)
		}
		if done {
			return prevKey, false, nil
		}
	}

	if _, err := e.CloseDay(prevKey, models.CloseSourceAuto); err != nil {
		return prevKey, false, err
	}
	if e.markers != nil {
		if err := e.markers.SetAutoCloseMarker(prevKey, closeTime); err != nil {
			logger.Warn("Failed to record auto-close marker", "day", prevKey, "error", err)
		}
	}
	return prevKey, true, nil
}
