package schedule

import (
	"time"

	"github.com/jvrecio/ritmo/internal/logger"
)

// DayTotals is the derived "done" activity for one habit on one schedule
// day. It is recomputed on demand and never persisted.
type DayTotals struct {
	DoneMin   float64
	DoneCount int
}

// Totals computes done minutes and counts for a habit on a schedule day.
//
// Fast path: with a midnight day close, calendar-keyed daily totals are
// trusted directly. Slow path: with a shifted close and a session timeline
// present, minutes are recomputed by splitting each session across
// schedule days; the maximum of both values wins, since the timeline is
// only authoritative when both its endpoints are. When includeRunning is
// set and a session for this habit is live, its elapsed span contributes
// through a fresh split.
func (e *Engine) Totals(habitID, dayKey string, includeRunning bool) DayTotals {
	totals := DayTotals{}
	closeMin := e.closeMin()
	loc := e.location()

	fast, err := e.activity.DayMinutes(habitID, dayKey)
	if err != nil {
		logger.Warn("Reading day minutes failed", "habit", habitID, "day", dayKey, "error", err)
		fast = 0
	}
	if fast < 0 {
		fast = 0
	}
	if e.overlay != nil {
		fast = e.overlay.Patch(habitID, dayKey, fast)
	}
	totals.DoneMin = fast

	if closeMin != 0 {
		if hasTimeline, err := e.activity.HasTimeline(habitID); err == nil && hasTimeline {
			if recomputed, ok := e.recomputeFromTimeline(habitID, dayKey, closeMin, loc); ok && recomputed > totals.DoneMin {
				totals.DoneMin = recomputed
			}
		}
	}

	if includeRunning {
		totals.DoneMin += e.runningMinutes(habitID, dayKey, closeMin, loc)
	}

	count, err := e.activity.DayCount(habitID, dayKey)
	if err != nil {
		logger.Warn("Reading day count failed", "habit", habitID, "day", dayKey, "error", err)
		count = 0
	}
	if count < 0 {
		count = 0
	}
	totals.DoneCount = count

	return totals
}

// recomputeFromTimeline splits every session overlapping the schedule day
// and sums the chunks that land on it.
func (e *Engine) recomputeFromTimeline(habitID, dayKey string, closeMin int, loc *time.Location) (float64, bool) {
	dayStart, dayEnd, err := DayBounds(dayKey, closeMin, loc)
	if err != nil {
		return 0, false
	}

	sessions, err := e.activity.SessionsInRange(habitID, dayStart, dayEnd)
	if err != nil {
		logger.Warn("Reading session timeline failed", "habit", habitID, "day", dayKey, "error", err)
		return 0, false
	}

	var minutes float64
	for _, sess := range sessions {
		end, ok := sess.End()
		if !ok {
			continue
		}
		for _, chunk := range SplitInterval(sess.StartTs, end, closeMin, loc) {
			if chunk.DayKey == dayKey {
				minutes += chunk.Minutes
			}
		}
	}
	return minutes, true
}

// runningMinutes returns the live contribution of the currently running
// session to the given schedule day, zero if none applies.
func (e *Engine) runningMinutes(habitID, dayKey string, closeMin int, loc *time.Location) float64 {
	if e.running == nil {
		return 0
	}
	sess, err := e.running.RunningSession()
	if err != nil {
		logger.Warn("Reading running session failed", "error", err)
		return 0
	}
	if sess == nil || sess.HabitID != habitID {
		return 0
	}

	var minutes float64
	for _, chunk := range SplitInterval(sess.StartTs, e.now(), closeMin, loc) {
		if chunk.DayKey == dayKey {
			minutes += chunk.Minutes
		}
	}
	return minutes
}
