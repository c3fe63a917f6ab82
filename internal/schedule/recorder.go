package schedule

import (
	"fmt"

	"github.com/jvrecio/ritmo/internal/models"
)

// ActivityWriter receives the engine's per-day activity writes.
type ActivityWriter interface {
	// AddDayMinutes adds minutes to a habit's total for a day and returns
	// the new total.
	AddDayMinutes(habitID, dayKey string, minutes float64) (float64, error)
	// AddDayCount bumps a habit's counter for a day.
	AddDayCount(habitID, dayKey string, delta int) error
}

// RecordSession books a finished session into per-day minute totals,
// splitting it across schedule-day boundaries. Each written total is also
// queued on the overlay so a re-read through a lagging remote snapshot
// still sees it.
func (e *Engine) RecordSession(sess models.Session) error {
	if e.writer == nil {
		return fmt.Errorf("no activity writer configured")
	}
	end, ok := sess.End()
	if !ok {
		return fmt.Errorf("session %s has no resolvable end", sess.ID)
	}

	closeMin := e.closeMin()
	loc := e.location()
	for _, chunk := range SplitInterval(sess.StartTs, end, closeMin, loc) {
		total, err := e.writer.AddDayMinutes(sess.HabitID, chunk.DayKey, chunk.Minutes)
		if err != nil {
			return fmt.Errorf("recording %s minutes for %s: %w", sess.HabitID, chunk.DayKey, err)
		}
		if e.overlay != nil {
			e.overlay.Put(sess.HabitID, chunk.DayKey, total)
		}
	}
	return nil
}

// RecordCount bumps a habit's counter for the schedule day containing now.
func (e *Engine) RecordCount(habitID string, delta int) error {
	if e.writer == nil {
		return fmt.Errorf("no activity writer configured")
	}
	if delta <= 0 {
		return nil
	}
	dayKey := DayKeyAt(e.now(), e.closeMin(), e.location())
	return e.writer.AddDayCount(habitID, dayKey, delta)
}
