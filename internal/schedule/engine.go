// Package schedule implements the habit schedule and credit engine: it
// partitions raw activity into schedule days, resolves the active
// goal/limit template for a date, scores progress against it, runs the
// credit ledger, and snapshots closed days. The engine is pure over its
// collaborators; rendering and persistence live elsewhere.
package schedule

import (
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jvrecio/ritmo/internal/models"
)

// HabitRegistry exposes the habit catalog, read-only to the engine.
type HabitRegistry interface {
	GetAllHabits(includeArchived bool) ([]models.Habit, error)
}

// ActivityStore exposes persisted activity, read-only to the engine.
type ActivityStore interface {
	// DayMinutes returns the calendar-keyed minute total for a habit and day.
	DayMinutes(habitID, dayKey string) (float64, error)
	// DayCount returns the non-time-split counter total for a habit and day.
	DayCount(habitID, dayKey string) (int, error)
	// SessionsInRange returns the detailed session timeline overlapping
	// [from, to), oldest first. An empty result means no timeline exists
	// for the range.
	SessionsInRange(habitID string, from, to time.Time) ([]models.Session, error)
	// HasTimeline reports whether a detailed session timeline exists for
	// the habit at all.
	HasTimeline(habitID string) (bool, error)
}

// ShiftLookup tells the engine which shift applies to a date. ok is false
// when no shift is assigned, in which case the date resolves to Free.
type ShiftLookup interface {
	GetShift(dayKey string) (models.ShiftType, bool, error)
}

// RunningSessionSource exposes the currently running session, if any.
type RunningSessionSource interface {
	RunningSession() (*models.Session, error)
}

// MarkerStore remembers which (day, close time) pairs the auto-closer has
// already handled, so a successful auto close never re-triggers.
type MarkerStore interface {
	SetAutoCloseMarker(dayKey, closeTime string) error
	HasAutoCloseMarker(dayKey, closeTime string) (bool, error)
}

// Deps bundles the engine's external collaborators.
type Deps struct {
	Habits   HabitRegistry
	Activity ActivityStore
	Shifts   ShiftLookup
	Running  RunningSessionSource
	Markers  MarkerStore
	Writer   ActivityWriter
	Overlay  *Overlay
}

// Engine evaluates schedule days against the owned state in Store.
type Engine struct {
	state    *Store
	habits   HabitRegistry
	activity ActivityStore
	shifts   ShiftLookup
	running  RunningSessionSource
	markers  MarkerStore
	writer   ActivityWriter
	overlay  *Overlay

	collator *collate.Collator
	now      func() time.Time
}

// New creates an engine over the given state store and collaborators.
func New(state *Store, deps Deps) *Engine {
	return &Engine{
		state:    state,
		habits:   deps.Habits,
		activity: deps.Activity,
		shifts:   deps.Shifts,
		running:  deps.Running,
		markers:  deps.Markers,
		writer:   deps.Writer,
		overlay:  deps.Overlay,
		collator: collate.New(language.Und, collate.IgnoreCase),
		now:      time.Now,
	}
}

// SetNow overrides the engine clock. Used by tests and the watcher.
func (e *Engine) SetNow(now func() time.Time) {
	e.now = now
}

// State returns the engine's owned schedule state store.
func (e *Engine) State() *Store {
	return e.state
}

func (e *Engine) location() *time.Location {
	return e.state.Location()
}

func (e *Engine) closeMin() int {
	return ParseCloseTime(e.state.Settings().DayCloseTime)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
