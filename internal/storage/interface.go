package storage

import (
	"time"

	"github.com/jvrecio/ritmo/internal/models"
)

// Provider is the persistence surface for habits, sessions, day totals,
// templates, settings, shifts, and closed-day summaries. It is a superset
// of the engine's collaborator interfaces, so one provider wires the whole
// application.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error

	// Sessions
	AddSession(models.Session) error
	EndSession(id string, end time.Time) error
	// RunningSession returns the open session, or nil when none is running.
	RunningSession() (*models.Session, error)
	// SessionsInRange returns sessions overlapping [from, to), oldest first.
	SessionsInRange(habitID string, from, to time.Time) ([]models.Session, error)
	HasTimeline(habitID string) (bool, error)

	// Day totals
	DayMinutes(habitID, dayKey string) (float64, error)
	// AddDayMinutes adds minutes to a habit's day total and returns the new total.
	AddDayMinutes(habitID, dayKey string, minutes float64) (float64, error)
	DayCount(habitID, dayKey string) (int, error)
	AddDayCount(habitID, dayKey string, delta int) error

	// Templates
	GetTemplateAssignments() ([]models.TemplateAssignment, error)
	SaveTemplateEntry(shift models.ShiftType, weekday string, habitID string, entry models.TemplateEntry) error
	DeleteTemplateEntry(shift models.ShiftType, weekday string, habitID string) error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Shifts
	SetShift(dayKey string, shift models.ShiftType) error
	GetShift(dayKey string) (models.ShiftType, bool, error)

	// Summaries
	SaveSummary(models.DaySummary) error
	GetSummary(dayKey string) (models.DaySummary, bool, error)
	// GetSummaries returns summaries with startDay <= day <= endDay, newest first.
	GetSummaries(startDay, endDay string) ([]models.DaySummary, error)

	// Auto-close markers
	SetAutoCloseMarker(dayKey, closeTime string) error
	HasAutoCloseMarker(dayKey, closeTime string) (bool, error)

	// Utils
	GetConfigPath() string
}
