package schedule

import (
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/jvrecio/ritmo/internal/logger"
	"github.com/jvrecio/ritmo/internal/models"
	"github.com/jvrecio/ritmo/internal/utils"
)

// State is the process-wide schedule state: base templates per shift,
// per-weekday overrides, settings, and closed-day summaries.
type State struct {
	Base      map[models.ShiftType]models.Template
	Overrides map[models.ShiftType]map[time.Weekday]models.Template
	Settings  models.Settings
	Summaries map[string]models.DaySummary
}

// TemplateTarget names one template a bulk mutation applies to: a shift's
// base template when Weekday is nil, or that shift's weekday override.
type TemplateTarget struct {
	Shift   models.ShiftType
	Weekday *time.Weekday
}

// Persister receives state mutations for asynchronous persistence.
// Failures are logged, not retried; local state has already moved on.
type Persister interface {
	SaveTemplateEntry(shift models.ShiftType, weekday string, habitID string, entry models.TemplateEntry) error
	DeleteTemplateEntry(shift models.ShiftType, weekday string, habitID string) error
	SaveSettings(models.Settings) error
	SaveSummary(models.DaySummary) error
}

// Store is the single owner of the schedule state. All mutation goes
// through its methods; reads hand out copies so callers can never alias
// the owned maps.
type Store struct {
	mu       sync.Mutex
	state    State
	persist  Persister
	subs     map[int]func()
	nextSub  int
	lastHash uint64
	loc      *time.Location
}

// NewStore creates a state store seeded with the given state. persist may
// be nil (tests, dry runs).
func NewStore(state State, persist Persister) *Store {
	normalizeState(&state)
	loc, err := utils.LoadLocation(state.Settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone in settings, falling back to local", "timezone", state.Settings.Timezone, "error", err)
		loc = time.Local
	}
	s := &Store{
		state:   state,
		persist: persist,
		subs:    make(map[int]func()),
		loc:     loc,
	}
	s.lastHash = s.hash()
	return s
}

func normalizeState(state *State) {
	if state.Base == nil {
		state.Base = make(map[models.ShiftType]models.Template)
	}
	if state.Overrides == nil {
		state.Overrides = make(map[models.ShiftType]map[time.Weekday]models.Template)
	}
	if state.Summaries == nil {
		state.Summaries = make(map[string]models.DaySummary)
	}
	models.ApplyDefaultSettings(&state.Settings)
}

// Location returns the store's resolved timezone.
func (s *Store) Location() *time.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// UpdateSettings applies fn to the settings, re-normalizes them, persists
// and notifies.
func (s *Store) UpdateSettings(fn func(*models.Settings)) models.Settings {
	s.mu.Lock()
	fn(&s.state.Settings)
	models.ApplyDefaultSettings(&s.state.Settings)
	if loc, err := utils.LoadLocation(s.state.Settings.Timezone); err == nil {
		s.loc = loc
	}
	updated := s.state.Settings
	s.mu.Unlock()

	s.persistAsync(func(p Persister) error { return p.SaveSettings(updated) })
	s.notify()
	return updated
}

// Template returns a copy of the base template for a shift.
func (s *Store) Template(shift models.ShiftType) models.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Base[shift].Clone()
}

// Override returns a copy of the weekday override template for a shift,
// or nil when none is configured.
func (s *Store) Override(shift models.ShiftType, weekday time.Weekday) models.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	if byDay, ok := s.state.Overrides[shift]; ok {
		if tpl, ok := byDay[weekday]; ok && len(tpl) > 0 {
			return tpl.Clone()
		}
	}
	return nil
}

// ApplyEntry sets a habit's entry across all given targets. Entries are
// normalized on the way in; invalid ones are dropped silently.
func (s *Store) ApplyEntry(habitID string, rawMode string, rawValue float64, targets []TemplateTarget) {
	entry, ok := models.NormalizeEntry(rawMode, rawValue)
	if !ok {
		logger.Debug("Dropping invalid template entry", "habit", habitID, "mode", rawMode, "value", rawValue)
		return
	}

	s.mu.Lock()
	for _, target := range targets {
		tpl := s.templateForLocked(target)
		tpl[habitID] = entry
	}
	s.mu.Unlock()

	for _, target := range targets {
		s.persistAsync(func(p Persister) error {
			return p.SaveTemplateEntry(target.Shift, weekdayKeyOf(target), habitID, entry)
		})
	}
	s.notify()
}

// RemoveEntry deletes a habit's entry from all given targets.
func (s *Store) RemoveEntry(habitID string, targets []TemplateTarget) {
	s.mu.Lock()
	for _, target := range targets {
		tpl := s.templateForLocked(target)
		delete(tpl, habitID)
	}
	s.mu.Unlock()

	for _, target := range targets {
		s.persistAsync(func(p Persister) error {
			return p.DeleteTemplateEntry(target.Shift, weekdayKeyOf(target), habitID)
		})
	}
	s.notify()
}

func (s *Store) templateForLocked(target TemplateTarget) models.Template {
	if target.Weekday == nil {
		tpl, ok := s.state.Base[target.Shift]
		if !ok {
			tpl = make(models.Template)
			s.state.Base[target.Shift] = tpl
		}
		return tpl
	}

	byDay, ok := s.state.Overrides[target.Shift]
	if !ok {
		byDay = make(map[time.Weekday]models.Template)
		s.state.Overrides[target.Shift] = byDay
	}
	tpl, ok := byDay[*target.Weekday]
	if !ok {
		tpl = make(models.Template)
		byDay[*target.Weekday] = tpl
	}
	return tpl
}

func weekdayKeyOf(target TemplateTarget) string {
	if target.Weekday == nil {
		return ""
	}
	return utils.WeekdayKey(*target.Weekday)
}

// Summary returns the closed-day summary for a date, if one exists.
func (s *Store) Summary(dayKey string) (models.DaySummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.state.Summaries[dayKey]
	return sum, ok
}

// SetSummary overwrites the summary for its date wholesale and persists it.
func (s *Store) SetSummary(sum models.DaySummary) {
	s.mu.Lock()
	s.state.Summaries[sum.DayKey] = sum
	s.mu.Unlock()

	s.persistAsync(func(p Persister) error { return p.SaveSummary(sum) })
	s.notify()
}

// Subscribe registers a change callback and returns an unsubscribe func.
// Callbacks fire only when the state actually changed.
func (s *Store) Subscribe(onChange func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = onChange
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) hash() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, err := hashstructure.Hash(s.state, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return h
}

func (s *Store) notify() {
	h := s.hash()

	s.mu.Lock()
	if h == s.lastHash {
		s.mu.Unlock()
		return
	}
	s.lastHash = h
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

func (s *Store) persistAsync(op func(Persister) error) {
	if s.persist == nil {
		return
	}
	p := s.persist
	go func() {
		if err := op(p); err != nil {
			logger.Error("Failed to persist schedule state", "error", err)
		}
	}()
}
