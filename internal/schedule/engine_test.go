package schedule

import (
	"time"

	"github.com/jvrecio/ritmo/internal/models"
)

// fakeData implements the engine's collaborator interfaces in memory.
type fakeData struct {
	habits   []models.Habit
	minutes  map[string]float64
	counts   map[string]int
	sessions map[string][]models.Session
	running  *models.Session
	shifts   map[string]models.ShiftType
	markers  map[string]bool
}

func newFakeData() *fakeData {
	return &fakeData{
		minutes:  make(map[string]float64),
		counts:   make(map[string]int),
		sessions: make(map[string][]models.Session),
		shifts:   make(map[string]models.ShiftType),
		markers:  make(map[string]bool),
	}
}

func key(habitID, dayKey string) string { return habitID + "|" + dayKey }

func (f *fakeData) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	return f.habits, nil
}

func (f *fakeData) DayMinutes(habitID, dayKey string) (float64, error) {
	return f.minutes[key(habitID, dayKey)], nil
}

func (f *fakeData) DayCount(habitID, dayKey string) (int, error) {
	return f.counts[key(habitID, dayKey)], nil
}

func (f *fakeData) SessionsInRange(habitID string, from, to time.Time) ([]models.Session, error) {
	var out []models.Session
	for _, s := range f.sessions[habitID] {
		end, ok := s.End()
		if !ok {
			continue
		}
		if s.StartTs.Before(to) && end.After(from) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeData) HasTimeline(habitID string) (bool, error) {
	return len(f.sessions[habitID]) > 0, nil
}

func (f *fakeData) GetShift(dayKey string) (models.ShiftType, bool, error) {
	st, ok := f.shifts[dayKey]
	return st, ok, nil
}

func (f *fakeData) RunningSession() (*models.Session, error) {
	return f.running, nil
}

func (f *fakeData) SetAutoCloseMarker(dayKey, closeTime string) error {
	f.markers[dayKey+"@"+closeTime] = true
	return nil
}

func (f *fakeData) HasAutoCloseMarker(dayKey, closeTime string) (bool, error) {
	return f.markers[dayKey+"@"+closeTime], nil
}

func (f *fakeData) AddDayMinutes(habitID, dayKey string, minutes float64) (float64, error) {
	f.minutes[key(habitID, dayKey)] += minutes
	return f.minutes[key(habitID, dayKey)], nil
}

func (f *fakeData) AddDayCount(habitID, dayKey string, delta int) error {
	f.counts[key(habitID, dayKey)] += delta
	return nil
}

func testSettings() models.Settings {
	return models.Settings{
		DayCloseTime:          "00:00",
		SuccessThreshold:      70,
		CreditRate:            1,
		CreditAllocationOrder: []string{"goals", "limits"},
		ScoreModeDefault:      "plan",
		Timezone:              "UTC",
	}
}

func newTestEngine(state State, data *fakeData) *Engine {
	if state.Settings.Timezone == "" {
		state.Settings = testSettings()
	}
	store := NewStore(state, nil)
	e := New(store, Deps{
		Habits:   data,
		Activity: data,
		Shifts:   data,
		Running:  data,
		Markers:  data,
		Writer:   data,
	})
	e.SetNow(func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	})
	return e
}

func baseTemplate(shift models.ShiftType, tpl models.Template) State {
	return State{
		Base:     map[models.ShiftType]models.Template{shift: tpl},
		Settings: testSettings(),
	}
}
