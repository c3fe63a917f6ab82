package sqlite

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jvrecio/ritmo/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestHabitLifecycle(t *testing.T) {
	store := newTestStore(t)

	habit := models.Habit{
		ID:               uuid.New().String(),
		Name:             "reading",
		CreatedAt:        time.Now().UTC(),
		CountMinuteValue: 15,
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	got, err := store.GetHabitByName("reading")
	if err != nil {
		t.Fatalf("GetHabitByName: %v", err)
	}
	if got.ID != habit.ID || got.CountMinuteValue != 15 {
		t.Errorf("got %+v, want %+v", got, habit)
	}

	// Duplicate names are rejected by the unique index.
	dup := habit
	dup.ID = uuid.New().String()
	if err := store.AddHabit(dup); err == nil {
		t.Error("AddHabit should reject a duplicate name")
	}

	got.CreditEligibleOutsideSchedule = true
	if err := store.UpdateHabit(got); err != nil {
		t.Fatalf("UpdateHabit: %v", err)
	}
	updated, err := store.GetHabit(habit.ID)
	if err != nil {
		t.Fatalf("GetHabit: %v", err)
	}
	if !updated.CreditEligibleOutsideSchedule {
		t.Error("credit eligibility not persisted")
	}

	if err := store.ArchiveHabit(habit.ID); err != nil {
		t.Fatalf("ArchiveHabit: %v", err)
	}
	active, err := store.GetAllHabits(false)
	if err != nil {
		t.Fatalf("GetAllHabits: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("archived habit still listed as active: %+v", active)
	}
	all, err := store.GetAllHabits(true)
	if err != nil {
		t.Fatalf("GetAllHabits(true): %v", err)
	}
	if len(all) != 1 || all[0].ArchivedAt == nil {
		t.Errorf("expected one archived habit, got %+v", all)
	}

	if err := store.UnarchiveHabit(habit.ID); err != nil {
		t.Fatalf("UnarchiveHabit: %v", err)
	}
	if err := store.ArchiveHabit("missing"); err == nil {
		t.Error("ArchiveHabit should fail for an unknown id")
	}
}

func TestDayTotalsAccumulate(t *testing.T) {
	store := newTestStore(t)

	total, err := store.AddDayMinutes("h1", "2026-03-01", 30)
	if err != nil || total != 30 {
		t.Fatalf("AddDayMinutes = %v, %v, want 30", total, err)
	}
	total, err = store.AddDayMinutes("h1", "2026-03-01", 12.5)
	if err != nil || total != 42.5 {
		t.Fatalf("AddDayMinutes = %v, %v, want 42.5", total, err)
	}

	minutes, err := store.DayMinutes("h1", "2026-03-01")
	if err != nil || minutes != 42.5 {
		t.Errorf("DayMinutes = %v, %v", minutes, err)
	}
	// Unseen keys read as zero, not as an error.
	minutes, err = store.DayMinutes("h1", "2026-03-02")
	if err != nil || minutes != 0 {
		t.Errorf("DayMinutes for empty day = %v, %v", minutes, err)
	}

	if err := store.AddDayCount("h1", "2026-03-01", 2); err != nil {
		t.Fatalf("AddDayCount: %v", err)
	}
	if err := store.AddDayCount("h1", "2026-03-01", 1); err != nil {
		t.Fatalf("AddDayCount: %v", err)
	}
	count, err := store.DayCount("h1", "2026-03-01")
	if err != nil || count != 3 {
		t.Errorf("DayCount = %v, %v, want 3", count, err)
	}
}

func TestSessions(t *testing.T) {
	store := newTestStore(t)

	habit := models.Habit{ID: "h1", Name: "focus", CreatedAt: time.Now().UTC()}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	running := models.Session{ID: "s1", HabitID: "h1", StartTs: start}
	if err := store.AddSession(running); err != nil {
		t.Fatalf("AddSession: %v", err)
	}

	got, err := store.RunningSession()
	if err != nil {
		t.Fatalf("RunningSession: %v", err)
	}
	if got == nil || got.ID != "s1" {
		t.Fatalf("RunningSession = %+v, want s1", got)
	}

	if err := store.EndSession("s1", start.Add(45*time.Minute)); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	got, err = store.RunningSession()
	if err != nil {
		t.Fatalf("RunningSession after end: %v", err)
	}
	if got != nil {
		t.Errorf("session still running after EndSession: %+v", got)
	}
	// Ending twice is an error: the row no longer matches end_ts IS NULL.
	if err := store.EndSession("s1", start.Add(time.Hour)); err == nil {
		t.Error("EndSession should fail for an already-ended session")
	}

	sessions, err := store.SessionsInRange("h1", start.Add(-time.Hour), start.Add(time.Hour))
	if err != nil {
		t.Fatalf("SessionsInRange: %v", err)
	}
	if len(sessions) != 1 || sessions[0].DurationSec != 45*60 {
		t.Errorf("SessionsInRange = %+v", sessions)
	}
	// A window ending before the session starts excludes it.
	sessions, err = store.SessionsInRange("h1", start.Add(-2*time.Hour), start.Add(-time.Hour))
	if err != nil || len(sessions) != 0 {
		t.Errorf("expected empty range, got %+v, %v", sessions, err)
	}

	has, err := store.HasTimeline("h1")
	if err != nil || !has {
		t.Errorf("HasTimeline(h1) = %v, %v", has, err)
	}
	has, err = store.HasTimeline("h2")
	if err != nil || has {
		t.Errorf("HasTimeline(h2) = %v, %v", has, err)
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	store := newTestStore(t)

	entry := models.TemplateEntry{Mode: models.ModeTargetMinutes, Value: 60}
	if err := store.SaveTemplateEntry(models.ShiftMorning, "", "h1", entry); err != nil {
		t.Fatalf("SaveTemplateEntry: %v", err)
	}
	override := models.TemplateEntry{Mode: models.ModeLimitCount, Value: 2}
	if err := store.SaveTemplateEntry(models.ShiftMorning, "sat", "h1", override); err != nil {
		t.Fatalf("SaveTemplateEntry override: %v", err)
	}

	rows, err := store.GetTemplateAssignments()
	if err != nil {
		t.Fatalf("GetTemplateAssignments: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d assignments, want 2", len(rows))
	}

	byWeekday := map[string]models.TemplateAssignment{}
	for _, row := range rows {
		byWeekday[row.Weekday] = row
	}
	if byWeekday[""].Entry != entry {
		t.Errorf("base entry = %+v, want %+v", byWeekday[""].Entry, entry)
	}
	if byWeekday["sat"].Entry != override {
		t.Errorf("override entry = %+v, want %+v", byWeekday["sat"].Entry, override)
	}

	// Re-saving the same key replaces, not duplicates.
	entry.Value = 90
	if err := store.SaveTemplateEntry(models.ShiftMorning, "", "h1", entry); err != nil {
		t.Fatalf("SaveTemplateEntry update: %v", err)
	}
	rows, _ = store.GetTemplateAssignments()
	if len(rows) != 2 {
		t.Errorf("upsert duplicated the row: %d assignments", len(rows))
	}

	if err := store.DeleteTemplateEntry(models.ShiftMorning, "sat", "h1"); err != nil {
		t.Fatalf("DeleteTemplateEntry: %v", err)
	}
	rows, _ = store.GetTemplateAssignments()
	if len(rows) != 1 || rows[0].Weekday != "" {
		t.Errorf("expected only the base entry, got %+v", rows)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	// Init seeds defaults so a fresh store has settings.
	seeded, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings after init: %v", err)
	}
	if seeded.DayCloseTime == "" {
		t.Error("seeded settings missing day close time")
	}

	seeded.DayCloseTime = "05:00"
	seeded.SuccessThreshold = 80
	seeded.CreditRate = 0.5
	seeded.CreditAllocationOrder = []string{"limits", "goals"}
	seeded.NetScoreEnabled = true
	seeded.Timezone = "Europe/Madrid"
	if err := store.SaveSettings(seeded); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.DayCloseTime != "05:00" || got.SuccessThreshold != 80 || got.CreditRate != 0.5 {
		t.Errorf("settings round trip lost scalars: %+v", got)
	}
	if len(got.CreditAllocationOrder) != 2 || got.CreditAllocationOrder[0] != "limits" {
		t.Errorf("allocation order = %v", got.CreditAllocationOrder)
	}
	if !got.NetScoreEnabled || got.Timezone != "Europe/Madrid" {
		t.Errorf("settings round trip lost flags: %+v", got)
	}
}

func TestShifts(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetShift("2026-03-01", models.ShiftEvening); err != nil {
		t.Fatalf("SetShift: %v", err)
	}
	shift, ok, err := store.GetShift("2026-03-01")
	if err != nil || !ok || shift != models.ShiftEvening {
		t.Errorf("GetShift = %v, %v, %v", shift, ok, err)
	}

	if err := store.SetShift("2026-03-01", models.ShiftMorning); err != nil {
		t.Fatalf("SetShift overwrite: %v", err)
	}
	shift, _, _ = store.GetShift("2026-03-01")
	if shift != models.ShiftMorning {
		t.Errorf("shift overwrite not persisted: %v", shift)
	}

	_, ok, err = store.GetShift("2026-03-02")
	if err != nil || ok {
		t.Errorf("unassigned day should report ok=false, got %v, %v", ok, err)
	}
}

func TestSummaryOverwrite(t *testing.T) {
	store := newTestStore(t)

	first := models.DaySummary{
		Type:        "day_summary",
		DayKey:      "2026-03-01",
		Score:       40,
		Label:       models.LabelMissed,
		Shift:       models.ShiftMorning,
		ClosedAt:    time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC),
		CloseSource: models.CloseSourceAuto,
	}
	if err := store.SaveSummary(first); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}

	second := first
	second.Score = 85
	second.Label = models.LabelMet
	second.CloseSource = models.CloseSourceManual
	if err := store.SaveSummary(second); err != nil {
		t.Fatalf("SaveSummary overwrite: %v", err)
	}

	got, found, err := store.GetSummary("2026-03-01")
	if err != nil || !found {
		t.Fatalf("GetSummary = %v, %v", found, err)
	}
	if got.Score != 85 || got.Label != models.LabelMet || got.CloseSource != models.CloseSourceManual {
		t.Errorf("overwrite not wholesale: %+v", got)
	}

	if _, found, _ := store.GetSummary("2026-03-09"); found {
		t.Error("GetSummary should report missing days")
	}
}

func TestGetSummariesOrder(t *testing.T) {
	store := newTestStore(t)

	for _, day := range []string{"2026-03-01", "2026-03-03", "2026-03-02"} {
		sum := models.DaySummary{DayKey: day, Score: 50, Label: models.LabelMissed}
		if err := store.SaveSummary(sum); err != nil {
			t.Fatalf("SaveSummary(%s): %v", day, err)
		}
	}

	got, err := store.GetSummaries("2026-03-01", "2026-03-02")
	if err != nil {
		t.Fatalf("GetSummaries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}
	if got[0].DayKey != "2026-03-02" || got[1].DayKey != "2026-03-01" {
		t.Errorf("summaries not newest first: %s, %s", got[0].DayKey, got[1].DayKey)
	}
}

func TestAutoCloseMarkers(t *testing.T) {
	store := newTestStore(t)

	has, err := store.HasAutoCloseMarker("2026-03-01", "05:00")
	if err != nil || has {
		t.Fatalf("fresh marker = %v, %v", has, err)
	}
	if err := store.SetAutoCloseMarker("2026-03-01", "05:00"); err != nil {
		t.Fatalf("SetAutoCloseMarker: %v", err)
	}
	// Setting the same marker again is a no-op.
	if err := store.SetAutoCloseMarker("2026-03-01", "05:00"); err != nil {
		t.Fatalf("SetAutoCloseMarker repeat: %v", err)
	}

	has, err = store.HasAutoCloseMarker("2026-03-01", "05:00")
	if err != nil || !has {
		t.Errorf("marker not persisted: %v, %v", has, err)
	}
	// A changed close time keys a distinct marker.
	has, err = store.HasAutoCloseMarker("2026-03-01", "06:00")
	if err != nil || has {
		t.Errorf("marker should be keyed by close time: %v, %v", has, err)
	}
}
