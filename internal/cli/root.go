// Package cli implements the ritmo command set. Commands share a Context
// carrying the storage provider and a lazily built schedule engine.
package cli

import (
	"fmt"
	"time"

	"github.com/jvrecio/ritmo/internal/backup"
	"github.com/jvrecio/ritmo/internal/constants"
	"github.com/jvrecio/ritmo/internal/logger"
	"github.com/jvrecio/ritmo/internal/models"
	"github.com/jvrecio/ritmo/internal/schedule"
	"github.com/jvrecio/ritmo/internal/storage"
	"github.com/jvrecio/ritmo/internal/utils"
)

type Context struct {
	Store storage.Provider

	engine *schedule.Engine
}

// Engine returns the schedule engine, building it on first use from the
// provider's persisted state.
func (c *Context) Engine() (*schedule.Engine, error) {
	if c.engine != nil {
		return c.engine, nil
	}

	state, err := LoadState(c.Store)
	if err != nil {
		return nil, fmt.Errorf("loading schedule state: %w", err)
	}

	store := schedule.NewStore(state, c.Store)
	c.engine = schedule.New(store, schedule.Deps{
		Habits:   c.Store,
		Activity: c.Store,
		Shifts:   c.Store,
		Running:  c.Store,
		Markers:  c.Store,
		Writer:   c.Store,
		Overlay:  schedule.NewOverlay(constants.OverlayTTL),
	})
	return c.engine, nil
}

// LoadState assembles the engine's in-memory state from provider rows.
func LoadState(provider storage.Provider) (schedule.State, error) {
	settings, err := provider.GetSettings()
	if err != nil {
		return schedule.State{}, fmt.Errorf("loading settings: %w", err)
	}

	state := schedule.State{
		Base:      make(map[models.ShiftType]models.Template),
		Overrides: make(map[models.ShiftType]map[time.Weekday]models.Template),
		Settings:  settings,
		Summaries: make(map[string]models.DaySummary),
	}

	assignments, err := provider.GetTemplateAssignments()
	if err != nil {
		return schedule.State{}, fmt.Errorf("loading templates: %w", err)
	}
	for _, a := range assignments {
		if a.Weekday == "" {
			tpl, ok := state.Base[a.Shift]
			if !ok {
				tpl = make(models.Template)
				state.Base[a.Shift] = tpl
			}
			tpl[a.HabitID] = a.Entry
			continue
		}

		weekday, err := utils.ParseWeekday(a.Weekday)
		if err != nil {
			logger.Warn("Skipping template row with bad weekday", "weekday", a.Weekday, "habit", a.HabitID)
			continue
		}
		byDay, ok := state.Overrides[a.Shift]
		if !ok {
			byDay = make(map[time.Weekday]models.Template)
			state.Overrides[a.Shift] = byDay
		}
		tpl, ok := byDay[weekday]
		if !ok {
			tpl = make(models.Template)
			byDay[weekday] = tpl
		}
		tpl[a.HabitID] = a.Entry
	}

	summaries, err := provider.GetSummaries("0000-01-01", "9999-12-31")
	if err != nil {
		return schedule.State{}, fmt.Errorf("loading summaries: %w", err)
	}
	for _, sum := range summaries {
		state.Summaries[sum.DayKey] = sum
	}

	return state, nil
}

// PerformAutomaticBackup creates a backup of a SQLite database, logging
// failures instead of interrupting the user's command.
func (c *Context) PerformAutomaticBackup() {
	if storage.IsPostgres(c.Store.GetConfigPath()) {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// todayKey returns the current schedule day key under the loaded settings.
func (c *Context) todayKey() (string, error) {
	eng, err := c.Engine()
	if err != nil {
		return "", err
	}
	settings := eng.State().Settings()
	closeMin := schedule.ParseCloseTime(settings.DayCloseTime)
	return schedule.DayKeyAt(time.Now(), closeMin, eng.State().Location()), nil
}

// resolveDayKey validates an explicit date or falls back to today.
func (c *Context) resolveDayKey(date string) (string, error) {
	if date == "" {
		return c.todayKey()
	}
	eng, err := c.Engine()
	if err != nil {
		return "", err
	}
	if _, err := utils.ParseDateInLocation(date, eng.State().Location()); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return date, nil
}
