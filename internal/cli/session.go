package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jvrecio/ritmo/internal/models"
	"github.com/jvrecio/ritmo/internal/utils"
)

type SessionCmd struct {
	Start  SessionStartCmd  `cmd:"" help:"Start a timed session for a habit."`
	Stop   SessionStopCmd   `cmd:"" help:"Stop the running session."`
	Log    SessionLogCmd    `cmd:"" help:"Log a finished session or a count after the fact."`
	Status SessionStatusCmd `cmd:"" help:"Show the running session, if any."`
}

type SessionStartCmd struct {
	Habit string `arg:"" help:"Habit name."`
}

func (c *SessionStartCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Habit)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Habit)
	}

	if running, err := ctx.Store.RunningSession(); err != nil {
		return err
	} else if running != nil {
		return fmt.Errorf("a session is already running (started %s); stop it first",
			running.StartTs.Format("15:04"))
	}

	sess := models.Session{
		ID:      uuid.New().String(),
		HabitID: habit.ID,
		StartTs: time.Now(),
	}
	if err := ctx.Store.AddSession(sess); err != nil {
		return err
	}

	fmt.Printf("Started session for %s at %s\n", habit.Name, sess.StartTs.Format("15:04"))
	return nil
}

type SessionStopCmd struct{}

func (c *SessionStopCmd) Run(ctx *Context) error {
	running, err := ctx.Store.RunningSession()
	if err != nil {
		return err
	}
	if running == nil {
		return fmt.Errorf("no session is running")
	}

	end := time.Now()
	if err := ctx.Store.EndSession(running.ID, end); err != nil {
		return err
	}

	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	finished := *running
	finished.EndTs = &end
	if err := eng.RecordSession(finished); err != nil {
		return err
	}

	minutes := end.Sub(running.StartTs).Minutes()
	fmt.Printf("Stopped session: %.0f minutes\n", minutes)
	return nil
}

type SessionLogCmd struct {
	Habit   string `arg:"" help:"Habit name."`
	Minutes int    `help:"Session length in minutes, ending now (or at --end)." xor:"amount"`
	Count   int    `help:"Log counted units instead of time." xor:"amount"`
	End     string `help:"Session end time HH:MM (default: now)."`
}

func (c *SessionLogCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Habit)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Habit)
	}
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	if c.Count > 0 {
		if err := eng.RecordCount(habit.ID, c.Count); err != nil {
			return err
		}
		fmt.Printf("Logged %d× %s\n", c.Count, habit.Name)
		return nil
	}

	if c.Minutes <= 0 {
		return fmt.Errorf("specify --minutes or --count")
	}

	end := time.Now()
	if c.End != "" {
		parsed, err := utils.ParseTime(c.End)
		if err != nil {
			return fmt.Errorf("invalid end time %q (expected HH:MM)", c.End)
		}
		loc := eng.State().Location()
		now := time.Now().In(loc)
		end = time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc)
	}

	sess := models.Session{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		StartTs:     end.Add(-time.Duration(c.Minutes) * time.Minute),
		EndTs:       &end,
		DurationSec: c.Minutes * 60,
	}
	if err := ctx.Store.AddSession(sess); err != nil {
		return err
	}
	if err := eng.RecordSession(sess); err != nil {
		return err
	}

	fmt.Printf("Logged %d minutes of %s\n", c.Minutes, habit.Name)
	return nil
}

type SessionStatusCmd struct{}

func (c *SessionStatusCmd) Run(ctx *Context) error {
	running, err := ctx.Store.RunningSession()
	if err != nil {
		return err
	}
	if running == nil {
		fmt.Println("No session running.")
		return nil
	}

	habit, err := ctx.Store.GetHabit(running.HabitID)
	name := running.HabitID
	if err == nil {
		name = habit.Name
	}

	elapsed := time.Since(running.StartTs).Minutes()
	fmt.Printf("Running: %s (started %s, %.0f min elapsed)\n",
		name, running.StartTs.Format("15:04"), elapsed)
	return nil
}
