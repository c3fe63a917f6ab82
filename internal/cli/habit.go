package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jvrecio/ritmo/internal/models"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Edit      HabitEditCmd      `cmd:"" help:"Edit a habit's credit attributes."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Restore an archived habit."`
}

type HabitAddCmd struct {
	Name          string  `arg:"" help:"Habit name."`
	CountValue    float64 `help:"Minute-equivalent of one counted unit for credit purposes." default:"0"`
	CreditOutside bool    `help:"Earn credit for this habit even when it is off the day's template."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if _, err := ctx.Store.GetHabitByName(c.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	habit := models.Habit{
		ID:                            uuid.New().String(),
		Name:                          c.Name,
		CreatedAt:                     time.Now(),
		CountMinuteValue:              c.CountValue,
		CreditEligibleOutsideSchedule: c.CreditOutside,
	}

	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s\n", c.Name)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(c.Archived)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		status := ""
		if habit.Archived() {
			status = " [ARCHIVED]"
		}
		extras := ""
		if habit.CountMinuteValue > 0 {
			extras += fmt.Sprintf("  count-value=%gm", habit.CountMinuteValue)
		}
		if habit.CreditEligibleOutsideSchedule {
			extras += "  credit-outside"
		}
		fmt.Printf("%s%s%s\n", habit.Name, status, extras)
	}

	return nil
}

type HabitEditCmd struct {
	Name          string   `arg:"" help:"Habit name."`
	Rename        string   `help:"New name for the habit."`
	CountValue    *float64 `help:"Minute-equivalent of one counted unit."`
	CreditOutside *bool    `help:"Earn credit even when off-template."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	updated := false
	if c.Rename != "" && c.Rename != habit.Name {
		habit.Name = c.Rename
		updated = true
	}
	if c.CountValue != nil {
		habit.CountMinuteValue = *c.CountValue
		updated = true
	}
	if c.CreditOutside != nil {
		habit.CreditEligibleOutsideSchedule = *c.CreditOutside
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}

	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitArchiveCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Name)
	}
	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s\n", c.Name)
	return nil
}

type HabitUnarchiveCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitUnarchiveCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}
	for _, habit := range habits {
		if habit.Name == c.Name {
			if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
				return err
			}
			fmt.Printf("Unarchived habit: %s\n", c.Name)
			return nil
		}
	}
	return fmt.Errorf("habit %q not found", c.Name)
}
