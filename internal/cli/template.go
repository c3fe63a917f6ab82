package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jvrecio/ritmo/internal/models"
	"github.com/jvrecio/ritmo/internal/schedule"
	"github.com/jvrecio/ritmo/internal/utils"
)

type TemplateCmd struct {
	Set    TemplateSetCmd    `cmd:"" help:"Set a habit's goal or limit in one or more templates."`
	Remove TemplateRemoveCmd `cmd:"" help:"Remove a habit from one or more templates."`
	Show   TemplateShowCmd   `cmd:"" help:"Show a shift's template and its weekday overrides."`
}

// parseTargets expands shift and weekday flags into template targets.
// Shifts accepts a comma-separated list or "all"; an empty weekday targets
// base templates.
func parseTargets(shifts, weekday string) ([]schedule.TemplateTarget, error) {
	var weekdayPtr *time.Weekday
	if weekday != "" {
		wd, err := utils.ParseWeekday(weekday)
		if err != nil {
			return nil, err
		}
		weekdayPtr = &wd
	}

	var targets []schedule.TemplateTarget
	if strings.EqualFold(shifts, "all") {
		for _, shift := range models.ShiftTypes {
			targets = append(targets, schedule.TemplateTarget{Shift: shift, Weekday: weekdayPtr})
		}
		return targets, nil
	}

	for _, part := range strings.Split(shifts, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		switch models.ShiftType(part) {
		case models.ShiftMorning, models.ShiftEvening, models.ShiftFree:
			targets = append(targets, schedule.TemplateTarget{Shift: models.ShiftType(part), Weekday: weekdayPtr})
		default:
			return nil, fmt.Errorf("unknown shift %q (morning, evening, free, or all)", part)
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no shifts specified")
	}
	return targets, nil
}

type TemplateSetCmd struct {
	Habit   string  `arg:"" help:"Habit name."`
	Mode    string  `arg:"" help:"Entry mode: target_min, target_count, limit_min, limit_count, or neutral."`
	Value   float64 `arg:"" optional:"" help:"Target or limit value (omit for neutral)."`
	Shift   string  `help:"Shifts to apply to: comma-separated list or 'all'." default:"all"`
	Weekday string  `help:"Apply as a weekday override (mon..sun) instead of the base template."`
}

func (c *TemplateSetCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Habit)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Habit)
	}
	if _, ok := models.NormalizeEntry(c.Mode, c.Value); !ok {
		return fmt.Errorf("invalid entry: mode %q with value %g", c.Mode, c.Value)
	}
	targets, err := parseTargets(c.Shift, c.Weekday)
	if err != nil {
		return err
	}
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	eng.State().ApplyEntry(habit.ID, c.Mode, c.Value, targets)
	fmt.Printf("Set %s to %s in %d template(s)\n", c.Habit, c.Mode, len(targets))
	return nil
}

type TemplateRemoveCmd struct {
	Habit   string `arg:"" help:"Habit name."`
	Shift   string `help:"Shifts to remove from: comma-separated list or 'all'." default:"all"`
	Weekday string `help:"Remove from a weekday override instead of the base template."`
}

func (c *TemplateRemoveCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Habit)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Habit)
	}
	targets, err := parseTargets(c.Shift, c.Weekday)
	if err != nil {
		return err
	}
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	eng.State().RemoveEntry(habit.ID, targets)
	fmt.Printf("Removed %s from %d template(s)\n", c.Habit, len(targets))
	return nil
}

type TemplateShowCmd struct {
	Shift string `arg:"" optional:"" help:"Shift to show (default: all shifts)." default:""`
}

func (c *TemplateShowCmd) Run(ctx *Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	shifts := models.ShiftTypes
	if c.Shift != "" {
		shifts = []models.ShiftType{models.ParseShiftType(c.Shift)}
	}

	names, err := habitNames(ctx)
	if err != nil {
		return err
	}

	for _, shift := range shifts {
		fmt.Printf("%s:\n", shift)
		printTemplate(eng.State().Template(shift), names, "  ")

		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if tpl := eng.State().Override(shift, wd); tpl != nil {
				fmt.Printf("  %s override:\n", utils.WeekdayKey(wd))
				printTemplate(tpl, names, "    ")
			}
		}
		fmt.Println()
	}
	return nil
}

func printTemplate(tpl models.Template, names map[string]string, indent string) {
	if len(tpl) == 0 {
		fmt.Printf("%s(empty)\n", indent)
		return
	}

	ids := make([]string, 0, len(tpl))
	for id := range tpl {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return names[ids[i]] < names[ids[j]] })

	for _, id := range ids {
		entry := tpl[id]
		name := names[id]
		if name == "" {
			name = id
		}
		if entry.Mode == models.ModeNeutral {
			fmt.Printf("%s%-20s neutral\n", indent, name)
			continue
		}
		fmt.Printf("%s%-20s %s %d\n", indent, name, entry.Mode, entry.Value)
	}
}

func habitNames(ctx *Context) (map[string]string, error) {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Name
	}
	return names, nil
}
