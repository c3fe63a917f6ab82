package cli

import (
	"fmt"
	"strings"

	"github.com/jvrecio/ritmo/internal/models"
	"github.com/jvrecio/ritmo/internal/schedule"
)

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date in YYYY-MM-DD format (default: today's schedule day)."`
}

func (c *DayCmd) Run(ctx *Context) error {
	dayKey, err := ctx.resolveDayKey(c.Date)
	if err != nil {
		return err
	}
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	data := eng.BuildDayData(dayKey)
	settings := eng.State().Settings()

	header := fmt.Sprintf("%s  (%s, %s shift", dayKey, strings.ToLower(data.Weekday.String()), data.Shift)
	if data.UsingOverride {
		header += ", weekday override"
	}
	header += ")"
	fmt.Println(header)

	if sum, closed := eng.State().Summary(dayKey); closed {
		fmt.Printf("Closed: score %d (%s, %s close)\n", sum.Score, sum.Label, sum.CloseSource)
	}

	if len(data.Goals) > 0 {
		fmt.Println("\nGoals:")
		for _, row := range data.Goals {
			printProgress(row)
		}
	}
	if len(data.Limits) > 0 {
		fmt.Println("\nLimits:")
		for _, row := range data.Limits {
			printProgress(row)
		}
	}
	if len(data.Neutrals) > 0 {
		fmt.Println("\nTracked:")
		for _, row := range data.Neutrals {
			fmt.Printf("  %-20s %s\n", row.Name, formatDone(row))
		}
	}

	fmt.Printf("\nPlan score:   %d\n", data.PlanScore)
	fmt.Printf("Credit score: %d", data.CreditScore)
	if data.Credit.CreditsEarned > 0 {
		fmt.Printf("  (earned %.0fm, %.0fm to goals, %.0fm to limits)",
			data.Credit.CreditsEarned, data.Credit.CreditsToGoals, data.Credit.CreditsToLimits)
	}
	fmt.Println()
	if settings.NetScoreEnabled {
		fmt.Printf("Net score:    %d\n", data.NetScore)
	}

	return nil
}

func printProgress(row schedule.HabitProgress) {
	marker := " "
	switch {
	case row.Running:
		marker = ">"
	case row.Completed && row.Mode.IsGoal():
		marker = "✓"
	case row.Exceeded > 0 && row.Mode.IsLimit():
		marker = "!"
	}

	detail := fmt.Sprintf("%s / %s", formatDone(row), formatTarget(row))
	if row.Mode.IsGoal() && row.Remaining > 0 {
		detail += fmt.Sprintf("  (%s left)", formatAmount(row.Remaining, row.Mode))
	}
	if row.Mode.IsLimit() && row.Exceeded > 0 {
		detail += fmt.Sprintf("  (over by %s)", formatAmount(row.Exceeded, row.Mode))
	}

	fmt.Printf("%s %-20s %3d%%  %s\n", marker, row.Name, row.Percent, detail)
}

func formatDone(row schedule.HabitProgress) string {
	return formatAmount(row.Done, row.Mode)
}

func formatTarget(row schedule.HabitProgress) string {
	return formatAmount(float64(row.Target), row.Mode)
}

func formatAmount(v float64, mode models.Mode) string {
	if mode.IsCount() {
		return fmt.Sprintf("%g×", v)
	}
	return fmt.Sprintf("%gm", v)
}
