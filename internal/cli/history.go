package cli

import (
	"fmt"
	"strings"

	"github.com/jvrecio/ritmo/internal/models"
	"github.com/jvrecio/ritmo/internal/utils"
)

type HistoryCmd struct {
	Days int `help:"Number of days to show." default:"14"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	endKey, err := ctx.todayKey()
	if err != nil {
		return err
	}
	startKey, err := utils.AddDays(endKey, -(c.Days - 1))
	if err != nil {
		return err
	}

	summaries, err := ctx.Store.GetSummaries(startKey, endKey)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Printf("No closed days between %s and %s.\n", startKey, endKey)
		return nil
	}

	met := 0
	fmt.Printf("%-12s %-9s %5s  %s\n", "Day", "Shift", "Score", "Result")
	for _, sum := range summaries {
		bar := strings.Repeat("█", sum.Score/10)
		fmt.Printf("%-12s %-9s %5d  %-6s %s\n", sum.DayKey, sum.Shift, sum.Score, sum.Label, bar)
		if sum.Label == models.LabelMet {
			met++
		}
	}

	fmt.Printf("\n%d/%d days met\n", met, len(summaries))
	return nil
}
