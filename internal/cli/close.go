package cli

import (
	"fmt"

	"github.com/jvrecio/ritmo/internal/models"
)

type CloseCmd struct {
	Date string `arg:"" optional:"" help:"Date to close (default: today's schedule day)."`
}

func (c *CloseCmd) Run(ctx *Context) error {
	dayKey, err := ctx.resolveDayKey(c.Date)
	if err != nil {
		return err
	}
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	summary, err := eng.CloseDay(dayKey, models.CloseSourceManual)
	if err != nil {
		return err
	}

	fmt.Printf("Closed %s: score %d (%s)\n", dayKey, summary.Score, summary.Label)
	if summary.NetScore != 0 && summary.NetScore != summary.Score {
		fmt.Printf("Net score: %d\n", summary.NetScore)
	}
	return nil
}
