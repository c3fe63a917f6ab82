package cli

import (
	"fmt"

	"github.com/jvrecio/ritmo/internal/models"
	"github.com/jvrecio/ritmo/internal/utils"
)

type ShiftCmd struct {
	Set  ShiftSetCmd  `cmd:"" help:"Assign a shift to a date."`
	Show ShiftShowCmd `cmd:"" help:"Show the shift assigned to a date."`
}

type ShiftSetCmd struct {
	Shift string `arg:"" help:"Shift type: morning, evening, or free."`
	Date  string `arg:"" optional:"" help:"Date in YYYY-MM-DD format (default: today)."`
	Until string `help:"Assign the same shift through this date (inclusive)."`
}

func (c *ShiftSetCmd) Run(ctx *Context) error {
	switch models.ShiftType(c.Shift) {
	case models.ShiftMorning, models.ShiftEvening, models.ShiftFree:
	default:
		return fmt.Errorf("unknown shift %q (morning, evening, or free)", c.Shift)
	}
	shift := models.ShiftType(c.Shift)

	dayKey, err := ctx.resolveDayKey(c.Date)
	if err != nil {
		return err
	}

	if c.Until == "" {
		if err := ctx.Store.SetShift(dayKey, shift); err != nil {
			return err
		}
		fmt.Printf("Set %s to %s\n", dayKey, shift)
		return nil
	}

	endKey, err := ctx.resolveDayKey(c.Until)
	if err != nil {
		return err
	}
	if endKey < dayKey {
		return fmt.Errorf("--until %s is before %s", endKey, dayKey)
	}

	count := 0
	for key := dayKey; key <= endKey; {
		if err := ctx.Store.SetShift(key, shift); err != nil {
			return err
		}
		count++
		next, err := utils.AddDays(key, 1)
		if err != nil {
			return err
		}
		key = next
	}
	fmt.Printf("Set %d day(s) to %s\n", count, shift)
	return nil
}

type ShiftShowCmd struct {
	Date string `arg:"" optional:"" help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *ShiftShowCmd) Run(ctx *Context) error {
	dayKey, err := ctx.resolveDayKey(c.Date)
	if err != nil {
		return err
	}

	shift, assigned, err := ctx.Store.GetShift(dayKey)
	if err != nil {
		return err
	}
	if !assigned {
		fmt.Printf("%s: no shift assigned (resolves to free)\n", dayKey)
		return nil
	}
	fmt.Printf("%s: %s\n", dayKey, shift)
	return nil
}
