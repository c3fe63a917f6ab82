package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/jvrecio/ritmo/internal/models"
	"github.com/jvrecio/ritmo/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`
	Edit bool `help:"Edit settings in an interactive form."`

	DayCloseTime          *string  `help:"HH:MM at which the schedule day rolls over."`
	SuccessThreshold      *int     `help:"Score (1-100) at or above which a day counts as met."`
	CreditRate            *float64 `help:"Multiplier applied to earned credit minutes (0 disables credits)."`
	CreditAllocationOrder *string  `help:"Credit spend order: 'goals,limits' or 'limits,goals'."`
	ScoreMode             *string  `help:"Default score shown and stored: 'plan' or 'credit'."`
	CreditsOutside        *bool    `help:"Whether off-template activity earns credit."`
	NetScore              *bool    `help:"Whether summaries carry a limit-penalized net score."`
	Timezone              *string  `help:"IANA timezone name, or 'Local'."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	settings := eng.State().Settings()

	if c.Edit {
		return runSettingsForm(ctx, settings)
	}

	if c.List {
		printSettings(settings)
		return nil
	}

	updated := false
	apply := func(fn func(*models.Settings)) {
		updated = true
		settings = eng.State().UpdateSettings(fn)
	}

	if c.DayCloseTime != nil {
		if !utils.ValidateTimeFormat(*c.DayCloseTime) {
			return fmt.Errorf("invalid time %q (expected HH:MM)", *c.DayCloseTime)
		}
		apply(func(s *models.Settings) { s.DayCloseTime = *c.DayCloseTime })
	}
	if c.SuccessThreshold != nil {
		if *c.SuccessThreshold < 1 || *c.SuccessThreshold > 100 {
			return fmt.Errorf("success threshold must be between 1 and 100")
		}
		apply(func(s *models.Settings) { s.SuccessThreshold = *c.SuccessThreshold })
	}
	if c.CreditRate != nil {
		if *c.CreditRate < 0 {
			return fmt.Errorf("credit rate cannot be negative")
		}
		apply(func(s *models.Settings) { s.CreditRate = *c.CreditRate })
	}
	if c.CreditAllocationOrder != nil {
		apply(func(s *models.Settings) {
			s.CreditAllocationOrder = strings.Split(strings.ToLower(*c.CreditAllocationOrder), ",")
		})
	}
	if c.ScoreMode != nil {
		if *c.ScoreMode != "plan" && *c.ScoreMode != "credit" {
			return fmt.Errorf("score mode must be 'plan' or 'credit'")
		}
		apply(func(s *models.Settings) { s.ScoreModeDefault = *c.ScoreMode })
	}
	if c.CreditsOutside != nil {
		apply(func(s *models.Settings) { s.AllowCreditsOutsideTemplate = *c.CreditsOutside })
	}
	if c.NetScore != nil {
		apply(func(s *models.Settings) { s.NetScoreEnabled = *c.NetScore })
	}
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("unknown timezone %q", *c.Timezone)
		}
		apply(func(s *models.Settings) { s.Timezone = *c.Timezone })
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings, --edit for the form, or flags to update them.")
		return nil
	}

	fmt.Println("Settings updated.")
	printSettings(settings)
	return nil
}

func printSettings(s models.Settings) {
	fmt.Println("Current Settings:")
	fmt.Printf("  Day Close Time:       %s\n", s.DayCloseTime)
	fmt.Printf("  Success Threshold:    %d\n", s.SuccessThreshold)
	fmt.Printf("  Timezone:             %s\n", s.Timezone)
	fmt.Println("\nCredit Settings:")
	fmt.Printf("  Credit Rate:          %g\n", s.CreditRate)
	fmt.Printf("  Allocation Order:     %s\n", strings.Join(s.CreditAllocationOrder, ","))
	fmt.Printf("  Score Mode:           %s\n", s.ScoreModeDefault)
	fmt.Printf("  Off-Template Credits: %v\n", s.AllowCreditsOutsideTemplate)
	fmt.Printf("  Net Score:            %v\n", s.NetScoreEnabled)
}

// runSettingsForm edits settings through an interactive form, validating
// each field before the engine re-normalizes the whole set.
func runSettingsForm(ctx *Context, settings models.Settings) error {
	closeTime := settings.DayCloseTime
	threshold := strconv.Itoa(settings.SuccessThreshold)
	rate := strconv.FormatFloat(settings.CreditRate, 'g', -1, 64)
	order := strings.Join(settings.CreditAllocationOrder, ",")
	scoreMode := settings.ScoreModeDefault
	creditsOutside := settings.AllowCreditsOutsideTemplate
	netScore := settings.NetScoreEnabled
	timezone := settings.Timezone

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Day close time").
				Description("HH:MM at which the schedule day rolls over").
				Value(&closeTime).
				Validate(func(s string) error {
					if !utils.ValidateTimeFormat(s) {
						return fmt.Errorf("expected HH:MM")
					}
					return nil
				}),
			huh.NewInput().
				Title("Success threshold").
				Description("Score (1-100) at or above which a day counts as met").
				Value(&threshold).
				Validate(func(s string) error {
					v, err := strconv.Atoi(s)
					if err != nil || v < 1 || v > 100 {
						return fmt.Errorf("expected a number between 1 and 100")
					}
					return nil
				}),
			huh.NewInput().
				Title("Timezone").
				Value(&timezone).
				Validate(func(s string) error {
					if !utils.ValidateTimezone(s) {
						return fmt.Errorf("unknown timezone")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Credit rate").
				Description("Multiplier applied to earned credit minutes (0 disables credits)").
				Value(&rate).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(s, 64)
					if err != nil || v < 0 {
						return fmt.Errorf("expected a non-negative number")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Credit allocation order").
				Options(
					huh.NewOption("goals first", "goals,limits"),
					huh.NewOption("limits first", "limits,goals"),
				).
				Value(&order),
			huh.NewSelect[string]().
				Title("Default score mode").
				Options(
					huh.NewOption("plan", "plan"),
					huh.NewOption("credit", "credit"),
				).
				Value(&scoreMode),
			huh.NewConfirm().
				Title("Off-template credits").
				Description("Earn credit for eligible habits outside the day's template").
				Value(&creditsOutside),
			huh.NewConfirm().
				Title("Net score").
				Description("Penalize the stored score by unforgiven limit overruns").
				Value(&netScore),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	updated := eng.State().UpdateSettings(func(s *models.Settings) {
		s.DayCloseTime = closeTime
		s.SuccessThreshold, _ = strconv.Atoi(threshold)
		s.CreditRate, _ = strconv.ParseFloat(rate, 64)
		s.CreditAllocationOrder = strings.Split(order, ",")
		s.ScoreModeDefault = scoreMode
		s.AllowCreditsOutsideTemplate = creditsOutside
		s.NetScoreEnabled = netScore
		s.Timezone = timezone
	})

	fmt.Println("Settings updated.")
	printSettings(updated)
	return nil
}
