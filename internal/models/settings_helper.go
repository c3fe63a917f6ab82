package models

import (
	"fmt"
	"strings"

	"github.com/jvrecio/ritmo/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingDayCloseTime:
			settings.DayCloseTime = value
		case constants.SettingSuccessThreshold:
			if _, err := fmt.Sscanf(value, "%d", &settings.SuccessThreshold); err != nil {
				return Settings{}, fmt.Errorf("parsing success_threshold: %w", err)
			}
		case constants.SettingCreditRate:
			if _, err := fmt.Sscanf(value, "%g", &settings.CreditRate); err != nil {
				return Settings{}, fmt.Errorf("parsing credit_rate: %w", err)
			}
		case constants.SettingCreditAllocationOrder:
			settings.CreditAllocationOrder = splitAllocationOrder(value)
		case constants.SettingScoreModeDefault:
			settings.ScoreModeDefault = value
		case constants.SettingAllowCreditsOutsideTemplate:
			settings.AllowCreditsOutsideTemplate = value == "true"
		case constants.SettingNetScoreEnabled:
			settings.NetScoreEnabled = value == "true"
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingDayCloseTime:                settings.DayCloseTime,
		constants.SettingSuccessThreshold:            fmt.Sprintf("%d", settings.SuccessThreshold),
		constants.SettingCreditRate:                  fmt.Sprintf("%g", settings.CreditRate),
		constants.SettingCreditAllocationOrder:       strings.Join(settings.CreditAllocationOrder, ","),
		constants.SettingScoreModeDefault:            settings.ScoreModeDefault,
		constants.SettingAllowCreditsOutsideTemplate: fmt.Sprintf("%v", settings.AllowCreditsOutsideTemplate),
		constants.SettingNetScoreEnabled:             fmt.Sprintf("%v", settings.NetScoreEnabled),
		constants.SettingTimezone:                    settings.Timezone,
	}
}

// ApplyDefaultSettings fills in missing settings and clamps out-of-range
// values. Bad numeric input never errors here; it is coerced back into
// range.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DayCloseTime == "" {
		settings.DayCloseTime = constants.DefaultDayCloseTime
	}
	if settings.SuccessThreshold < 1 || settings.SuccessThreshold > 100 {
		settings.SuccessThreshold = constants.DefaultSuccessThreshold
	}
	if settings.CreditRate < 0 {
		// Zero is a legal rate (credits disabled); only negatives are clamped.
		// Init seeds the default of 1 for fresh stores.
		settings.CreditRate = 0
	}
	if !validAllocationOrder(settings.CreditAllocationOrder) {
		settings.CreditAllocationOrder = splitAllocationOrder(constants.DefaultCreditAllocationOrder)
	}
	if settings.ScoreModeDefault != "plan" && settings.ScoreModeDefault != "credit" {
		settings.ScoreModeDefault = constants.DefaultScoreMode
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

func splitAllocationOrder(value string) []string {
	var order []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part != "" {
			order = append(order, part)
		}
	}
	return order
}

func validAllocationOrder(order []string) bool {
	if len(order) != 2 {
		return false
	}
	first, second := order[0], order[1]
	return (first == "goals" && second == "limits") || (first == "limits" && second == "goals")
}
