package constants

const (
	// Schedule Settings
	SettingDayCloseTime                = "day_close_time"
	SettingSuccessThreshold            = "success_threshold"
	SettingCreditRate                  = "credit_rate"
	SettingCreditAllocationOrder       = "credit_allocation_order"
	SettingScoreModeDefault            = "score_mode_default"
	SettingAllowCreditsOutsideTemplate = "allow_credits_outside_template"
	SettingNetScoreEnabled             = "net_score_enabled"
	SettingTimezone                    = "timezone"

	// Default Settings Values
	DefaultDayCloseTime          = "00:00"
	DefaultSuccessThreshold      = 70
	DefaultCreditRate            = 1.0
	DefaultCreditAllocationOrder = "goals,limits"
	DefaultScoreMode             = "plan"
	DefaultTimezone              = "Local" // Use system local timezone by default
)
