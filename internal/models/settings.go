package models

// Settings represents application-wide schedule settings
type Settings struct {
	DayCloseTime                string   `json:"day_close_time"`                 // HH:MM at which the schedule day rolls over
	SuccessThreshold            int      `json:"success_threshold"`              // 1-100, score at or above which a day counts as met
	CreditRate                  float64  `json:"credit_rate"`                    // multiplier applied to earned credit minutes
	CreditAllocationOrder       []string `json:"credit_allocation_order"`        // permutation of {"goals","limits"}
	ScoreModeDefault            string   `json:"score_mode_default"`             // "plan" or "credit"
	AllowCreditsOutsideTemplate bool     `json:"allow_credits_outside_template"` // whether off-template activity earns credit
	NetScoreEnabled             bool     `json:"net_score_enabled"`              // whether summaries carry a limit-penalized net score
	Timezone                    string   `json:"timezone"`                       // IANA timezone name, or "Local" for the system timezone
}
