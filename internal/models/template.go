package models

import "math"

// Mode classifies a template entry. Target modes are goals the user wants
// to reach, Limit modes are ceilings to stay under, Neutral entries are
// tracked but never scored.
type Mode string

const (
	ModeNeutral       Mode = "neutral"
	ModeTargetMinutes Mode = "target_min"
	ModeTargetCount   Mode = "target_count"
	ModeLimitMinutes  Mode = "limit_min"
	ModeLimitCount    Mode = "limit_count"
)

// IsGoal reports whether the mode is a target the user wants to reach.
func (m Mode) IsGoal() bool {
	return m == ModeTargetMinutes || m == ModeTargetCount
}

// IsLimit reports whether the mode is a ceiling to stay under.
func (m Mode) IsLimit() bool {
	return m == ModeLimitMinutes || m == ModeLimitCount
}

// IsCount reports whether the entry is measured in counts rather than minutes.
func (m Mode) IsCount() bool {
	return m == ModeTargetCount || m == ModeLimitCount
}

// TemplateEntry is one habit's configuration within a template.
// Value is 0 if and only if Mode is Neutral.
type TemplateEntry struct {
	Mode  Mode `json:"mode"`
	Value int  `json:"value"`
}

// Template maps habit IDs to their entries for one shift type (and
// optionally one weekday override).
type Template map[string]TemplateEntry

// Clone returns a copy of the template that shares nothing with the original.
func (t Template) Clone() Template {
	out := make(Template, len(t))
	for id, e := range t {
		out[id] = e
	}
	return out
}

// TemplateAssignment is one persisted template row: a habit's entry in a
// shift's base template (Weekday empty) or in a weekday override.
type TemplateAssignment struct {
	Shift   ShiftType
	Weekday string
	HabitID string
	Entry   TemplateEntry
}

// NormalizeEntry coerces a raw (mode, value) pair read from storage or
// user input into a valid entry. Historical data stored both bare numbers
// and tagged objects, so everything funnels through here: unknown modes
// are dropped, non-finite or negative values become 0, a zero value under
// a scored mode drops the entry, and Neutral always carries value 0.
func NormalizeEntry(rawMode string, rawValue float64) (TemplateEntry, bool) {
	mode := Mode(rawMode)
	switch mode {
	case ModeNeutral, ModeTargetMinutes, ModeTargetCount, ModeLimitMinutes, ModeLimitCount:
	default:
		return TemplateEntry{}, false
	}

	value := rawValue
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		value = 0
	}

	if mode == ModeNeutral {
		return TemplateEntry{Mode: ModeNeutral, Value: 0}, true
	}
	if value == 0 {
		return TemplateEntry{}, false
	}
	return TemplateEntry{Mode: mode, Value: int(math.Round(value))}, true
}
