package models

// ShiftType is the context that selects which template applies to a date.
type ShiftType string

const (
	ShiftMorning ShiftType = "morning"
	ShiftEvening ShiftType = "evening"
	ShiftFree    ShiftType = "free"
)

// ShiftTypes lists all shift types in display order.
var ShiftTypes = []ShiftType{ShiftMorning, ShiftEvening, ShiftFree}

// ParseShiftType maps a raw string to a shift type. Anything unrecognized
// degrades to Free, matching the resolver's no-error contract.
func ParseShiftType(s string) ShiftType {
	switch ShiftType(s) {
	case ShiftMorning:
		return ShiftMorning
	case ShiftEvening:
		return ShiftEvening
	default:
		return ShiftFree
	}
}

// CloseSource records what triggered a day close.
const (
	CloseSourceManual = "manual"
	CloseSourceAuto   = "auto"
)
