package schedule

import (
	"time"

	"github.com/jvrecio/ritmo/internal/logger"
	"github.com/jvrecio/ritmo/internal/models"
	"github.com/jvrecio/ritmo/internal/utils"
)

// ResolvedTemplate is the outcome of template resolution for a date.
type ResolvedTemplate struct {
	Shift         models.ShiftType
	Weekday       time.Weekday
	Template      models.Template
	UsingOverride bool
}

// Resolve selects the active template for a date: the shift's weekday
// override when one is configured and non-empty, otherwise the shift's
// base template. Resolution never fails; unknown or missing data degrades
// to the Free shift and an empty base template.
func (e *Engine) Resolve(dayKey string) ResolvedTemplate {
	shift := models.ShiftFree
	if e.shifts != nil {
		if st, ok, err := e.shifts.GetShift(dayKey); err != nil {
			logger.Warn("Shift lookup failed, using free", "day", dayKey, "error", err)
		} else if ok {
			shift = st
		}
	}

	weekday := time.Monday
	if date, err := utils.ParseDateInLocation(dayKey, e.location()); err == nil {
		weekday = date.Weekday()
	}

	if tpl := e.state.Override(shift, weekday); tpl != nil {
		return ResolvedTemplate{Shift: shift, Weekday: weekday, Template: tpl, UsingOverride: true}
	}

	tpl := e.state.Template(shift)
	if tpl == nil {
		tpl = make(models.Template)
	}
	return ResolvedTemplate{Shift: shift, Weekday: weekday, Template: tpl}
}
