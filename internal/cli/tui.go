package cli

import (
	"fmt"

	"github.com/jvrecio/ritmo/internal/tui"
)

// TuiCmd launches the interactive dashboard. It is the default command.
type TuiCmd struct{}

func (t *TuiCmd) Run(c *Context) error {
	eng, err := c.Engine()
	if err != nil {
		return err
	}
	if err := tui.Run(eng); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}
