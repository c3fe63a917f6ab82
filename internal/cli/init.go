package cli

import (
	"fmt"

	"github.com/jvrecio/ritmo/internal/storage"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	if storage.IsPostgres(ctx.Store.GetConfigPath()) {
		fmt.Println("Initialized PostgreSQL storage.")
	} else {
		fmt.Printf("Initialized storage at %s\n", ctx.Store.GetConfigPath())
	}
	return nil
}
