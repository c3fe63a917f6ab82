package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jvrecio/ritmo/internal/constants"
	"github.com/jvrecio/ritmo/internal/storage"
	"github.com/jvrecio/ritmo/internal/watcher"
)

type WatchCmd struct{}

func (c *WatchCmd) Run(ctx *Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	lockDir := ctx.Store.GetConfigPath()
	if storage.IsPostgres(lockDir) {
		// No database file to anchor the lockfile next to; use the
		// default config directory instead.
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("failed to resolve config dir for lockfile: %w", err)
		}
		lockDir = filepath.Join(cfgDir, constants.AppName, constants.AppName+".db")
	}

	w := watcher.New(eng, lockDir)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	fmt.Println("Watching for day boundaries. Press Ctrl+C to stop.")
	return w.Run(runCtx)
}
