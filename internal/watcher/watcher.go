// Package watcher runs the background auto-close loop: a single process
// per machine wakes up once a minute and closes any schedule day whose
// boundary has passed.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/jvrecio/ritmo/internal/constants"
	"github.com/jvrecio/ritmo/internal/logger"
	"github.com/jvrecio/ritmo/internal/schedule"
)

var findProcessFunc = ps.FindProcess

// ErrAlreadyRunning is returned when another watcher holds the lockfile.
var ErrAlreadyRunning = errors.New("watcher is already running")

// Watcher periodically triggers the engine's auto-close check.
type Watcher struct {
	engine   *schedule.Engine
	lockPath string
	interval time.Duration
}

// New creates a watcher for the given engine. The lockfile lives next to
// the database at dbPath.
func New(engine *schedule.Engine, dbPath string) *Watcher {
	return &Watcher{
		engine:   engine,
		lockPath: filepath.Join(filepath.Dir(dbPath), constants.WatcherLockfileName),
		interval: constants.WatchInterval,
	}
}

// Run acquires the lockfile and loops until ctx is cancelled. One check
// runs immediately so a watcher started after a boundary still closes the
// day that just ended.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.acquireLock(); err != nil {
		return err
	}
	defer w.releaseLock()

	logger.Info("Watcher started", "interval", w.interval, "lockfile", w.lockPath)

	w.check()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watcher stopped")
			return nil
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watcher) check() {
	dayKey, closed, err := w.engine.AutoCloseCheck(time.Now())
	if err != nil {
		logger.Error("Auto-close check failed", "day", dayKey, "error", err)
		return
	}
	if closed {
		logger.Info("Auto-closed day", "day", dayKey)
	}
}

// acquireLock claims the lockfile. A lockfile pointing at a live process
// whose executable looks like ours means another watcher is running; a
// stale lockfile is overwritten.
func (w *Watcher) acquireLock() error {
	if content, err := os.ReadFile(w.lockPath); err == nil {
		if pid, running := lockfileHolder(string(content)); running {
			return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
		}
		logger.Debug("Removing stale watcher lockfile", "path", w.lockPath)
	}

	if err := os.MkdirAll(filepath.Dir(w.lockPath), 0700); err != nil {
		return fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	pid := os.Getpid()
	if err := os.WriteFile(w.lockPath, []byte(strconv.Itoa(pid)), 0600); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	return nil
}

func (w *Watcher) releaseLock() {
	if err := os.Remove(w.lockPath); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove watcher lockfile", "path", w.lockPath, "error", err)
	}
}

// lockfileHolder parses a lockfile and reports whether the recorded pid
// still belongs to a live process of this application.
func lockfileHolder(content string) (int, bool) {
	pid, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil || pid <= 0 {
		return 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return pid, false
	}
	return pid, true
}
