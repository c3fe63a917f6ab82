package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/jvrecio/ritmo/internal/constants"
	"github.com/jvrecio/ritmo/internal/models"
)

const currentVersion = 1

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// NewMemoryStore creates an initialized in-memory store for testing.
func NewMemoryStore() (*Store, error) {
	s := NewStore(":memory:")
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Init() error {
	if s.path != ":memory:" {
		dir := filepath.Dir(s.path)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := s.open(); err != nil {
		return err
	}

	// Seed default settings if not present
	if _, err := s.GetSettings(); err != nil {
		defaults := models.Settings{CreditRate: constants.DefaultCreditRate}
		models.ApplyDefaultSettings(&defaults)
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}

	return s.open()
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s.db = db
	if err := s.migrate(); err != nil {
		db.Close()
		s.db = nil
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS habits (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL UNIQUE,
		created_at         TEXT NOT NULL,
		archived_at        TEXT,
		count_minute_value REAL NOT NULL DEFAULT 0,
		credit_outside     INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		habit_id     TEXT NOT NULL REFERENCES habits(id),
		start_ts     TEXT NOT NULL,
		end_ts       TEXT,
		duration_sec INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_habit_start ON sessions(habit_id, start_ts);

	CREATE TABLE IF NOT EXISTS day_minutes (
		habit_id TEXT NOT NULL,
		day      TEXT NOT NULL,
		minutes  REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (habit_id, day)
	);

	CREATE TABLE IF NOT EXISTS day_counts (
		habit_id TEXT NOT NULL,
		day      TEXT NOT NULL,
		count    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (habit_id, day)
	);

	CREATE TABLE IF NOT EXISTS template_entries (
		shift    TEXT NOT NULL,
		weekday  TEXT NOT NULL DEFAULT '',
		habit_id TEXT NOT NULL,
		mode     TEXT NOT NULL,
		value    INTEGER NOT NULL,
		PRIMARY KEY (shift, weekday, habit_id)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shifts (
		day   TEXT PRIMARY KEY,
		shift TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS summaries (
		day          TEXT PRIMARY KEY,
		payload      TEXT NOT NULL,
		closed_at    TEXT NOT NULL,
		close_source TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auto_close_markers (
		day        TEXT NOT NULL,
		close_time TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (day, close_time)
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection. Returns nil before
// Init or Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
