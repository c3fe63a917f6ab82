package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"

	"github.com/jvrecio/ritmo/internal/constants"
	"github.com/jvrecio/ritmo/internal/logger"
	"github.com/jvrecio/ritmo/internal/models"
)

const currentVersion = 1

type Store struct {
	connStr string
	db      *sql.DB
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

func New(connStr string) *Store {
	s := &Store{
		connStr: connStr,
	}
	s.ensureSearchPath()
	return s
}

func (s *Store) ensureSearchPath() {
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
	} else {
		if !hasDSNParam(s.connStr, "search_path") {
			s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
		}
	}
}

// hasDSNParam reports whether a DSN-style connection string contains the
// given parameter key (case-insensitive).
func hasDSNParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

// ValidateConnString checks that a connection string is a valid PostgreSQL
// connection string (URI or DSN) and does not contain an embedded
// password. Credentials belong in the OS keyring, not on the command line.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := u.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
	} else {
		if hasDSNParam(connStr, "password") {
			return false, ErrEmbeddedCredentials
		}
	}

	return true, nil
}

func (s *Store) Init() error {
	if err := s.open(); err != nil {
		return err
	}

	if err := s.migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
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

	if err := s.open(); err != nil {
		return err
	}

	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}
	if version > currentVersion {
		return fmt.Errorf("database schema version %d is newer than this build supports (%d)", version, currentVersion)
	}
	if version < currentVersion {
		return fmt.Errorf("database schema version %d is outdated, run '%s init' to migrate", version, constants.AppName)
	}

	return nil
}

func (s *Store) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if err == sql.ErrNoRows {
		version = 0
	} else if err != nil {
		return fmt.Errorf("read schema_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	if version == 0 {
		_, err = s.db.Exec("INSERT INTO schema_version (version) VALUES ($1)", currentVersion)
	} else {
		_, err = s.db.Exec("UPDATE schema_version SET version = $1", currentVersion)
	}
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS habits (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL UNIQUE,
		created_at         TIMESTAMPTZ NOT NULL,
		archived_at        TIMESTAMPTZ,
		count_minute_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		credit_outside     BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		habit_id     TEXT NOT NULL REFERENCES habits(id),
		start_ts     TIMESTAMPTZ NOT NULL,
		end_ts       TIMESTAMPTZ,
		duration_sec INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_habit_start ON sessions(habit_id, start_ts);

	CREATE TABLE IF NOT EXISTS day_minutes (
		habit_id TEXT NOT NULL,
		day      TEXT NOT NULL,
		minutes  DOUBLE PRECISION NOT NULL DEFAULT 0,
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
		closed_at    TIMESTAMPTZ NOT NULL,
		close_source TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auto_close_markers (
		day        TEXT NOT NULL,
		close_time TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (day, close_time)
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *Store) GetConfigPath() string {
	return s.connStr
}
