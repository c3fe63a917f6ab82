package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jvrecio/ritmo/internal/storage/postgres"
	"github.com/jvrecio/ritmo/internal/storage/sqlite"
)

// IsPostgres reports whether the config path is a PostgreSQL connection
// string rather than a SQLite file path.
func IsPostgres(configPath string) bool {
	return strings.HasPrefix(configPath, "postgres://") ||
		strings.HasPrefix(configPath, "postgresql://") ||
		strings.Contains(configPath, "host=")
}

// ExpandPath resolves a leading ~/ against the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// NewProvider picks the backend for a config path: PostgreSQL connection
// strings get the postgres store, anything else is treated as a SQLite
// file path. Connection strings with an embedded password are rejected;
// credentials belong in the OS keyring.
func NewProvider(configPath string) (Provider, error) {
	if IsPostgres(configPath) {
		if _, err := postgres.ValidateConnString(configPath); err != nil {
			return nil, err
		}
		return postgres.New(configPath), nil
	}
	return sqlite.NewStore(ExpandPath(configPath)), nil
}
