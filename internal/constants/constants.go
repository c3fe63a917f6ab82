package constants

import "time"

const (
	AppName            = "ritmo"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/ritmo/ritmo.db"
	Version            = "v0.3.1"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "ritmo-"
	BackupFileSuffix = ".db"

	// Watcher constants
	WatcherLockfileName = "ritmo-watch.lock"
	WatchInterval       = time.Minute

	// RefreshInterval is how often live plan/credit scores are re-rendered
	// while a session is running.
	RefreshInterval = 15 * time.Second

	// OverlayTTL bounds how long a locally-queued write masks a remote
	// snapshot that has not echoed it back yet.
	OverlayTTL = 15 * time.Second
)
