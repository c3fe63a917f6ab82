package main

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/jvrecio/ritmo/internal/cli"
	"github.com/jvrecio/ritmo/internal/constants"
	"github.com/jvrecio/ritmo/internal/errors"
	"github.com/jvrecio/ritmo/internal/keyring"
	"github.com/jvrecio/ritmo/internal/logger"
	"github.com/jvrecio/ritmo/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use the OS keyring ('ritmo keyring set') or .pgpass instead." default:"~/.config/ritmo/ritmo.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize ritmo storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Day      cli.DayCmd      `cmd:"" help:"Show progress and scores for a day."`
	Close    cli.CloseCmd    `cmd:"" help:"Close a day and record its summary."`
	History  cli.HistoryCmd  `cmd:"" help:"Show recent closed days."`
	Habit    cli.HabitCmd    `cmd:"" help:"Manage habits."`
	Session  cli.SessionCmd  `cmd:"" help:"Track time and count activity."`
	Template cli.TemplateCmd `cmd:"" help:"Manage shift templates and weekday overrides."`
	Shift    cli.ShiftCmd    `cmd:"" help:"Assign shifts to days."`
	Settings cli.SettingsCmd `cmd:"" help:"Manage application settings."`
	Watch    cli.WatchCmd    `cmd:"" help:"Run the auto-close watcher in the foreground."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage stored database credentials."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit schedule and credit engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	// A connection string from the environment or the OS keyring overrides
	// the default config path, but never an explicit --config value.
	if CLI.Config == constants.DefaultConfigPath {
		if connStr := os.Getenv("RITMO_DB_CONNECTION"); connStr != "" {
			CLI.Config = connStr
		} else if connStr, err := keyring.GetConnectionString(); err == nil && connStr != "" {
			CLI.Config = connStr
		}
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir(CLI.Config),
	}); err != nil {
		errors.Fatal(err)
	}

	store, err := storage.NewProvider(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	// Init handles its own setup; every other command needs loaded storage.
	if selected := ctx.Selected(); selected != nil && selected.Name != "init" {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	errors.Fatal(ctx.Run(&cli.Context{Store: store}))
}

// configDir resolves the directory logs live under. PostgreSQL setups have
// no local database file, so they fall back to the user config dir.
func configDir(config string) string {
	if !storage.IsPostgres(config) {
		return filepath.Dir(storage.ExpandPath(config))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, constants.AppName)
	}
	return "."
}
