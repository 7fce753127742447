package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/jspargo/remind/internal/alarm"
	"github.com/jspargo/remind/internal/cli"
	"github.com/jspargo/remind/internal/cli/categories"
	"github.com/jspargo/remind/internal/cli/reminders"
	"github.com/jspargo/remind/internal/cli/system"
	"github.com/jspargo/remind/internal/config"
	"github.com/jspargo/remind/internal/constants"
	"github.com/jspargo/remind/internal/engine"
	errs "github.com/jspargo/remind/internal/errors"
	"github.com/jspargo/remind/internal/keyring"
	"github.com/jspargo/remind/internal/logger"
	"github.com/jspargo/remind/internal/storage"
	"github.com/jspargo/remind/internal/storage/postgres"
	"github.com/jspargo/remind/internal/storage/sqlite"
)

var CLI struct {
	Version    kong.VersionFlag
	ConfigFile string `help:"Config file path." name:"config" type:"string"`
	Debug      bool   `help:"Enable debug logging."`

	Init    system.InitCmd    `cmd:"" help:"Initialize remind storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Daemon  system.DaemonCmd  `cmd:"" help:"Run the alarm dispatch daemon."`

	Add    reminders.AddCmd    `cmd:"" help:"Add a new reminder."`
	Edit   reminders.EditCmd   `cmd:"" help:"Edit an existing reminder."`
	Done   reminders.DoneCmd   `cmd:"" help:"Mark a reminder as completed."`
	Snooze reminders.SnoozeCmd `cmd:"" help:"Snooze a reminder."`
	Delete reminders.DeleteCmd `cmd:"" help:"Delete a reminder."`
	List   reminders.ListCmd   `cmd:"" help:"List reminders." default:"1"`
	Watch  reminders.WatchCmd  `cmd:"" help:"Watch reminders, updating live as they change."`

	ClearCompleted reminders.ClearCompletedCmd `cmd:"" name:"clear-completed" help:"Delete all completed reminders."`

	Category struct {
		Add    categories.AddCmd    `cmd:"" help:"Add a category."`
		List   categories.ListCmd   `cmd:"" help:"List categories." default:"1"`
		Delete categories.DeleteCmd `cmd:"" help:"Delete a category."`
	} `cmd:"" help:"Manage categories."`

	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the database connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage database credentials."`
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Reminder lifecycle and recurrence engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.ConfigFile)
	if err != nil {
		errs.Fatal(err)
	}

	if err := logger.Init(configDir(cfg), cfg.Log.Debug || CLI.Debug); err != nil {
		errs.Fatalf("failed to initialize logging: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		errs.Fatal(err)
	}

	eng := engine.New(store, alarm.NewScheduler(store))
	eng.Subscribe(engine.LogObserver{})

	appCtx := &cli.Context{
		Store:      store,
		Engine:     eng,
		Categories: engine.NewCategoryService(store, store, eng),
		Config:     cfg,
	}

	// Init creates the database and migrate upgrades it; everything else
	// needs it loaded and current.
	cmdName := ctx.Command()
	if cmdName != "init" && cmdName != "migrate" && !strings.HasPrefix(cmdName, "keyring") {
		if err := store.Load(); err != nil {
			errs.Fatal(err)
		}
		defer store.Close()
	}

	if err := ctx.Run(appCtx); err != nil {
		_ = store.Close()
		errs.Fatal(err)
	}
}

func configDir(cfg *config.Config) string {
	if cfg.Database.Driver == config.DriverSQLite {
		return filepath.Dir(cfg.Database.Path)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, constants.AppName)
}

// openStore selects the storage backend. Postgres takes its connection string
// from the OS keyring or the REMIND_DB_CONNECTION environment variable;
// embedded passwords outside the keyring are rejected.
func openStore(cfg *config.Config) (storage.Provider, error) {
	if cfg.Database.Driver != config.DriverPostgres {
		return sqlite.NewStore(cfg.Database.Path), nil
	}

	if connStr := os.Getenv("REMIND_DB_CONNECTION"); connStr != "" {
		if postgres.HasEmbeddedCredentials(connStr) {
			return nil, errors.New("connection strings with embedded credentials are not allowed in the environment; store them with 'remind keyring set' instead")
		}
		return postgres.NewStore(connStr), nil
	}

	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, errors.New("no PostgreSQL connection string configured; run 'remind keyring set' or set REMIND_DB_CONNECTION")
		}
		return nil, err
	}
	return postgres.NewStore(connStr), nil
}
