package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/sleeplit/internal/cli"
	"github.com/julianstephens/sleeplit/internal/cli/backups"
	"github.com/julianstephens/sleeplit/internal/cli/reports"
	"github.com/julianstephens/sleeplit/internal/cli/session"
	"github.com/julianstephens/sleeplit/internal/cli/system"
	"github.com/julianstephens/sleeplit/internal/config"
	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/errors"
	"github.com/julianstephens/sleeplit/internal/logger"
	"github.com/julianstephens/sleeplit/internal/storage/factory"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_path}"`
	Storage string `help:"Storage override: a .db or .json path, memory:, or a postgres:// / redis:// URL. PostgreSQL passwords must NOT be embedded; use the OS keyring or ${conn_env}."`
	Debug   bool   `help:"Enable debug logging."`
	Verbose bool   `short:"v" help:"Mirror log output to stderr."`

	Init    system.InitCmd     `cmd:"" help:"Initialize sleeplit storage."`
	Doctor  system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd      `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Start   session.StartCmd   `cmd:"" help:"Start the sleep timer."`
	Stop    session.StopCmd    `cmd:"" help:"Stop the sleep timer and record the session."`
	Cancel  session.CancelCmd  `cmd:"" help:"Discard the running sleep session."`
	Status  session.StatusCmd  `cmd:"" help:"Show whether a sleep session is running."`
	Log     session.LogCmd     `cmd:"" help:"Record a past sleep session."`
	Goal    session.GoalCmd    `cmd:"" help:"Show or set the daily sleep goal."`
	Stats   reports.StatsCmd   `cmd:"" help:"Show today's sleep, the weekly average and the weekly chart."`
	History reports.HistoryCmd `cmd:"" help:"List recent sleep records."`
	Export  reports.ExportCmd  `cmd:"" help:"Export sleep records to an xlsx workbook."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage storage backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the database password in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the database password from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check the OS keyring." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal sleep tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
			"conn_env":    constants.ConnectionEnvVar,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Storage != "" {
		cfg.Storage = CLI.Storage
	}
	cfg.Debug = cfg.Debug || CLI.Debug

	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.Dir(), Stderr: CLI.Verbose}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging unavailable: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := factory.Open(cfg.Storage)
	if err != nil {
		errors.Fatal(err)
	}
	if err := backend.Init(ctx); err != nil {
		errors.Fatal(fmt.Errorf("failed to initialize storage at %s: %w", backend.Location(), err))
	}

	appCtx := cli.NewContext(ctx, cfg, backend)
	err = kctx.Run(appCtx)
	if cerr := backend.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	if err != nil {
		stop()
		errors.Fatal(err)
	}
}
