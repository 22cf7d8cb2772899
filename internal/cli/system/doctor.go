package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/sleeplit/internal/cli"
	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/keyring"
	"github.com/julianstephens/sleeplit/internal/lock"
	"github.com/julianstephens/sleeplit/internal/sleep"
	"github.com/julianstephens/sleeplit/internal/storage"
	"github.com/julianstephens/sleeplit/internal/storage/postgres"
	"github.com/julianstephens/sleeplit/internal/storage/sqlite"
	"github.com/julianstephens/sleeplit/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsStorage checks are skipped when the storage cannot be read.
	needsStorage bool
	// warnOnly failures do not fail the command.
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var doctorChecks = []check{
	{name: "Schema version", needsStorage: true, run: checkSchemaVersion},
	{name: "Data validation", needsStorage: true, run: checkValidation},
	{name: "Sleep timer", needsStorage: true, run: checkTimer},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Lockfile", warnOnly: true, run: checkLock},
	{name: "Keyring", warnOnly: true, run: checkKeyring},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	reachable := true
	if err := checkStorageReachable(ctx); err != nil {
		ctx.Printf("❌ Storage reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		reachable = false
	} else {
		ctx.Printf("✓ Storage reachable: OK (%s)\n", ctx.Backend.Location())
	}

	for _, c := range doctorChecks {
		if c.needsStorage && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	_, err := ctx.Backend.Get(ctx.Ctx, constants.StateKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to read storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sq, ok := ctx.Backend.(*sqlite.Store)
	if !ok {
		// other backends migrate on Init or have no schema
		return nil
	}
	return sq.Validate()
}

func checkValidation(ctx *cli.Context) error {
	raw, err := ctx.Backend.Get(ctx.Ctx, constants.StateKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no sleep data stored yet; run 'sleeplit init'")
		}
		return err
	}
	state, err := sleep.Decode(raw)
	if err != nil {
		return fmt.Errorf("stored sleep data is unreadable and would be replaced by the starter history: %w", err)
	}
	result := validation.ValidateState(state)
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkTimer(ctx *cli.Context) error {
	_, running, err := ctx.Timer.Pending(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("%w; run 'sleeplit cancel' to reset", err)
	}
	sleeping := ctx.Store.State(ctx.Ctx).IsSleeping
	if sleeping != running {
		return fmt.Errorf("sleeping flag (%t) disagrees with the timer (%t); run 'sleeplit cancel' to reset", sleeping, running)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'sleeplit backup create'")
	}
	return nil
}

func checkLock(ctx *cli.Context) error {
	if holder, held := lock.Status(ctx.Config.Dir()); held {
		return fmt.Errorf("held by %s (pid %d); mutating commands will fail until it exits", holder.Executable, holder.PID)
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if _, ok := ctx.Backend.(*postgres.Store); !ok {
		return nil
	}
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	if _, err := keyring.GetSecret(); err != nil {
		return fmt.Errorf("%w; the password must come from %s or .pgpass", err, constants.ConnectionEnvVar)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Store.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
