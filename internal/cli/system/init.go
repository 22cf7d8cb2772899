package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/sleeplit/internal/cli"
	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/models"
	"github.com/julianstephens/sleeplit/internal/sleep"
	"github.com/julianstephens/sleeplit/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Replace existing sleep data with the starter history."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	return ctx.WithLock(func() error {
		_, err := ctx.Backend.Get(ctx.Ctx, constants.StateKey)
		switch {
		case err == nil && !c.Force:
			ctx.Printf("sleeplit storage is already initialized at: %s\n", ctx.Backend.Location())
			ctx.Println("Use --force to replace it with the starter history.")
			return nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("failed to read existing sleep data: %w", err)
		}

		if c.Force {
			ctx.PerformAutomaticBackup()
		}

		raw, err := sleep.Encode(models.SeedState())
		if err != nil {
			return err
		}
		if err := ctx.Backend.Set(ctx.Ctx, constants.StateKey, raw); err != nil {
			return fmt.Errorf("failed to write sleep data: %w", err)
		}
		if err := ctx.Backend.Delete(ctx.Ctx, constants.TimerKey); err != nil {
			return fmt.Errorf("failed to clear sleep timer: %w", err)
		}
		if _, err := ctx.Store.Reload(ctx.Ctx); err != nil {
			return err
		}

		ctx.Printf("Initialized sleeplit storage at: %s\n", ctx.Backend.Location())
		return nil
	})
}
