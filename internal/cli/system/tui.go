package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sleeplit/internal/cli"
	"github.com/julianstephens/sleeplit/internal/logger"
	"github.com/julianstephens/sleeplit/internal/models"
	"github.com/julianstephens/sleeplit/internal/storage"
	"github.com/julianstephens/sleeplit/internal/tui"
	"github.com/julianstephens/sleeplit/internal/watch"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	return ctx.WithLock(func() error {
		if err := ctx.Store.Load(ctx.Ctx); err != nil {
			logger.Warn("Sleep data unreadable; changes are not saved until it can be read", "error", err)
		}

		// Perform automatic backup on TUI startup (after successful load)
		ctx.PerformAutomaticBackup()

		refresh, err := ctx.Config.RefreshInterval()
		if err != nil {
			return err
		}
		model := tui.NewModel(ctx.Store, tui.WithRefresh(refresh), tui.WithContext(ctx.Ctx))
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx.Ctx))

		// Store callbacks run on command goroutines, never inside Update.
		unsubscribe := ctx.Store.Subscribe(func(state models.SleepState) {
			p.Send(tui.StateMsg(state))
		})
		defer unsubscribe()

		if fb, ok := ctx.Backend.(storage.FileBacked); ok {
			w, err := watch.New(fb.Path(), func() {
				if _, err := ctx.Store.Reload(ctx.Ctx); err != nil {
					logger.Warn("Failed to reload storage", "error", err)
				}
			})
			if err != nil {
				logger.Warn("Storage watcher unavailable", "error", err)
			} else if err := w.Start(ctx.Ctx); err != nil {
				logger.Warn("Storage watcher unavailable", "error", err)
				w.Stop()
			} else {
				defer w.Stop()
			}
		}

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard failed: %w", err)
		}
		return nil
	})
}
