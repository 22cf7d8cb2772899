package session

import (
	"errors"
	"fmt"

	"github.com/julianstephens/sleeplit/internal/cli"
	"github.com/julianstephens/sleeplit/internal/sleep"
	"github.com/julianstephens/sleeplit/internal/utils"
	"github.com/julianstephens/sleeplit/internal/validation"
)

type StartCmd struct{}

func (c *StartCmd) Run(ctx *cli.Context) error {
	return ctx.WithLock(func() error {
		started, err := ctx.Timer.Start(ctx.Ctx)
		if err != nil {
			if errors.Is(err, sleep.ErrAlreadySleeping) {
				return fmt.Errorf("%w; run 'sleeplit stop' when you wake up", err)
			}
			return err
		}
		ctx.Printf("Good night! Sleep timer started at %s\n", utils.ClockOf(started))
		return nil
	})
}

type StopCmd struct{}

func (c *StopCmd) Run(ctx *cli.Context) error {
	return ctx.WithLock(func() error {
		rec, err := ctx.Timer.Stop(ctx.Ctx)
		if err != nil {
			if errors.Is(err, sleep.ErrNotSleeping) {
				return fmt.Errorf("%w; run 'sleeplit start' when you go to bed", err)
			}
			return err
		}
		if rec.Duration < 0 {
			ctx.Println("Warning: the session ended before it started; a negative duration was recorded.")
		}
		ctx.Printf("Good morning! Slept %s (%s → %s), quality: %s\n",
			utils.FormatHours(rec.Duration), rec.SleepTime, rec.WakeTime, rec.Quality.Label())
		return nil
	})
}

type CancelCmd struct{}

func (c *CancelCmd) Run(ctx *cli.Context) error {
	return ctx.WithLock(func() error {
		if err := ctx.Timer.Cancel(ctx.Ctx); err != nil {
			return err
		}
		ctx.Println("Sleep session cancelled.")
		return nil
	})
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	state := ctx.Store.State(ctx.Ctx)
	elapsed, running, err := ctx.Timer.Elapsed(ctx.Ctx)
	if err != nil {
		return err
	}

	switch {
	case running:
		ctx.Printf("Sleeping for %s\n", utils.FormatElapsed(elapsed))
	case state.IsSleeping:
		ctx.Println("Marked as sleeping, but no start time is recorded. Run 'sleeplit cancel' to reset.")
	default:
		ctx.Println("Awake.")
	}
	ctx.Printf("Today: %s of %g hour goal\n", utils.FormatHours(ctx.Store.TodaySleep(ctx.Ctx)), state.SleepGoal)
	return nil
}

type LogCmd struct {
	Date  string `help:"Date the sleep started (YYYY-MM-DD). Defaults to today."`
	Sleep string `help:"Bedtime (HH:MM)." required:""`
	Wake  string `help:"Wake time (HH:MM). Earlier than bedtime means the next day." required:""`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	date := c.Date
	if date == "" {
		date = utils.DateOf(ctx.Store.Now())
	}
	start, end, err := validation.ParseSession(date, c.Sleep, c.Wake)
	if err != nil {
		return err
	}
	if warning := validation.ValidateSession(start, end); warning != "" {
		ctx.Printf("Warning: %s\n", warning)
	}

	return ctx.WithLock(func() error {
		state := ctx.Store.AddRecord(ctx.Ctx, start, end)
		rec := state.Records[0]
		ctx.Printf("Logged %s on %s (%s → %s), quality: %s\n",
			utils.FormatHours(rec.Duration), rec.Date, rec.SleepTime, rec.WakeTime, rec.Quality.Label())
		return nil
	})
}

type GoalCmd struct {
	Hours string `arg:"" optional:"" help:"New goal in hours (4-12)."`
}

func (c *GoalCmd) Run(ctx *cli.Context) error {
	if c.Hours == "" {
		ctx.Printf("Sleep goal: %g hours\n", ctx.Store.State(ctx.Ctx).SleepGoal)
		return nil
	}

	goal, err := validation.ParseGoal(c.Hours)
	if err != nil {
		return err
	}
	return ctx.WithLock(func() error {
		state := ctx.Store.UpdateGoal(ctx.Ctx, goal)
		ctx.Printf("Sleep goal set to %g hours\n", state.SleepGoal)
		return nil
	})
}
