package sleep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/models"
	"github.com/julianstephens/sleeplit/internal/storage"
)

var (
	ErrAlreadySleeping = errors.New("a sleep session is already running")
	ErrNotSleeping     = errors.New("no sleep session is running")
)

// Timer tracks the pending session between "start" and "stop". The start
// instant is stored under its own key so short-lived CLI invocations can
// pair a start with a later stop.
type Timer struct {
	store *Store
}

func NewTimer(store *Store) *Timer {
	return &Timer{store: store}
}

// Pending returns the start of the running session, if any.
func (t *Timer) Pending(ctx context.Context) (time.Time, bool, error) {
	raw, err := t.store.backend.Get(ctx, constants.TimerKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to read sleep timer: %w", err)
	}

	var ts models.TimerState
	if err := json.Unmarshal([]byte(raw), &ts); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse sleep timer: %w", err)
	}
	started, err := time.Parse(time.RFC3339, ts.StartedAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse sleep timer start: %w", err)
	}
	return started.In(time.Local), true, nil
}

// Start begins a session at the store's current time.
func (t *Timer) Start(ctx context.Context) (time.Time, error) {
	if _, ok, err := t.Pending(ctx); err != nil {
		return time.Time{}, err
	} else if ok {
		return time.Time{}, ErrAlreadySleeping
	}

	now := t.store.now()
	data, err := json.Marshal(models.TimerState{StartedAt: now.Format(time.RFC3339)})
	if err != nil {
		return time.Time{}, err
	}
	if err := t.store.backend.Set(ctx, constants.TimerKey, string(data)); err != nil {
		return time.Time{}, fmt.Errorf("failed to save sleep timer: %w", err)
	}

	t.store.SetSleeping(ctx, true)
	return now, nil
}

// Stop ends the running session, records it and returns the new record.
func (t *Timer) Stop(ctx context.Context) (models.SleepRecord, error) {
	started, ok, err := t.Pending(ctx)
	if err != nil {
		return models.SleepRecord{}, err
	}
	if !ok {
		return models.SleepRecord{}, ErrNotSleeping
	}

	state := t.store.AddRecord(ctx, started, t.store.now())
	if err := t.store.backend.Delete(ctx, constants.TimerKey); err != nil {
		t.store.log.Warn("Failed to clear sleep timer", "error", err)
	}
	t.store.SetSleeping(ctx, false)
	return state.Records[0], nil
}

// Cancel drops the running session without recording it. It also clears a
// sleeping flag left behind without a timer.
func (t *Timer) Cancel(ctx context.Context) error {
	if err := t.store.backend.Delete(ctx, constants.TimerKey); err != nil {
		return fmt.Errorf("failed to clear sleep timer: %w", err)
	}
	if t.store.State(ctx).IsSleeping {
		t.store.SetSleeping(ctx, false)
	}
	return nil
}

// Elapsed returns how long the running session has lasted.
func (t *Timer) Elapsed(ctx context.Context) (time.Duration, bool, error) {
	started, ok, err := t.Pending(ctx)
	if err != nil || !ok {
		return 0, ok, err
	}
	return t.store.now().Sub(started), true, nil
}
