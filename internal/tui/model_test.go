package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/sleep"
	"github.com/julianstephens/sleeplit/internal/storage"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestModel(t *testing.T) (Model, *sleep.Store, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2024, 1, 15, 23, 0, 0, 0, time.Local)}
	store := sleep.NewStore(storage.NewMemoryBackend(), sleep.WithClock(c.Now))
	return NewModel(store), store, c
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run feeds msg through Update and executes the returned command,
// following batches, until no non-tick messages remain.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 && len(queue) < 50 {
		next := queue[0]
		queue = queue[1:]

		updated, cmd := m.Update(next)
		m = updated.(Model)
		queue = append(queue, collect(cmd)...)
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		// Ticks and toast expiry wait on a timer; drop them.
		return nil
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case nil, TickMsg, toastExpiredMsg:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

func TestModel_InitialView(t *testing.T) {
	m, _, _ := newTestModel(t)

	view := m.View()
	if !strings.Contains(view, "Ready for bed") {
		t.Errorf("expected awake timer card, got:\n%s", view)
	}
	if !strings.Contains(view, "8 hours") {
		t.Errorf("expected goal in stats card, got:\n%s", view)
	}
}

func TestModel_ToggleSleep(t *testing.T) {
	m, store, c := newTestModel(t)
	ctx := context.Background()

	m = run(t, m, keyMsg(" "))
	if !store.State(ctx).IsSleeping {
		t.Fatal("space should start a session")
	}
	if !m.timerModel.Sleeping {
		t.Error("timer card should show sleeping")
	}
	if !strings.Contains(m.Toast(), "Good night") {
		t.Errorf("unexpected toast: %q", m.Toast())
	}

	c.now = c.now.Add(8*time.Hour + 12*time.Minute)
	m = run(t, m, TickMsg(c.now))
	if elapsed, ok := m.timerModel.Elapsed(); !ok || elapsed != 8*time.Hour+12*time.Minute {
		t.Errorf("elapsed = %v, %v", elapsed, ok)
	}

	m = run(t, m, keyMsg(" "))
	state := store.State(ctx)
	if state.IsSleeping {
		t.Error("second space should stop the session")
	}
	if len(state.Records) != 6 || state.Records[0].Quality != "good" {
		t.Errorf("expected a new good record, got %+v", state.Records[0])
	}
	if m.historyModel.Len() != 6 {
		t.Errorf("history shows %d records", m.historyModel.Len())
	}
	if !strings.Contains(m.Toast(), "Slept 8.2h") {
		t.Errorf("unexpected toast: %q", m.Toast())
	}
}

func TestModel_Cancel(t *testing.T) {
	m, store, _ := newTestModel(t)
	ctx := context.Background()

	m = run(t, m, keyMsg(" "))
	m = run(t, m, keyMsg("c"))

	state := store.State(ctx)
	if state.IsSleeping || len(state.Records) != 5 {
		t.Errorf("cancel should drop the session: %+v", state)
	}
	if m.timerModel.Sleeping {
		t.Error("timer card still sleeping")
	}
}

func TestModel_GoalErrorShowsToast(t *testing.T) {
	m, store, _ := newTestModel(t)

	m = run(t, m, m.updateGoal(20)())
	if got := store.State(context.Background()).SleepGoal; got != 8 {
		t.Errorf("invalid goal was applied: %v", got)
	}
	if !m.toastErr || !strings.Contains(m.Toast(), "between 4 and 12") {
		t.Errorf("expected error toast, got %q", m.Toast())
	}

	m = run(t, m, m.updateGoal(7.5)())
	if got := store.State(context.Background()).SleepGoal; got != 7.5 {
		t.Errorf("goal = %v, want 7.5", got)
	}
}

func TestModel_ToastExpires(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.showToast("first", false)
	id := m.toastID
	m.showToast("second", false)

	updated, _ := m.Update(toastExpiredMsg{id: id})
	m = updated.(Model)
	if m.Toast() != "second" {
		t.Errorf("stale expiry cleared the newer toast: %q", m.Toast())
	}

	updated, _ = m.Update(toastExpiredMsg{id: m.toastID})
	m = updated.(Model)
	if m.Toast() != "" {
		t.Errorf("toast not cleared: %q", m.Toast())
	}
}

func TestModel_StateMsgFromReload(t *testing.T) {
	m, store, _ := newTestModel(t)
	ctx := context.Background()

	other := sleep.NewStore(store.Backend())
	other.UpdateGoal(ctx, 10)

	snap, err := store.Reload(ctx)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	m = run(t, m, StateMsg(snap))
	if m.statsModel.Summary.Goal != 10 {
		t.Errorf("goal = %v, want 10", m.statsModel.Summary.Goal)
	}
}

func TestModel_TabAndGoalForm(t *testing.T) {
	m, _, _ := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if m.State() != StateHistory {
		t.Fatalf("tab should show history, state = %v", m.State())
	}

	updated, _ = m.Update(keyMsg("g"))
	m = updated.(Model)
	if m.State() != StateGoalForm || m.goalForm.Goal != constants.DefaultSleepGoal {
		t.Fatalf("g should open the goal form prefilled, state = %v", m.State())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.State() != StateHistory {
		t.Errorf("esc should return to history, state = %v", m.State())
	}
}

func TestGoalOptions(t *testing.T) {
	opts := goalOptions()
	if len(opts) != 17 {
		t.Fatalf("expected 17 half-hour options, got %d", len(opts))
	}
	if opts[0].Value != 4 || opts[len(opts)-1].Value != 12 {
		t.Errorf("unexpected range %v-%v", opts[0].Value, opts[len(opts)-1].Value)
	}
}
