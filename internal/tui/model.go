// Package tui is the interactive sleep dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/models"
	"github.com/julianstephens/sleeplit/internal/sleep"
	"github.com/julianstephens/sleeplit/internal/tui/components/history"
	"github.com/julianstephens/sleeplit/internal/tui/components/stats"
	"github.com/julianstephens/sleeplit/internal/tui/components/timer"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateHistory
	StateGoalForm
)

// GoalFormModel backs the goal form.
type GoalFormModel struct {
	Goal float64
}

// TickMsg advances the clock; it never touches the store.
type TickMsg time.Time

// StateMsg carries a snapshot published by the store.
type StateMsg models.SleepState

type pendingMsg struct {
	startedAt time.Time
	ok        bool
	err       error
}

// actionMsg reports the outcome of a store mutation.
type actionMsg struct {
	text string
	err  error
}

type toastExpiredMsg struct {
	id int
}

type Model struct {
	ctx     context.Context
	store   *sleep.Store
	timer   *sleep.Timer
	refresh time.Duration

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	timerModel   timer.Model
	statsModel   stats.Model
	historyModel history.Model

	form     *huh.Form
	goalForm *GoalFormModel

	toast    string
	toastErr bool
	toastID  int

	width    int
	height   int
	quitting bool
}

type Option func(*Model)

// WithRefresh sets the clock tick interval.
func WithRefresh(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.refresh = d
		}
	}
}

// WithContext sets the context used for store calls.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

func NewModel(store *sleep.Store, opts ...Option) Model {
	m := Model{
		ctx:          context.Background(),
		store:        store,
		timer:        sleep.NewTimer(store),
		refresh:      constants.DefaultRefreshInterval,
		state:        StateDashboard,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		timerModel:   timer.New(store.Now()),
		statsModel:   stats.New(),
		historyModel: history.New(nil, 0, 0),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.syncState(store.State(m.ctx))
	return m
}

// syncState copies a snapshot into the child models.
func (m *Model) syncState(state models.SleepState) {
	m.statsModel.SetSummary(m.store.Summary(m.ctx))
	m.historyModel.SetRecords(state.Records)
	started := m.timerModel.StartedAt
	if !state.IsSleeping {
		started = time.Time{}
	}
	m.timerModel.SetSession(state.IsSleeping, started, !started.IsZero())
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.loadPending())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) loadPending() tea.Cmd {
	t := m.timer
	ctx := m.ctx
	return func() tea.Msg {
		started, ok, err := t.Pending(ctx)
		return pendingMsg{startedAt: started, ok: ok, err: err}
	}
}

func (m *Model) showToast(text string, isErr bool) tea.Cmd {
	m.toastID++
	m.toast = text
	m.toastErr = isErr
	id := m.toastID
	return tea.Tick(constants.StatusTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// State returns the screen currently shown.
func (m Model) State() SessionState { return m.state }

// Toast returns the transient status line, if any.
func (m Model) Toast() string { return m.toast }
