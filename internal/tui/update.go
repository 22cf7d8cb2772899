package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/models"
	"github.com/julianstephens/sleeplit/internal/sleep"
	"github.com/julianstephens/sleeplit/internal/utils"
	"github.com/julianstephens/sleeplit/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.statsModel.SetWidth(msg.Width/2 - 6)
		m.historyModel.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case TickMsg:
		m.timerModel.Now = m.store.Now()
		return m, m.tick()

	case StateMsg:
		m.syncState(models.SleepState(msg))
		return m, m.loadPending()

	case pendingMsg:
		if msg.err != nil {
			return m, m.showToast(fmt.Sprintf("Timer unreadable: %v", msg.err), true)
		}
		state := m.store.State(m.ctx)
		m.timerModel.SetSession(state.IsSleeping, msg.startedAt, msg.ok)
		return m, nil

	case actionMsg:
		m.syncState(m.store.State(m.ctx))
		cmds := []tea.Cmd{m.loadPending()}
		if msg.err != nil {
			cmds = append(cmds, m.showToast(msg.err.Error(), true))
		} else if msg.text != "" {
			cmds = append(cmds, m.showToast(msg.text, false))
		}
		return m, tea.Batch(cmds...)

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
			m.toastErr = false
		}
		return m, nil
	}

	if m.state == StateGoalForm {
		return m.updateGoalForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.state == StateDashboard {
				m.state = StateHistory
			} else {
				m.state = StateDashboard
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			return m, m.toggleSleep()
		case key.Matches(msg, m.keys.Cancel):
			if m.timerModel.Sleeping {
				return m, m.cancelSleep()
			}
			return m, nil
		case key.Matches(msg, m.keys.Goal):
			return m.openGoalForm()
		case key.Matches(msg, m.keys.Reload):
			return m, m.reload()
		}
	}

	if m.state == StateHistory {
		var cmd tea.Cmd
		m.historyModel, cmd = m.historyModel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) toggleSleep() tea.Cmd {
	t, ctx := m.timer, m.ctx
	if m.timerModel.Sleeping {
		return func() tea.Msg {
			rec, err := t.Stop(ctx)
			if errors.Is(err, sleep.ErrNotSleeping) {
				// The flag was set without a timer, e.g. by an interrupted start.
				return actionMsg{err: t.Cancel(ctx)}
			}
			if err != nil {
				return actionMsg{err: err}
			}
			text := fmt.Sprintf("Slept %s (%s)", utils.FormatHours(rec.Duration), rec.Quality.Label())
			if rec.Duration < 0 {
				text += ", negative duration recorded"
			}
			return actionMsg{text: text}
		}
	}
	return func() tea.Msg {
		started, err := t.Start(ctx)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: "Good night! Started at " + utils.ClockOf(started)}
	}
}

func (m Model) cancelSleep() tea.Cmd {
	t, ctx := m.timer, m.ctx
	return func() tea.Msg {
		if err := t.Cancel(ctx); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: "Session cancelled"}
	}
}

func (m Model) reload() tea.Cmd {
	s, ctx := m.store, m.ctx
	return func() tea.Msg {
		if _, err := s.Reload(ctx); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: "Reloaded"}
	}
}

func (m Model) updateGoal(goal float64) tea.Cmd {
	s, ctx := m.store, m.ctx
	return func() tea.Msg {
		if err := validation.ValidateGoal(goal); err != nil {
			return actionMsg{err: err}
		}
		s.UpdateGoal(ctx, goal)
		return actionMsg{text: fmt.Sprintf("Goal set to %g hours", goal)}
	}
}

// goalOptions lists the selectable goals in half-hour steps.
func goalOptions() []huh.Option[float64] {
	var opts []huh.Option[float64]
	for g := constants.MinSleepGoal; g <= constants.MaxSleepGoal; g += constants.GoalStep {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%g hours", g), g))
	}
	return opts
}

func NewGoalForm(fm *GoalFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[float64]().
				Title("Sleep goal").
				Description("How many hours do you want each night?").
				Options(goalOptions()...).
				Value(&fm.Goal).
				Validate(validation.ValidateGoal),
		),
	)
}

func (m Model) openGoalForm() (tea.Model, tea.Cmd) {
	m.goalForm = &GoalFormModel{Goal: m.statsModel.Summary.Goal}
	m.form = NewGoalForm(m.goalForm)
	m.previousState = m.state
	m.state = StateGoalForm
	return m, m.form.Init()
}

func (m Model) updateGoalForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.previousState
		cmds = append(cmds, m.updateGoal(m.goalForm.Goal))
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}
