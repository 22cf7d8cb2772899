// Package timer renders the clock and the running sleep session.
package timer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sleeplit/internal/utils"
)

var (
	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center)

	awakeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	sleepingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111")).
			Bold(true)

	elapsedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Align(lipgloss.Center)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	Now       time.Time
	Sleeping  bool
	StartedAt time.Time
	hasStart  bool
}

func New(now time.Time) Model {
	return Model{Now: now}
}

// SetSession updates the sleeping flag and the pending start, if known.
func (m *Model) SetSession(sleeping bool, startedAt time.Time, hasStart bool) {
	m.Sleeping = sleeping
	m.StartedAt = startedAt
	m.hasStart = hasStart
}

// Elapsed reports the running session length, if a start is known.
func (m Model) Elapsed() (time.Duration, bool) {
	if !m.Sleeping || !m.hasStart {
		return 0, false
	}
	return m.Now.Sub(m.StartedAt), true
}

func (m Model) View() string {
	var b strings.Builder

	if m.Sleeping {
		b.WriteString(sleepingStyle.Render("☾ Sleeping"))
	} else {
		b.WriteString(awakeStyle.Render("☀ Ready for bed"))
	}
	b.WriteString("\n")
	b.WriteString(clockStyle.Render(m.Now.Format("15:04:05") + "\n" + m.Now.Format("Monday, January 2 2006")))
	b.WriteString("\n")

	if elapsed, ok := m.Elapsed(); ok {
		b.WriteString(elapsedStyle.Render(fmt.Sprintf("Asleep for %s\nsince %s", utils.FormatElapsed(elapsed), m.StartedAt.Format("15:04:05"))))
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("space: wake up  c: cancel"))
	} else {
		b.WriteString(hintStyle.Render("space: start sleeping"))
	}
	return b.String()
}
