// Package stats renders today's sleep and the weekly average against the
// goal.
package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sleeplit/internal/sleep"
	"github.com/julianstephens/sleeplit/internal/tui/components/chart"
	"github.com/julianstephens/sleeplit/internal/utils"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	goalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("129")).Bold(true)
)

const chartHeight = 6

type Model struct {
	Summary sleep.Summary
	today   progress.Model
	week    progress.Model
	width   int
}

func New() Model {
	return Model{
		today: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		week:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		width: 40,
	}
}

func (m *Model) SetSummary(s sleep.Summary) {
	m.Summary = s
}

func (m *Model) SetWidth(width int) {
	if width < 10 {
		width = 10
	}
	m.width = width
	m.today.Width = width
	m.week.Width = width
}

// fraction converts a goal percentage into the bar's 0..1 fill.
func fraction(percent float64) float64 {
	f := percent / 100
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func (m Model) View() string {
	s := m.Summary
	var b strings.Builder

	b.WriteString(labelStyle.Render(fmt.Sprintf("Today        %.1f / %g h  (%.0f%%)", s.Today, s.Goal, s.TodayProgress)))
	b.WriteString("\n")
	b.WriteString(m.today.ViewAs(fraction(s.TodayProgress)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf("Week average %s  (%.0f%%)", utils.FormatHours(s.WeeklyAverage), s.WeeklyProgress)))
	b.WriteString("\n")
	b.WriteString(m.week.ViewAs(fraction(s.WeeklyProgress)))
	b.WriteString("\n\n")

	b.WriteString("Goal ")
	b.WriteString(goalStyle.Render(fmt.Sprintf("%g hours", s.Goal)))
	b.WriteString("\n\n")

	b.WriteString(chart.Render(s.Days, chartHeight))
	return b.String()
}
