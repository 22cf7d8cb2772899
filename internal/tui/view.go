package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	switch m.state {
	case StateGoalForm:
		b.WriteString(cardStyle.Render(m.form.View()))
	case StateHistory:
		b.WriteString(m.historyModel.View())
	default:
		left := cardStyle.Render(m.timerModel.View())
		right := cardStyle.Render(m.statsModel.View())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	}

	b.WriteString("\n")
	if m.toast != "" {
		if m.toastErr {
			b.WriteString(dangerStyle.Render("✗ " + m.toast))
		} else {
			b.WriteString(successStyle.Render("✓ " + m.toast))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return docStyle.Render(b.String())
}

func (m Model) tabs() string {
	dashboard, hist := inactiveTabStyle, inactiveTabStyle
	if m.state == StateHistory {
		hist = activeTabStyle
	} else {
		dashboard = activeTabStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		dashboard.Render("Dashboard"),
		hist.Render("History"),
	)
}
