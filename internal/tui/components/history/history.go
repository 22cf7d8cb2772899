// Package history lists recent sleep records.
package history

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sleeplit/internal/models"
	"github.com/julianstephens/sleeplit/internal/utils"
)

type Item struct {
	Record models.SleepRecord
}

func (i Item) Title() string {
	return fmt.Sprintf("%s  %s → %s", i.Record.Date, i.Record.SleepTime, i.Record.WakeTime)
}

func (i Item) Description() string {
	return fmt.Sprintf("%s | %s", utils.FormatHours(i.Record.Duration), i.Record.Quality.Label())
}

func (i Item) FilterValue() string { return i.Record.Date }

type Model struct {
	list list.Model
}

func New(records []models.SleepRecord, width, height int) Model {
	l := list.New(toItems(records), list.NewDefaultDelegate(), width, height)
	l.Title = "History"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return Model{list: l}
}

func toItems(records []models.SleepRecord) []list.Item {
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = Item{Record: r}
	}
	return items
}

func (m *Model) SetRecords(records []models.SleepRecord) {
	m.list.SetItems(toItems(records))
}

// Len is the number of records shown.
func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No sleep recorded yet.\n  Press space to start the timer."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
