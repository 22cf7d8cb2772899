// Package chart draws the weekly sleep bar chart.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/models"
)

var (
	metStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("129"))
	underStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("183"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const barWidth = 5

// BarHeight is the number of rows a bar of hours occupies in a chart of
// height rows. Hours are scaled against a fixed ten-hour axis and every bar
// keeps a minimum stub so empty days stay visible.
func BarHeight(hours float64, height int) int {
	ratio := math.Max(hours/constants.ChartScaleHours, constants.ChartMinBarRatio)
	ratio = math.Min(ratio, 1)
	rows := int(math.Round(ratio * float64(height)))
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Render draws one bar per day, oldest on the left, with the weekday and
// hours underneath. Bars for days that met the goal use the accent color.
func Render(days []models.DayTotal, height int) string {
	if len(days) == 0 || height <= 0 {
		return ""
	}

	heights := make([]int, len(days))
	for i, d := range days {
		heights[i] = BarHeight(d.Hours, height)
	}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		for i, d := range days {
			cell := strings.Repeat(" ", barWidth)
			if heights[i] >= row {
				block := strings.Repeat("█", barWidth-1) + " "
				if d.MetGoal {
					cell = metStyle.Render(block)
				} else {
					cell = underStyle.Render(block)
				}
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	for _, d := range days {
		b.WriteString(labelStyle.Render(pad(d.Weekday)))
	}
	b.WriteString("\n")
	for _, d := range days {
		b.WriteString(labelStyle.Render(pad(fmt.Sprintf("%.1f", d.Hours))))
	}
	return b.String()
}

func pad(s string) string {
	if len(s) >= barWidth {
		return s[:barWidth]
	}
	return s + strings.Repeat(" ", barWidth-len(s))
}
