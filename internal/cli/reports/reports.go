package reports

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/sleeplit/internal/cli"
	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/export"
	"github.com/julianstephens/sleeplit/internal/tui/components/chart"
	"github.com/julianstephens/sleeplit/internal/utils"
)

const chartHeight = 8

type StatsCmd struct {
	NoChart bool `help:"Skip the weekly bar chart."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	summary := ctx.Store.Summary(ctx.Ctx)

	ctx.Printf("Goal:           %g hours\n", summary.Goal)
	ctx.Printf("Today:          %s (%.0f%% of goal)\n", utils.FormatHours(summary.Today), summary.TodayProgress)
	ctx.Printf("Weekly average: %s (%.0f%% of goal)\n", utils.FormatHours(summary.WeeklyAverage), summary.WeeklyProgress)

	met := 0
	for _, d := range summary.Days {
		if d.MetGoal {
			met++
		}
	}
	ctx.Printf("Goal met on %d of the last %d days\n", met, len(summary.Days))

	if !c.NoChart {
		ctx.Println()
		ctx.Println(chart.Render(summary.Days, chartHeight))
	}
	return nil
}

type HistoryCmd struct {
	Limit int `short:"n" help:"Number of records to show (0 shows the default page)."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	limit := c.Limit
	if limit == 0 {
		limit = constants.HistoryRows
	}
	if limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", limit)
	}
	records := ctx.Store.State(ctx.Ctx).Records
	if len(records) == 0 {
		ctx.Println("No sleep records yet. Run 'sleeplit start' tonight.")
		return nil
	}
	if len(records) > limit {
		records = records[:limit]
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("DATE", "SLEEP", "WAKE", "DURATION", "QUALITY")
	for _, r := range records {
		t.Row(r.Date, r.SleepTime, r.WakeTime, utils.FormatHours(r.Duration), r.Quality.Label())
	}
	ctx.Println(t.Render())

	if total := len(ctx.Store.State(ctx.Ctx).Records); total > len(records) {
		ctx.Printf("Showing %d of %d records (at most %d are kept)\n", len(records), total, constants.MaxRecords)
	}
	return nil
}

type ExportCmd struct {
	Out string `help:"Destination .xlsx file." default:"sleeplit.xlsx" type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	if !strings.EqualFold(filepath.Ext(c.Out), ".xlsx") {
		return fmt.Errorf("export file must end in .xlsx: %s", c.Out)
	}
	state := ctx.Store.State(ctx.Ctx)
	if err := export.SaveAs(c.Out, state, ctx.Store.Summary(ctx.Ctx)); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	ctx.Printf("✓ Exported %d records to %s\n", len(state.Records), c.Out)
	return nil
}
