package reports

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/sleeplit/internal/cli"
	"github.com/julianstephens/sleeplit/internal/config"
	"github.com/julianstephens/sleeplit/internal/export"
	"github.com/julianstephens/sleeplit/internal/sleep"
	"github.com/julianstephens/sleeplit/internal/storage"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	now := time.Date(2024, 1, 15, 20, 0, 0, 0, time.Local)
	ctx := cli.NewContext(context.Background(), cfg, storage.NewMemoryBackend(),
		sleep.WithClock(func() time.Time { return now }))

	var out bytes.Buffer
	ctx.Out = &out
	return ctx, &out
}

func TestStatsCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	require.NoError(t, (&StatsCmd{}).Run(ctx))

	got := out.String()
	assert.Contains(t, got, "Goal:           8 hours")
	assert.Contains(t, got, "Today:          7.8h (97% of goal)")
	assert.Contains(t, got, "Weekly average: 7.4h")
	assert.Contains(t, got, "Goal met on 2 of the last 7 days")
	assert.Contains(t, got, "Mon")
}

func TestStatsCmd_NoChart(t *testing.T) {
	ctx, out := setupTestContext(t)

	require.NoError(t, (&StatsCmd{NoChart: true}).Run(ctx))
	assert.NotContains(t, out.String(), "█")
}

func TestHistoryCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	require.NoError(t, (&HistoryCmd{Limit: 2}).Run(ctx))

	got := out.String()
	assert.Contains(t, got, "2024-01-15")
	assert.Contains(t, got, "2024-01-14")
	assert.NotContains(t, got, "2024-01-13")
	assert.Contains(t, got, "Showing 2 of 5 records")
}

func TestHistoryCmd_InvalidLimit(t *testing.T) {
	ctx, _ := setupTestContext(t)
	assert.Error(t, (&HistoryCmd{Limit: -1}).Run(ctx))
}

func TestHistoryCmd_DefaultLimit(t *testing.T) {
	ctx, out := setupTestContext(t)

	require.NoError(t, (&HistoryCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "2024-01-11")
	assert.NotContains(t, out.String(), "Showing")
}

func TestExportCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	path := filepath.Join(t.TempDir(), "sleep.xlsx")

	require.NoError(t, (&ExportCmd{Out: path}).Run(ctx))
	assert.Contains(t, out.String(), "Exported 5 records")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.RecordsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
	assert.Equal(t, "2024-01-15", rows[1][1])
}

func TestExportCmd_BadExtension(t *testing.T) {
	ctx, _ := setupTestContext(t)
	err := (&ExportCmd{Out: filepath.Join(t.TempDir(), "sleep.csv")}).Run(ctx)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), ".xlsx"))
}
