// Package export writes the sleep history to an xlsx workbook.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/sleeplit/internal/models"
	"github.com/julianstephens/sleeplit/internal/sleep"
)

const (
	RecordsSheet = "Records"
	WeekSheet    = "Week"
)

var (
	RecordsHeader = []string{"ID", "Date", "Sleep Time", "Wake Time", "Duration (h)", "Quality"}
	WeekHeader    = []string{"Date", "Day", "Hours", "Met Goal"}
)

// Workbook builds the export from a state snapshot and its weekly summary.
func Workbook(state models.SleepState, summary sleep.Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", RecordsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(WeekSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, RecordsSheet, RecordsHeader, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	for i, r := range state.Records {
		row := []any{r.ID, r.Date, r.SleepTime, r.WakeTime, r.Duration, r.Quality.Label()}
		if err := writeRow(f, RecordsSheet, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := writeHeader(f, WeekSheet, WeekHeader, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	for i, d := range summary.Days {
		met := "no"
		if d.MetGoal {
			met = "yes"
		}
		if err := writeRow(f, WeekSheet, i+2, []any{d.Date, d.Weekday, d.Hours, met}); err != nil {
			f.Close()
			return nil, err
		}
	}
	footer := len(summary.Days) + 3
	if err := writeRow(f, WeekSheet, footer, []any{"Average", "", summary.WeeklyAverage}); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRow(f, WeekSheet, footer+1, []any{"Goal", "", summary.Goal}); err != nil {
		f.Close()
		return nil, err
	}

	_ = f.SetColWidth(RecordsSheet, "A", "A", 38)
	_ = f.SetColWidth(RecordsSheet, "B", "F", 14)
	_ = f.SetColWidth(WeekSheet, "A", "D", 12)
	return f, nil
}

// Write renders the workbook to w.
func Write(w io.Writer, state models.SleepState, summary sleep.Summary) error {
	f, err := Workbook(state, summary)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Bytes is Write into memory.
func Bytes(state models.SleepState, summary sleep.Summary) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, state, summary); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveAs writes the workbook to path.
func SaveAs(path string, state models.SleepState, summary sleep.Summary) error {
	f, err := Workbook(state, summary)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
