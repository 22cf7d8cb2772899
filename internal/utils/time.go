package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/sleeplit/internal/constants"
)

// DateOf returns the local calendar date (YYYY-MM-DD) of t.
func DateOf(t time.Time) string {
	return t.In(time.Local).Format(constants.DateFormat)
}

// ClockOf returns the local 24-hour clock time (HH:MM) of t.
func ClockOf(t time.Time) string {
	return t.In(time.Local).Format(constants.TimeFormat)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// DayWindow returns the n local calendar days ending on the day of now,
// oldest first. Days are stepped with AddDate so DST shifts never skip or
// repeat a date.
func DayWindow(now time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	today := StartOfDay(now)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = today.AddDate(0, 0, i-(n-1))
	}
	return days
}

// ParseDate parses a date string (YYYY-MM-DD) at local midnight.
func ParseDate(dateStr string) (time.Time, error) {
	return time.ParseInLocation(constants.DateFormat, dateStr, time.Local)
}

// CombineDateAndTime combines a date string (YYYY-MM-DD) and time string (HH:MM)
// into a single local instant.
func CombineDateAndTime(dateStr, timeStr string) (time.Time, error) {
	date, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}

	timeOfDay, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		time.Local,
	), nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}

// Hours converts a duration to fractional hours.
func Hours(d time.Duration) float64 {
	return d.Hours()
}

// FormatHours renders fractional hours with one decimal, e.g. "7.8h".
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

// FormatElapsed renders a duration as "7h 05m", truncated to whole minutes.
func FormatElapsed(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%s%dh %02dm", sign, minutes/60, minutes%60)
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
