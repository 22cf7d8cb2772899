package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDateAndClockOf(t *testing.T) {
	ts := time.Date(2024, 1, 20, 23, 5, 0, 0, time.Local)
	if got := DateOf(ts); got != "2024-01-20" {
		t.Errorf("DateOf() = %q, want 2024-01-20", got)
	}
	if got := ClockOf(ts); got != "23:05" {
		t.Errorf("ClockOf() = %q, want 23:05", got)
	}
}

func TestDayWindow(t *testing.T) {
	now := time.Date(2024, 3, 2, 15, 30, 0, 0, time.Local)
	days := DayWindow(now, 7)
	if len(days) != 7 {
		t.Fatalf("DayWindow() returned %d days, want 7", len(days))
	}

	want := []string{"2024-02-25", "2024-02-26", "2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	for i, d := range days {
		if got := DateOf(d); got != want[i] {
			t.Errorf("day %d = %s, want %s", i, got, want[i])
		}
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Errorf("day %d is not at midnight: %v", i, d)
		}
	}

	if got := DayWindow(now, 0); got != nil {
		t.Errorf("DayWindow(0) = %v, want nil", got)
	}
}

func TestCombineDateAndTime(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		clock   string
		want    time.Time
		wantErr bool
	}{
		{name: "valid", date: "2024-01-20", clock: "23:00", want: time.Date(2024, 1, 20, 23, 0, 0, 0, time.Local)},
		{name: "midnight", date: "2024-01-21", clock: "00:00", want: time.Date(2024, 1, 21, 0, 0, 0, 0, time.Local)},
		{name: "bad date", date: "2024/01/20", clock: "23:00", wantErr: true},
		{name: "bad time", date: "2024-01-20", clock: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CombineDateAndTime(tt.date, tt.clock)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CombineDateAndTime() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("CombineDateAndTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 00m"},
		{7*time.Hour + 5*time.Minute + 59*time.Second, "7h 05m"},
		{30 * time.Minute, "0h 30m"},
		{-90 * time.Minute, "-1h 30m"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(7.75); got != "7.8h" {
		t.Errorf("FormatHours(7.75) = %q, want 7.8h", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	got, err := ExpandPath("~/.config/sleeplit")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if want := filepath.Join(home, ".config/sleeplit"); got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}

	if got, _ := ExpandPath("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("ExpandPath() changed an absolute path: %q", got)
	}
}
