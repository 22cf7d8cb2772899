package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/sleeplit/internal/models"
)

func TestValidateGoal(t *testing.T) {
	tests := []struct {
		goal    float64
		wantErr bool
	}{
		{4, false},
		{8, false},
		{12, false},
		{3.5, true},
		{12.5, true},
		{0, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}

	for _, tt := range tests {
		err := ValidateGoal(tt.goal)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateGoal(%v) error = %v, wantErr %v", tt.goal, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrGoalOutOfRange) {
			t.Errorf("expected ErrGoalOutOfRange, got %v", err)
		}
	}

	if ErrGoalOutOfRange.Error() != "sleep goal must be between 4 and 12 hours" {
		t.Errorf("unexpected message: %s", ErrGoalOutOfRange)
	}
}

func TestParseGoal(t *testing.T) {
	if g, err := ParseGoal(" 7.5 "); err != nil || g != 7.5 {
		t.Errorf("ParseGoal(7.5) = %v, %v", g, err)
	}
	if _, err := ParseGoal("eight"); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("expected ErrInvalidGoal, got %v", err)
	}
	if _, err := ParseGoal("13"); !errors.Is(err, ErrGoalOutOfRange) {
		t.Errorf("expected ErrGoalOutOfRange, got %v", err)
	}
	for _, in := range []string{"NaN", "nan", "+Inf"} {
		if g, err := ParseGoal(in); !errors.Is(err, ErrGoalOutOfRange) {
			t.Errorf("ParseGoal(%q) = %v, %v; want ErrGoalOutOfRange", in, g, err)
		}
	}
}

func TestParseSession(t *testing.T) {
	tests := []struct {
		name      string
		sleep     string
		wake      string
		wantHours float64
		wantErr   bool
	}{
		{"overnight", "23:00", "07:12", 8.2, false},
		{"same day", "01:00", "06:30", 5.5, false},
		{"bad clock", "25:00", "07:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseSession("2024-01-20", tt.sleep, tt.wake)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if start.Format("2006-01-02") != "2024-01-20" {
				t.Errorf("start date = %s", start.Format("2006-01-02"))
			}
			got := end.Sub(start).Hours()
			if got < tt.wantHours-1e-9 || got > tt.wantHours+1e-9 {
				t.Errorf("hours = %v, want %v", got, tt.wantHours)
			}
		})
	}

	if _, _, err := ParseSession("2024-13-01", "23:00", "07:00"); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestValidateSession(t *testing.T) {
	start := time.Date(2024, 1, 20, 23, 0, 0, 0, time.Local)

	if w := ValidateSession(start, start.Add(8*time.Hour)); w != "" {
		t.Errorf("unexpected warning: %s", w)
	}
	if w := ValidateSession(start, start.Add(-time.Hour)); !strings.Contains(w, "negative") {
		t.Errorf("expected negative warning, got %q", w)
	}
	if w := ValidateSession(start, start.Add(30*time.Hour)); w == "" {
		t.Error("expected warning for a session over a day")
	}
}

func TestValidateState_Seed(t *testing.T) {
	result := ValidateState(models.SeedState())
	if result.HasConflicts() {
		t.Errorf("seed should be clean:\n%s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report: %s", result.FormatReport())
	}
}

func TestValidateState_Conflicts(t *testing.T) {
	state := models.SleepState{
		SleepGoal: 20,
		Records: []models.SleepRecord{
			{ID: "a", Date: "2024-01-10", SleepTime: "23:00", WakeTime: "07:00", Duration: 8, Quality: models.QualityGood},
			{ID: "a", Date: "2024-01-12", SleepTime: "23:00", WakeTime: "07:00", Duration: 8, Quality: models.QualityGood},
			{ID: "", Date: "Jan 9", SleepTime: "7pm", WakeTime: "07:00", Duration: -2, Quality: models.QualityPoor},
		},
	}

	result := ValidateState(state)
	want := map[ConflictType]bool{
		ConflictGoalOutOfRange:   true,
		ConflictDuplicateID:      true,
		ConflictOutOfOrder:       true,
		ConflictMissingID:        true,
		ConflictInvalidDate:      true,
		ConflictInvalidClock:     true,
		ConflictNegativeDuration: true,
	}

	got := make(map[ConflictType]bool)
	for _, c := range result.Conflicts {
		got[c.Type] = true
	}
	for ct := range want {
		if !got[ct] {
			t.Errorf("expected conflict %s in:\n%s", ct, result.FormatReport())
		}
	}
	if got[ConflictTooManyRecords] {
		t.Error("unexpected too_many_records conflict")
	}
}
