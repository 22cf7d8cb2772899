package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/models"
	"github.com/julianstephens/sleeplit/internal/utils"
)

var (
	ErrGoalOutOfRange = fmt.Errorf("sleep goal must be between %g and %g hours", constants.MinSleepGoal, constants.MaxSleepGoal)
	ErrInvalidGoal    = errors.New("sleep goal must be a number")
)

// ValidateGoal reports whether g is an acceptable sleep goal.
func ValidateGoal(g float64) error {
	// NaN fails both comparisons and is rejected
	if !(g >= constants.MinSleepGoal && g <= constants.MaxSleepGoal) {
		return ErrGoalOutOfRange
	}
	return nil
}

// ParseGoal parses and validates a goal typed by the user.
func ParseGoal(s string) (float64, error) {
	g, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrInvalidGoal
	}
	if err := ValidateGoal(g); err != nil {
		return 0, err
	}
	return g, nil
}

// ParseInstant combines a YYYY-MM-DD date and an HH:MM clock in local time.
func ParseInstant(date, clock string) (time.Time, error) {
	return utils.CombineDateAndTime(date, clock)
}

// ParseSession resolves a manual log entry. A wake clock earlier than the
// sleep clock is taken to be on the following day.
func ParseSession(date, sleepClock, wakeClock string) (start, end time.Time, err error) {
	start, err = ParseInstant(date, sleepClock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = ParseInstant(date, wakeClock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// ValidateSession returns a warning for a session that ends before it
// starts, or one longer than a day. Neither is rejected.
func ValidateSession(start, end time.Time) string {
	switch d := end.Sub(start); {
	case d < 0:
		return fmt.Sprintf("session ends %s before it starts; duration will be negative", utils.FormatElapsed(-d))
	case d > 24*time.Hour:
		return fmt.Sprintf("session lasts %s", utils.FormatElapsed(d))
	default:
		return ""
	}
}

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidDate      ConflictType = "invalid_date"
	ConflictInvalidClock     ConflictType = "invalid_clock"
	ConflictDuplicateID      ConflictType = "duplicate_id"
	ConflictMissingID        ConflictType = "missing_id"
	ConflictNegativeDuration ConflictType = "negative_duration"
	ConflictOutOfOrder       ConflictType = "out_of_order"
	ConflictGoalOutOfRange   ConflictType = "goal_out_of_range"
	ConflictTooManyRecords   ConflictType = "too_many_records"
)

// Conflict represents a problem found in a stored state
type Conflict struct {
	Type        ConflictType
	Description string
	RecordIDs   []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

func (vr *ValidationResult) add(t ConflictType, desc string, ids ...string) {
	vr.Conflicts = append(vr.Conflicts, Conflict{Type: t, Description: desc, RecordIDs: ids})
}

// ValidateState checks a state for problems the store tolerates but the
// doctor command reports.
func ValidateState(state models.SleepState) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if err := ValidateGoal(state.SleepGoal); err != nil {
		result.add(ConflictGoalOutOfRange, fmt.Sprintf("Sleep goal %g is outside %g-%g hours", state.SleepGoal, constants.MinSleepGoal, constants.MaxSleepGoal))
	}
	if len(state.Records) > constants.MaxRecords {
		result.add(ConflictTooManyRecords, fmt.Sprintf("History holds %d records, more than %d", len(state.Records), constants.MaxRecords))
	}

	seen := make(map[string]bool)
	prevDate := ""
	for i, r := range state.Records {
		label := r.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
			result.add(ConflictMissingID, fmt.Sprintf("Record %s has no ID", label))
		} else if seen[r.ID] {
			result.add(ConflictDuplicateID, fmt.Sprintf("Record ID %s appears more than once", r.ID), r.ID)
		}
		seen[r.ID] = true

		if _, err := utils.ParseDate(r.Date); err != nil {
			result.add(ConflictInvalidDate, fmt.Sprintf("Record %s has invalid date %q", label, r.Date), r.ID)
		} else {
			if prevDate != "" && r.Date > prevDate {
				result.add(ConflictOutOfOrder, fmt.Sprintf("Record %s (%s) is newer than the record before it (%s)", label, r.Date, prevDate), r.ID)
			}
			prevDate = r.Date
		}

		if !utils.ValidateTimeFormat(r.SleepTime) || !utils.ValidateTimeFormat(r.WakeTime) {
			result.add(ConflictInvalidClock, fmt.Sprintf("Record %s has invalid times %q-%q", label, r.SleepTime, r.WakeTime), r.ID)
		}
		if r.Duration < 0 {
			result.add(ConflictNegativeDuration, fmt.Sprintf("Record %s has negative duration %s", label, utils.FormatHours(r.Duration)), r.ID)
		}
	}

	return result
}
