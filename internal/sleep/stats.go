package sleep

import (
	"context"
	"time"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/models"
	"github.com/julianstephens/sleeplit/internal/utils"
)

// firstForDate returns the duration of the first record (newest first) dated
// date. Later sessions attributed to the same day are not added.
func firstForDate(records []models.SleepRecord, date string) (float64, bool) {
	for _, r := range records {
		if r.Date == date {
			return r.Duration, true
		}
	}
	return 0, false
}

// WeeklyData returns the hours slept on each of the last seven local calendar
// days, oldest first and today last; days without a record are 0.
func (s *Store) WeeklyData(ctx context.Context) []float64 {
	days := s.WeeklyDays(ctx)
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = d.Hours
	}
	return out
}

// WeeklyDays is WeeklyData with the date, weekday and goal flag of each bar.
func (s *Store) WeeklyDays(ctx context.Context) []models.DayTotal {
	return weeklyDays(s.State(ctx), s.now())
}

func weeklyDays(state models.SleepState, now time.Time) []models.DayTotal {
	days := utils.DayWindow(now, constants.WeekDays)

	out := make([]models.DayTotal, len(days))
	for i, day := range days {
		date := utils.DateOf(day)
		hours, _ := firstForDate(state.Records, date)
		out[i] = models.DayTotal{
			Date:    date,
			Weekday: day.Weekday().String()[:3],
			Hours:   hours,
			MetGoal: hours > 0 && hours >= state.SleepGoal,
		}
	}
	return out
}

// WeeklyAverage is the mean of the non-zero WeeklyData values; days without
// sleep are left out rather than counted as zero. It is 0 when the window is
// empty.
func (s *Store) WeeklyAverage(ctx context.Context) float64 {
	return Average(s.WeeklyData(ctx))
}

// Average is the mean of the non-zero entries of values, or 0.
func Average(values []float64) float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if v != 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// TodaySleep returns the duration of today's first record, or 0.
func (s *Store) TodaySleep(ctx context.Context) float64 {
	state := s.State(ctx)
	hours, _ := firstForDate(state.Records, utils.DateOf(s.now()))
	return hours
}

// TodayProgress is TodaySleep as a percentage of the current goal.
func (s *Store) TodayProgress(ctx context.Context) float64 {
	return Progress(s.TodaySleep(ctx), s.State(ctx).SleepGoal)
}

// WeeklyProgress is WeeklyAverage as a percentage of the current goal.
func (s *Store) WeeklyProgress(ctx context.Context) float64 {
	return Progress(s.WeeklyAverage(ctx), s.State(ctx).SleepGoal)
}

// Progress returns hours/goal as a percentage. It is not capped at 100 and
// is 0 for a non-positive goal.
func Progress(hours, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return hours / goal * 100
}

// Summary bundles the dashboard statistics computed from one snapshot.
type Summary struct {
	Goal           float64
	Today          float64
	WeeklyAverage  float64
	TodayProgress  float64
	WeeklyProgress float64
	Days           []models.DayTotal
}

// Summary derives every figure from one snapshot and one clock reading.
func (s *Store) Summary(ctx context.Context) Summary {
	state := s.State(ctx)
	now := s.now()
	days := weeklyDays(state, now)

	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = d.Hours
	}
	today, _ := firstForDate(state.Records, utils.DateOf(now))
	avg := Average(values)

	return Summary{
		Goal:           state.SleepGoal,
		Today:          today,
		WeeklyAverage:  avg,
		TodayProgress:  Progress(today, state.SleepGoal),
		WeeklyProgress: Progress(avg, state.SleepGoal),
		Days:           days,
	}
}
