package constants

const (
	// Quality thresholds, as fractions of the sleep goal in force when a
	// session is recorded:
	// - a session of at least GoodRatio*goal hours is "good"
	// - a session shorter than PoorRatio*goal hours is "poor"
	// - anything in between is "normal"
	GoodRatio = 0.9
	PoorRatio = 0.7

	// Goal bounds enforced by callers before UpdateGoal.
	MinSleepGoal     = 4.0
	MaxSleepGoal     = 12.0
	DefaultSleepGoal = 8.0
	GoalStep         = 0.5

	// MaxRecords caps the persisted history; the oldest record is dropped first.
	MaxRecords = 30

	// WeekDays is the length of the rolling statistics window, today inclusive.
	WeekDays = 7

	// ChartScaleHours is the bar height treated as 100% in the weekly chart.
	ChartScaleHours = 10.0
	// ChartMinBarRatio keeps empty days visible as a stub.
	ChartMinBarRatio = 0.1
)

func init() {
	if PoorRatio >= GoodRatio {
		panic("PoorRatio must be lower than GoodRatio")
	}
	if MinSleepGoal > DefaultSleepGoal || DefaultSleepGoal > MaxSleepGoal {
		panic("DefaultSleepGoal must lie within [MinSleepGoal, MaxSleepGoal]")
	}
}
