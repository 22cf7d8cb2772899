package models

type Quality string

const (
	QualityGood   Quality = "good"
	QualityNormal Quality = "normal"
	QualityPoor   Quality = "poor"
)

// Label returns the display text for a quality level.
func (q Quality) Label() string {
	switch q {
	case QualityGood:
		return "Good"
	case QualityNormal:
		return "Normal"
	case QualityPoor:
		return "Poor"
	default:
		return "Unknown"
	}
}

// Valid reports whether q is one of the three known levels.
func (q Quality) Valid() bool {
	return q == QualityGood || q == QualityNormal || q == QualityPoor
}

type SleepRecord struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`      // YYYY-MM-DD, local date of the sleep start
	SleepTime string  `json:"sleepTime"` // HH:MM
	WakeTime  string  `json:"wakeTime"`  // HH:MM
	Duration  float64 `json:"duration"`  // hours
	Quality   Quality `json:"quality"`
}

// SleepState is the root aggregate persisted under a single storage key.
type SleepState struct {
	Records    []SleepRecord `json:"records"` // newest first
	SleepGoal  float64       `json:"sleepGoal"`
	IsSleeping bool          `json:"isSleeping"`
}

// Clone returns a deep copy so callers can never alias the store's slice.
func (s SleepState) Clone() SleepState {
	out := s
	out.Records = make([]SleepRecord, len(s.Records))
	copy(out.Records, s.Records)
	return out
}

// DayTotal is one bar of the weekly chart.
type DayTotal struct {
	Date    string
	Weekday string
	Hours   float64
	MetGoal bool
}
