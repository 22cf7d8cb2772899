package models

// TimerState is the pending sleep session, persisted apart from SleepState.
type TimerState struct {
	StartedAt string `json:"startedAt"` // RFC3339
}
