package models

import "github.com/julianstephens/sleeplit/internal/constants"

// SeedState returns the fixed history used when no persisted state exists.
func SeedState() SleepState {
	return SleepState{
		Records: []SleepRecord{
			{ID: "1", Date: "2024-01-15", SleepTime: "23:30", WakeTime: "07:15", Duration: 7.75, Quality: QualityGood},
			{ID: "2", Date: "2024-01-14", SleepTime: "00:15", WakeTime: "06:45", Duration: 6.5, Quality: QualityNormal},
			{ID: "3", Date: "2024-01-13", SleepTime: "23:45", WakeTime: "08:00", Duration: 8.25, Quality: QualityGood},
			{ID: "4", Date: "2024-01-12", SleepTime: "01:00", WakeTime: "06:30", Duration: 5.5, Quality: QualityPoor},
			{ID: "5", Date: "2024-01-11", SleepTime: "22:30", WakeTime: "07:30", Duration: 9, Quality: QualityGood},
		},
		SleepGoal:  constants.DefaultSleepGoal,
		IsSleeping: false,
	}
}
