package sleep

import (
	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/models"
)

// Classify derives the quality label of a session of duration hours against
// goal hours. It is evaluated once, when the record is created.
func Classify(duration, goal float64) models.Quality {
	switch {
	case duration >= goal*constants.GoodRatio:
		return models.QualityGood
	case duration < goal*constants.PoorRatio:
		return models.QualityPoor
	default:
		return models.QualityNormal
	}
}
