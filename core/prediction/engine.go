package prediction

import (
	"github.com/kilianp07/smartpark/core/learning"
	"github.com/kilianp07/smartpark/core/model"
)

// PredictionEngine answers availability and pricing queries.
type PredictionEngine interface {
	// Predict returns the estimate for a "HH:MM" time, weather and day type.
	// Invalid input yields an error wrapping model.ErrInvalidInput.
	Predict(timeStr string, w model.Weather, d model.DayType) (model.PredictionResult, error)
	// Size returns the number of learned states.
	Size() int
}

var _ PredictionEngine = (*learning.Agent)(nil)
