package prediction

import (
	"fmt"

	"github.com/kilianp07/smartpark/core/model"
)

// MockPredictionEngine returns configured results keyed by "HH:MM".
type MockPredictionEngine struct {
	Results map[string]model.PredictionResult
	States  int
	Err     error
}

// Predict returns the configured result, the configured error, or the
// unseen-state default.
func (m MockPredictionEngine) Predict(timeStr string, w model.Weather, d model.DayType) (model.PredictionResult, error) {
	if m.Err != nil {
		return model.PredictionResult{}, m.Err
	}
	if !w.Valid() || !d.Valid() {
		return model.PredictionResult{}, fmt.Errorf("%w: weather %d day type %d", model.ErrInvalidInput, int(w), int(d))
	}
	if r, ok := m.Results[timeStr]; ok {
		return r, nil
	}
	return model.PredictionResult{
		PredictedAvailability: 125,
		Confidence:            0.85,
		QValue:                0.5,
		RecommendedAction:     model.ActionMaintain.Label(),
	}, nil
}

// Size returns the configured state count.
func (m MockPredictionEngine) Size() int { return m.States }
