package events

import (
	"time"

	"github.com/kilianp07/smartpark/core/model"
)

// PredictionServed is published after a prediction was answered.
type PredictionServed struct {
	TimeOfDay string
	Weather   model.Weather
	DayType   model.DayType
	Result    model.PredictionResult
	At        time.Time
}
