package metrics

import (
	"time"

	"github.com/kilianp07/smartpark/core/model"
)

// TrainingEvent summarizes one training pass.
type TrainingEvent struct {
	RunID      string
	Records    int
	Updates    int
	Explored   int
	States     int
	MeanReward float64
	StdReward  float64
	Duration   time.Duration
	Time       time.Time
}

// TrainingRecorder records completed training passes.
type TrainingRecorder interface {
	RecordTraining(ev TrainingEvent) error
}

// PredictionEvent captures a prediction handed to a caller.
type PredictionEvent struct {
	TimeOfDay string // HH:MM
	Weather   model.Weather
	DayType   model.DayType
	Result    model.PredictionResult
	Time      time.Time
}

// PredictionRecorder records served predictions.
type PredictionRecorder interface {
	RecordPrediction(ev PredictionEvent) error
}

// TableSizeRecorder records the number of states held by the Q-table.
type TableSizeRecorder interface {
	RecordTableSize(states int) error
}

// MetricsSink is implemented by every sink built from configuration.
type MetricsSink interface {
	TrainingRecorder
	PredictionRecorder
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordTraining(TrainingEvent) error     { return nil }
func (NopSink) RecordPrediction(PredictionEvent) error { return nil }
func (NopSink) RecordTableSize(int) error              { return nil }
