// Package events defines the events published on the internal bus.
//
// Available event types:
//   - TrainingCompleted: a training pass finished
//   - PredictionServed: a prediction was returned to a caller
package events
