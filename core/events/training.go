package events

import (
	"time"

	"github.com/kilianp07/smartpark/core/learning"
)

// TrainingCompleted is published once a training pass has been applied.
type TrainingCompleted struct {
	RunID string
	Stats learning.TrainingStats
	At    time.Time
}
