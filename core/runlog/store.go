package runlog

import (
	"context"
	"time"
)

// RunRecord is the audit entry written after a training pass. It describes
// the run; the learned values themselves are never stored.
type RunRecord struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Records    int           `json:"records"`
	Updates    int           `json:"updates"`
	Explored   int           `json:"explored"`
	States     int           `json:"states"`
	MeanReward float64       `json:"mean_reward"`
	StdReward  float64       `json:"std_reward"`
	Alpha      float64       `json:"alpha"`
	Gamma      float64       `json:"gamma"`
	Epsilon    float64       `json:"epsilon"`
}

// Query filters List results. Zero values disable a filter.
type Query struct {
	Since time.Time
	Limit int
}

// Store persists RunRecords.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	// List returns matching records, most recent first.
	List(ctx context.Context, q Query) ([]RunRecord, error)
	Close() error
}
