package simulator

import (
	"fmt"
	"time"

	"github.com/kilianp07/smartpark/core/model"
)

// Config holds parameters for the historical data generator.
type Config struct {
	Days       int       `json:"days" yaml:"days"`
	StartDate  time.Time `json:"start_date" yaml:"start_date"`
	TotalSpots int       `json:"total_spots" yaml:"total_spots"`
	Rate       float64   `json:"rate" yaml:"rate"`
	Seed       uint64    `json:"seed" yaml:"seed"`
}

// DefaultConfig returns two months of data for a 200 spot lot starting on
// 2023-01-01.
func DefaultConfig() Config {
	return Config{
		Days:       60,
		StartDate:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalSpots: 200,
		Rate:       10,
	}
}

// Validate checks the generator parameters.
func (c Config) Validate() error {
	if c.Days < 0 {
		return fmt.Errorf("%w: days must not be negative", model.ErrInvalidInput)
	}
	if c.TotalSpots <= 0 {
		return fmt.Errorf("%w: total spots must be positive", model.ErrInvalidInput)
	}
	if c.Rate < 0 {
		return fmt.Errorf("%w: rate must not be negative", model.ErrInvalidInput)
	}
	return nil
}
