package learning

import (
	"errors"
	"fmt"
)

// ErrInvalidHyperparameters is returned by Config.Validate.
var ErrInvalidHyperparameters = errors.New("invalid hyperparameters")

const (
	DefaultAlpha   = 0.1
	DefaultGamma   = 0.9
	DefaultEpsilon = 0.1
)

// Config holds the learning hyperparameters.
type Config struct {
	// Alpha is the learning rate in (0,1].
	Alpha float64 `json:"alpha"`
	// Gamma is the discount factor in [0,1].
	Gamma float64 `json:"gamma"`
	// Epsilon is the exploration rate in [0,1]. Zero disables exploration.
	Epsilon float64 `json:"epsilon"`
	// Seed seeds the default random source. Zero picks a time based seed.
	Seed uint64 `json:"seed"`
}

// DefaultConfig returns α=0.1, γ=0.9, ε=0.1.
func DefaultConfig() Config {
	return Config{Alpha: DefaultAlpha, Gamma: DefaultGamma, Epsilon: DefaultEpsilon}
}

// Validate checks the hyperparameter ranges.
func (c Config) Validate() error {
	if !(c.Alpha > 0 && c.Alpha <= 1) {
		return fmt.Errorf("%w: alpha %v not in (0,1]", ErrInvalidHyperparameters, c.Alpha)
	}
	if !(c.Gamma >= 0 && c.Gamma <= 1) {
		return fmt.Errorf("%w: gamma %v not in [0,1]", ErrInvalidHyperparameters, c.Gamma)
	}
	if !(c.Epsilon >= 0 && c.Epsilon <= 1) {
		return fmt.Errorf("%w: epsilon %v not in [0,1]", ErrInvalidHyperparameters, c.Epsilon)
	}
	return nil
}
