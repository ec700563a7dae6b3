// Package scenarios replays YAML described training runs and checks the
// resulting recommendations.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/smartpark/core/model"
)

// SimulationDef overrides the generator defaults. Zero values keep them.
type SimulationDef struct {
	Days       int    `yaml:"days"`
	TotalSpots int    `yaml:"total_spots"`
	Seed       uint64 `yaml:"seed"`
}

// LearningDef overrides the hyperparameter defaults. Nil pointers keep them.
type LearningDef struct {
	Alpha   *float64 `yaml:"alpha,omitempty"`
	Gamma   *float64 `yaml:"gamma,omitempty"`
	Epsilon *float64 `yaml:"epsilon,omitempty"`
	Seed    uint64   `yaml:"seed"`
	// Passes is the number of Train calls over the batch, at least one.
	Passes int `yaml:"passes"`
}

// Query is one prediction to check after training.
type Query struct {
	Time            string        `yaml:"time"`
	Weather         model.Weather `yaml:"weather"`
	DayType         model.DayType `yaml:"day_type"`
	ExpectAction    string        `yaml:"expect_action,omitempty"`
	MinAvailability *int          `yaml:"min_availability,omitempty"`
	MaxAvailability *int          `yaml:"max_availability,omitempty"`
}

type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Simulation  SimulationDef `yaml:"simulation"`
	Learning    LearningDef   `yaml:"learning"`
	Queries     []Query       `yaml:"queries"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario name is required", path)
	}
	for i, q := range sc.Queries {
		if q.ExpectAction != "" {
			if _, err := model.ParseActionLabel(q.ExpectAction); err != nil {
				return nil, fmt.Errorf("%s: query %d: %w", path, i, err)
			}
		}
	}
	return &sc, nil
}
