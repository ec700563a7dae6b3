package scenarios

import (
	"fmt"

	"github.com/kilianp07/smartpark/core/learning"
	"github.com/kilianp07/smartpark/core/model"
	"github.com/kilianp07/smartpark/simulator"
)

// Result reports the outcome of a scenario.
type Result struct {
	Name     string
	Passed   bool
	Failures []string
	Stats    learning.TrainingStats
}

// Run trains a fresh agent on simulated history and checks every query.
// Expectation mismatches are reported in the result; the error is reserved
// for scenarios that cannot be executed.
func Run(sc *Scenario) (Result, error) {
	res := Result{Name: sc.Name}

	simCfg := simulator.DefaultConfig()
	if sc.Simulation.Days > 0 {
		simCfg.Days = sc.Simulation.Days
	}
	if sc.Simulation.TotalSpots > 0 {
		simCfg.TotalSpots = sc.Simulation.TotalSpots
	}
	simCfg.Seed = sc.Simulation.Seed
	batch, err := simulator.Generate(simCfg, nil)
	if err != nil {
		return res, fmt.Errorf("simulate: %w", err)
	}

	cfg := learning.DefaultConfig()
	if sc.Learning.Alpha != nil {
		cfg.Alpha = *sc.Learning.Alpha
	}
	if sc.Learning.Gamma != nil {
		cfg.Gamma = *sc.Learning.Gamma
	}
	if sc.Learning.Epsilon != nil {
		cfg.Epsilon = *sc.Learning.Epsilon
	}
	cfg.Seed = sc.Learning.Seed
	agent, err := learning.NewAgent(cfg)
	if err != nil {
		return res, err
	}
	if err := agent.Initialize(batch); err != nil {
		return res, err
	}
	passes := sc.Learning.Passes
	if passes < 1 {
		passes = 1
	}
	for i := 0; i < passes; i++ {
		if res.Stats, err = agent.Train(batch); err != nil {
			return res, err
		}
	}

	for i, q := range sc.Queries {
		got, err := agent.Predict(q.Time, q.Weather, q.DayType)
		if err != nil {
			return res, fmt.Errorf("query %d: %w", i, err)
		}
		res.Failures = append(res.Failures, check(i, q, got)...)
	}
	res.Passed = len(res.Failures) == 0
	return res, nil
}

func check(i int, q Query, got model.PredictionResult) []string {
	var out []string
	where := fmt.Sprintf("query %d (%s %s %s)", i, q.Time, q.Weather, q.DayType)
	if q.ExpectAction != "" {
		want, _ := model.ParseActionLabel(q.ExpectAction)
		if got.RecommendedAction != want.Label() {
			out = append(out, fmt.Sprintf("%s: action %q, want %q", where, got.RecommendedAction, want.Label()))
		}
	}
	if q.MinAvailability != nil && got.PredictedAvailability < *q.MinAvailability {
		out = append(out, fmt.Sprintf("%s: availability %d below %d", where, got.PredictedAvailability, *q.MinAvailability))
	}
	if q.MaxAvailability != nil && got.PredictedAvailability > *q.MaxAvailability {
		out = append(out, fmt.Sprintf("%s: availability %d above %d", where, got.PredictedAvailability, *q.MaxAvailability))
	}
	return out
}
