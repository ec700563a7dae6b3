package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/smartpark/core/metrics"
)

// PromSink records training and prediction activity in Prometheus metrics.
type PromSink struct {
	updates     prometheus.Counter
	reward      prometheus.Histogram
	states      prometheus.Gauge
	predictions *prometheus.CounterVec
}

// NewPromSink registers metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered under the same name are reused.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	updates, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smartpark_training_updates_total",
		Help: "Total number of temporal-difference updates applied",
	}))
	if err != nil {
		return nil, err
	}
	reward, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "smartpark_training_reward",
		Help:    "Mean reward of each training pass",
		Buckets: prometheus.LinearBuckets(-1, 0.25, 9),
	}))
	if err != nil {
		return nil, err
	}
	states, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smartpark_qtable_states",
		Help: "Number of states stored in the Q-table",
	}))
	if err != nil {
		return nil, err
	}
	predictions, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartpark_predictions_total",
		Help: "Predictions served by recommended action",
	}, []string{"action"}))
	if err != nil {
		return nil, err
	}
	return &PromSink{updates: updates, reward: reward, states: states, predictions: predictions}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordTraining adds the pass updates and observes its mean reward.
func (s *PromSink) RecordTraining(ev coremetrics.TrainingEvent) error {
	s.updates.Add(float64(ev.Updates))
	if ev.Updates > 0 {
		s.reward.Observe(ev.MeanReward)
	}
	s.states.Set(float64(ev.States))
	return nil
}

// RecordPrediction increments the counter of the recommended action.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.Result.RecommendedAction).Inc()
	return nil
}

// RecordTableSize sets the state gauge.
func (s *PromSink) RecordTableSize(states int) error {
	s.states.Set(float64(states))
	return nil
}
