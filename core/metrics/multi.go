package metrics

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTraining forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordTraining(ev TrainingEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordTraining(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordPrediction forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordPrediction(ev PredictionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordTableSize forwards the size to sinks that support it.
func (m *MultiSink) RecordTableSize(states int) error {
	for _, s := range m.Sinks {
		if r, ok := s.(TableSizeRecorder); ok {
			if err := r.RecordTableSize(states); err != nil {
				return err
			}
		}
	}
	return nil
}
