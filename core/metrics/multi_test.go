package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	count int
	size  int
	fail  bool
}

func (r *recordSink) RecordTraining(TrainingEvent) error {
	r.count++
	if r.fail {
		return errors.New("boom")
	}
	return nil
}

func (r *recordSink) RecordPrediction(PredictionEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordTableSize(n int) error {
	r.size = n
	return nil
}

// plainSink does not implement TableSizeRecorder.
type plainSink struct{}

func (plainSink) RecordTraining(TrainingEvent) error     { return nil }
func (plainSink) RecordPrediction(PredictionEvent) error { return nil }

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2, plainSink{})
	if err := m.RecordTraining(TrainingEvent{}); err != nil {
		t.Fatalf("record training: %v", err)
	}
	if err := m.RecordPrediction(PredictionEvent{}); err != nil {
		t.Fatalf("record prediction: %v", err)
	}
	if err := m.RecordTableSize(42); err != nil {
		t.Fatalf("record size: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("events not forwarded")
	}
	if s1.size != 42 || s2.size != 42 {
		t.Fatalf("size not forwarded")
	}
}

func TestMultiSinkStopsOnError(t *testing.T) {
	s1 := &recordSink{fail: true}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordTraining(TrainingEvent{}); err == nil {
		t.Fatal("expected error")
	}
	if s2.count != 0 {
		t.Fatalf("second sink should not be called")
	}
}
