package metrics

import (
	"context"

	"github.com/kilianp07/smartpark/core/events"
	coremetrics "github.com/kilianp07/smartpark/core/metrics"
	"github.com/kilianp07/smartpark/infra/logger"
	"github.com/kilianp07/smartpark/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed. The returned
// channel is closed once the collector goroutine has exited.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev); err != nil {
					log.Warnf("record %T: %v", ev, err)
				}
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event) error {
	switch e := ev.(type) {
	case events.PredictionServed:
		return sink.RecordPrediction(coremetrics.PredictionEvent{
			TimeOfDay: e.TimeOfDay,
			Weather:   e.Weather,
			DayType:   e.DayType,
			Result:    e.Result,
			Time:      e.At,
		})
	case events.TrainingCompleted:
		err := sink.RecordTraining(coremetrics.TrainingEvent{
			RunID:      e.RunID,
			Records:    e.Stats.Records,
			Updates:    e.Stats.Updates,
			Explored:   e.Stats.Explored,
			States:     e.Stats.States,
			MeanReward: e.Stats.MeanReward,
			StdReward:  e.Stats.StdReward,
			Duration:   e.Stats.Duration,
			Time:       e.At,
		})
		if err != nil {
			return err
		}
		if r, ok := sink.(coremetrics.TableSizeRecorder); ok {
			return r.RecordTableSize(e.Stats.States)
		}
	}
	return nil
}
