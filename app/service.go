// Package app wires the pricing agent to its HTTP, telemetry and broadcast
// surfaces.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/smartpark/api/predictions"
	"github.com/kilianp07/smartpark/config"
	"github.com/kilianp07/smartpark/core/events"
	"github.com/kilianp07/smartpark/core/learning"
	coremetrics "github.com/kilianp07/smartpark/core/metrics"
	"github.com/kilianp07/smartpark/core/model"
	coremon "github.com/kilianp07/smartpark/core/monitoring"
	"github.com/kilianp07/smartpark/core/runlog"
	"github.com/kilianp07/smartpark/infra/logger"
	"github.com/kilianp07/smartpark/infra/metrics"
	"github.com/kilianp07/smartpark/infra/mqtt"
	"github.com/kilianp07/smartpark/internal/eventbus"
	"github.com/kilianp07/smartpark/simulator"
)

// Service owns one agent and the components around it.
type Service struct {
	Agent *learning.Agent

	cfg       *config.Config
	bus       *eventbus.Bus
	sink      coremetrics.MetricsSink
	runs      runlog.Store
	publisher *mqtt.Publisher
	log       logger.Logger
}

// New creates a Service from the configuration. The MQTT publisher is only
// connected when a broker is configured.
func New(cfg *config.Config) (*Service, error) {
	cfg.Logging.Apply()
	logg := logger.New("service")

	agent, err := learning.NewAgent(cfg.Learning, learning.WithLogger(logger.New("agent")))
	if err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	runs, err := runlog.Open(cfg.RunLog)
	if err != nil {
		return nil, fmt.Errorf("run log: %w", err)
	}
	svc := &Service{
		Agent: agent,
		cfg:   cfg,
		bus:   eventbus.New(),
		sink:  sink,
		runs:  runs,
		log:   logg,
	}
	if cfg.MQTT.Enabled() {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			_ = runs.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}
	return svc, nil
}

// History generates the configured simulated batch.
func (s *Service) History() ([]model.HistoricalRecord, error) {
	simCfg, err := s.cfg.Simulation.Simulator()
	if err != nil {
		return nil, err
	}
	return simulator.Generate(simCfg, nil)
}

// Train initializes the table from the configured history and runs passes
// training passes over it, recording each one.
func (s *Service) Train(ctx context.Context, passes int) ([]runlog.RunRecord, error) {
	batch, err := s.History()
	if err != nil {
		return nil, err
	}
	if err := s.Agent.Initialize(batch); err != nil {
		return nil, err
	}
	if passes < 1 {
		passes = 1
	}
	out := make([]runlog.RunRecord, 0, passes)
	for i := 0; i < passes; i++ {
		rec, err := s.TrainBatch(ctx, batch)
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// TrainBatch runs one training pass over batch. Run log failures are logged
// and reported but do not fail the pass.
func (s *Service) TrainBatch(ctx context.Context, batch []model.HistoricalRecord) (runlog.RunRecord, error) {
	started := time.Now().UTC()
	stats, err := s.Agent.Train(batch)
	if err != nil {
		return runlog.RunRecord{}, err
	}
	cfg := s.Agent.Config()
	rec := runlog.RunRecord{
		ID:         uuid.NewString(),
		StartedAt:  started,
		Duration:   stats.Duration,
		Records:    stats.Records,
		Updates:    stats.Updates,
		Explored:   stats.Explored,
		States:     stats.States,
		MeanReward: stats.MeanReward,
		StdReward:  stats.StdReward,
		Alpha:      cfg.Alpha,
		Gamma:      cfg.Gamma,
		Epsilon:    cfg.Epsilon,
	}
	if err := s.runs.Append(ctx, rec); err != nil {
		s.log.Errorf("run log append: %v", err)
		coremon.CaptureException(err, map[string]string{"module": "runlog", "run_id": rec.ID})
	}
	s.bus.Publish(events.TrainingCompleted{RunID: rec.ID, Stats: stats, At: started})
	s.log.Infof("run %s: %d updates, mean reward %.3f", rec.ID, stats.Updates, stats.MeanReward)
	return rec, nil
}

// Runs lists recorded training runs, most recent first.
func (s *Service) Runs(ctx context.Context, q runlog.Query) ([]runlog.RunRecord, error) {
	return s.runs.List(ctx, q)
}

// Handler returns the HTTP API backed by the agent.
func (s *Service) Handler() http.Handler {
	return predictions.NewRouter(s.Agent, s.bus, simulator.Lots)
}

// Start launches the background consumers of the event bus. It returns a
// channel closed once all of them have stopped.
func (s *Service) Start(ctx context.Context) <-chan struct{} {
	collector := metrics.StartEventCollector(ctx, s.bus, s.sink)
	var publisher <-chan struct{}
	if s.publisher != nil {
		publisher = s.publisher.Run(ctx, s.bus)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-collector
		if publisher != nil {
			<-publisher
		}
	}()
	return done
}

// Run trains once, then serves the API until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	background := s.Start(ctx)
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			defer coremon.Recover()
			if err := metrics.StartPromServer(ctx, port); err != nil {
				s.log.Errorf("prom server: %v", err)
				coremon.CaptureException(err, map[string]string{"module": "metrics"})
			}
		}()
	}
	if _, err := s.Train(ctx, 1); err != nil {
		return fmt.Errorf("initial training: %w", err)
	}

	ln, err := net.Listen("tcp", s.cfg.HTTP.Address)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("serving predictions on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-background
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return s.runs.Close()
}
