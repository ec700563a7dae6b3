package learning

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/smartpark/core/logger"
	"github.com/kilianp07/smartpark/core/model"
)

const (
	// UnseenStateValue fills the vector used for states absent from the table.
	UnseenStateValue = 0.5
	// ReferenceCapacity bounds the displayed availability estimate.
	ReferenceCapacity = 200
	// Confidence is reported with every prediction. It is a fixed placeholder,
	// not derived from the table.
	Confidence = 0.85
)

// TrainingStats summarizes one training pass.
type TrainingStats struct {
	Records    int
	Updates    int
	Explored   int
	States     int
	MeanReward float64
	StdReward  float64
	Duration   time.Duration
}

// Agent owns one Q-table and the policy used to train it. Training takes an
// exclusive lock so predictions never observe a half-applied pass.
type Agent struct {
	mu     sync.RWMutex
	cfg    Config
	table  *QTable
	policy EpsilonGreedy
	log    logger.Logger
}

// Option customizes an Agent.
type Option func(*Agent)

// WithRandSource replaces the random source used for exploration.
func WithRandSource(r RandSource) Option {
	return func(a *Agent) {
		if r != nil {
			a.policy.Rand = r
		}
	}
}

// WithLogger sets the logger used for training progress.
func WithLogger(l logger.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.log = l
		}
	}
}

// NewAgent validates cfg and returns an agent with an empty table.
func NewAgent(cfg Config, opts ...Option) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Agent{
		cfg:   cfg,
		table: NewQTable(),
		log:   logger.NopLogger{},
	}
	a.policy.Epsilon = cfg.Epsilon
	for _, o := range opts {
		o(a)
	}
	if a.policy.Rand == nil {
		a.policy.Rand = NewRandSource(cfg.Seed)
	}
	return a, nil
}

// Config returns the hyperparameters the agent was built with.
func (a *Agent) Config() Config { return a.cfg }

// Initialize inserts a zero vector for every state seen in batch. Existing
// vectors are left untouched so the call is idempotent. The batch is
// validated first and a bad record leaves the table unchanged.
func (a *Agent) Initialize(batch []model.HistoricalRecord) error {
	keys, err := recordKeys(batch)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, k := range keys {
		a.table.Ensure(k)
	}
	a.log.Infof("Q-table initialized with %d states", a.table.Size())
	return nil
}

// Train performs one temporal-difference pass over batch sorted by
// timestamp. Each record is updated from its chronological successor; the
// last record only serves as a successor. Calling Train again keeps refining
// the same table.
func (a *Agent) Train(batch []model.HistoricalRecord) (TrainingStats, error) {
	start := time.Now()
	sorted := make([]model.HistoricalRecord, len(batch))
	copy(sorted, batch)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	keys, err := recordKeys(sorted)
	if err != nil {
		return TrainingStats{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	stats := TrainingStats{Records: len(sorted)}
	var rewards []float64
	if len(sorted) > 1 {
		rewards = make([]float64, 0, len(sorted)-1)
	}
	for i := 0; i+1 < len(sorted); i++ {
		cur := sorted[i]
		s, sNext := keys[i], keys[i+1]
		a.table.Ensure(s)
		a.table.Ensure(sNext)

		q, _ := a.table.Get(s)
		qNext, _ := a.table.Get(sNext)
		act, explored := a.policy.Select(q)
		if explored {
			stats.Explored++
		}
		r := UtilizationReward(cur.Utilization(), act)
		newQ := TDUpdate(q[act], r, qNext.Max(), a.cfg.Alpha, a.cfg.Gamma)
		if err := a.table.Set(s, act, newQ); err != nil {
			return stats, err
		}
		rewards = append(rewards, r)
		stats.Updates++
	}
	if len(rewards) > 0 {
		stats.MeanReward, stats.StdReward = stat.PopMeanStdDev(rewards, nil)
	}
	stats.States = a.table.Size()
	stats.Duration = time.Since(start)
	a.log.Infof("training complete: %d updates over %d states", stats.Updates, stats.States)
	return stats, nil
}

// Predict maps the best known action value of a state to a display
// estimate. States never seen in training use UnseenStateValue for every
// action. The table is not modified.
func (a *Agent) Predict(timeStr string, w model.Weather, d model.DayType) (model.PredictionResult, error) {
	k, err := EncodeTime(timeStr, w, d)
	if err != nil {
		return model.PredictionResult{}, err
	}
	a.mu.RLock()
	v, ok := a.table.Get(k)
	a.mu.RUnlock()
	if !ok {
		v = ActionValues{UnseenStateValue, UnseenStateValue, UnseenStateValue}
	}
	maxQ := v.Max()
	return model.PredictionResult{
		PredictedAvailability: EstimateAvailability(maxQ),
		Confidence:            Confidence,
		QValue:                maxQ,
		RecommendedAction:     v.Best().Label(),
	}, nil
}

// EstimateAvailability is the affine display heuristic
// clamp(floor(100 + q·50), 0, ReferenceCapacity).
func EstimateAvailability(q float64) int {
	est := math.Floor(100 + q*50)
	switch {
	case est < 0:
		return 0
	case est > ReferenceCapacity:
		return ReferenceCapacity
	default:
		return int(est)
	}
}

// Size returns the number of states in the table.
func (a *Agent) Size() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.table.Size()
}

// Table returns a read-only view of the learned values.
func (a *Agent) Table() TableReader { return tableView{a: a} }

type tableView struct{ a *Agent }

func (v tableView) Get(k StateKey) (ActionValues, bool) {
	v.a.mu.RLock()
	defer v.a.mu.RUnlock()
	return v.a.table.Get(k)
}

func (v tableView) Size() int { return v.a.Size() }

func (v tableView) Keys() []StateKey {
	v.a.mu.RLock()
	defer v.a.mu.RUnlock()
	return v.a.table.Keys()
}

func recordKeys(batch []model.HistoricalRecord) ([]StateKey, error) {
	keys := make([]StateKey, len(batch))
	for i, r := range batch {
		k, err := RecordKey(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		keys[i] = k
	}
	return keys, nil
}
