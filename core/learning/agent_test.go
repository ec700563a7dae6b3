package learning

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/smartpark/core/model"
)

var t0 = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

func rec(offset int, hhmm string, avail int, w model.Weather, d model.DayType) model.HistoricalRecord {
	return model.HistoricalRecord{
		Date:         "2023-01-02",
		Time:         hhmm,
		Timestamp:    t0.Add(time.Duration(offset) * 15 * time.Minute),
		Availability: avail,
		TotalSpots:   200,
		Weather:      w,
		DayType:      d,
		Rate:         10,
	}
}

func greedyAgent(t *testing.T) *Agent {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Epsilon = 0
	a, err := NewAgent(cfg, WithRandSource(&scriptedRand{}))
	require.NoError(t, err)
	return a
}

func TestNewAgentValidatesConfig(t *testing.T) {
	_, err := NewAgent(Config{Alpha: 0, Gamma: 0.9, Epsilon: 0.1})
	assert.ErrorIs(t, err, ErrInvalidHyperparameters)
	_, err = NewAgent(Config{Alpha: 0.1, Gamma: 1.5})
	assert.ErrorIs(t, err, ErrInvalidHyperparameters)
	_, err = NewAgent(Config{Alpha: 0.1, Gamma: 0.9, Epsilon: -0.1})
	assert.ErrorIs(t, err, ErrInvalidHyperparameters)
	a, err := NewAgent(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, a.Size())
}

func TestTrainEndToEndScenario(t *testing.T) {
	a := greedyAgent(t)
	batch := []model.HistoricalRecord{
		rec(1, "08:30", 180, model.WeatherSunny, model.Weekday),
		rec(0, "08:15", 20, model.WeatherSunny, model.Weekday),
	}
	require.NoError(t, a.Initialize(batch))
	stats, err := a.Train(batch)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 1, stats.Updates)
	assert.Equal(t, 0, stats.Explored)
	assert.Equal(t, 2, stats.States)

	kA, _ := EncodeTime("08:15", model.WeatherSunny, model.Weekday)
	kB, _ := EncodeTime("08:30", model.WeatherSunny, model.Weekday)

	// Utilization 0.9 under Maintain, bootstrapping from B's zero vector.
	reward := 1.0 - math.Abs(0.9-0.85)
	want := (1-0.1)*0 + 0.1*(reward+0.9*0)
	vA, ok := a.Table().Get(kA)
	require.True(t, ok)
	assert.InDelta(t, want, vA[model.ActionMaintain], 1e-9)
	assert.InDelta(t, 0.095, vA[model.ActionMaintain], 1e-9)
	assert.Equal(t, 0.0, vA[model.ActionIncrease])
	assert.Equal(t, 0.0, vA[model.ActionDecrease])

	vB, ok := a.Table().Get(kB)
	require.True(t, ok)
	assert.Equal(t, ActionValues{}, vB)
	assert.InDelta(t, reward, stats.MeanReward, 1e-9)
	assert.Equal(t, 0.0, stats.StdReward)

	res, err := a.Predict("08:15", model.WeatherSunny, model.Weekday)
	require.NoError(t, err)
	assert.Equal(t, 104, res.PredictedAvailability)
	assert.Equal(t, "Maintain Rate", res.RecommendedAction)
	assert.InDelta(t, 0.095, res.QValue, 1e-9)
	assert.Equal(t, 0.85, res.Confidence)
}

func TestTrainUsesExplorationDraws(t *testing.T) {
	cfg := DefaultConfig()
	r := &scriptedRand{floats: []float64{0.01}, ints: []int{1}}
	a, err := NewAgent(cfg, WithRandSource(r))
	require.NoError(t, err)
	batch := []model.HistoricalRecord{
		rec(0, "03:00", 190, model.WeatherRainy, model.Weekend),
		rec(1, "03:15", 190, model.WeatherRainy, model.Weekend),
	}
	require.NoError(t, a.Initialize(batch))
	stats, err := a.Train(batch)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Explored)

	// Increase at 5% utilization is penalized.
	k, _ := EncodeTime("03:00", model.WeatherRainy, model.Weekend)
	v, _ := a.Table().Get(k)
	reward := 1.0 - math.Abs(0.05-0.85) - 0.5
	assert.InDelta(t, 0.1*reward, v[model.ActionIncrease], 1e-9)
	assert.Equal(t, 0.0, v[model.ActionMaintain])
}

func TestTrainSortsByTimestamp(t *testing.T) {
	ordered := []model.HistoricalRecord{
		rec(0, "08:00", 100, model.WeatherSunny, model.Weekday),
		rec(1, "08:15", 20, model.WeatherSunny, model.Weekday),
		rec(2, "08:30", 30, model.WeatherSunny, model.Weekday),
		rec(3, "08:45", 150, model.WeatherSunny, model.Weekday),
	}
	shuffled := []model.HistoricalRecord{ordered[2], ordered[0], ordered[3], ordered[1]}

	a, b := greedyAgent(t), greedyAgent(t)
	require.NoError(t, a.Initialize(ordered))
	require.NoError(t, b.Initialize(shuffled))
	_, err := a.Train(ordered)
	require.NoError(t, err)
	_, err = b.Train(shuffled)
	require.NoError(t, err)
	for _, k := range a.Table().Keys() {
		va, _ := a.Table().Get(k)
		vb, _ := b.Table().Get(k)
		assert.Equal(t, va, vb, k.String())
	}
	// Input slice order is left as given.
	assert.Equal(t, "08:30", shuffled[0].Time)
}

func TestTrainBootstrapsFromSuccessor(t *testing.T) {
	a := greedyAgent(t)
	batch := []model.HistoricalRecord{
		rec(0, "09:00", 30, model.WeatherCloudy, model.Weekday),
		rec(1, "09:15", 30, model.WeatherCloudy, model.Weekday),
	}
	require.NoError(t, a.Initialize(batch))
	// The second pass starts from the value learned in the first.
	_, err := a.Train(batch)
	require.NoError(t, err)
	_, err = a.Train(batch)
	require.NoError(t, err)

	kA, _ := EncodeTime("09:00", model.WeatherCloudy, model.Weekday)
	v, _ := a.Table().Get(kA)
	first := TDUpdate(0, 1.0, 0, 0.1, 0.9)
	second := TDUpdate(first, 1.0, 0, 0.1, 0.9)
	assert.InDelta(t, second, v[model.ActionMaintain], 1e-9)
}

func TestTrainDegenerateBatches(t *testing.T) {
	a := greedyAgent(t)
	stats, err := a.Train(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Records)
	assert.Equal(t, 0, stats.Updates)
	assert.Equal(t, 0.0, stats.MeanReward)
	assert.Equal(t, 0, a.Size())

	single := []model.HistoricalRecord{rec(0, "10:00", 50, model.WeatherSunny, model.Weekday)}
	require.NoError(t, a.Initialize(single))
	stats, err = a.Train(single)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Updates)
	assert.Equal(t, 1, stats.States)
	v, _ := a.Table().Get(a.Table().Keys()[0])
	assert.Equal(t, ActionValues{}, v)
}

func TestSizeMatchesDistinctStates(t *testing.T) {
	a := greedyAgent(t)
	batch := []model.HistoricalRecord{
		rec(0, "00:00", 180, model.WeatherSunny, model.Weekday),
		rec(1, "00:15", 180, model.WeatherSunny, model.Weekday),
		rec(2, "00:20", 180, model.WeatherSunny, model.Weekday),
		rec(3, "00:30", 180, model.WeatherStormy, model.Weekday),
		rec(96, "00:00", 180, model.WeatherSunny, model.Weekday),
	}
	require.NoError(t, a.Initialize(batch))
	assert.Equal(t, 3, a.Size())
	before := a.Size()
	_, err := a.Train(batch)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, a.Size(), before)
	assert.Equal(t, 3, a.Size())
}

func TestTrainWithoutInitializeCreatesStates(t *testing.T) {
	a := greedyAgent(t)
	batch := []model.HistoricalRecord{
		rec(0, "07:00", 100, model.WeatherSunny, model.Weekday),
		rec(1, "07:15", 100, model.WeatherSunny, model.Weekday),
	}
	_, err := a.Train(batch)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Size())
}

func TestInitializeIdempotentAfterTrain(t *testing.T) {
	a := greedyAgent(t)
	batch := []model.HistoricalRecord{
		rec(0, "08:15", 20, model.WeatherSunny, model.Weekday),
		rec(1, "08:30", 180, model.WeatherSunny, model.Weekday),
	}
	require.NoError(t, a.Initialize(batch))
	_, err := a.Train(batch)
	require.NoError(t, err)
	k, _ := EncodeTime("08:15", model.WeatherSunny, model.Weekday)
	trained, _ := a.Table().Get(k)

	require.NoError(t, a.Initialize(batch))
	assert.Equal(t, 2, a.Size())
	again, _ := a.Table().Get(k)
	assert.Equal(t, trained, again)
	assert.NotEqual(t, ActionValues{}, again)
}

func TestInvalidRecordLeavesTableUntouched(t *testing.T) {
	a := greedyAgent(t)
	good := rec(0, "08:15", 20, model.WeatherSunny, model.Weekday)
	bad := rec(1, "08:30", 20, model.WeatherSunny, model.Weekday)
	bad.TotalSpots = 0
	err := a.Initialize([]model.HistoricalRecord{good, bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, a.Size())

	malformed := rec(1, "8h30", 20, model.WeatherSunny, model.Weekday)
	_, err = a.Train([]model.HistoricalRecord{good, malformed})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, a.Size())
}

func TestPredictUnseenStateFallback(t *testing.T) {
	a := greedyAgent(t)
	res, err := a.Predict("13:00", model.WeatherStormy, model.Weekend)
	require.NoError(t, err)
	assert.Equal(t, 125, res.PredictedAvailability)
	assert.Equal(t, "Maintain Rate", res.RecommendedAction)
	assert.Equal(t, 0.5, res.QValue)
	assert.Equal(t, Confidence, res.Confidence)
	assert.Equal(t, 0, a.Size(), "predict must not grow the table")
}

func TestPredictRejectsBadInput(t *testing.T) {
	a := greedyAgent(t)
	_, err := a.Predict("25:00", model.WeatherSunny, model.Weekday)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = a.Predict("10:00", model.Weather(8), model.Weekday)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEstimateAvailabilityClamps(t *testing.T) {
	assert.Equal(t, 0, EstimateAvailability(-3))
	assert.Equal(t, 200, EstimateAvailability(5))
	assert.Equal(t, 100, EstimateAvailability(0))
	assert.Equal(t, 99, EstimateAvailability(-0.01))
	assert.Equal(t, 150, EstimateAvailability(1))
}
