package predictions

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/smartpark/core/events"
	"github.com/kilianp07/smartpark/core/learning"
	"github.com/kilianp07/smartpark/core/model"
	"github.com/kilianp07/smartpark/core/prediction"
	"github.com/kilianp07/smartpark/internal/eventbus"
	"github.com/kilianp07/smartpark/simulator"
)

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestPredictionHandler(t *testing.T) {
	engine := prediction.MockPredictionEngine{Results: map[string]model.PredictionResult{
		"08:15": {PredictedAvailability: 104, Confidence: 0.85, QValue: 0.095, RecommendedAction: "Maintain Rate"},
	}}
	bus := eventbus.New()
	sub := bus.Subscribe()
	h := NewPredictionHandler(engine, bus)

	rr := serve(h, http.MethodGet, "/api/predictions?time=08:15&weather=Sunny&day_type=Weekday")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"predicted_availability":104,"confidence":0.85,"q_value":0.095,"recommended_action":"Maintain Rate"}`, rr.Body.String())

	select {
	case ev := <-sub:
		served, ok := ev.(events.PredictionServed)
		require.True(t, ok)
		assert.Equal(t, "08:15", served.TimeOfDay)
		assert.Equal(t, model.WeatherSunny, served.Weather)
		assert.Equal(t, 104, served.Result.PredictedAvailability)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestPredictionHandlerBadRequests(t *testing.T) {
	a, err := learning.NewAgent(learning.DefaultConfig())
	require.NoError(t, err)
	h := NewPredictionHandler(a, nil)

	for name, target := range map[string]string{
		"bad time":     "/api/predictions?time=25:00&weather=Sunny&day_type=Weekday",
		"missing time": "/api/predictions?weather=Sunny&day_type=Weekday",
		"bad weather":  "/api/predictions?time=08:00&weather=Foggy&day_type=Weekday",
		"bad day":      "/api/predictions?time=08:00&weather=Sunny&day_type=Holiday",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, target).Code)
		})
	}
	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodPost, "/api/predictions").Code)
}

func TestPredictionHandlerEngineFailure(t *testing.T) {
	h := NewPredictionHandler(prediction.MockPredictionEngine{Err: errors.New("boom")}, nil)
	rr := serve(h, http.MethodGet, "/api/predictions?time=08:00&weather=Sunny&day_type=Weekday")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestPredictionHandlerUnseenState(t *testing.T) {
	a, err := learning.NewAgent(learning.DefaultConfig())
	require.NoError(t, err)
	rr := serve(NewPredictionHandler(a, nil), http.MethodGet, "/api/predictions?time=13:00&weather=stormy&day_type=weekend")
	require.Equal(t, http.StatusOK, rr.Code)
	var res model.PredictionResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, 125, res.PredictedAvailability)
	assert.Equal(t, "Maintain Rate", res.RecommendedAction)
}

func TestRouter(t *testing.T) {
	mux := NewRouter(prediction.MockPredictionEngine{States: 42}, nil, simulator.Lots)

	rr := serve(mux, http.MethodGet, "/api/qtable")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"states":42}`, rr.Body.String())

	rr = serve(mux, http.MethodGet, "/api/lots")
	require.Equal(t, http.StatusOK, rr.Code)
	var lots []model.ParkingLot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lots))
	assert.Len(t, lots, 3)

	assert.Equal(t, http.StatusMethodNotAllowed, serve(mux, http.MethodDelete, "/api/qtable").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(mux, http.MethodPut, "/api/lots").Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodGet, "/api/unknown").Code)
}
