// Package predictions exposes the pricing agent over HTTP.
package predictions

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kilianp07/smartpark/core/events"
	"github.com/kilianp07/smartpark/core/model"
	"github.com/kilianp07/smartpark/core/prediction"
	"github.com/kilianp07/smartpark/internal/eventbus"
)

// NewPredictionHandler serves GET /api/predictions?time=HH:MM&weather=Sunny&day_type=Weekday.
// Every answered prediction is published on bus when one is given.
func NewPredictionHandler(engine prediction.PredictionEngine, bus eventbus.EventBus) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := r.URL.Query()
		timeStr := q.Get("time")
		weather, err := model.ParseWeather(q.Get("weather"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		dayType, err := model.ParseDayType(q.Get("day_type"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := engine.Predict(timeStr, weather, dayType)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, model.ErrInvalidInput) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}
		if bus != nil {
			bus.Publish(events.PredictionServed{
				TimeOfDay: timeStr,
				Weather:   weather,
				DayType:   dayType,
				Result:    res,
				At:        time.Now().UTC(),
			})
		}
		writeJSON(w, res)
	})
}

// TableSummary is returned by GET /api/qtable.
type TableSummary struct {
	States int `json:"states"`
}

// NewQTableHandler serves GET /api/qtable.
func NewQTableHandler(engine prediction.PredictionEngine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, TableSummary{States: engine.Size()})
	})
}

// NewLotsHandler serves GET /api/lots.
func NewLotsHandler(lots func() []model.ParkingLot) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, lots())
	})
}

// NewRouter mounts every handler of the package.
func NewRouter(engine prediction.PredictionEngine, bus eventbus.EventBus, lots func() []model.ParkingLot) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/predictions", NewPredictionHandler(engine, bus))
	mux.Handle("/api/qtable", NewQTableHandler(engine))
	mux.Handle("/api/lots", NewLotsHandler(lots))
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
