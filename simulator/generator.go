// Package simulator produces synthetic occupancy history used to train the
// pricing agent.
package simulator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/kilianp07/smartpark/core/model"
)

// Source supplies uniform draws in [0,1).
type Source interface {
	Float64() float64
}

// NewSource returns a PCG backed source. A zero seed picks a time based one.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x5eed))
}

// Generate returns Days×96 records ordered by timestamp. Weather is drawn
// once per day and bad weather lowers demand.
func Generate(cfg Config, rng Source) ([]model.HistoricalRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewSource(cfg.Seed)
	}
	start := time.Date(cfg.StartDate.Year(), cfg.StartDate.Month(), cfg.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]model.HistoricalRecord, 0, cfg.Days*model.BlocksPerDay)
	for d := 0; d < cfg.Days; d++ {
		day := start.AddDate(0, 0, d)
		dayType := model.DayTypeOf(day)
		weather := drawWeather(rng)
		for i := 0; i < model.BlocksPerDay; i++ {
			hour, minute := i/4, (i%4)*15
			demand := DemandFactor(hour, dayType, weather)
			noise := (rng.Float64() - 0.5) * 0.1
			occupied := int(math.Floor(float64(cfg.TotalSpots) * (demand + noise)))
			out = append(out, model.HistoricalRecord{
				Date:         day.Format("2006-01-02"),
				Time:         fmt.Sprintf("%02d:%02d", hour, minute),
				Timestamp:    day.Add(time.Duration(i) * 15 * time.Minute),
				Availability: clamp(cfg.TotalSpots-occupied, 0, cfg.TotalSpots),
				TotalSpots:   cfg.TotalSpots,
				Weather:      weather,
				DayType:      dayType,
				Rate:         cfg.Rate,
			})
		}
	}
	return out, nil
}

func drawWeather(rng Source) model.Weather {
	w := model.WeatherSunny
	if rng.Float64() > 0.7 {
		w = model.WeatherRainy
	}
	if rng.Float64() > 0.9 {
		w = model.WeatherStormy
	}
	return w
}

// DemandFactor is the expected occupied fraction for an hour of the day.
func DemandFactor(hour int, d model.DayType, w model.Weather) float64 {
	var f float64
	if d == model.Weekday {
		switch {
		case hour >= 8 && hour <= 9:
			f = 0.9
		case hour >= 17 && hour <= 19:
			f = 0.8
		case hour >= 10 && hour <= 16:
			f = 0.7
		default:
			f = 0.1
		}
	} else {
		if hour >= 11 && hour <= 20 {
			f = 0.6
		} else {
			f = 0.2
		}
	}
	if w.IsBad() {
		f *= 0.7
	}
	return f
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
