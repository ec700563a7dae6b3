package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput is wrapped by every rejection of malformed observations or
// records.
var ErrInvalidInput = errors.New("invalid input")

// Weather is the weather condition attached to an observation.
type Weather int

const (
	WeatherSunny Weather = iota
	WeatherRainy
	WeatherCloudy
	WeatherStormy
)

// NumWeathers is the cardinality of Weather.
const NumWeathers = 4

// String returns the canonical name of the weather condition.
func (w Weather) String() string {
	switch w {
	case WeatherSunny:
		return "Sunny"
	case WeatherRainy:
		return "Rainy"
	case WeatherCloudy:
		return "Cloudy"
	case WeatherStormy:
		return "Stormy"
	default:
		return "unknown"
	}
}

// Valid reports whether w is one of the declared conditions.
func (w Weather) Valid() bool { return w >= WeatherSunny && w <= WeatherStormy }

// IsBad returns true for conditions that keep drivers at home.
func (w Weather) IsBad() bool { return w == WeatherRainy || w == WeatherStormy }

// ParseWeather converts a name such as "Rainy" (case-insensitive) to a Weather.
func ParseWeather(s string) (Weather, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunny":
		return WeatherSunny, nil
	case "rainy":
		return WeatherRainy, nil
	case "cloudy":
		return WeatherCloudy, nil
	case "stormy":
		return WeatherStormy, nil
	}
	return 0, fmt.Errorf("%w: unknown weather %q", ErrInvalidInput, s)
}

func (w Weather) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: weather %d", ErrInvalidInput, int(w))
	}
	return []byte(w.String()), nil
}

func (w *Weather) UnmarshalText(b []byte) error {
	v, err := ParseWeather(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// DayType distinguishes working days from weekends.
type DayType int

const (
	Weekday DayType = iota
	Weekend
)

// NumDayTypes is the cardinality of DayType.
const NumDayTypes = 2

func (d DayType) String() string {
	switch d {
	case Weekday:
		return "Weekday"
	case Weekend:
		return "Weekend"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the declared day types.
func (d DayType) Valid() bool { return d == Weekday || d == Weekend }

// ParseDayType converts "Weekday" or "Weekend" (case-insensitive) to a DayType.
func ParseDayType(s string) (DayType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekday":
		return Weekday, nil
	case "weekend":
		return Weekend, nil
	}
	return 0, fmt.Errorf("%w: unknown day type %q", ErrInvalidInput, s)
}

// DayTypeOf returns Weekend for Saturdays and Sundays.
func DayTypeOf(t time.Time) DayType {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Weekday
	}
}

func (d DayType) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: day type %d", ErrInvalidInput, int(d))
	}
	return []byte(d.String()), nil
}

func (d *DayType) UnmarshalText(b []byte) error {
	v, err := ParseDayType(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Action is a pricing adjustment applied to a parking lot.
type Action int

const (
	ActionMaintain Action = iota
	ActionIncrease
	ActionDecrease
)

// NumActions is the length of every action-value vector.
const NumActions = 3

// Label returns the user facing recommendation for the action.
func (a Action) Label() string {
	switch a {
	case ActionMaintain:
		return "Maintain Rate"
	case ActionIncrease:
		return "Increase Rate"
	case ActionDecrease:
		return "Decrease Rate"
	default:
		return "unknown"
	}
}

func (a Action) String() string {
	switch a {
	case ActionMaintain:
		return "maintain"
	case ActionIncrease:
		return "increase"
	case ActionDecrease:
		return "decrease"
	default:
		return "unknown"
	}
}

// Valid reports whether a indexes an action-value vector.
func (a Action) Valid() bool { return a >= ActionMaintain && a <= ActionDecrease }

// ParseActionLabel converts a label such as "Increase Rate" back to an Action.
// The short names returned by String are accepted as well.
func ParseActionLabel(s string) (Action, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.TrimSuffix(norm, " rate")
	switch norm {
	case "maintain":
		return ActionMaintain, nil
	case "increase":
		return ActionIncrease, nil
	case "decrease":
		return ActionDecrease, nil
	}
	return 0, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, s)
}

// BlocksPerDay is the number of 15 minute blocks in a day.
const BlocksPerDay = 96

// Observation is the discrete context a pricing decision is taken in.
type Observation struct {
	TimeBlock int     `json:"time_block"`
	Weather   Weather `json:"weather"`
	DayType   DayType `json:"day_type"`
}

// Validate checks every field against its declared domain.
func (o Observation) Validate() error {
	if o.TimeBlock < 0 || o.TimeBlock >= BlocksPerDay {
		return fmt.Errorf("%w: time block %d out of range", ErrInvalidInput, o.TimeBlock)
	}
	if !o.Weather.Valid() {
		return fmt.Errorf("%w: weather %d", ErrInvalidInput, int(o.Weather))
	}
	if !o.DayType.Valid() {
		return fmt.Errorf("%w: day type %d", ErrInvalidInput, int(o.DayType))
	}
	return nil
}

// HistoricalRecord is one simulated 15 minute occupancy sample.
type HistoricalRecord struct {
	Date         string    `json:"date"`
	Time         string    `json:"time"` // HH:MM
	Timestamp    time.Time `json:"timestamp"`
	Availability int       `json:"availability"` // free spots
	TotalSpots   int       `json:"total_spots"`
	Weather      Weather   `json:"weather"`
	DayType      DayType   `json:"day_type"`
	Rate         float64   `json:"rate"` // hourly rate
}

// Validate checks the invariants training relies on. The time string is
// checked by the state encoder.
func (r HistoricalRecord) Validate() error {
	if r.TotalSpots <= 0 {
		return fmt.Errorf("%w: total spots must be positive, got %d", ErrInvalidInput, r.TotalSpots)
	}
	if r.Availability < 0 || r.Availability > r.TotalSpots {
		return fmt.Errorf("%w: availability %d outside [0,%d]", ErrInvalidInput, r.Availability, r.TotalSpots)
	}
	if !r.Weather.Valid() {
		return fmt.Errorf("%w: weather %d", ErrInvalidInput, int(r.Weather))
	}
	if !r.DayType.Valid() {
		return fmt.Errorf("%w: day type %d", ErrInvalidInput, int(r.DayType))
	}
	return nil
}

// Utilization returns the occupied fraction of the lot.
func (r HistoricalRecord) Utilization() float64 {
	return float64(r.TotalSpots-r.Availability) / float64(r.TotalSpots)
}

// PredictionResult is what the prediction service hands to displays.
type PredictionResult struct {
	PredictedAvailability int     `json:"predicted_availability"`
	Confidence            float64 `json:"confidence"`
	QValue                float64 `json:"q_value"`
	RecommendedAction     string  `json:"recommended_action"`
}

// ParkingLot describes a lot shown on the map.
type ParkingLot struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	TotalSpots       int     `json:"total_spots"`
	CurrentAvailable int     `json:"current_available"`
	BaseRate         float64 `json:"base_rate"`
}
