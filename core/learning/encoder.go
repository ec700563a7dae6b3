package learning

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kilianp07/smartpark/core/model"
)

// ErrInvalidInput aliases the model sentinel so callers of this package can
// match rejections without importing model.
var ErrInvalidInput = model.ErrInvalidInput

// StateKey packs (time block, weather, day type) into a dense index. Keys
// order lexicographically by time block, then weather, then day type.
type StateKey uint16

// NumStates is the size of the observation cross-product.
const NumStates = model.BlocksPerDay * model.NumWeathers * model.NumDayTypes

// TimeBlock converts a 24-hour "HH:MM" string to its 15 minute block index.
// The hour may have one or two digits; the minute must have two.
func TimeBlock(s string) (int, error) {
	hs, ms, ok := strings.Cut(s, ":")
	if !ok || len(hs) == 0 || len(hs) > 2 || len(ms) != 2 || !digits(hs) || !digits(ms) {
		return 0, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidInput, s)
	}
	h, _ := strconv.Atoi(hs)
	m, _ := strconv.Atoi(ms)
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: time %q out of range", ErrInvalidInput, s)
	}
	return h*4 + m/15, nil
}

func digits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Encode returns the state key of an observation.
func Encode(block int, w model.Weather, d model.DayType) (StateKey, error) {
	obs := model.Observation{TimeBlock: block, Weather: w, DayType: d}
	if err := obs.Validate(); err != nil {
		return 0, err
	}
	return StateKey((block*model.NumWeathers+int(w))*model.NumDayTypes + int(d)), nil
}

// EncodeTime is Encode with the time block parsed from "HH:MM".
func EncodeTime(timeStr string, w model.Weather, d model.DayType) (StateKey, error) {
	block, err := TimeBlock(timeStr)
	if err != nil {
		return 0, err
	}
	return Encode(block, w, d)
}

// RecordKey validates r and returns the key of the state it was observed in.
func RecordKey(r model.HistoricalRecord) (StateKey, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return EncodeTime(r.Time, r.Weather, r.DayType)
}

// Observation decodes the key.
func (k StateKey) Observation() model.Observation {
	i := int(k)
	d := i % model.NumDayTypes
	i /= model.NumDayTypes
	w := i % model.NumWeathers
	return model.Observation{
		TimeBlock: i / model.NumWeathers,
		Weather:   model.Weather(w),
		DayType:   model.DayType(d),
	}
}

// String renders the key as "block-Weather-DayType", e.g. "33-Sunny-Weekday".
func (k StateKey) String() string {
	o := k.Observation()
	return fmt.Sprintf("%d-%s-%s", o.TimeBlock, o.Weather, o.DayType)
}

// BlockTime formats a time block as "HH:MM".
func BlockTime(block int) string {
	return fmt.Sprintf("%02d:%02d", block/4, (block%4)*15)
}
