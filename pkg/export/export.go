// Package export dumps the learned action values for offline inspection.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/smartpark/core/learning"
	"github.com/kilianp07/smartpark/core/model"
)

// Row is one stored state with its action values.
type Row struct {
	TimeBlock  int                       `json:"time_block"`
	Time       string                    `json:"time"`
	Weather    model.Weather             `json:"weather"`
	DayType    model.DayType             `json:"day_type"`
	Values     [model.NumActions]float64 `json:"values"`
	BestAction string                    `json:"best_action"`
}

// Snapshot returns every stored state ordered by key.
func Snapshot(t learning.TableReader) []Row {
	keys := t.Keys()
	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		v, ok := t.Get(k)
		if !ok {
			continue
		}
		o := k.Observation()
		rows = append(rows, Row{
			TimeBlock:  o.TimeBlock,
			Time:       learning.BlockTime(o.TimeBlock),
			Weather:    o.Weather,
			DayType:    o.DayType,
			Values:     v,
			BestAction: v.Best().Label(),
		})
	}
	return rows
}

// WriteJSON writes rows to w as a JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteCSV writes rows to w with one column per action.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time_block", "time", "weather", "day_type", "maintain", "increase", "decrease", "best_action"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.TimeBlock),
			r.Time,
			r.Weather.String(),
			r.DayType.String(),
			strconv.FormatFloat(r.Values[model.ActionMaintain], 'f', -1, 64),
			strconv.FormatFloat(r.Values[model.ActionIncrease], 'f', -1, 64),
			strconv.FormatFloat(r.Values[model.ActionDecrease], 'f', -1, 64),
			r.BestAction,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
