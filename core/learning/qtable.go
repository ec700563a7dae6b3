package learning

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/smartpark/core/model"
)

// ActionValues holds one Q-value per action, indexed by model.Action.
type ActionValues [model.NumActions]float64

// Best returns the action with the highest value. Ties resolve to the lowest
// index.
func (v ActionValues) Best() model.Action {
	return model.Action(floats.MaxIdx(v[:]))
}

// Max returns the highest value.
func (v ActionValues) Max() float64 {
	return floats.Max(v[:])
}

// TableReader is the read-only view handed to prediction and export code.
type TableReader interface {
	Get(k StateKey) (ActionValues, bool)
	Size() int
	Keys() []StateKey
}

// QTable maps state keys to action values. The observation domain is small
// so the table is a dense array; presence tracks which states were seen.
// QTable is not safe for concurrent use.
type QTable struct {
	values  [NumStates]ActionValues
	present [NumStates]bool
	size    int
}

// NewQTable returns an empty table.
func NewQTable() *QTable { return &QTable{} }

// Ensure inserts an all-zero vector for k when absent. It reports whether an
// insertion happened.
func (t *QTable) Ensure(k StateKey) bool {
	if t.present[k] {
		return false
	}
	t.present[k] = true
	t.values[k] = ActionValues{}
	t.size++
	return true
}

// Get returns a copy of the vector stored for k.
func (t *QTable) Get(k StateKey) (ActionValues, bool) {
	if int(k) >= NumStates || !t.present[k] {
		return ActionValues{}, false
	}
	return t.values[k], true
}

// Set overwrites one component of the vector stored for k. The key must have
// been ensured first.
func (t *QTable) Set(k StateKey, a model.Action, v float64) error {
	if int(k) >= NumStates || !t.present[k] {
		return fmt.Errorf("state %s not in table", k)
	}
	if !a.Valid() {
		return fmt.Errorf("%w: action %d", ErrInvalidInput, int(a))
	}
	t.values[k][a] = v
	return nil
}

// Size returns the number of stored states.
func (t *QTable) Size() int { return t.size }

// Keys returns the stored keys in ascending order.
func (t *QTable) Keys() []StateKey {
	keys := make([]StateKey, 0, t.size)
	for i := range t.present {
		if t.present[i] {
			keys = append(keys, StateKey(i))
		}
	}
	return keys
}
