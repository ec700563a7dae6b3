package learning

import (
	"math/rand/v2"
	"time"

	"github.com/kilianp07/smartpark/core/model"
)

// RandSource supplies the randomness used by epsilon-greedy selection.
// *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	// Float64 returns a uniform value in [0,1).
	Float64() float64
	// IntN returns a uniform value in [0,n).
	IntN(n int) int
}

// NewRandSource returns a PCG generator. A zero seed is replaced by the
// current time.
func NewRandSource(seed uint64) RandSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// EpsilonGreedy explores a uniformly random action with probability Epsilon
// and otherwise exploits the best known action.
type EpsilonGreedy struct {
	Epsilon float64
	Rand    RandSource
}

// Select returns the chosen action and whether it was an exploration draw.
func (p EpsilonGreedy) Select(v ActionValues) (model.Action, bool) {
	if p.Rand.Float64() < p.Epsilon {
		return model.Action(p.Rand.IntN(model.NumActions)), true
	}
	return v.Best(), false
}

// TDUpdate applies the temporal-difference rule
// (1-α)·old + α·(reward + γ·maxNext).
func TDUpdate(old, reward, maxNext, alpha, gamma float64) float64 {
	return (1-alpha)*old + alpha*(reward+gamma*maxNext)
}
