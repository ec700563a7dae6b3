package learning

import (
	"fmt"
	"math"

	"github.com/kilianp07/smartpark/core/model"
)

const (
	// TargetUtilization is the occupancy the reward peaks at.
	TargetUtilization = 0.85
	// LowUtilization is the threshold under which raising the rate is penalized.
	LowUtilization = 0.5
	// HighUtilization is the threshold above which lowering the rate is penalized.
	HighUtilization = 0.95
	// WrongActionPenalty is subtracted when a penalty condition holds.
	WrongActionPenalty = 0.5
)

// UtilizationReward scores an action taken at the given utilization. The base
// term decays linearly with the distance to TargetUtilization. The result is
// not clamped and may be negative.
func UtilizationReward(utilization float64, a model.Action) float64 {
	r := 1.0 - math.Abs(utilization-TargetUtilization)
	if utilization < LowUtilization && a == model.ActionIncrease {
		r -= WrongActionPenalty
	}
	if utilization > HighUtilization && a == model.ActionDecrease {
		r -= WrongActionPenalty
	}
	return r
}

// Reward scores an action from raw lot occupancy.
func Reward(availability, totalSpots int, a model.Action) (float64, error) {
	if totalSpots <= 0 {
		return 0, fmt.Errorf("%w: total spots must be positive, got %d", ErrInvalidInput, totalSpots)
	}
	if availability < 0 || availability > totalSpots {
		return 0, fmt.Errorf("%w: availability %d outside [0,%d]", ErrInvalidInput, availability, totalSpots)
	}
	u := float64(totalSpots-availability) / float64(totalSpots)
	return UtilizationReward(u, a), nil
}
