package domain

import (
	"fmt"
	"math"
)

type ActivityKind string

const (
	ActivityWalk ActivityKind = "walk"
	ActivityRun  ActivityKind = "run"
)

type GoalKind string

const (
	GoalStepCount  GoalKind = "step_count"
	GoalDistanceKm GoalKind = "distance_km"
)

type Pace string

const (
	PaceSlow     Pace = "slow"
	PaceModerate Pace = "moderate"
	PaceFast     Pace = "fast"
)

type TripType string

const (
	TripOneWay    TripType = "one_way"
	TripRoundTrip TripType = "round_trip"
)

// PlanningGoal is what the user asked for. It is a value type and is never
// mutated after submission; editing a goal means building a new one.
type PlanningGoal struct {
	Activity   ActivityKind `json:"activity"`
	Kind       GoalKind     `json:"goal_kind"`
	StepCount  int          `json:"step_count,omitempty"`
	DistanceKm float64      `json:"distance_km,omitempty"`
	Pace       Pace         `json:"pace"`
	Trip       TripType     `json:"trip_type"`
	HeightM    float64      `json:"height_m"`
	WeightKg   float64      `json:"weight_kg"`
}

// Validate rejects goals that cannot be translated into a target distance.
// All returned errors wrap ErrInvalidGoal.
func (g PlanningGoal) Validate() error {
	if _, ok := ProfileFor(g.Activity, g.Pace); !ok {
		return fmt.Errorf("%w: unknown activity %q or pace %q", ErrInvalidGoal, g.Activity, g.Pace)
	}

	switch g.Trip {
	case TripOneWay, TripRoundTrip:
	default:
		return fmt.Errorf("%w: unknown trip type %q", ErrInvalidGoal, g.Trip)
	}

	if !positive(g.HeightM) {
		return fmt.Errorf("%w: height must be positive, got %v", ErrInvalidGoal, g.HeightM)
	}
	if !positive(g.WeightKg) {
		return fmt.Errorf("%w: weight must be positive, got %v", ErrInvalidGoal, g.WeightKg)
	}

	switch g.Kind {
	case GoalStepCount:
		if g.StepCount <= 0 {
			return fmt.Errorf("%w: step count must be positive, got %d", ErrInvalidGoal, g.StepCount)
		}
	case GoalDistanceKm:
		if !positive(g.DistanceKm) {
			return fmt.Errorf("%w: distance must be positive, got %v", ErrInvalidGoal, g.DistanceKm)
		}
	default:
		return fmt.Errorf("%w: unknown goal kind %q", ErrInvalidGoal, g.Kind)
	}

	return nil
}

func (g PlanningGoal) RoundTrip() bool { return g.Trip == TripRoundTrip }

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
