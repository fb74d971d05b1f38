package domain

const (
	StrictTolerance  = 0.05
	RelaxedTolerance = 0.08
)

// ToleranceBand is an inclusive [MinKm, MaxKm] interval around a target distance.
type ToleranceBand struct {
	MinKm float64 `json:"min_km"`
	MaxKm float64 `json:"max_km"`
}

func NewToleranceBand(targetKm, tolerance float64) ToleranceBand {
	return ToleranceBand{
		MinKm: targetKm * (1 - tolerance),
		MaxKm: targetKm * (1 + tolerance),
	}
}

func (b ToleranceBand) Contains(km float64) bool {
	return km >= b.MinKm && km <= b.MaxKm
}

// GoalPlan is the pure derivation of a PlanningGoal. For round trips
// TotalDistanceKm is out and back; the band always applies to the total.
type GoalPlan struct {
	Goal            PlanningGoal  `json:"goal"`
	StrideM         float64       `json:"stride_m"`
	TotalDistanceKm float64       `json:"total_distance_km"`
	PerLegTargetKm  float64       `json:"per_leg_target_km"`
	EstimatedSteps  int           `json:"estimated_steps"`
	Band            ToleranceBand `json:"band"`
	RelaxedBand     ToleranceBand `json:"relaxed_band"`
	DurationMin     int           `json:"duration_min"`
	Calories        int           `json:"calories"`
}

// BestEffortLimitKm is the largest absolute difference still reported as a best effort.
func (p GoalPlan) BestEffortLimitKm() float64 {
	return p.TotalDistanceKm * RelaxedTolerance
}
