package services

import (
	"fmt"
	"goal-route-service/internal/domain"
	"math"
)

// PlanGoal translates a goal into target distances, tolerance bands and effort estimates.
// It is pure: the same goal always yields the same plan.
func PlanGoal(goal domain.PlanningGoal) (domain.GoalPlan, error) {
	if err := goal.Validate(); err != nil {
		return domain.GoalPlan{}, fmt.Errorf("plan goal: %w", err)
	}

	profile, _ := domain.ProfileFor(goal.Activity, goal.Pace)
	stride := profile.StrideM(goal.HeightM)

	var total float64
	switch goal.Kind {
	case domain.GoalStepCount:
		total = float64(goal.StepCount) * stride / 1000
	case domain.GoalDistanceKm:
		total = goal.DistanceKm
	}

	perLeg := total
	if goal.RoundTrip() {
		perLeg = total / 2
	}

	return domain.GoalPlan{
		Goal:            goal,
		StrideM:         stride,
		TotalDistanceKm: total,
		PerLegTargetKm:  perLeg,
		EstimatedSteps:  int(math.Round(total * 1000 / stride)),
		Band:            domain.NewToleranceBand(total, domain.StrictTolerance),
		RelaxedBand:     domain.NewToleranceBand(total, domain.RelaxedTolerance),
		DurationMin:     profile.EstimateDurationMin(total),
		Calories:        profile.EstimateCalories(total, goal.WeightKg),
	}, nil
}
