package services

import (
	"errors"
	"goal-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanGoalOneWaySteps(t *testing.T) {
	plan, err := PlanGoal(domain.PlanningGoal{
		Activity:  domain.ActivityWalk,
		Kind:      domain.GoalStepCount,
		StepCount: 10000,
		Pace:      domain.PaceModerate,
		Trip:      domain.TripOneWay,
		HeightM:   1.70,
		WeightKg:  70,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.7055, plan.StrideM, 1e-9)
	assert.InDelta(t, 7.055, plan.TotalDistanceKm, 1e-9)
	assert.InDelta(t, 7.055, plan.PerLegTargetKm, 1e-9)
	assert.InDelta(t, 6.70225, plan.Band.MinKm, 1e-9)
	assert.InDelta(t, 7.40775, plan.Band.MaxKm, 1e-9)
	assert.Equal(t, 85, plan.DurationMin)
	assert.Equal(t, 247, plan.Calories)
	assert.Equal(t, 10000, plan.EstimatedSteps)
}

func TestPlanGoalRoundTripSteps(t *testing.T) {
	plan, err := PlanGoal(domain.PlanningGoal{
		Activity:  domain.ActivityWalk,
		Kind:      domain.GoalStepCount,
		StepCount: 6000,
		Pace:      domain.PaceModerate,
		Trip:      domain.TripRoundTrip,
		HeightM:   1.75,
		WeightKg:  60,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.72625, plan.StrideM, 1e-9)
	assert.InDelta(t, 4.3575, plan.TotalDistanceKm, 1e-9)
	assert.InDelta(t, 4.3575/2, plan.PerLegTargetKm, 1e-9)
	// the band always validates the total, never a single leg
	assert.InDelta(t, 4.139625, plan.Band.MinKm, 1e-9)
	assert.InDelta(t, 4.575375, plan.Band.MaxKm, 1e-9)
}

func TestPlanGoalDistanceRun(t *testing.T) {
	plan, err := PlanGoal(domain.PlanningGoal{
		Activity:   domain.ActivityRun,
		Kind:       domain.GoalDistanceKm,
		DistanceKm: 10,
		Pace:       domain.PaceModerate,
		Trip:       domain.TripOneWay,
		HeightM:    1.80,
		WeightKg:   75,
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.62, plan.StrideM, 1e-9)
	assert.Equal(t, 10.0, plan.TotalDistanceKm)
	assert.Equal(t, 60, plan.DurationMin)
	assert.Equal(t, 750, plan.Calories)
	assert.Equal(t, 6173, plan.EstimatedSteps)
}

func TestPlanGoalIsPure(t *testing.T) {
	goal := domain.PlanningGoal{
		Activity: domain.ActivityRun, Kind: domain.GoalStepCount, StepCount: 8000,
		Pace: domain.PaceFast, Trip: domain.TripRoundTrip, HeightM: 1.65, WeightKg: 58,
	}
	a, err := PlanGoal(goal)
	require.NoError(t, err)
	b, err := PlanGoal(goal)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlanGoalRejectsInvalid(t *testing.T) {
	_, err := PlanGoal(domain.PlanningGoal{
		Activity: domain.ActivityWalk, Kind: domain.GoalStepCount, StepCount: 1000,
		Pace: domain.PaceSlow, Trip: domain.TripOneWay, HeightM: 0, WeightKg: 70,
	})
	if !errors.Is(err, domain.ErrInvalidGoal) {
		t.Fatalf("PlanGoal() error = %v, want ErrInvalidGoal", err)
	}
}
