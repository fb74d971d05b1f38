package domain

import (
	"errors"
	"math"
	"testing"
)

func validGoal() PlanningGoal {
	return PlanningGoal{
		Activity:  ActivityWalk,
		Kind:      GoalStepCount,
		StepCount: 10000,
		Pace:      PaceModerate,
		Trip:      TripOneWay,
		HeightM:   1.70,
		WeightKg:  70,
	}
}

func TestPlanningGoalValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *PlanningGoal)
		ok     bool
	}{
		{name: "valid step goal", mutate: func(g *PlanningGoal) {}, ok: true},
		{name: "valid distance goal", mutate: func(g *PlanningGoal) { g.Kind = GoalDistanceKm; g.StepCount = 0; g.DistanceKm = 5 }, ok: true},
		{name: "zero height", mutate: func(g *PlanningGoal) { g.HeightM = 0 }},
		{name: "negative weight", mutate: func(g *PlanningGoal) { g.WeightKg = -1 }},
		{name: "nan height", mutate: func(g *PlanningGoal) { g.HeightM = math.NaN() }},
		{name: "zero steps", mutate: func(g *PlanningGoal) { g.StepCount = 0 }},
		{name: "zero distance", mutate: func(g *PlanningGoal) { g.Kind = GoalDistanceKm; g.DistanceKm = 0 }},
		{name: "unknown pace", mutate: func(g *PlanningGoal) { g.Pace = "sprint" }},
		{name: "unknown activity", mutate: func(g *PlanningGoal) { g.Activity = "swim" }},
		{name: "unknown trip", mutate: func(g *PlanningGoal) { g.Trip = "loop" }},
		{name: "unknown goal kind", mutate: func(g *PlanningGoal) { g.Kind = "calories" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGoal()
			tt.mutate(&g)

			err := g.Validate()
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidGoal) {
				t.Fatalf("Validate() = %v, want ErrInvalidGoal", err)
			}
		})
	}
}
