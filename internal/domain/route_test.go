package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func roundTripPlan() GoalPlan {
	total := 6000 * 0.415 * 1.75 / 1000
	return GoalPlan{
		TotalDistanceKm: total,
		PerLegTargetKm:  total / 2,
		Band:            NewToleranceBand(total, StrictTolerance),
		RelaxedBand:     NewToleranceBand(total, RelaxedTolerance),
	}
}

func TestToleranceBand(t *testing.T) {
	b := NewToleranceBand(7.055, StrictTolerance)
	assert.InDelta(t, 6.70225, b.MinKm, 1e-9)
	assert.InDelta(t, 7.40775, b.MaxKm, 1e-9)
	assert.InDelta(t, 1.05/0.95, b.MaxKm/b.MinKm, 1e-12)

	assert.True(t, b.Contains(7.0))
	assert.False(t, b.Contains(7.5))
}

func TestNewRouteEvaluationRoundTrip(t *testing.T) {
	plan := roundTripPlan()
	assert.InDelta(t, 4.3575, plan.TotalDistanceKm, 1e-9)

	accepted := NewRouteEvaluation(plan, Candidate{}, RouteLeg{DistanceKm: 2.10}, &RouteLeg{DistanceKm: 2.05})
	assert.InDelta(t, 4.15, accepted.TotalDistanceKm, 1e-9)
	assert.True(t, accepted.WithinStrict)
	assert.True(t, accepted.WithinRelaxed)

	rejected := NewRouteEvaluation(plan, Candidate{}, RouteLeg{DistanceKm: 2.5}, &RouteLeg{DistanceKm: 2.5})
	assert.InDelta(t, 5.0, rejected.TotalDistanceKm, 1e-9)
	assert.False(t, rejected.WithinStrict)
	assert.InDelta(t, 0.6425, rejected.AbsDifferenceKm, 1e-9)
}

func TestSearchOutcomeFound(t *testing.T) {
	ev := &RouteEvaluation{}
	assert.True(t, SearchOutcome{Status: StatusAccepted, Evaluation: ev}.Found())
	assert.True(t, SearchOutcome{Status: StatusBestEffort, Evaluation: ev}.Found())
	assert.False(t, SearchOutcome{Status: StatusExhausted}.Found())
}
