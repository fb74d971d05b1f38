package services

import (
	"context"
	"goal-route-service/internal/adapters/routing"
	"goal-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(detour float64) (*RouteEngine, *routing.MockRouteProvider) {
	p := routing.NewMockRouteProvider()
	p.Fallback = routing.StraightLine(detour)
	return NewRouteEngine(p, EngineConfig{Seed: func() uint64 { return 7 }}), p
}

func oneWayGoal() domain.PlanningGoal {
	g := roundTripGoal()
	g.Trip = domain.TripOneWay
	return g
}

func TestSearchDefaultRouteAcceptsFirstBearing(t *testing.T) {
	engine, provider := newTestEngine(1.3)

	out, err := engine.SearchDefaultRoute(context.Background(), oneWayGoal(), testOrigin)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAccepted, out.Status)
	assert.Equal(t, 1, out.AttemptsUsed)
	assert.Equal(t, 1, provider.Calls())
	assert.Equal(t, domain.StrategyFixedBearing, out.Evaluation.Candidate.Strategy)
	assert.Equal(t, 0.0, out.Evaluation.Candidate.BearingDeg)
}

func TestSearchDefaultRouteExhaustsBudget(t *testing.T) {
	engine, provider := newTestEngine(1.3)
	provider.Fallback = nil // every leg is not found

	out, err := engine.SearchDefaultRoute(context.Background(), oneWayGoal(), testOrigin)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusExhausted, out.Status)
	assert.Equal(t, 15, out.AttemptsUsed)
	assert.Equal(t, 15, provider.Calls())
}

func TestSearchDefaultRouteRejectsInvalidInput(t *testing.T) {
	engine, provider := newTestEngine(1.3)

	bad := oneWayGoal()
	bad.StepCount = 0
	_, err := engine.SearchDefaultRoute(context.Background(), bad, testOrigin)
	assert.ErrorIs(t, err, domain.ErrInvalidGoal)

	_, err = engine.SearchDefaultRoute(context.Background(), oneWayGoal(), domain.Coordinates{Lon: 10, Lat: 95})
	assert.ErrorIs(t, err, domain.ErrInvalidGoal)

	assert.Equal(t, 0, provider.Calls())
}

func TestAttemptManualRouteUsesClickedPoint(t *testing.T) {
	engine, provider := newTestEngine(1.3)
	plan := mustPlan(t, oneWayGoal())
	clicked := domain.Project(testOrigin, 45, plan.PerLegTargetKm/1.3)

	out, err := engine.AttemptManualRoute(context.Background(), oneWayGoal(), testOrigin, clicked)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAccepted, out.Status)
	assert.Equal(t, domain.StrategyManual, out.Evaluation.Candidate.Strategy)
	assert.Equal(t, clicked, out.Evaluation.Candidate.Destination)
	assert.Equal(t, 1, provider.Calls())
}

func TestAttemptManualRouteJittersAroundFarClick(t *testing.T) {
	engine, provider := newTestEngine(1.3)
	clicked := domain.Project(testOrigin, 180, 40)

	out, err := engine.AttemptManualRoute(context.Background(), oneWayGoal(), testOrigin, clicked)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusExhausted, out.Status)
	assert.Equal(t, 6, out.AttemptsUsed)
	assert.Equal(t, 6, provider.Calls())
	for _, req := range provider.Requests()[1:] {
		// jitter radius is capped at 0.3 km around the click
		assert.InDelta(t, clicked.Lat, req.To.Lat, 0.3/domain.KmPerDegree+1e-9)
	}
}

func TestAttemptManualRouteRejectsInvalidClick(t *testing.T) {
	engine, provider := newTestEngine(1.3)

	_, err := engine.AttemptManualRoute(context.Background(), oneWayGoal(), testOrigin, domain.Coordinates{Lon: 200, Lat: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidGoal)
	assert.Equal(t, 0, provider.Calls())
}
