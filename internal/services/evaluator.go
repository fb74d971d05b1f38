package services

import (
	"context"
	"errors"
	"fmt"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/ports"
	"time"
)

// ErrLegTimeout marks a single leg that exceeded the per-leg timeout. It is a
// per-candidate failure and does not abort a search.
var ErrLegTimeout = errors.New("route leg timed out")

// Evaluator scores a candidate by asking the provider for its legs.
type Evaluator struct {
	Provider   ports.RouteProvider
	LegTimeout time.Duration
}

// Evaluate routes origin -> destination and, for round trips, the least
// overlapping return path back to origin.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	plan domain.GoalPlan,
	c domain.Candidate,
) (domain.RouteEvaluation, error) {
	outLegs, err := e.legs(ctx, ports.RouteRequest{From: c.Origin, To: c.Destination})
	if err != nil {
		return domain.RouteEvaluation{}, fmt.Errorf("evaluate outbound: %w", err)
	}
	outbound := outLegs[0]

	if !plan.Goal.RoundTrip() {
		return domain.NewRouteEvaluation(plan, c, outbound, nil), nil
	}

	returns, err := e.legs(ctx, ports.RouteRequest{
		From:         c.Destination,
		To:           c.Origin,
		Alternatives: true,
	})
	if err != nil {
		return domain.RouteEvaluation{}, fmt.Errorf("evaluate return: %w", err)
	}

	overlaps := make([]float64, 0, len(returns)+1)
	allOverlap := true
	for _, r := range returns {
		o := ReturnOverlap(outbound.Geometry, r.Geometry)
		overlaps = append(overlaps, o)
		if o <= overlapLimit {
			allOverlap = false
		}
	}

	forcedIdx := -1
	if allOverlap {
		via := detourWaypoint(c.Origin, c.Destination, outbound.Geometry)
		forced, err := e.legs(ctx, ports.RouteRequest{
			From: c.Destination,
			To:   c.Origin,
			Via:  []domain.Coordinates{via},
		})
		switch {
		case err == nil:
			forcedIdx = len(returns)
			returns = append(returns, forced[0])
			overlaps = append(overlaps, ReturnOverlap(outbound.Geometry, forced[0].Geometry))
		case errors.Is(err, domain.ErrRouteNotFound), errors.Is(err, ErrLegTimeout):
			// keep the provider's alternatives
		default:
			return domain.RouteEvaluation{}, fmt.Errorf("evaluate forced return: %w", err)
		}
	}

	best := 0
	for i := 1; i < len(overlaps); i++ {
		if overlaps[i] < overlaps[best] {
			best = i
		}
	}

	ret := returns[best]
	ev := domain.NewRouteEvaluation(plan, c, outbound, &ret)
	ev.ReturnOverlap = overlaps[best]
	ev.AlternativeOverlaps = overlaps
	ev.ViaWaypoint = best == forcedIdx

	return ev, nil
}

// legs performs one provider call under the per-leg timeout and maps the
// response onto domain errors.
func (e *Evaluator) legs(ctx context.Context, req ports.RouteRequest) ([]domain.RouteLeg, error) {
	legCtx := ctx
	if e.LegTimeout > 0 {
		var cancel context.CancelFunc
		legCtx, cancel = context.WithTimeout(ctx, e.LegTimeout)
		defer cancel()
	}

	resp := e.Provider.GetRoute(legCtx, req)

	if resp.Status != ports.RouteFound {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if errors.Is(legCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrLegTimeout, e.LegTimeout)
		}
	}

	switch resp.Status {
	case ports.RouteFound:
		if len(resp.Legs) == 0 {
			return nil, fmt.Errorf("%w: provider returned no legs", domain.ErrRouteNotFound)
		}
		return resp.Legs, nil
	case ports.RouteNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrRouteNotFound, resp.Detail)
	default:
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrProviderUnavailable, resp.Status, resp.Detail)
	}
}
