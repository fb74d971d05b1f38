package services

import (
	"context"
	"fmt"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/platform/obs"
	"goal-route-service/internal/ports"
	"math/rand/v2"
	"time"

	"github.com/go-kit/log/level"
)

// EngineConfig tunes candidate budgets and search limits. Zero values take defaults.
type EngineConfig struct {
	// Ratio of walked path length to straight-line distance, used to pick the search radius.
	DetourFactor   float64
	FixedBearings  int
	RandomAttempts int
	JitterAttempts int
	// Jitter radius is this share of the per-leg target, capped at MaxJitterKm.
	JitterShare float64
	MaxJitterKm float64

	Concurrency    int
	LegTimeout     time.Duration
	SearchDeadline time.Duration

	// Seed feeds the random streams; nil uses a fresh random seed per search.
	Seed func() uint64
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.DetourFactor < 1 {
		c.DetourFactor = 1.3
	}
	if c.FixedBearings <= 0 {
		c.FixedBearings = 8
	}
	if c.RandomAttempts <= 0 {
		c.RandomAttempts = 7
	}
	if c.JitterAttempts <= 0 {
		c.JitterAttempts = 5
	}
	if c.JitterShare <= 0 {
		c.JitterShare = 0.1
	}
	if c.MaxJitterKm <= 0 {
		c.MaxJitterKm = 0.3
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if c.Seed == nil {
		c.Seed = rand.Uint64
	}
	return c
}

// RouteEngine finds routes matching a goal distance.
type RouteEngine struct {
	evaluator *Evaluator
	cfg       EngineConfig
}

func NewRouteEngine(provider ports.RouteProvider, cfg EngineConfig) *RouteEngine {
	cfg = cfg.withDefaults()
	return &RouteEngine{
		evaluator: &Evaluator{Provider: provider, LegTimeout: cfg.LegTimeout},
		cfg:       cfg,
	}
}

// SearchDefaultRoute looks for a route automatically: evenly spaced bearings
// at the expected radius first, then random points on a slightly larger disk.
func (e *RouteEngine) SearchDefaultRoute(
	ctx context.Context,
	goal domain.PlanningGoal,
	origin domain.Coordinates,
) (_ domain.SearchOutcome, err error) {
	defer obs.Time(ctx, "engine.SearchDefaultRoute")(&err)

	plan, err := e.prepare(goal, origin)
	if err != nil {
		return domain.SearchOutcome{}, err
	}

	radius := plan.PerLegTargetKm / e.cfg.DetourFactor
	stream := Chain(
		FixedBearing(origin, radius, e.cfg.FixedBearings),
		RandomDisk(origin, radius*1.25, e.cfg.RandomAttempts, e.cfg.Seed()),
	)

	outcome, err := e.search(ctx, plan, stream, e.cfg.FixedBearings+e.cfg.RandomAttempts)
	if err != nil {
		return outcome, fmt.Errorf("search default route: %w", err)
	}
	return outcome, nil
}

// AttemptManualRoute tries the clicked point first, then a few points jittered around it.
func (e *RouteEngine) AttemptManualRoute(
	ctx context.Context,
	goal domain.PlanningGoal,
	origin domain.Coordinates,
	clicked domain.Coordinates,
) (_ domain.SearchOutcome, err error) {
	defer obs.Time(ctx, "engine.AttemptManualRoute")(&err)

	plan, err := e.prepare(goal, origin)
	if err != nil {
		return domain.SearchOutcome{}, err
	}
	if !clicked.Valid() {
		return domain.SearchOutcome{}, fmt.Errorf("attempt manual route: %w: destination out of range", domain.ErrInvalidGoal)
	}

	jitter := min(plan.PerLegTargetKm*e.cfg.JitterShare, e.cfg.MaxJitterKm)
	stream := Chain(
		Single(domain.NewCandidate(origin, clicked, domain.StrategyManual)),
		Jitter(origin, clicked, jitter, e.cfg.JitterAttempts, e.cfg.Seed()),
	)

	outcome, err := e.search(ctx, plan, stream, 1+e.cfg.JitterAttempts)
	if err != nil {
		return outcome, fmt.Errorf("attempt manual route: %w", err)
	}
	return outcome, nil
}

func (e *RouteEngine) prepare(goal domain.PlanningGoal, origin domain.Coordinates) (domain.GoalPlan, error) {
	plan, err := PlanGoal(goal)
	if err != nil {
		return domain.GoalPlan{}, err
	}
	if !origin.Valid() {
		return domain.GoalPlan{}, fmt.Errorf("%w: origin out of range", domain.ErrInvalidGoal)
	}
	return plan, nil
}

func (e *RouteEngine) search(
	ctx context.Context,
	plan domain.GoalPlan,
	stream CandidateStream,
	budget int,
) (domain.SearchOutcome, error) {
	outcome, err := Search(ctx, SearchParams{
		Plan:   plan,
		Stream: stream,
		Budget: budget,
		Evaluate: func(ctx context.Context, c domain.Candidate) (domain.RouteEvaluation, error) {
			ev, err := e.evaluator.Evaluate(ctx, plan, c)
			if err != nil {
				level.Debug(obs.Logger()).Log(
					"req_id", obs.RequestID(ctx),
					"msg", "candidate discarded",
					"strategy", c.Strategy,
					"bearing", c.BearingDeg,
					"radius_km", c.RadiusKm,
					"err", err,
				)
			}
			return ev, err
		},
		Concurrency: e.cfg.Concurrency,
		Deadline:    e.cfg.SearchDeadline,
	})

	level.Info(obs.Logger()).Log(
		"req_id", obs.RequestID(ctx),
		"msg", "search finished",
		"status", outcome.Status,
		"attempts", outcome.AttemptsUsed,
		"target_km", plan.TotalDistanceKm,
	)
	return outcome, err
}
