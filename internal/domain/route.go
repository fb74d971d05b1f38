package domain

import (
	"math"

	"github.com/paulmach/orb"
)

// RouteLeg is one provider-computed path between two points.
type RouteLeg struct {
	DistanceKm  float64        `json:"distance_km"`
	DurationSec float64        `json:"duration_sec"`
	Geometry    orb.LineString `json:"geometry"`
}

// RouteEvaluation is a candidate scored against a plan.
type RouteEvaluation struct {
	Candidate       Candidate `json:"candidate"`
	Outbound        RouteLeg  `json:"outbound"`
	Return          *RouteLeg `json:"return,omitempty"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	AbsDifferenceKm float64   `json:"abs_difference_km"`
	WithinStrict    bool      `json:"within_strict"`
	WithinRelaxed   bool      `json:"within_relaxed"`

	// Round trip only: overlap of the chosen return path with the outbound
	// path, and of every alternative that was considered, in provider order.
	ReturnOverlap       float64   `json:"return_overlap,omitempty"`
	AlternativeOverlaps []float64 `json:"alternative_overlaps,omitempty"`
	ViaWaypoint         bool      `json:"via_waypoint,omitempty"`
}

// NewRouteEvaluation totals the legs and scores them against plan.
func NewRouteEvaluation(plan GoalPlan, c Candidate, outbound RouteLeg, ret *RouteLeg) RouteEvaluation {
	total := outbound.DistanceKm
	if ret != nil {
		total += ret.DistanceKm
	}

	return RouteEvaluation{
		Candidate:       c,
		Outbound:        outbound,
		Return:          ret,
		TotalDistanceKm: total,
		AbsDifferenceKm: math.Abs(total - plan.TotalDistanceKm),
		WithinStrict:    plan.Band.Contains(total),
		WithinRelaxed:   plan.RelaxedBand.Contains(total),
	}
}

func (e RouteEvaluation) DurationSec() float64 {
	d := e.Outbound.DurationSec
	if e.Return != nil {
		d += e.Return.DurationSec
	}
	return d
}

type SearchStatus string

const (
	StatusAccepted   SearchStatus = "accepted"
	StatusBestEffort SearchStatus = "best_effort"
	StatusExhausted  SearchStatus = "exhausted"
)

// SearchOutcome is the result of one search. Exhausted is a normal outcome, not an error.
type SearchOutcome struct {
	Status       SearchStatus     `json:"status"`
	Evaluation   *RouteEvaluation `json:"evaluation,omitempty"`
	AttemptsUsed int              `json:"attempts_used"`
}

// Found reports whether the outcome carries a usable route.
func (o SearchOutcome) Found() bool {
	return (o.Status == StatusAccepted || o.Status == StatusBestEffort) && o.Evaluation != nil
}
