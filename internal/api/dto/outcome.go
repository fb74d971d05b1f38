package dto

import (
	"goal-route-service/internal/domain"
	"math"

	"github.com/paulmach/orb/geojson"
)

type BandResponse struct {
	MinKm float64 `json:"min_km"`
	MaxKm float64 `json:"max_km"`
}

type PlanResponse struct {
	TotalDistanceKm  float64      `json:"total_distance_km"`
	PerLegTargetKm   float64      `json:"per_leg_target_km"`
	StrideM          float64      `json:"stride_m"`
	EstimatedSteps   int          `json:"estimated_steps"`
	Band             BandResponse `json:"band"`
	RelaxedBand      BandResponse `json:"relaxed_band"`
	DurationMinutes  int          `json:"duration_minutes"`
	CaloriesEstimate int          `json:"calories"`
}

func NewPlanResponse(p domain.GoalPlan) PlanResponse {
	return PlanResponse{
		TotalDistanceKm:  round3(p.TotalDistanceKm),
		PerLegTargetKm:   round3(p.PerLegTargetKm),
		StrideM:          round3(p.StrideM),
		EstimatedSteps:   p.EstimatedSteps,
		Band:             BandResponse{MinKm: round3(p.Band.MinKm), MaxKm: round3(p.Band.MaxKm)},
		RelaxedBand:      BandResponse{MinKm: round3(p.RelaxedBand.MinKm), MaxKm: round3(p.RelaxedBand.MaxKm)},
		DurationMinutes:  p.DurationMin,
		CaloriesEstimate: p.Calories,
	}
}

// RouteResponse describes the chosen route. Geometry holds one LineString
// feature per leg, tagged with "leg": "outbound" or "return".
type RouteResponse struct {
	Destination     domain.Coordinates         `json:"destination"`
	Strategy        domain.CandidateStrategy   `json:"strategy"`
	TotalDistanceKm float64                    `json:"total_distance_km"`
	DifferenceKm    float64                    `json:"difference_km"`
	DurationSec     int                        `json:"duration_sec"`
	WithinStrict    bool                       `json:"within_strict"`
	ReturnOverlap   *float64                   `json:"return_overlap,omitempty"`
	ViaWaypoint     bool                       `json:"via_waypoint,omitempty"`
	Geometry        *geojson.FeatureCollection `json:"geometry"`
}

type OutcomeResponse struct {
	Status       domain.SearchStatus `json:"status"`
	AttemptsUsed int                 `json:"attempts_used"`
	Route        *RouteResponse      `json:"route,omitempty"`
}

func NewOutcomeResponse(o domain.SearchOutcome) OutcomeResponse {
	res := OutcomeResponse{Status: o.Status, AttemptsUsed: o.AttemptsUsed}
	if o.Found() {
		res.Route = newRouteResponse(*o.Evaluation)
	}
	return res
}

func newRouteResponse(ev domain.RouteEvaluation) *RouteResponse {
	fc := geojson.NewFeatureCollection()
	fc.Append(legFeature("outbound", ev.Outbound))
	if ev.Return != nil {
		fc.Append(legFeature("return", *ev.Return))
	}

	r := &RouteResponse{
		Destination:     ev.Candidate.Destination,
		Strategy:        ev.Candidate.Strategy,
		TotalDistanceKm: round3(ev.TotalDistanceKm),
		DifferenceKm:    round3(ev.AbsDifferenceKm),
		DurationSec:     int(math.Round(ev.DurationSec())),
		WithinStrict:    ev.WithinStrict,
		ViaWaypoint:     ev.ViaWaypoint,
		Geometry:        fc,
	}
	if ev.Return != nil {
		o := round3(ev.ReturnOverlap)
		r.ReturnOverlap = &o
	}
	return r
}

func legFeature(name string, l domain.RouteLeg) *geojson.Feature {
	f := geojson.NewFeature(l.Geometry)
	f.Properties["leg"] = name
	f.Properties["distance_km"] = round3(l.DistanceKm)
	return f
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// SearchResponse pairs a one-shot search outcome with the plan it was scored against.
type SearchResponse struct {
	Plan    PlanResponse    `json:"plan"`
	Outcome OutcomeResponse `json:"outcome"`
}
