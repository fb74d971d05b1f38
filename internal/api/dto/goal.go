package dto

import "goal-route-service/internal/domain"

// GoalRequest is the wire form of a planning goal. Cross-field rules (which
// of step_count or distance_km is required) are left to domain validation.
type GoalRequest struct {
	Activity   string  `json:"activity" validate:"required,oneof=walk run"`
	GoalKind   string  `json:"goal_kind" validate:"required,oneof=step_count distance_km"`
	StepCount  int     `json:"step_count" validate:"gte=0"`
	DistanceKm float64 `json:"distance_km" validate:"gte=0"`
	Pace       string  `json:"pace" validate:"required,oneof=slow moderate fast"`
	TripType   string  `json:"trip_type" validate:"required,oneof=one_way round_trip"`
	HeightM    float64 `json:"height_m" validate:"required,gt=0,lte=3"`
	WeightKg   float64 `json:"weight_kg" validate:"required,gt=0,lte=500"`
}

func (g GoalRequest) Domain() domain.PlanningGoal {
	return domain.PlanningGoal{
		Activity:   domain.ActivityKind(g.Activity),
		Kind:       domain.GoalKind(g.GoalKind),
		StepCount:  g.StepCount,
		DistanceKm: g.DistanceKm,
		Pace:       domain.Pace(g.Pace),
		Trip:       domain.TripType(g.TripType),
		HeightM:    g.HeightM,
		WeightKg:   g.WeightKg,
	}
}

// PointRequest uses pointers so a zero coordinate is distinguishable from a missing one.
type PointRequest struct {
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
}

func (p PointRequest) Domain() domain.Coordinates {
	return domain.Coordinates{Lon: *p.Lon, Lat: *p.Lat}
}

type PlanRequest struct {
	Goal GoalRequest `json:"goal"`
}

// RouteRequest starts from either explicit coordinates or a free-text address.
type RouteRequest struct {
	Goal          GoalRequest   `json:"goal"`
	Origin        *PointRequest `json:"origin" validate:"required_without=OriginAddress"`
	OriginAddress string        `json:"origin_address" validate:"required_without=Origin,max=200"`
}

type ManualRouteRequest struct {
	RouteRequest
	Destination *PointRequest `json:"destination" validate:"required"`
}

type ClickRequest struct {
	Point *PointRequest `json:"point" validate:"required"`
}
