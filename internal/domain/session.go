package domain

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// SearchSession is the recoverable state of one destination-selection screen.
type SearchSession struct {
	Key          string         `json:"key"`
	Goal         PlanningGoal   `json:"goal"`
	Origin       Coordinates    `json:"origin"`
	Plan         GoalPlan       `json:"plan"`
	DefaultRoute *SearchOutcome `json:"default_route,omitempty"`
	CurrentRoute *SearchOutcome `json:"current_route,omitempty"`
	Limiter      LimiterState   `json:"limiter"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SessionKey is a stable signature of a goal and origin.
func SessionKey(goal PlanningGoal, origin Coordinates) string {
	sig := fmt.Sprintf(
		"%s|%s|%d|%.4f|%s|%s|%.3f|%.2f|%s",
		goal.Activity, goal.Kind, goal.StepCount, goal.DistanceKm,
		goal.Pace, goal.Trip, goal.HeightM, goal.WeightKg,
		origin.Key(),
	)
	return fmt.Sprintf("%016x", xxhash.Sum64String(sig))
}
