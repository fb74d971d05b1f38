package domain

import "math"

// ActivityProfile holds the per activity and pace coefficients of the effort model.
type ActivityProfile struct {
	// StrideCoefficient times height (m) gives stride length (m).
	StrideCoefficient float64
	SpeedKmh          float64
	// CalorieCoefficient is kcal per km per kg of body weight.
	CalorieCoefficient float64
}

var activityProfiles = map[ActivityKind]map[Pace]ActivityProfile{
	ActivityWalk: {
		PaceSlow:     {StrideCoefficient: 0.415, SpeedKmh: 4, CalorieCoefficient: 0.35},
		PaceModerate: {StrideCoefficient: 0.415, SpeedKmh: 5, CalorieCoefficient: 0.50},
		PaceFast:     {StrideCoefficient: 0.415, SpeedKmh: 6, CalorieCoefficient: 0.70},
	},
	ActivityRun: {
		PaceSlow:     {StrideCoefficient: 0.65, SpeedKmh: 8, CalorieCoefficient: 0.75},
		PaceModerate: {StrideCoefficient: 0.90, SpeedKmh: 10, CalorieCoefficient: 1.00},
		PaceFast:     {StrideCoefficient: 1.10, SpeedKmh: 12, CalorieCoefficient: 1.30},
	},
}

// ProfileFor looks up the coefficients for an activity and pace.
func ProfileFor(activity ActivityKind, pace Pace) (ActivityProfile, bool) {
	byPace, ok := activityProfiles[activity]
	if !ok {
		return ActivityProfile{}, false
	}
	p, ok := byPace[pace]
	return p, ok
}

func (p ActivityProfile) StrideM(heightM float64) float64 {
	return p.StrideCoefficient * heightM
}

// EstimateDurationMin returns the rounded time in minutes to cover distanceKm.
func (p ActivityProfile) EstimateDurationMin(distanceKm float64) int {
	if p.SpeedKmh <= 0 {
		return 0
	}
	return int(math.Round(distanceKm / p.SpeedKmh * 60))
}

// EstimateCalories returns the rounded energy estimate in kcal.
func (p ActivityProfile) EstimateCalories(distanceKm, weightKg float64) int {
	return int(math.Round(distanceKm * weightKg * p.CalorieCoefficient))
}
