package domain

import "math"

// KmPerDegree is the length of one degree of latitude used by the planar projection.
const KmPerDegree = 111.32

type CandidateStrategy string

const (
	StrategyFixedBearing CandidateStrategy = "fixed_bearing"
	StrategyRandomDisk   CandidateStrategy = "random_disk"
	StrategyManual       CandidateStrategy = "manual"
	StrategyJitter       CandidateStrategy = "manual_jitter"
)

// Candidate is a destination proposed for one search attempt.
type Candidate struct {
	Origin      Coordinates       `json:"origin"`
	Destination Coordinates       `json:"destination"`
	BearingDeg  float64           `json:"bearing_deg"`
	RadiusKm    float64           `json:"radius_km"`
	Strategy    CandidateStrategy `json:"strategy"`
}

// Project offsets origin by radiusKm along bearingDeg (clockwise from north)
// using an equirectangular approximation, accurate for the few kilometres a
// walk or run covers.
func Project(origin Coordinates, bearingDeg, radiusKm float64) Coordinates {
	theta := bearingDeg * math.Pi / 180
	latRad := origin.Lat * math.Pi / 180

	return Coordinates{
		Lat: origin.Lat + radiusKm*math.Cos(theta)/KmPerDegree,
		Lon: origin.Lon + radiusKm*math.Sin(theta)/(KmPerDegree*math.Cos(latRad)),
	}
}

// Offset is the inverse of Project: bearing (degrees in [0, 360)) and radius from origin to p.
func Offset(origin, p Coordinates) (bearingDeg, radiusKm float64) {
	latRad := origin.Lat * math.Pi / 180
	north := (p.Lat - origin.Lat) * KmPerDegree
	east := (p.Lon - origin.Lon) * KmPerDegree * math.Cos(latRad)

	bearingDeg = math.Atan2(east, north) * 180 / math.Pi
	if bearingDeg < 0 {
		bearingDeg += 360
	}
	return bearingDeg, math.Hypot(north, east)
}

// NewCandidate builds a candidate for an explicit destination, deriving bearing and radius.
func NewCandidate(origin, dest Coordinates, strategy CandidateStrategy) Candidate {
	bearing, radius := Offset(origin, dest)
	return Candidate{
		Origin:      origin,
		Destination: dest,
		BearingDeg:  bearing,
		RadiusKm:    radius,
		Strategy:    strategy,
	}
}
