package services

import (
	"goal-route-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

const (
	overlapSamples      = 30
	overlapBufferMeters = 20.0
	// Above this share of shared path a return leg counts as retracing the outbound leg.
	overlapLimit = 0.4
)

// Buffer in degrees; distances are compared in planar lon/lat space.
var overlapBufferDeg = overlapBufferMeters / (domain.KmPerDegree * 1000)

// ReturnOverlap is the fraction of points sampled evenly by distance along ret
// that lie within the buffer of the outbound polyline.
func ReturnOverlap(outbound, ret orb.LineString) float64 {
	if len(outbound) == 0 || len(ret) == 0 {
		return 0
	}

	var outGeom orb.Geometry = outbound
	if len(outbound) == 1 {
		outGeom = outbound[0]
	}

	length := geo.Length(ret)
	near := 0
	for i := 0; i < overlapSamples; i++ {
		d := length * float64(i) / float64(overlapSamples-1)
		p, _ := geo.PointAtDistanceAlongLine(ret, d)
		if planar.DistanceFrom(outGeom, p) <= overlapBufferDeg {
			near++
		}
	}

	return float64(near) / overlapSamples
}

// detourWaypoint picks a via point for a forced return leg: the chord midpoint
// pushed sideways by a quarter of the chord, onto the side away from the outbound path.
func detourWaypoint(origin, dest domain.Coordinates, outbound orb.LineString) domain.Coordinates {
	bearing, chord := domain.Offset(origin, dest)
	mid := domain.Coordinates{
		Lon: (origin.Lon + dest.Lon) / 2,
		Lat: (origin.Lat + dest.Lat) / 2,
	}

	left := domain.Project(mid, bearing-90, chord*0.25)
	right := domain.Project(mid, bearing+90, chord*0.25)

	if len(outbound) < 2 {
		return right
	}
	outMid, _ := geo.PointAtDistanceAlongLine(outbound, geo.Length(outbound)/2)
	if planar.Distance(left.Point(), outMid) > planar.Distance(right.Point(), outMid) {
		return left
	}
	return right
}
