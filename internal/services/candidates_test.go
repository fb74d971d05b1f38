package services

import (
	"goal-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s CandidateStream) []domain.Candidate {
	var out []domain.Candidate
	for {
		c, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}

func TestFixedBearing(t *testing.T) {
	origin := domain.Coordinates{Lon: 2.35, Lat: 48.85}
	got := drain(FixedBearing(origin, 2, 8))

	require.Len(t, got, 8)
	for i, c := range got {
		assert.Equal(t, float64(i)*45, c.BearingDeg)
		assert.Equal(t, 2.0, c.RadiusKm)
		assert.Equal(t, origin, c.Origin)
		assert.Equal(t, domain.StrategyFixedBearing, c.Strategy)
		assert.Equal(t, domain.Project(origin, c.BearingDeg, 2), c.Destination)
	}
}

func TestRandomDiskWithinRadiusAndReplayable(t *testing.T) {
	origin := domain.Coordinates{Lon: -112.07, Lat: 33.45}
	s := RandomDisk(origin, 3, 50, 42)

	first := drain(s)
	require.Len(t, first, 50)
	for _, c := range first {
		assert.GreaterOrEqual(t, c.BearingDeg, 0.0)
		assert.Less(t, c.BearingDeg, 360.0)
		assert.LessOrEqual(t, c.RadiusKm, 3.0)
		_, r := domain.Offset(origin, c.Destination)
		assert.InDelta(t, c.RadiusKm, r, 1e-6)
	}

	s.Reset()
	assert.Equal(t, first, drain(s))

	other := drain(RandomDisk(origin, 3, 50, 43))
	assert.NotEqual(t, first, other)
}

func TestRandomDiskIsUniformByArea(t *testing.T) {
	origin := domain.Coordinates{Lon: 0, Lat: 0}
	all := drain(RandomDisk(origin, 1, 4000, 7))

	inner := 0
	for _, c := range all {
		if c.RadiusKm <= 0.5 {
			inner++
		}
	}
	// a disk of half the radius holds a quarter of the area
	assert.InDelta(t, 0.25, float64(inner)/float64(len(all)), 0.03)
}

func TestJitterCentersOnPoint(t *testing.T) {
	origin := domain.Coordinates{Lon: 0, Lat: 0}
	center := domain.Project(origin, 90, 2)

	for _, c := range drain(Jitter(origin, center, 0.2, 10, 1)) {
		assert.Equal(t, origin, c.Origin)
		assert.Equal(t, domain.StrategyJitter, c.Strategy)
		_, off := domain.Offset(center, c.Destination)
		assert.LessOrEqual(t, off, 0.2+1e-9)
	}
}

func TestChainAndSingle(t *testing.T) {
	origin := domain.Coordinates{Lon: 0, Lat: 0}
	manual := domain.Candidate{Origin: origin, Destination: domain.Coordinates{Lon: 0.01}, Strategy: domain.StrategyManual}

	s := Chain(Single(manual), FixedBearing(origin, 1, 2))
	got := drain(s)
	require.Len(t, got, 3)
	assert.Equal(t, manual, got[0])
	assert.Equal(t, domain.StrategyFixedBearing, got[1].Strategy)

	s.Reset()
	assert.Equal(t, got, drain(s))
}
