package services

import (
	"goal-route-service/internal/domain"
	"math"
	"math/rand/v2"
)

// CandidateStream lazily yields destinations for a search. Streams are
// finite and Reset replays the exact same sequence.
type CandidateStream interface {
	Next() (domain.Candidate, bool)
	Reset()
}

type fixedBearingStream struct {
	origin   domain.Coordinates
	radiusKm float64
	count    int
	i        int
}

// FixedBearing yields count evenly spaced bearings at radiusKm, starting due north.
func FixedBearing(origin domain.Coordinates, radiusKm float64, count int) CandidateStream {
	return &fixedBearingStream{origin: origin, radiusKm: radiusKm, count: count}
}

func (s *fixedBearingStream) Next() (domain.Candidate, bool) {
	if s.i >= s.count {
		return domain.Candidate{}, false
	}
	bearing := float64(s.i) * 360 / float64(s.count)
	s.i++

	return domain.Candidate{
		Origin:      s.origin,
		Destination: domain.Project(s.origin, bearing, s.radiusKm),
		BearingDeg:  bearing,
		RadiusKm:    s.radiusKm,
		Strategy:    domain.StrategyFixedBearing,
	}, true
}

func (s *fixedBearingStream) Reset() { s.i = 0 }

type diskStream struct {
	origin      domain.Coordinates
	center      domain.Coordinates
	maxRadiusKm float64
	count       int
	seed        uint64
	strategy    domain.CandidateStrategy

	rng *rand.Rand
	i   int
}

// RandomDisk yields count destinations uniformly distributed over the disk of
// maxRadiusKm around origin. Radius is sqrt-scaled so density is uniform by area.
func RandomDisk(origin domain.Coordinates, maxRadiusKm float64, count int, seed uint64) CandidateStream {
	return newDiskStream(origin, origin, maxRadiusKm, count, seed, domain.StrategyRandomDisk)
}

// Jitter is RandomDisk centred on a chosen point instead of the route origin.
func Jitter(origin, center domain.Coordinates, maxRadiusKm float64, count int, seed uint64) CandidateStream {
	return newDiskStream(origin, center, maxRadiusKm, count, seed, domain.StrategyJitter)
}

func newDiskStream(
	origin, center domain.Coordinates,
	maxRadiusKm float64,
	count int,
	seed uint64,
	strategy domain.CandidateStrategy,
) *diskStream {
	s := &diskStream{
		origin:      origin,
		center:      center,
		maxRadiusKm: maxRadiusKm,
		count:       count,
		seed:        seed,
		strategy:    strategy,
	}
	s.Reset()
	return s
}

func (s *diskStream) Next() (domain.Candidate, bool) {
	if s.i >= s.count {
		return domain.Candidate{}, false
	}
	s.i++

	angle := s.rng.Float64() * 2 * math.Pi
	radius := math.Sqrt(s.rng.Float64()) * s.maxRadiusKm
	dest := domain.Project(s.center, angle*180/math.Pi, radius)

	if s.center == s.origin {
		return domain.Candidate{
			Origin:      s.origin,
			Destination: dest,
			BearingDeg:  angle * 180 / math.Pi,
			RadiusKm:    radius,
			Strategy:    s.strategy,
		}, true
	}
	return domain.NewCandidate(s.origin, dest, s.strategy), true
}

func (s *diskStream) Reset() {
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	s.i = 0
}

type singleStream struct {
	c    domain.Candidate
	done bool
}

// Single yields exactly one candidate.
func Single(c domain.Candidate) CandidateStream {
	return &singleStream{c: c}
}

func (s *singleStream) Next() (domain.Candidate, bool) {
	if s.done {
		return domain.Candidate{}, false
	}
	s.done = true
	return s.c, true
}

func (s *singleStream) Reset() { s.done = false }

type chainStream struct {
	streams []CandidateStream
	idx     int
}

// Chain concatenates streams in order.
func Chain(streams ...CandidateStream) CandidateStream {
	return &chainStream{streams: streams}
}

func (s *chainStream) Next() (domain.Candidate, bool) {
	for s.idx < len(s.streams) {
		if c, ok := s.streams[s.idx].Next(); ok {
			return c, true
		}
		s.idx++
	}
	return domain.Candidate{}, false
}

func (s *chainStream) Reset() {
	for _, st := range s.streams {
		st.Reset()
	}
	s.idx = 0
}
