package candidates

import (
	"fmt"
	"math/rand"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/planner"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// SyntheticSource samples candidate traces from the spectrum's element
// universe with a seeded RNG, the way the teacher's Sampler draws fault
// parameters from a seeded RNG for reproducible chaos scenarios.
type SyntheticSource struct {
	rng   *rand.Rand
	count int
}

// NewSyntheticSource returns a SyntheticSource that produces count
// candidate tests per call, seeded with seed for reproducibility.
func NewSyntheticSource(seed int64, count int) *SyntheticSource {
	if count < 1 {
		count = 1
	}
	return &SyntheticSource{rng: rand.New(rand.NewSource(seed)), count: count}
}

// Candidates draws s.count synthetic tests, each covering a random
// non-empty subset of the spectrum's elements.
func (s *SyntheticSource) Candidates(spec *spectrum.Spectrum) ([]planner.AvailableTest, error) {
	universe := spec.ElementIDs()
	if len(universe) == 0 {
		return nil, fmt.Errorf("spectrum has no elements to sample from")
	}

	out := make([]planner.AvailableTest, s.count)
	for i := 0; i < s.count; i++ {
		out[i] = planner.AvailableTest{
			Name:  fmt.Sprintf("synthetic-%d", i+1),
			Trace: s.sampleSubset(universe),
		}
	}
	return out, nil
}

// sampleSubset draws a random non-empty subset of universe: each element
// is included independently with probability 0.5, with at least one
// element forced in if the draw would otherwise be empty.
func (s *SyntheticSource) sampleSubset(universe []spectrum.ElementID) map[spectrum.ElementID]bool {
	trace := make(map[spectrum.ElementID]bool)
	for _, id := range universe {
		if s.rng.Float64() < 0.5 {
			trace[id] = true
		}
	}
	if len(trace) == 0 {
		trace[universe[s.rng.Intn(len(universe))]] = true
	}
	return trace
}
