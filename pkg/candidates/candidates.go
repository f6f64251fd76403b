// Package candidates supplies the pool of tests the planner may choose
// to execute next. Two adapters ship here: a static YAML-declared source,
// grounded on the teacher's discovery.Target (a flat declared list), and
// a synthetic source sampling traces from the element universe with a
// seeded RNG, grounded on the teacher's fuzz.Sampler.
package candidates

import (
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/planner"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// CandidateTestSource supplies the pool of not-yet-executed tests
// available to the planner, given the current spectrum.
type CandidateTestSource interface {
	Candidates(s *spectrum.Spectrum) ([]planner.AvailableTest, error)
}
