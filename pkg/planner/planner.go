// Package planner implements the entropy-based test planner (C7): it scores
// candidate tests by expected information gain about which diagnosis is
// correct, and picks the best one. The likelihood model's constants are
// named, not inlined, the way the teacher's failure_detector names its
// threshold operators instead of hardcoding comparisons.
package planner

import (
	"math"
	"sort"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/diagnosis"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// Likelihood model constants (§4.6). Kept as named values so the model can
// be tuned without hunting through arithmetic.
const (
	passLikelihoodNoOverlap = 0.9
	failLikelihoodNoOverlap = 0.1
	passLikelihoodBase      = 0.8
	failLikelihoodBase      = 0.2
	likelihoodFloor         = 0.1
	likelihoodCeiling       = 0.9

	// defaultMinWeight (epsilon) is the Bayesian prune threshold used when
	// a caller passes a non-positive minWeight — config.PlannerConfig's
	// own documented default.
	defaultMinWeight = 1e-3
)

// AvailableTest is a candidate the planner may choose to execute: a name
// unique within the pool and its estimated trace against the spectrum's
// element universe.
type AvailableTest struct {
	Name  string
	Trace map[spectrum.ElementID]bool
}

// Entropy computes the Shannon entropy of a diagnosis distribution in
// nats, treating 0*ln(0) as 0.
func Entropy(dist []diagnosis.Diagnosis) float64 {
	var h float64
	for _, d := range dist {
		if d.Probability <= 0 {
			continue
		}
		h -= d.Probability * math.Log(d.Probability)
	}
	return h
}

// overlap returns |T ∩ Δ| / |Δ| for a candidate test's trace T against a
// diagnosis's component set Δ. Callers must ensure Δ is non-empty.
func overlap(trace map[spectrum.ElementID]bool, components map[spectrum.ElementID]bool) float64 {
	if len(components) == 0 {
		return 0
	}
	var hits int
	for id := range components {
		if trace[id] {
			hits++
		}
	}
	return float64(hits) / float64(len(components))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// passLikelihood returns P(t passes | Δ).
func passLikelihood(trace map[spectrum.ElementID]bool, components map[spectrum.ElementID]bool) float64 {
	if !intersects(trace, components) {
		return passLikelihoodNoOverlap
	}
	return clamp(passLikelihoodBase-overlap(trace, components), likelihoodFloor, likelihoodCeiling)
}

// failLikelihood returns P(t fails | Δ).
func failLikelihood(trace map[spectrum.ElementID]bool, components map[spectrum.ElementID]bool) float64 {
	if !intersects(trace, components) {
		return failLikelihoodNoOverlap
	}
	return clamp(failLikelihoodBase+overlap(trace, components), likelihoodFloor, likelihoodCeiling)
}

func intersects(trace map[spectrum.ElementID]bool, components map[spectrum.ElementID]bool) bool {
	for id := range components {
		if trace[id] {
			return true
		}
	}
	return false
}

// ExpectedPass returns P(t passes) under the current diagnosis
// distribution, clamped to [0.1, 0.9].
func ExpectedPass(dist []diagnosis.Diagnosis, trace map[spectrum.ElementID]bool) float64 {
	var p float64
	for _, d := range dist {
		p += d.Probability * passLikelihood(trace, d.Components)
	}
	return clamp(p, likelihoodFloor, likelihoodCeiling)
}

// Update applies Bayes' rule to dist given that test t produced outcome
// passed, pruning diagnoses whose unnormalized weight falls below minWeight
// (epsilon) and renormalizing. minWeight <= 0 falls back to defaultMinWeight,
// the way Assign/Enumerate default their own non-positive config fields. If
// the update would zero out every weight, the prior dist is returned
// unchanged.
func Update(dist []diagnosis.Diagnosis, trace map[spectrum.ElementID]bool, passed bool, minWeight float64) []diagnosis.Diagnosis {
	if minWeight <= 0 {
		minWeight = defaultMinWeight
	}

	raw := make([]float64, len(dist))
	var total float64
	for i, d := range dist {
		var lik float64
		if passed {
			lik = passLikelihood(trace, d.Components)
		} else {
			lik = failLikelihood(trace, d.Components)
		}
		raw[i] = d.Probability * lik
		total += raw[i]
	}
	if total == 0 {
		return dist
	}

	out := make([]diagnosis.Diagnosis, 0, len(dist))
	var kept float64
	for i, d := range dist {
		if raw[i] < minWeight {
			continue
		}
		kept += raw[i]
		out = append(out, diagnosis.Diagnosis{Components: d.Components, Probability: raw[i]})
	}
	if kept == 0 {
		return dist
	}
	for i := range out {
		out[i].Probability /= kept
	}
	return out
}

// InformationGain computes IG(t) = H(Ω) − E[H(Ω | outcome)], clamped to a
// non-negative value to absorb floating-point drift. minWeight is the
// pruning epsilon threaded through to Update.
func InformationGain(dist []diagnosis.Diagnosis, trace map[spectrum.ElementID]bool, minWeight float64) float64 {
	prior := Entropy(dist)
	pPass := ExpectedPass(dist, trace)

	hPass := Entropy(Update(dist, trace, true, minWeight))
	hFail := Entropy(Update(dist, trace, false, minWeight))

	gain := prior - (pPass*hPass + (1-pPass)*hFail)
	if gain < 0 {
		return 0
	}
	return gain
}

// SelectNext picks the candidate test with maximum information gain,
// breaking ties by name. Returns false when candidates is empty or the
// distribution has no uncertainty left to reduce (|Ω| ≤ 1). minWeight is
// the pruning epsilon threaded through to InformationGain.
func SelectNext(dist []diagnosis.Diagnosis, candidates []AvailableTest, minWeight float64) (AvailableTest, bool) {
	if len(candidates) == 0 || len(dist) <= 1 {
		return AvailableTest{}, false
	}

	ordered := make([]AvailableTest, len(candidates))
	copy(ordered, candidates)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	best := ordered[0]
	bestGain := InformationGain(dist, best.Trace, minWeight)
	for _, c := range ordered[1:] {
		gain := InformationGain(dist, c.Trace, minWeight)
		if gain > bestGain {
			best, bestGain = c, gain
		}
	}
	return best, true
}
