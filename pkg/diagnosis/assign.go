package diagnosis

import (
	"math"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/suspicion"
)

// AssignConfig parameterizes the parsimony prior (§4.5).
type AssignConfig struct {
	Formula     suspicion.Formula
	SizePenalty float64 // alpha
}

// DefaultAssignConfig returns the spec's defaults: Barinel, alpha=0.5.
func DefaultAssignConfig() AssignConfig {
	return AssignConfig{Formula: suspicion.Barinel, SizePenalty: 0.5}
}

// Assign turns bare component sets (as returned by Enumerate) into a
// normalized probability distribution over Diagnoses. Each diagnosis's raw
// weight is its components' mean suspiciousness score times a size penalty
// alpha^(|components|-1); weights are normalized to sum to 1. If every raw
// weight is zero, the uniform distribution is assigned instead, so the
// result is always a valid distribution when sets is non-empty.
func Assign(cfg AssignConfig, s *spectrum.Spectrum, sets []map[spectrum.ElementID]bool) []Diagnosis {
	if len(sets) == 0 {
		return nil
	}

	alpha := cfg.SizePenalty
	if alpha <= 0 {
		alpha = 0.5
	}
	formula := cfg.Formula
	if formula == "" {
		formula = suspicion.Barinel
	}

	raw := make([]float64, len(sets))
	var total float64
	for i, set := range sets {
		score := avgScore(formula, s, set)
		size := len(set)
		penalty := math.Pow(alpha, float64(size-1))
		raw[i] = score * penalty
		total += raw[i]
	}

	out := make([]Diagnosis, len(sets))
	if total == 0 {
		uniform := 1.0 / float64(len(sets))
		for i, set := range sets {
			out[i] = Diagnosis{Components: set, Probability: uniform}
		}
		return out
	}

	for i, set := range sets {
		out[i] = Diagnosis{Components: set, Probability: raw[i] / total}
	}
	return out
}

func avgScore(f suspicion.Formula, s *spectrum.Spectrum, set map[spectrum.ElementID]bool) float64 {
	if len(set) == 0 {
		return 0
	}
	var sum float64
	for id := range set {
		elem, ok := s.Element(id)
		if !ok {
			continue
		}
		sum += suspicion.Score(f, elem.Counter)
	}
	return sum / float64(len(set))
}

// Fallback builds the filter-fallback diagnosis set named in §4.3: the
// top-K unfiltered elements by suspiciousness, each as its own singleton
// diagnosis, uniformly weighted. Used when every conflict's component set
// was emptied by the filter.
func Fallback(formula suspicion.Formula, s *spectrum.Spectrum, ids []spectrum.ElementID, k int) []Diagnosis {
	if len(ids) == 0 {
		return nil
	}
	if formula == "" {
		formula = suspicion.Barinel
	}
	if k <= 0 {
		k = 5
	}
	if k > len(ids) {
		k = len(ids)
	}

	ranked := make([]scoredElement, 0, len(ids))
	for _, id := range ids {
		elem, ok := s.Element(id)
		if !ok {
			continue
		}
		ranked = append(ranked, scoredElement{id: id, score: suspicion.Score(formula, elem.Counter)})
	}

	// Stable sort by score descending, ties broken by id for determinism.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && less(ranked[j], ranked[j-1]); j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	if k > len(ranked) {
		k = len(ranked)
	}
	top := ranked[:k]
	uniform := 1.0 / float64(len(top))
	out := make([]Diagnosis, 0, len(top))
	for _, r := range top {
		out = append(out, Diagnosis{
			Components:  map[spectrum.ElementID]bool{r.id: true},
			Probability: uniform,
		})
	}
	return out
}

type scoredElement struct {
	id    spectrum.ElementID
	score float64
}

func less(a, b scoredElement) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.id < b.id
}
