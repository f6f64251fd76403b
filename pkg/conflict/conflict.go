// Package conflict builds conflicts from a spectrum's failed tests (C3) and
// filters irrelevant components out of them before they reach the
// hitting-set enumerator (C4). The rule evaluation order follows the
// teacher's scenario validator: a fixed sequence of named checks, first
// match wins.
package conflict

import (
	"regexp"
	"strings"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// Conflict is the set of elements one failed test covered. It is derived
// strictly from that test and never mutated once created.
type Conflict struct {
	TestName   string
	Components map[spectrum.ElementID]bool
}

// Extract builds one Conflict per failed test in s, skipping failed tests
// with an empty trace (they carry no localization information). Output
// order follows the spectrum's test order, which is deterministic.
func Extract(s *spectrum.Spectrum) []Conflict {
	var out []Conflict
	for _, t := range s.FailedTests() {
		if len(t.Trace) == 0 {
			continue
		}
		comps := make(map[spectrum.ElementID]bool, len(t.Trace))
		for id, covered := range t.Trace {
			if covered {
				comps[id] = true
			}
		}
		if len(comps) == 0 {
			continue
		}
		out = append(out, Conflict{TestName: t.Name, Components: comps})
	}
	return out
}

// FilterConfig configures the component-relevance filter (§4.3). Patterns
// in ConstructorSigils and substrings in FrameworkBlocklist are matched
// against the raw element id.
type FilterConfig struct {
	ConstructorSigils  []string
	FrameworkBlocklist []string
	CoverageThreshold  float64
}

// DefaultFilterConfig returns the filter defaults named in the spec.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		ConstructorSigils:  []string{"#<init>", "#<clinit>"},
		FrameworkBlocklist: nil,
		CoverageThreshold:  0.8,
	}
}

// Relevant decides whether element id should survive the filter, given its
// current counter. Rules are evaluated in order; the first match excludes
// the element.
func Relevant(cfg FilterConfig, id spectrum.ElementID, c spectrum.Counter) bool {
	if isConstructorLike(cfg.ConstructorSigils, string(id)) {
		return false
	}
	threshold := cfg.CoverageThreshold
	if threshold <= 0 {
		threshold = 0.8
	}
	if c.CoverageRatio() > threshold {
		return false
	}
	if matchesBlocklist(cfg.FrameworkBlocklist, string(id)) {
		return false
	}
	if c.EF == 0 {
		return false
	}
	return true
}

func isConstructorLike(sigils []string, id string) bool {
	for _, sigil := range sigils {
		if sigil == "" {
			continue
		}
		if strings.Contains(id, sigil) {
			return true
		}
	}
	return ctorHeuristicMatch(id)
}

// ctorHeuristicMatch implements the "name ending in () whose method name
// starts with an uppercase letter matching the class name" heuristic for
// ids shaped like "pkg.ClassName#ClassName()" — a constructor invoked
// implicitly by the runtime.
var ctorShape = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)#([A-Z][A-Za-z0-9_]*)\(\)$`)

func ctorHeuristicMatch(id string) bool {
	m := ctorShape.FindStringSubmatch(id)
	if m == nil {
		return false
	}
	class, method := m[1], m[2]
	idx := strings.LastIndexByte(class, '.')
	if idx >= 0 {
		class = class[idx+1:]
	}
	return class == method
}

func matchesBlocklist(blocklist []string, id string) bool {
	for _, substr := range blocklist {
		if substr == "" {
			continue
		}
		if strings.Contains(id, substr) {
			return true
		}
	}
	return false
}

// Filter applies Relevant to every component of each conflict, dropping a
// conflict entirely if nothing survives. The original conflicts slice is
// not mutated.
func Filter(cfg FilterConfig, s *spectrum.Spectrum, conflicts []Conflict) []Conflict {
	out := make([]Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		kept := make(map[spectrum.ElementID]bool)
		for id := range c.Components {
			elem, ok := s.Element(id)
			if !ok {
				continue
			}
			if Relevant(cfg, id, elem.Counter) {
				kept[id] = true
			}
		}
		if len(kept) == 0 {
			continue
		}
		out = append(out, Conflict{TestName: c.TestName, Components: kept})
	}
	return out
}
