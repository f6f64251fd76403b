package spectrum

import (
	"fmt"
	"sort"
)

// Spectrum is the joint data the fault-localization engine operates on: an
// ordered universe of elements, an ordered list of executed tests, and the
// per-element counters derived from them. The coverage matrix itself lives
// implicitly in each TestCase's Trace; Spectrum keeps element order fixed
// so downstream components (conflict extraction, enumeration) are
// deterministic.
type Spectrum struct {
	order    []ElementID
	elements map[ElementID]*Element
	tests    []TestCase
}

// New builds a Spectrum from an ordered list of element ids and an ordered
// list of tests. Every trace entry must name an id present in ids, and ids
// must be unique. Counters are computed immediately.
func New(ids []ElementID, tests []TestCase) (*Spectrum, error) {
	if len(tests) == 0 {
		return nil, fmt.Errorf("spectrum: at least one test is required")
	}

	elements := make(map[ElementID]*Element, len(ids))
	order := make([]ElementID, 0, len(ids))
	for _, id := range ids {
		if _, dup := elements[id]; dup {
			return nil, fmt.Errorf("spectrum: duplicate element id %q", id)
		}
		elements[id] = &Element{ID: id}
		order = append(order, id)
	}

	s := &Spectrum{order: order, elements: elements, tests: append([]TestCase(nil), tests...)}
	if err := s.validateTraces(); err != nil {
		return nil, err
	}
	s.Recompute()
	return s, nil
}

func (s *Spectrum) validateTraces() error {
	for _, t := range s.tests {
		for id := range t.Trace {
			if _, ok := s.elements[id]; !ok {
				return fmt.Errorf("spectrum: test %q covers unknown element %q", t.Name, id)
			}
		}
	}
	return nil
}

// Elements returns the elements in fixed load order.
func (s *Spectrum) Elements() []Element {
	out := make([]Element, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.elements[id])
	}
	return out
}

// ElementIDs returns the element universe in fixed load order.
func (s *Spectrum) ElementIDs() []ElementID {
	out := make([]ElementID, len(s.order))
	copy(out, s.order)
	return out
}

// Has reports whether id is part of this spectrum's element universe.
func (s *Spectrum) Has(id ElementID) bool {
	_, ok := s.elements[id]
	return ok
}

// Element looks up a single element's current counter.
func (s *Spectrum) Element(id ElementID) (Element, bool) {
	e, ok := s.elements[id]
	if !ok {
		return Element{}, false
	}
	return *e, true
}

// Tests returns the executed test cases in execution order.
func (s *Spectrum) Tests() []TestCase {
	out := make([]TestCase, len(s.tests))
	copy(out, s.tests)
	return out
}

// FailedTests returns the subset of tests with Failed == true, in order.
func (s *Spectrum) FailedTests() []TestCase {
	var out []TestCase
	for _, t := range s.tests {
		if t.Failed {
			out = append(out, t)
		}
	}
	return out
}

// AddTest appends a newly-executed test to the spectrum (the "Updating"
// state transition: a test moves from candidate to executed) and
// recomputes every element's counter.
func (s *Spectrum) AddTest(t TestCase) error {
	for id := range t.Trace {
		if !s.Has(id) {
			return fmt.Errorf("spectrum: test %q covers unknown element %q", t.Name, id)
		}
	}
	s.tests = append(s.tests, t)
	s.Recompute()
	return nil
}

// Recompute derives every element's (ef, ep, nf, np) counter from the
// current test list. It is an exact function of the tests and their
// traces/verdicts, never incrementally patched, so it is safe to call
// after any mutation.
func (s *Spectrum) Recompute() {
	fresh := make(map[ElementID]*Counter, len(s.order))
	for _, id := range s.order {
		fresh[id] = &Counter{}
	}

	for _, t := range s.tests {
		for _, id := range s.order {
			covered := t.Covers(id)
			c := fresh[id]
			switch {
			case covered && t.Failed:
				c.EF++
			case covered && !t.Failed:
				c.EP++
			case !covered && t.Failed:
				c.NF++
			default:
				c.NP++
			}
		}
	}

	for _, id := range s.order {
		s.elements[id].Counter = *fresh[id]
	}
}

// SortedIDs returns ids sorted lexicographically — the fixed total order
// the hitting-set enumerator relies on for determinism.
func SortedIDs(ids []ElementID) []ElementID {
	out := make([]ElementID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
