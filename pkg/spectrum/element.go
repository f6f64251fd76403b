// Package spectrum holds the in-memory fault-localization spectrum: the
// elements, test cases, coverage matrix, and the per-element counters
// derived from them.
package spectrum

// ElementID is an opaque, byte-stable key identifying a program element
// (e.g. a method signature).
type ElementID string

// Counter is the 2x2 covered/not-covered x failed/passed tally for one
// element, derived from the current coverage matrix and test verdicts.
type Counter struct {
	EF int // covered by a failing test
	EP int // covered by a passing test
	NF int // not covered by a failing test
	NP int // not covered by a passing test
}

// Total returns the number of tests represented by this counter.
func (c Counter) Total() int {
	return c.EF + c.EP + c.NF + c.NP
}

// CoverageRatio returns (EF+EP)/(EF+EP+NF+NP), the fraction of tests that
// covered the element. Returns 0 when there are no tests.
func (c Counter) CoverageRatio() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.EF+c.EP) / float64(total)
}

// Element is a program element tracked by the spectrum, identified by an
// opaque id and carrying the counter derived from the current spectrum.
type Element struct {
	ID      ElementID
	Counter Counter
}
