// Package diagnosis implements the minimal hitting-set enumerator (C5) and
// the probability assigner (C6). A Diagnosis is a candidate explanation: a
// set of elements whose joint failure accounts for every observed test
// failure, together with a probability.
package diagnosis

import (
	"sort"
	"strings"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// Diagnosis is a minimal hitting set of the current conflicts, plus the
// probability assigned to it. Equality and hashing depend solely on the
// component set.
type Diagnosis struct {
	Components  map[spectrum.ElementID]bool
	Probability float64
}

// Key returns a stable, order-insensitive identity for a diagnosis's
// component set, suitable for map keys and equality checks.
func (d Diagnosis) Key() string {
	return Key(d.Components)
}

// Key computes the same stable identity Diagnosis.Key does, for component
// sets not yet wrapped in a Diagnosis.
func Key(components map[spectrum.ElementID]bool) string {
	ids := make([]string, 0, len(components))
	for id := range components {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	return strings.Join(ids, "\x00")
}

// Size returns the number of components in the diagnosis.
func (d Diagnosis) Size() int {
	return len(d.Components)
}

// SortedComponents returns the diagnosis's components as a sorted slice,
// for deterministic display and iteration.
func (d Diagnosis) SortedComponents() []spectrum.ElementID {
	ids := make([]spectrum.ElementID, 0, len(d.Components))
	for id := range d.Components {
		ids = append(ids, id)
	}
	return spectrum.SortedIDs(ids)
}
