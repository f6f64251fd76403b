package diagnosis

import (
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/conflict"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// EnumerateConfig bounds the layered hitting-set search (§4.4).
type EnumerateConfig struct {
	MaxSetSize   int // S_max
	MaxDiagnoses int // N
}

// DefaultEnumerateConfig returns the spec's defaults: S_max=3, N=20.
func DefaultEnumerateConfig() EnumerateConfig {
	return EnumerateConfig{MaxSetSize: 3, MaxDiagnoses: 20}
}

// Universe returns the union of every conflict's components, in sorted
// order — the fixed total order the layered enumeration walks.
func Universe(conflicts []conflict.Conflict) []spectrum.ElementID {
	seen := make(map[spectrum.ElementID]bool)
	for _, c := range conflicts {
		for id := range c.Components {
			seen[id] = true
		}
	}
	ids := make([]spectrum.ElementID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return spectrum.SortedIDs(ids)
}

// Enumerate returns minimal hitting sets of conflicts as bare component
// sets (no probability assigned yet — that is Assign's job). It walks
// subset sizes 1..S_max in increasing order, stopping at the first size
// that yields any hitting set, and returns at most N of them in
// lexicographic order of sorted id. If no hitting set exists at any size
// up to S_max, it returns a single fallback set equal to the whole
// universe.
//
// Enumerate's output does not depend on the order conflicts were passed
// in: only on the set of conflicts (§8, invariant 7).
func Enumerate(cfg EnumerateConfig, conflicts []conflict.Conflict) []map[spectrum.ElementID]bool {
	if len(conflicts) == 0 {
		return nil
	}

	maxSize := cfg.MaxSetSize
	if maxSize <= 0 {
		maxSize = 3
	}
	limit := cfg.MaxDiagnoses
	if limit <= 0 {
		limit = 20
	}

	universe := Universe(conflicts)
	if len(universe) == 0 {
		return nil
	}
	if maxSize > len(universe) {
		maxSize = len(universe)
	}

	for size := 1; size <= maxSize; size++ {
		hits := collectHittingSets(universe, conflicts, size, limit)
		if len(hits) > 0 {
			return hits
		}
	}

	fallback := make(map[spectrum.ElementID]bool, len(universe))
	for _, id := range universe {
		fallback[id] = true
	}
	return []map[spectrum.ElementID]bool{fallback}
}

// collectHittingSets enumerates every size-s subset of universe in
// lexicographic order, keeping those that hit every conflict, up to limit
// results.
func collectHittingSets(universe []spectrum.ElementID, conflicts []conflict.Conflict, size, limit int) []map[spectrum.ElementID]bool {
	var out []map[spectrum.ElementID]bool
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}

	for {
		if isHittingSet(universe, idx, conflicts) {
			set := make(map[spectrum.ElementID]bool, size)
			for _, i := range idx {
				set[universe[i]] = true
			}
			out = append(out, set)
			if len(out) >= limit {
				return out
			}
		}
		if !nextCombination(idx, len(universe)) {
			break
		}
	}
	return out
}

// isHittingSet tests whether the subset named by idx (indices into
// universe) intersects every conflict, early-exiting on the first miss.
func isHittingSet(universe []spectrum.ElementID, idx []int, conflicts []conflict.Conflict) bool {
	for _, c := range conflicts {
		hit := false
		for _, i := range idx {
			if c.Components[universe[i]] {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// nextCombination advances idx (a strictly increasing slice of indices
// into a universe of size n) to the next combination in lexicographic
// order. Returns false once all combinations have been visited.
func nextCombination(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}
