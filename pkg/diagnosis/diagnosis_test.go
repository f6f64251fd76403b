package diagnosis_test

import (
	"math"
	"testing"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/conflict"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/diagnosis"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

func mustSpectrum(t *testing.T, ids []spectrum.ElementID, tests []spectrum.TestCase) *spectrum.Spectrum {
	t.Helper()
	s, err := spectrum.New(ids, tests)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func trace(ids ...spectrum.ElementID) map[spectrum.ElementID]bool {
	m := make(map[spectrum.ElementID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func isHittingSet(set map[spectrum.ElementID]bool, conflicts []conflict.Conflict) bool {
	for _, c := range conflicts {
		hit := false
		for id := range set {
			if c.Components[id] {
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

// Scenario B: two conflicts sharing element "a" — the only size-1 hitting
// set is {a}.
func TestEnumerateSharedElement(t *testing.T) {
	conflicts := []conflict.Conflict{
		{TestName: "t1", Components: trace("a", "b")},
		{TestName: "t2", Components: trace("a", "c")},
	}
	sets := diagnosis.Enumerate(diagnosis.DefaultEnumerateConfig(), conflicts)
	if len(sets) != 1 {
		t.Fatalf("Enumerate() returned %d sets, want 1", len(sets))
	}
	if !sets[0]["a"] || len(sets[0]) != 1 {
		t.Fatalf("Enumerate() = %v, want {a}", sets[0])
	}
}

// Scenario C: no single-element cover across disjoint conflicts; size-2
// enumeration should yield all four combinations.
func TestEnumerateDisjointConflicts(t *testing.T) {
	conflicts := []conflict.Conflict{
		{TestName: "t1", Components: trace("a", "b")},
		{TestName: "t2", Components: trace("c", "d")},
	}
	sets := diagnosis.Enumerate(diagnosis.DefaultEnumerateConfig(), conflicts)
	if len(sets) != 4 {
		t.Fatalf("Enumerate() returned %d sets, want 4", len(sets))
	}
	for _, set := range sets {
		if len(set) != 2 {
			t.Fatalf("set %v has size %d, want 2", set, len(set))
		}
		if !isHittingSet(set, conflicts) {
			t.Fatalf("set %v is not a hitting set", set)
		}
	}
}

func TestEnumerateFallbackWhenNoHittingSetWithinBound(t *testing.T) {
	conflicts := []conflict.Conflict{
		{TestName: "t1", Components: trace("a", "b", "c", "d")},
		{TestName: "t2", Components: trace("e", "f", "g", "h")},
	}
	cfg := diagnosis.EnumerateConfig{MaxSetSize: 1, MaxDiagnoses: 20}
	sets := diagnosis.Enumerate(cfg, conflicts)
	if len(sets) != 1 {
		t.Fatalf("Enumerate() returned %d sets, want 1 fallback", len(sets))
	}
	if len(sets[0]) != 8 {
		t.Fatalf("fallback set has %d components, want 8 (the full universe)", len(sets[0]))
	}
}

func TestEnumerateInvariantUnderConflictPermutation(t *testing.T) {
	forward := []conflict.Conflict{
		{TestName: "t1", Components: trace("a", "b")},
		{TestName: "t2", Components: trace("a", "c")},
		{TestName: "t3", Components: trace("b", "c")},
	}
	reversed := []conflict.Conflict{forward[2], forward[0], forward[1]}

	a := diagnosis.Enumerate(diagnosis.DefaultEnumerateConfig(), forward)
	b := diagnosis.Enumerate(diagnosis.DefaultEnumerateConfig(), reversed)

	if len(a) != len(b) {
		t.Fatalf("result size differs under permutation: %d vs %d", len(a), len(b))
	}
	for _, sa := range a {
		found := false
		for _, sb := range b {
			if diagnosis.Key(sa) == diagnosis.Key(sb) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("set %v from forward order missing from reversed order result", sa)
		}
	}
}

func TestEnumerateRespectsMaxDiagnoses(t *testing.T) {
	conflicts := []conflict.Conflict{
		{TestName: "t1", Components: trace("a", "b", "c", "d", "e")},
	}
	cfg := diagnosis.EnumerateConfig{MaxSetSize: 1, MaxDiagnoses: 2}
	sets := diagnosis.Enumerate(cfg, conflicts)
	if len(sets) != 2 {
		t.Fatalf("Enumerate() returned %d sets, want 2 (N cap)", len(sets))
	}
}

func TestAssignNormalizesToOne(t *testing.T) {
	s := mustSpectrum(t, []spectrum.ElementID{"a", "b", "c"}, []spectrum.TestCase{
		{Name: "t1", Failed: true, Trace: trace("a")},
		{Name: "t2", Failed: true, Trace: trace("a", "b")},
		{Name: "t3", Failed: false, Trace: trace("c")},
	})
	sets := []map[spectrum.ElementID]bool{trace("a"), trace("b"), trace("a", "b")}
	diagnoses := diagnosis.Assign(diagnosis.DefaultAssignConfig(), s, sets)

	var total float64
	for _, d := range diagnoses {
		if d.Probability < 0 {
			t.Fatalf("negative probability: %v", d.Probability)
		}
		total += d.Probability
	}
	if math.Abs(total-1) > 1e-9 {
		t.Fatalf("probabilities sum to %v, want 1", total)
	}
}

func TestAssignUniformWhenAllZero(t *testing.T) {
	s := mustSpectrum(t, []spectrum.ElementID{"a", "b"}, []spectrum.TestCase{
		{Name: "t1", Failed: false, Trace: trace("a", "b")},
	})
	sets := []map[spectrum.ElementID]bool{trace("a"), trace("b")}
	diagnoses := diagnosis.Assign(diagnosis.DefaultAssignConfig(), s, sets)
	for _, d := range diagnoses {
		if math.Abs(d.Probability-0.5) > 1e-12 {
			t.Fatalf("probability = %v, want 0.5 (uniform fallback)", d.Probability)
		}
	}
}

// Scenario A: one failed test covering {a} only — the sole diagnosis gets
// probability 1.
func TestAssignSingleDiagnosisGetsFullProbability(t *testing.T) {
	s := mustSpectrum(t, []spectrum.ElementID{"a", "b", "c"}, []spectrum.TestCase{
		{Name: "t1", Failed: true, Trace: trace("a")},
	})
	conflicts := conflict.Extract(s)
	sets := diagnosis.Enumerate(diagnosis.DefaultEnumerateConfig(), conflicts)
	diagnoses := diagnosis.Assign(diagnosis.DefaultAssignConfig(), s, sets)

	if len(diagnoses) != 1 {
		t.Fatalf("got %d diagnoses, want 1", len(diagnoses))
	}
	if math.Abs(diagnoses[0].Probability-1) > 1e-12 {
		t.Fatalf("probability = %v, want 1", diagnoses[0].Probability)
	}
}

func TestAssignStableUnderRemovingZeroWeightDiagnosis(t *testing.T) {
	s := mustSpectrum(t, []spectrum.ElementID{"a", "b"}, []spectrum.TestCase{
		{Name: "t1", Failed: true, Trace: trace("a")},
	})
	withZero := []map[spectrum.ElementID]bool{trace("a"), trace("b")}
	withoutZero := []map[spectrum.ElementID]bool{trace("a")}

	dWith := diagnosis.Assign(diagnosis.DefaultAssignConfig(), s, withZero)
	dWithout := diagnosis.Assign(diagnosis.DefaultAssignConfig(), s, withoutZero)

	if math.Abs(dWith[0].Probability-dWithout[0].Probability) > 1e-9 {
		t.Fatalf("probability of {a} changed after removing zero-weight diagnosis: %v vs %v",
			dWith[0].Probability, dWithout[0].Probability)
	}
}

func TestFallbackUniformOverTopK(t *testing.T) {
	s := mustSpectrum(t, []spectrum.ElementID{"a", "b", "c"}, []spectrum.TestCase{
		{Name: "t1", Failed: true, Trace: trace("a", "b", "c")},
	})
	diagnoses := diagnosis.Fallback("barinel", s, []spectrum.ElementID{"a", "b", "c"}, 2)
	if len(diagnoses) != 2 {
		t.Fatalf("Fallback() returned %d diagnoses, want 2", len(diagnoses))
	}
	for _, d := range diagnoses {
		if d.Size() != 1 {
			t.Fatalf("fallback diagnosis has size %d, want 1 (singleton)", d.Size())
		}
		if math.Abs(d.Probability-0.5) > 1e-12 {
			t.Fatalf("fallback probability = %v, want 0.5", d.Probability)
		}
	}
}
