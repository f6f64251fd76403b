package spectrum_test

import (
	"testing"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

func trace(ids ...spectrum.ElementID) map[spectrum.ElementID]bool {
	m := make(map[spectrum.ElementID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func TestNewRejectsEmptyTests(t *testing.T) {
	_, err := spectrum.New([]spectrum.ElementID{"a"}, nil)
	if err == nil {
		t.Fatal("expected error for zero tests")
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	tests := []spectrum.TestCase{{Name: "t1", Failed: true, Trace: trace("a")}}
	_, err := spectrum.New([]spectrum.ElementID{"a", "a"}, tests)
	if err == nil {
		t.Fatal("expected error for duplicate element id")
	}
}

func TestNewRejectsUnknownElementInTrace(t *testing.T) {
	tests := []spectrum.TestCase{{Name: "t1", Failed: true, Trace: trace("z")}}
	_, err := spectrum.New([]spectrum.ElementID{"a"}, tests)
	if err == nil {
		t.Fatal("expected error for trace referencing unknown element")
	}
}

func TestCountersFromSingleFailingTest(t *testing.T) {
	ids := []spectrum.ElementID{"a", "b", "c"}
	tests := []spectrum.TestCase{
		{Name: "t1", Failed: true, Trace: trace("a")},
	}
	s, err := spectrum.New(ids, tests)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := s.Element("a")
	if a.Counter.EF != 1 || a.Counter.EP != 0 || a.Counter.NF != 0 || a.Counter.NP != 0 {
		t.Fatalf("unexpected counter for a: %+v", a.Counter)
	}

	b, _ := s.Element("b")
	if b.Counter.EF != 0 || b.Counter.NF != 1 {
		t.Fatalf("unexpected counter for b: %+v", b.Counter)
	}
}

func TestAddTestRecomputesCounters(t *testing.T) {
	ids := []spectrum.ElementID{"a", "b"}
	tests := []spectrum.TestCase{
		{Name: "t1", Failed: true, Trace: trace("a")},
	}
	s, err := spectrum.New(ids, tests)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.AddTest(spectrum.TestCase{Name: "t2", Failed: false, Trace: trace("a", "b")}); err != nil {
		t.Fatal(err)
	}

	a, _ := s.Element("a")
	if a.Counter.EF != 1 || a.Counter.EP != 1 {
		t.Fatalf("unexpected counter for a after update: %+v", a.Counter)
	}
	b, _ := s.Element("b")
	if b.Counter.EP != 1 || b.Counter.NF != 1 {
		t.Fatalf("unexpected counter for b after update: %+v", b.Counter)
	}
}

func TestAddTestRejectsUnknownElement(t *testing.T) {
	s, err := spectrum.New([]spectrum.ElementID{"a"}, []spectrum.TestCase{
		{Name: "t1", Failed: true, Trace: trace("a")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddTest(spectrum.TestCase{Name: "t2", Failed: true, Trace: trace("z")}); err == nil {
		t.Fatal("expected error for unknown element in new test")
	}
}

func TestSortedIDsDeterministic(t *testing.T) {
	got := spectrum.SortedIDs([]spectrum.ElementID{"c", "a", "b"})
	want := []spectrum.ElementID{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedIDs() = %v, want %v", got, want)
		}
	}
}
