package conflict_test

import (
	"testing"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/conflict"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

func trace(ids ...spectrum.ElementID) map[spectrum.ElementID]bool {
	m := make(map[spectrum.ElementID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func TestExtractSkipsPassingAndEmptyTraces(t *testing.T) {
	s, err := spectrum.New([]spectrum.ElementID{"a", "b"}, []spectrum.TestCase{
		{Name: "fail-empty", Failed: true, Trace: nil},
		{Name: "fail-a", Failed: true, Trace: trace("a")},
		{Name: "pass-b", Failed: false, Trace: trace("b")},
	})
	if err != nil {
		t.Fatal(err)
	}

	conflicts := conflict.Extract(s)
	if len(conflicts) != 1 {
		t.Fatalf("Extract() returned %d conflicts, want 1", len(conflicts))
	}
	if conflicts[0].TestName != "fail-a" {
		t.Fatalf("unexpected conflict test name %q", conflicts[0].TestName)
	}
}

func TestRelevantExcludesConstructor(t *testing.T) {
	cfg := conflict.DefaultFilterConfig()
	c := spectrum.Counter{EF: 1, NF: 1}
	if conflict.Relevant(cfg, "pkg.Foo#<init>", c) {
		t.Fatal("expected constructor-like id to be excluded")
	}
}

func TestRelevantExcludesUniversalCoverage(t *testing.T) {
	cfg := conflict.DefaultFilterConfig()
	c := spectrum.Counter{EF: 9, EP: 0, NF: 1, NP: 0}
	if conflict.Relevant(cfg, "pkg.Foo#bar()", c) {
		t.Fatal("expected universally-covered id to be excluded")
	}
}

func TestRelevantExcludesZeroIncrimination(t *testing.T) {
	cfg := conflict.DefaultFilterConfig()
	c := spectrum.Counter{EF: 0, EP: 1, NF: 1, NP: 1}
	if conflict.Relevant(cfg, "pkg.Foo#bar()", c) {
		t.Fatal("expected ef=0 id to be excluded")
	}
}

func TestRelevantExcludesBlocklisted(t *testing.T) {
	cfg := conflict.DefaultFilterConfig()
	cfg.FrameworkBlocklist = []string{"junit.framework"}
	c := spectrum.Counter{EF: 1, NF: 1}
	if conflict.Relevant(cfg, "junit.framework.TestCase#run()", c) {
		t.Fatal("expected blocklisted id to be excluded")
	}
}

func TestRelevantKeepsSuspiciousElement(t *testing.T) {
	cfg := conflict.DefaultFilterConfig()
	c := spectrum.Counter{EF: 1, EP: 0, NF: 0, NP: 1}
	if !conflict.Relevant(cfg, "pkg.Foo#bar()", c) {
		t.Fatal("expected relevant element to survive the filter")
	}
}

func TestFilterDropsConflictWhenAllComponentsExcluded(t *testing.T) {
	s, err := spectrum.New([]spectrum.ElementID{"pkg.Foo#<init>"}, []spectrum.TestCase{
		{Name: "fail-a", Failed: true, Trace: trace("pkg.Foo#<init>")},
	})
	if err != nil {
		t.Fatal(err)
	}
	conflicts := conflict.Extract(s)
	filtered := conflict.Filter(conflict.DefaultFilterConfig(), s, conflicts)
	if len(filtered) != 0 {
		t.Fatalf("Filter() returned %d conflicts, want 0", len(filtered))
	}
}
