package suspicion_test

import (
	"math"
	"testing"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/suspicion"
)

func TestScoreZeroDenominators(t *testing.T) {
	cases := []struct {
		name    string
		formula suspicion.Formula
		counter spectrum.Counter
	}{
		{"ochiai all zero", suspicion.Ochiai, spectrum.Counter{}},
		{"tarantula all zero", suspicion.Tarantula, spectrum.Counter{}},
		{"barinel ef+ep zero", suspicion.Barinel, spectrum.Counter{NF: 3, NP: 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := suspicion.Score(tc.formula, tc.counter)
			if got != 0 {
				t.Fatalf("Score(%s) = %v, want 0", tc.formula, got)
			}
			if math.IsNaN(got) {
				t.Fatalf("Score(%s) is NaN", tc.formula)
			}
		})
	}
}

func TestOchiaiKnownValue(t *testing.T) {
	c := spectrum.Counter{EF: 2, NF: 2, EP: 2, NP: 0}
	got := suspicion.Score(suspicion.Ochiai, c)
	want := 2.0 / math.Sqrt(4*4)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("Ochiai = %v, want %v", got, want)
	}
}

func TestTarantulaKnownValue(t *testing.T) {
	c := spectrum.Counter{EF: 1, NF: 1, EP: 1, NP: 3}
	got := suspicion.Score(suspicion.Tarantula, c)
	failRatio := 0.5
	passRatio := 0.25
	want := failRatio / (failRatio + passRatio)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("Tarantula = %v, want %v", got, want)
	}
}

func TestBarinelKnownValue(t *testing.T) {
	c := spectrum.Counter{EF: 3, EP: 1}
	got := suspicion.Score(suspicion.Barinel, c)
	want := 1 - 1.0/4.0
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("Barinel = %v, want %v", got, want)
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	if _, err := suspicion.Parse("jaccard"); err == nil {
		t.Fatal("expected error for unknown formula name")
	}
	if _, err := suspicion.Parse("ochiai"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
