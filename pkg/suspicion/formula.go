// Package suspicion implements the spectrum-based suspiciousness formulas
// the probability assigner scores elements with. Each formula is a pure,
// total function over a 2x2 covered/failed counter.
package suspicion

import (
	"fmt"
	"math"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// Formula names a suspiciousness computation recognized by the engine.
type Formula string

const (
	Ochiai    Formula = "ochiai"
	Tarantula Formula = "tarantula"
	Barinel   Formula = "barinel"
)

// Score evaluates the named formula over counter c, coercing any NaN result
// to 0. An unrecognized formula name falls back to Barinel (the engine's
// default) rather than erroring.
func Score(f Formula, c spectrum.Counter) float64 {
	var v float64
	switch f {
	case Ochiai:
		v = ochiai(c)
	case Tarantula:
		v = tarantula(c)
	default:
		v = barinel(c)
	}
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Valid reports whether name is a recognized formula.
func Valid(name string) bool {
	switch Formula(name) {
	case Ochiai, Tarantula, Barinel:
		return true
	default:
		return false
	}
}

// Parse validates and converts a configuration string into a Formula.
func Parse(name string) (Formula, error) {
	if !Valid(name) {
		return "", fmt.Errorf("suspicion: unknown formula %q", name)
	}
	return Formula(name), nil
}

func ochiai(c spectrum.Counter) float64 {
	ef, nf, ep := float64(c.EF), float64(c.NF), float64(c.EP)
	denom := math.Sqrt((ef + nf) * (ef + ep))
	if denom == 0 {
		return 0
	}
	return ef / denom
}

func tarantula(c spectrum.Counter) float64 {
	ef, nf, ep, np := float64(c.EF), float64(c.NF), float64(c.EP), float64(c.NP)

	var failRatio, passRatio float64
	if ef+nf > 0 {
		failRatio = ef / (ef + nf)
	}
	if ep+np > 0 {
		passRatio = ep / (ep + np)
	}

	denom := failRatio + passRatio
	if denom == 0 {
		return 0
	}
	return failRatio / denom
}

func barinel(c spectrum.Counter) float64 {
	ef, ep := float64(c.EF), float64(c.EP)
	if ef+ep == 0 {
		return 0
	}
	return 1 - ep/(ep+ef)
}
