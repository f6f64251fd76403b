// Package loader supplies the initial Spectrum a TDP session starts
// from. Two concrete adapters ship here, both built on the teacher's
// parser idiom (read file → unmarshal → validate required fields): a
// YAML SpectrumFile and a GZoltar CSV-trio reader.
package loader

import (
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// SpectraLoader supplies a Spectrum to start a TDP session from.
type SpectraLoader interface {
	Load() (*spectrum.Spectrum, error)
}
