package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// SpectrumFile is the YAML shape a spectrum is declared in:
//
//	elements: ["a", "b", "c"]
//	tests:
//	  - name: t1
//	    failed: true
//	    trace: ["a", "b"]
type SpectrumFile struct {
	Elements []string        `yaml:"elements"`
	Tests    []testCaseEntry `yaml:"tests"`
}

type testCaseEntry struct {
	Name   string   `yaml:"name"`
	Failed bool     `yaml:"failed"`
	Trace  []string `yaml:"trace"`
}

// YAMLLoader loads a Spectrum from a SpectrumFile on disk.
type YAMLLoader struct {
	Path string
}

// NewYAMLLoader returns a YAMLLoader reading from path.
func NewYAMLLoader(path string) *YAMLLoader {
	return &YAMLLoader{Path: path}
}

// Load reads, unmarshals, and validates the file at l.Path.
func (l *YAMLLoader) Load() (*spectrum.Spectrum, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spectrum file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML builds a Spectrum directly from YAML bytes, for callers that
// already have the content in memory (e.g. tests, embedded fixtures).
func ParseYAML(data []byte) (*spectrum.Spectrum, error) {
	var f SpectrumFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse spectrum YAML: %w", err)
	}
	return buildSpectrum(f)
}

func (f SpectrumFile) validate() error {
	if len(f.Elements) == 0 {
		return fmt.Errorf("elements is required and must have at least one entry")
	}
	if len(f.Tests) == 0 {
		return fmt.Errorf("tests is required and must have at least one entry")
	}
	for i, t := range f.Tests {
		if t.Name == "" {
			return fmt.Errorf("tests[%d].name is required", i)
		}
	}
	return nil
}

func buildSpectrum(f SpectrumFile) (*spectrum.Spectrum, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	ids := make([]spectrum.ElementID, len(f.Elements))
	for i, e := range f.Elements {
		ids[i] = spectrum.ElementID(e)
	}

	tests := make([]spectrum.TestCase, len(f.Tests))
	for i, t := range f.Tests {
		trace := make(map[spectrum.ElementID]bool, len(t.Trace))
		for _, id := range t.Trace {
			trace[spectrum.ElementID(id)] = true
		}
		tests[i] = spectrum.TestCase{Name: t.Name, Failed: t.Failed, Trace: trace}
	}

	s, err := spectrum.New(ids, tests)
	if err != nil {
		return nil, fmt.Errorf("invalid spectrum: %w", err)
	}
	return s, nil
}
