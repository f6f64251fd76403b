package candidates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/planner"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// CandidateFile is the YAML shape a static candidate pool is declared in:
//
//	candidates:
//	  - name: t3
//	    trace: ["a", "c"]
type CandidateFile struct {
	Candidates []candidateEntry `yaml:"candidates"`
}

type candidateEntry struct {
	Name  string   `yaml:"name"`
	Trace []string `yaml:"trace"`
}

// StaticSource declares its pool once, up front, rather than discovering
// it live — there is no SFL concept of a running service to query.
type StaticSource struct {
	tests []planner.AvailableTest
}

// NewStaticSource wraps an already-built list of candidate tests.
func NewStaticSource(tests []planner.AvailableTest) *StaticSource {
	return &StaticSource{tests: tests}
}

// LoadStaticSource reads a CandidateFile from path.
func LoadStaticSource(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate file: %w", err)
	}

	var f CandidateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse candidate file: %w", err)
	}
	if len(f.Candidates) == 0 {
		return nil, fmt.Errorf("candidates is required and must have at least one entry")
	}

	tests := make([]planner.AvailableTest, 0, len(f.Candidates))
	for i, c := range f.Candidates {
		if c.Name == "" {
			return nil, fmt.Errorf("candidates[%d].name is required", i)
		}
		trace := make(map[spectrum.ElementID]bool, len(c.Trace))
		for _, id := range c.Trace {
			trace[spectrum.ElementID(id)] = true
		}
		tests = append(tests, planner.AvailableTest{Name: c.Name, Trace: trace})
	}
	return &StaticSource{tests: tests}, nil
}

// Candidates returns every declared test whose trace elements all exist
// in the spectrum's element universe, skipping the rest rather than
// failing the whole pool.
func (s *StaticSource) Candidates(spec *spectrum.Spectrum) ([]planner.AvailableTest, error) {
	out := make([]planner.AvailableTest, 0, len(s.tests))
	for _, t := range s.tests {
		valid := true
		for id := range t.Trace {
			if !spec.Has(id) {
				valid = false
				break
			}
		}
		if valid {
			out = append(out, t)
		}
	}
	return out, nil
}
