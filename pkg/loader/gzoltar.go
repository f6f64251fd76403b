package loader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// GZoltarLoader reads the original tool's own wire format: a directory
// containing spectra.csv (one element id per line, header "name"),
// tests.csv (one "name,outcome" pair per line, outcome in {PASS, FAIL}),
// and matrix.txt (one whitespace-separated 0/1 row per test, in the same
// order as tests.csv, each row's length equal to the element count).
type GZoltarLoader struct {
	Dir string
}

// NewGZoltarLoader returns a GZoltarLoader reading the trio of files
// from dir.
func NewGZoltarLoader(dir string) *GZoltarLoader {
	return &GZoltarLoader{Dir: dir}
}

// Load reads and validates the spectra.csv/tests.csv/matrix.txt trio.
func (l *GZoltarLoader) Load() (*spectrum.Spectrum, error) {
	elements, err := readSpectraCSV(filepath.Join(l.Dir, "spectra.csv"))
	if err != nil {
		return nil, err
	}
	names, outcomes, err := readTestsCSV(filepath.Join(l.Dir, "tests.csv"))
	if err != nil {
		return nil, err
	}
	rows, err := readMatrix(filepath.Join(l.Dir, "matrix.txt"))
	if err != nil {
		return nil, err
	}

	if len(rows) != len(names) {
		return nil, fmt.Errorf("matrix.txt has %d rows, tests.csv has %d tests", len(rows), len(names))
	}

	tests := make([]spectrum.TestCase, len(names))
	for i, name := range names {
		row := rows[i]
		if len(row) != len(elements) {
			return nil, fmt.Errorf("matrix.txt row %d has %d columns, want %d", i, len(row), len(elements))
		}
		trace := make(map[spectrum.ElementID]bool)
		for j, covered := range row {
			if covered {
				trace[elements[j]] = true
			}
		}
		tests[i] = spectrum.TestCase{Name: name, Failed: outcomes[i], Trace: trace}
	}

	s, err := spectrum.New(elements, tests)
	if err != nil {
		return nil, fmt.Errorf("invalid spectrum: %w", err)
	}
	return s, nil
}

func readSpectraCSV(path string) ([]spectrum.ElementID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spectra.csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse spectra.csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("spectra.csv must have a header and at least one element")
	}

	ids := make([]spectrum.ElementID, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		ids = append(ids, spectrum.ElementID(row[0]))
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("spectra.csv has no elements")
	}
	return ids, nil
}

func readTestsCSV(path string) (names []string, failed []bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open tests.csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse tests.csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("tests.csv must have a header and at least one test")
	}

	for i, row := range records[1:] {
		if len(row) < 2 {
			return nil, nil, fmt.Errorf("tests.csv row %d must have name and outcome columns", i)
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			return nil, nil, fmt.Errorf("tests.csv row %d has an empty name", i)
		}
		outcome := strings.ToUpper(strings.TrimSpace(row[1]))
		switch outcome {
		case "FAIL", "FAILED", "1":
			names = append(names, name)
			failed = append(failed, true)
		case "PASS", "PASSED", "0":
			names = append(names, name)
			failed = append(failed, false)
		default:
			return nil, nil, fmt.Errorf("tests.csv row %d has unrecognized outcome %q", i, row[1])
		}
	}
	return names, failed, nil
}

func readMatrix(path string) ([][]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open matrix.txt: %w", err)
	}
	defer f.Close()

	var rows [][]bool
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		row := make([]bool, len(fields))
		for i, field := range fields {
			row[i] = field == "1"
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read matrix.txt: %w", err)
	}
	return rows, nil
}
