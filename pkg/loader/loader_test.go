package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/loader"
)

func TestParseYAMLBuildsSpectrum(t *testing.T) {
	data := []byte(`
elements: ["a", "b", "c"]
tests:
  - name: t1
    failed: true
    trace: ["a", "b"]
  - name: t2
    failed: false
    trace: ["c"]
`)
	s, err := loader.ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if len(s.Tests()) != 2 {
		t.Fatalf("got %d tests, want 2", len(s.Tests()))
	}
	if !s.Has("a") || !s.Has("b") || !s.Has("c") {
		t.Fatal("spectrum missing declared elements")
	}
}

func TestParseYAMLRejectsMissingElements(t *testing.T) {
	_, err := loader.ParseYAML([]byte(`tests: [{name: t1, failed: true, trace: []}]`))
	if err == nil {
		t.Fatal("ParseYAML() = nil error, want error for missing elements")
	}
}

func TestParseYAMLRejectsMissingTests(t *testing.T) {
	_, err := loader.ParseYAML([]byte(`elements: ["a"]`))
	if err == nil {
		t.Fatal("ParseYAML() = nil error, want error for missing tests")
	}
}

func TestYAMLLoaderReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spectrum.yaml")
	content := "elements: [\"a\"]\ntests:\n  - name: t1\n    failed: true\n    trace: [\"a\"]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := loader.NewYAMLLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Tests()) != 1 {
		t.Fatalf("got %d tests, want 1", len(s.Tests()))
	}
}

func TestGZoltarLoaderReadsTrio(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spectra.csv", "name\na\nb\nc\n")
	writeFile(t, dir, "tests.csv", "name,outcome\nt1,FAIL\nt2,PASS\n")
	writeFile(t, dir, "matrix.txt", "1 1 0\n0 0 1\n")

	s, err := loader.NewGZoltarLoader(dir).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Tests()) != 2 {
		t.Fatalf("got %d tests, want 2", len(s.Tests()))
	}
	failed := s.FailedTests()
	if len(failed) != 1 || failed[0].Name != "t1" {
		t.Fatalf("unexpected failed tests: %+v", failed)
	}
	if !failed[0].Covers("a") || !failed[0].Covers("b") || failed[0].Covers("c") {
		t.Fatalf("unexpected trace for t1: %+v", failed[0].Trace)
	}
}

func TestGZoltarLoaderRejectsMismatchedRowCount(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spectra.csv", "name\na\nb\n")
	writeFile(t, dir, "tests.csv", "name,outcome\nt1,FAIL\nt2,PASS\n")
	writeFile(t, dir, "matrix.txt", "1 1\n")

	_, err := loader.NewGZoltarLoader(dir).Load()
	if err == nil {
		t.Fatal("Load() = nil error, want mismatch error")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
