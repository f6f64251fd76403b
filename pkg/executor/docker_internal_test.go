package executor

import (
	"testing"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

func TestParseDockerOutputExtractsTraceAndResult(t *testing.T) {
	output := "some log line\nTRACE: a\nTRACE: b\nRESULT: FAIL\n"
	got, err := parseDockerOutput(output)
	if err != nil {
		t.Fatalf("parseDockerOutput() error = %v", err)
	}
	if !got.Failed {
		t.Fatal("Failed = false, want true")
	}
	if !got.Trace[spectrum.ElementID("a")] || !got.Trace[spectrum.ElementID("b")] {
		t.Fatalf("Trace = %+v, want a and b", got.Trace)
	}
}

func TestParseDockerOutputPassResult(t *testing.T) {
	got, err := parseDockerOutput("RESULT: PASS\n")
	if err != nil {
		t.Fatalf("parseDockerOutput() error = %v", err)
	}
	if got.Failed {
		t.Fatal("Failed = true, want false")
	}
}

func TestParseDockerOutputRequiresResultLine(t *testing.T) {
	if _, err := parseDockerOutput("TRACE: a\n"); err == nil {
		t.Fatal("parseDockerOutput() = nil error, want error when RESULT line missing")
	}
}
