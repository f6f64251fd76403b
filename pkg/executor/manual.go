package executor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/planner"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// ManualExecutor prompts an operator to run a test by hand and report
// the outcome, for use when no automated harness exists yet.
type ManualExecutor struct {
	in  *bufio.Reader
	out io.Writer
}

// NewManualExecutor builds a ManualExecutor prompting on in and writing
// prompts to out.
func NewManualExecutor(in io.Reader, out io.Writer) *ManualExecutor {
	return &ManualExecutor{in: bufio.NewReader(in), out: out}
}

// Execute prompts the operator for the test's pass/fail outcome and the
// elements it actually covered.
func (e *ManualExecutor) Execute(ctx context.Context, t planner.AvailableTest) (TestResult, error) {
	fmt.Fprintf(e.out, "\nRun test %q now. Did it pass? [y/n]: ", t.Name)
	verdict, err := e.readLine()
	if err != nil {
		return TestResult{}, fmt.Errorf("test %q: %w", t.Name, err)
	}
	verdict = strings.ToLower(strings.TrimSpace(verdict))
	if verdict != "y" && verdict != "n" {
		return TestResult{}, fmt.Errorf("test %q: unrecognized verdict %q (expected y or n)", t.Name, verdict)
	}

	fmt.Fprintf(e.out, "Elements covered (comma-separated, blank if none): ")
	traceLine, err := e.readLine()
	if err != nil {
		return TestResult{}, fmt.Errorf("test %q: %w", t.Name, err)
	}

	trace := make(map[spectrum.ElementID]bool)
	for _, id := range strings.Split(traceLine, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			trace[spectrum.ElementID(id)] = true
		}
	}

	return TestResult{Failed: verdict == "n", Trace: trace}, nil
}

func (e *ManualExecutor) readLine() (string, error) {
	line, err := e.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read operator input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
