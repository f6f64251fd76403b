package executor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/planner"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// ProcessExecutor runs a test as a subprocess (`go test -run <name>`), the
// way the teacher's process.PriorityWrapper shells a command into a
// target and inspects the result — generalized from renice-via-exec to
// test-via-exec.
//
// The instrumented test binary is expected to write the elements it
// covered, one ElementID per line, to TraceDir/<test name>.trace; a
// missing trace file is a recoverable error, not a panic.
type ProcessExecutor struct {
	Dir      string // working directory `go test` runs in
	TraceDir string // directory the instrumented binary writes trace files to
}

// NewProcessExecutor returns a ProcessExecutor rooted at dir, reading
// trace files from traceDir.
func NewProcessExecutor(dir, traceDir string) *ProcessExecutor {
	return &ProcessExecutor{Dir: dir, TraceDir: traceDir}
}

// Execute runs `go test -run ^<name>$` in e.Dir and reads back the trace
// file the instrumented binary wrote for this test.
func (e *ProcessExecutor) Execute(ctx context.Context, t planner.AvailableTest) (TestResult, error) {
	pattern := fmt.Sprintf("^%s$", t.Name)
	cmd := exec.CommandContext(ctx, "go", "test", "-run", pattern, "./...")
	cmd.Dir = e.Dir

	runErr := cmd.Run()

	trace, err := readTraceFile(filepath.Join(e.TraceDir, t.Name+".trace"))
	if err != nil {
		return TestResult{}, fmt.Errorf("test %q: %w", t.Name, err)
	}

	var exitErr *exec.ExitError
	failed := false
	if runErr != nil {
		if isExitError(runErr, &exitErr) {
			failed = true
		} else {
			return TestResult{}, fmt.Errorf("test %q: failed to run: %w", t.Name, runErr)
		}
	}

	return TestResult{Failed: failed, Trace: trace}, nil
}

func isExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}

func readTraceFile(path string) (map[spectrum.ElementID]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}
	defer f.Close()

	trace := make(map[spectrum.ElementID]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		trace[spectrum.ElementID(line)] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan trace file: %w", err)
	}
	return trace, nil
}
