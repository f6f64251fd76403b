package executor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/planner"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// DockerExecutor runs a test inside a long-lived container via the
// Docker exec API, the way the teacher's discovery/docker.Client runs
// arbitrary commands inside a target container for fault injection and
// verification.
type DockerExecutor struct {
	client      *client.Client
	containerID string
	testCommand []string // e.g. []string{"go", "test", "-run"} — test name is appended
}

// NewDockerExecutor returns a DockerExecutor that execs testCommand plus
// the test's name inside containerID.
func NewDockerExecutor(cli *client.Client, containerID string, testCommand []string) *DockerExecutor {
	return &DockerExecutor{client: cli, containerID: containerID, testCommand: testCommand}
}

// Execute runs the test inside the container and parses its stdout for
// trace lines prefixed "TRACE: " — one element id per such line — and a
// final line "RESULT: PASS" or "RESULT: FAIL".
func (e *DockerExecutor) Execute(ctx context.Context, t planner.AvailableTest) (TestResult, error) {
	cmd := append(append([]string{}, e.testCommand...), t.Name)

	execID, err := e.client.ContainerExecCreate(ctx, e.containerID, dockertypes.ExecConfig{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return TestResult{}, fmt.Errorf("test %q: failed to create exec: %w", t.Name, err)
	}

	resp, err := e.client.ContainerExecAttach(ctx, execID.ID, dockertypes.ExecStartCheck{})
	if err != nil {
		return TestResult{}, fmt.Errorf("test %q: failed to attach to exec: %w", t.Name, err)
	}
	defer resp.Close()

	// The attach stream multiplexes stdout and stderr behind frame headers;
	// split them so only stdout is parsed.
	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, resp.Reader); err != nil {
		return TestResult{}, fmt.Errorf("test %q: failed to read exec output: %w", t.Name, err)
	}

	inspect, err := e.client.ContainerExecInspect(ctx, execID.ID)
	if err != nil {
		return TestResult{}, fmt.Errorf("test %q: failed to inspect exec: %w", t.Name, err)
	}
	if inspect.ExitCode != 0 && inspect.ExitCode != 1 {
		return TestResult{}, fmt.Errorf("test %q: exec exited %d: %s%s", t.Name, inspect.ExitCode, stdout.String(), stderr.String())
	}

	return parseDockerOutput(stdout.String())
}

func parseDockerOutput(output string) (TestResult, error) {
	trace := make(map[spectrum.ElementID]bool)
	failed := false
	sawResult := false

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "TRACE: "):
			id := strings.TrimPrefix(line, "TRACE: ")
			if id != "" {
				trace[spectrum.ElementID(id)] = true
			}
		case strings.HasPrefix(line, "RESULT: "):
			sawResult = true
			failed = strings.TrimPrefix(line, "RESULT: ") == "FAIL"
		}
	}
	if err := scanner.Err(); err != nil {
		return TestResult{}, fmt.Errorf("failed to scan exec output: %w", err)
	}
	if !sawResult {
		return TestResult{}, fmt.Errorf("exec output carried no RESULT line")
	}

	return TestResult{Failed: failed, Trace: trace}, nil
}
