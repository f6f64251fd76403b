// Package executor runs AvailableTests and reports the actual coverage
// trace each one produced. Three adapters ship here, unified behind one
// Dispatcher the way the teacher's injection.Injector unifies its fault
// kinds behind one InjectFault entry point.
package executor

import (
	"context"
	"fmt"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/planner"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
)

// TestResult is what running an AvailableTest produced: whether it
// failed, and the actual trace observed — which need not match the
// test's estimated trace.
type TestResult struct {
	Failed bool
	Trace  map[spectrum.ElementID]bool
}

// TestExecutor runs a single AvailableTest and reports its outcome. A
// TestExecutor error on a single test is recoverable: the controller
// removes the test from the pool and continues without applying a state
// update.
type TestExecutor interface {
	Execute(ctx context.Context, t planner.AvailableTest) (TestResult, error)
}

// Kind names a TestExecutor adapter, as selected by config.ExecutorConfig.Kind.
type Kind string

const (
	KindProcess Kind = "process"
	KindDocker  Kind = "docker"
	KindManual  Kind = "manual"
)

// Dispatcher selects among the three concrete TestExecutor adapters by
// configured kind, the way the teacher's Injector switches on fault type.
type Dispatcher struct {
	executors map[Kind]TestExecutor
}

// NewDispatcher builds a Dispatcher over the given executors, keyed by kind.
func NewDispatcher(executors map[Kind]TestExecutor) *Dispatcher {
	return &Dispatcher{executors: executors}
}

// Execute runs t using the executor registered for kind.
func (d *Dispatcher) Execute(ctx context.Context, kind Kind, t planner.AvailableTest) (TestResult, error) {
	e, ok := d.executors[kind]
	if !ok {
		return TestResult{}, fmt.Errorf("no executor registered for kind %q", kind)
	}
	return e.Execute(ctx, t)
}
