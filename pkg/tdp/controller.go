// Package tdp implements the Test, Diagnose, Plan controller (C8): the
// state machine that drives Diagnosing, Planning, Executing, and Updating
// to a termination predicate, coordinating every other package. It is
// grounded on the teacher's core/orchestrator.Orchestrator — the same
// single-struct, explicit-state-transition shape, generalized from a
// chaos test's fixed pipeline to a loop that repeats until the
// diagnosis distribution collapses.
package tdp

import (
	"context"
	"fmt"
	"time"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/candidates"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/cancel"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/conflict"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/config"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/diagnosis"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/executor"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/metrics"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/planner"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/reporting"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/suspicion"
)

// ExecutedTest records one test the controller ran during Run, in order,
// independent of any reporting package type so tdp carries no dependency
// beyond reporting.Logger.
type ExecutedTest struct {
	Name      string
	Failed    bool
	Trace     []spectrum.ElementID
	Timestamp time.Time
}

// Result is the outcome of a Run: the state the controller stopped in,
// why, the final diagnosis distribution, and every test executed along
// the way.
type Result struct {
	State        State
	Reason       TerminationReason
	Iterations   int
	Distribution []diagnosis.Diagnosis
	Entropy      float64
	Executed     []ExecutedTest
}

// Top returns the result's highest-probability diagnosis. Callers must
// check len(Distribution) > 0 first; Top panics on an empty result the
// way an empty-slice index panics, since ReasonNoFailure results carry no
// diagnoses at all.
func (r Result) Top() diagnosis.Diagnosis {
	best := r.Distribution[0]
	for _, d := range r.Distribution[1:] {
		if d.Probability > best.Probability {
			best = d
		}
	}
	return best
}

// Controller runs one TDP session over a single Spectrum, coordinating
// conflict extraction (C3/C4), hitting-set enumeration and probability
// assignment (C5/C6), entropy-based planning (C7), and test execution,
// until the termination predicate holds or cancellation is observed.
type Controller struct {
	cfg        *config.Config
	spectrum   *spectrum.Spectrum
	dispatcher *executor.Dispatcher
	execKind   executor.Kind
	source     candidates.CandidateTestSource
	rec        *metrics.Recorder
	cancelCtrl *cancel.Controller
	logger     *reporting.Logger

	state     State
	iteration int
	executed  map[string]bool
	history   []ExecutedTest
}

// New builds a Controller. rec and cancelCtrl may be nil: metrics and
// cooperative cancellation are both optional.
func New(
	cfg *config.Config,
	spec *spectrum.Spectrum,
	dispatcher *executor.Dispatcher,
	source candidates.CandidateTestSource,
	rec *metrics.Recorder,
	cancelCtrl *cancel.Controller,
	logger *reporting.Logger,
) *Controller {
	if logger == nil {
		logger = reporting.NewLogger(reporting.LoggerConfig{})
	}
	return &Controller{
		cfg:        cfg,
		spectrum:   spec,
		dispatcher: dispatcher,
		execKind:   executor.Kind(cfg.Executor.Kind),
		source:     source,
		rec:        rec,
		cancelCtrl: cancelCtrl,
		logger:     logger,
		state:      StateInitializing,
		executed:   make(map[string]bool),
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	return c.state
}

// Run drives the loop to a terminal state: Diagnosing produces a fresh
// distribution from the current spectrum every iteration (the Updating
// step folds the actual test result into the spectrum rather than
// Bayesian-patching the prior distribution in place — see §4.6/§4.7 of
// the specification this implements).
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	c.state = StateInitializing
	c.logger.Info("tdp session starting", "max_iterations", c.cfg.Loop.MaxIterations)

	for {
		if err := c.checkCancelled(ctx); err != nil {
			return nil, err
		}

		c.state = StateDiagnosing
		dist, err := c.diagnose()
		if err != nil {
			return nil, fmt.Errorf("tdp: diagnosing: %w", err)
		}
		if len(dist) == 0 {
			return c.terminate(ReasonNoFailure, dist), nil
		}

		entropy := planner.Entropy(dist)
		top := topProbability(dist)
		if c.rec != nil {
			c.rec.RecordIteration(entropy, top, len(dist))
		}
		c.logger.Info("diagnosis updated",
			"iteration", c.iteration, "diagnoses", len(dist), "entropy", entropy, "top_probability", top)

		if len(dist) == 1 || top > c.cfg.Loop.SolvedProbability {
			return c.terminate(ReasonSolved, dist), nil
		}
		if c.iteration >= c.cfg.Loop.MaxIterations {
			return c.terminate(ReasonExhausted, dist), nil
		}

		c.state = StatePlanning
		pool, err := c.availableTests()
		if err != nil {
			return nil, fmt.Errorf("tdp: listing candidates: %w", err)
		}

		test, result, ok, err := c.planAndExecute(ctx, dist, pool)
		if err != nil {
			return nil, err
		}
		if !ok {
			return c.terminate(ReasonExhausted, dist), nil
		}

		c.state = StateUpdating
		if err := c.spectrum.AddTest(spectrum.TestCase{
			Name:   test.Name,
			Failed: result.Failed,
			Trace:  result.Trace,
		}); err != nil {
			return nil, fmt.Errorf("tdp: updating spectrum: %w", err)
		}
		c.executed[test.Name] = true
		c.history = append(c.history, ExecutedTest{
			Name:      test.Name,
			Failed:    result.Failed,
			Trace:     spectrum.SortedIDs(keysOf(result.Trace)),
			Timestamp: time.Now(),
		})
		c.iteration++
		c.logger.Info("executed test", "name", test.Name, "failed", result.Failed)
	}
}

// planAndExecute repeatedly selects the best remaining candidate under
// dist and executes it, dropping any test whose TestExecutor call failed
// and retrying with the next best — without re-diagnosing, since the
// spectrum has not changed. ok is false once the pool is exhausted with
// no successful execution.
func (c *Controller) planAndExecute(
	ctx context.Context,
	dist []diagnosis.Diagnosis,
	pool []planner.AvailableTest,
) (planner.AvailableTest, executor.TestResult, bool, error) {
	for {
		test, ok := planner.SelectNext(dist, pool, c.cfg.Planner.MinWeight)
		if !ok {
			return planner.AvailableTest{}, executor.TestResult{}, false, nil
		}
		if c.rec != nil {
			c.rec.RecordSelection(planner.InformationGain(dist, test.Trace, c.cfg.Planner.MinWeight))
		}

		if err := c.checkCancelled(ctx); err != nil {
			return planner.AvailableTest{}, executor.TestResult{}, false, err
		}

		c.state = StateExecuting
		result, err := c.dispatcher.Execute(ctx, c.execKind, test)
		if err != nil {
			c.logger.Warn("test executor failed, dropping candidate", "name", test.Name, "error", err.Error())
			if c.rec != nil {
				c.rec.RecordExecutorFailure(string(c.execKind))
			}
			pool = removeByName(pool, test.Name)
			continue
		}
		if c.rec != nil {
			c.rec.RecordTestExecuted()
		}
		return test, result, true, nil
	}
}

// diagnose runs conflict extraction, the relevance filter, hitting-set
// enumeration, and probability assignment over the current spectrum,
// returning nil when there are no failed tests to localize.
func (c *Controller) diagnose() ([]diagnosis.Diagnosis, error) {
	conflicts := conflict.Extract(c.spectrum)
	if len(conflicts) == 0 {
		return nil, nil
	}

	formula, err := suspicion.Parse(c.cfg.Diagnosis.Formula)
	if err != nil {
		return nil, err
	}

	filterCfg := conflict.FilterConfig{
		ConstructorSigils:  c.cfg.Filter.ConstructorSigils,
		FrameworkBlocklist: c.cfg.Filter.FrameworkBlocklist,
		CoverageThreshold:  c.cfg.Filter.CoverageThreshold,
	}
	filtered := conflict.Filter(filterCfg, c.spectrum, conflicts)
	if len(filtered) == 0 {
		universe := diagnosis.Universe(conflicts)
		return diagnosis.Fallback(formula, c.spectrum, universe, c.cfg.Filter.FallbackTopK), nil
	}

	enumCfg := diagnosis.EnumerateConfig{
		MaxSetSize:   c.cfg.Diagnosis.MaxSetSize,
		MaxDiagnoses: c.cfg.Diagnosis.MaxDiagnoses,
	}
	sets := diagnosis.Enumerate(enumCfg, filtered)

	assignCfg := diagnosis.AssignConfig{Formula: formula, SizePenalty: c.cfg.Diagnosis.SizePenalty}
	return diagnosis.Assign(assignCfg, c.spectrum, sets), nil
}

// availableTests asks the configured CandidateTestSource for the pool of
// not-yet-executed tests.
func (c *Controller) availableTests() ([]planner.AvailableTest, error) {
	all, err := c.source.Candidates(c.spectrum)
	if err != nil {
		return nil, err
	}
	out := make([]planner.AvailableTest, 0, len(all))
	for _, t := range all {
		if !c.executed[t.Name] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *Controller) checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("tdp: %w", err)
	}
	if c.cancelCtrl != nil && c.cancelCtrl.Cancelled() {
		return fmt.Errorf("tdp: cancelled")
	}
	return nil
}

func (c *Controller) terminate(reason TerminationReason, dist []diagnosis.Diagnosis) *Result {
	c.state = StateTerminated
	if c.rec != nil {
		c.rec.RecordTermination(string(reason))
	}
	c.logger.Info("tdp session terminated", "reason", string(reason), "iterations", c.iteration)
	return &Result{
		State:        c.state,
		Reason:       reason,
		Iterations:   c.iteration,
		Distribution: dist,
		Entropy:      planner.Entropy(dist),
		Executed:     c.history,
	}
}

func keysOf(m map[spectrum.ElementID]bool) []spectrum.ElementID {
	out := make([]spectrum.ElementID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

func topProbability(dist []diagnosis.Diagnosis) float64 {
	var max float64
	for _, d := range dist {
		if d.Probability > max {
			max = d.Probability
		}
	}
	return max
}

func removeByName(pool []planner.AvailableTest, name string) []planner.AvailableTest {
	out := make([]planner.AvailableTest, 0, len(pool))
	for _, t := range pool {
		if t.Name != name {
			out = append(out, t)
		}
	}
	return out
}
