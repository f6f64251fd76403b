// Package metrics exposes the TDP loop's progress as Prometheus gauges
// and counters, registered against a private registry the way the
// teacher's monitoring/prometheus.Client wraps a single Config/New pair
// around the Prometheus API rather than touching prometheus.DefaultRegisterer.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Config controls where the metrics HTTP server listens.
type Config struct {
	Addr string // e.g. ":9109"; empty disables the server
}

// Recorder holds the TDP loop's Prometheus collectors and an HTTP server
// exposing them at /metrics.
type Recorder struct {
	registry *prometheus.Registry
	server   *http.Server

	iterations       prometheus.Counter
	entropy          prometheus.Gauge
	topProbability   prometheus.Gauge
	diagnosisCount   prometheus.Gauge
	informationGain  prometheus.Gauge
	testsExecuted    prometheus.Counter
	executorFailures *prometheus.CounterVec
	terminations     *prometheus.CounterVec
}

// New builds a Recorder and, if cfg.Addr is non-empty, an HTTP server
// ready to be started with Start.
func New(cfg Config) *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tdp_loop_iterations_total",
			Help: "Number of diagnose-plan-execute-update iterations completed.",
		}),
		entropy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tdp_loop_entropy",
			Help: "Shannon entropy of the current diagnosis distribution, in nats.",
		}),
		topProbability: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tdp_loop_top_diagnosis_probability",
			Help: "Probability mass assigned to the most likely diagnosis.",
		}),
		diagnosisCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tdp_loop_diagnosis_count",
			Help: "Number of candidate diagnoses in the current distribution.",
		}),
		informationGain: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tdp_loop_selected_information_gain",
			Help: "Information gain of the test selected in the most recent planning step.",
		}),
		testsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tdp_loop_tests_executed_total",
			Help: "Number of tests executed across the loop's lifetime.",
		}),
		executorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tdp_loop_executor_failures_total",
			Help: "Number of TestExecutor errors, by executor kind.",
		}, []string{"kind"}),
		terminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tdp_loop_terminations_total",
			Help: "Number of loop terminations, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		r.iterations,
		r.entropy,
		r.topProbability,
		r.diagnosisCount,
		r.informationGain,
		r.testsExecuted,
		r.executorFailures,
		r.terminations,
	)

	if cfg.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		r.server = &http.Server{Addr: cfg.Addr, Handler: mux}
	}

	return r
}

// Start launches the metrics HTTP server in the background if configured.
// It is a no-op when the Recorder was built without an address.
func (r *Recorder) Start() <-chan error {
	errCh := make(chan error, 1)
	if r.server == nil {
		return errCh
	}
	go func() {
		if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()
	return errCh
}

// Shutdown stops the metrics HTTP server, if running.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}

// RecordIteration records completion of one loop iteration with the
// resulting entropy, top-diagnosis probability, and diagnosis count.
func (r *Recorder) RecordIteration(entropy, topProbability float64, diagnosisCount int) {
	r.iterations.Inc()
	r.entropy.Set(entropy)
	r.topProbability.Set(topProbability)
	r.diagnosisCount.Set(float64(diagnosisCount))
}

// RecordSelection records the information gain of the test chosen by the
// planner in the current iteration.
func (r *Recorder) RecordSelection(informationGain float64) {
	r.informationGain.Set(informationGain)
}

// RecordTestExecuted increments the executed-test counter.
func (r *Recorder) RecordTestExecuted() {
	r.testsExecuted.Inc()
}

// RecordExecutorFailure increments the failure counter for the given
// executor kind.
func (r *Recorder) RecordExecutorFailure(kind string) {
	r.executorFailures.WithLabelValues(kind).Inc()
}

// RecordTermination increments the termination counter for the given
// reason (e.g. "no_failure", "solved", "exhausted").
func (r *Recorder) RecordTermination(reason string) {
	r.terminations.WithLabelValues(reason).Inc()
}

// Gather returns the current state of all registered collectors, for use
// in tests that assert on exported metric values without starting an
// HTTP server.
func (r *Recorder) Gather() ([]*dto.MetricFamily, error) {
	return r.registry.Gather()
}
