package metrics_test

import (
	"testing"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/metrics"
)

func findMetric(t *testing.T, r *metrics.Recorder, name string) float64 {
	t.Helper()
	families, err := r.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		m := fam.GetMetric()[0]
		if m.GetGauge() != nil {
			return m.GetGauge().GetValue()
		}
		if m.GetCounter() != nil {
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %q not found", name)
	return 0
}

func TestRecordIterationUpdatesGauges(t *testing.T) {
	r := metrics.New(metrics.Config{})
	r.RecordIteration(0.69, 0.8, 3)

	if got := findMetric(t, r, "tdp_loop_entropy"); got != 0.69 {
		t.Fatalf("entropy = %v, want 0.69", got)
	}
	if got := findMetric(t, r, "tdp_loop_top_diagnosis_probability"); got != 0.8 {
		t.Fatalf("top probability = %v, want 0.8", got)
	}
	if got := findMetric(t, r, "tdp_loop_diagnosis_count"); got != 3 {
		t.Fatalf("diagnosis count = %v, want 3", got)
	}
	if got := findMetric(t, r, "tdp_loop_iterations_total"); got != 1 {
		t.Fatalf("iterations = %v, want 1", got)
	}
}

func TestRecordTestExecutedIncrements(t *testing.T) {
	r := metrics.New(metrics.Config{})
	r.RecordTestExecuted()
	r.RecordTestExecuted()

	if got := findMetric(t, r, "tdp_loop_tests_executed_total"); got != 2 {
		t.Fatalf("tests executed = %v, want 2", got)
	}
}

func TestRecordTerminationLabelsReason(t *testing.T) {
	r := metrics.New(metrics.Config{})
	r.RecordTermination("solved")

	families, err := r.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != "tdp_loop_terminations_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "reason" && lp.GetValue() == "solved" && m.GetCounter().GetValue() == 1 {
					return
				}
			}
		}
	}
	t.Fatal("expected a terminations_total series labeled reason=solved with value 1")
}

func TestNewWithoutAddrHasNoServer(t *testing.T) {
	r := metrics.New(metrics.Config{})
	errCh := r.Start()
	select {
	case err := <-errCh:
		t.Fatalf("Start() with no address sent error %v, want no server started", err)
	default:
	}
}
