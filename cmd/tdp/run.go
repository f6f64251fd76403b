package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	dockerclient "github.com/docker/docker/client"
	"github.com/spf13/cobra"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/candidates"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/cancel"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/config"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/diagnosis"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/executor"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/loader"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/metrics"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/reporting"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/spectrum"
	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/tdp"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Args:  cobra.NoArgs,
	Short: "Run a TDP session over a spectrum",
	Long:  `Loads a spectrum (coverage matrix plus test outcomes) and drives the diagnose-plan-execute-update loop to termination.`,
	RunE:  runSession,
}

func init() {
	runCmd.Flags().String("spectrum", "", "path to a spectrum YAML file (mutually exclusive with --gzoltar-dir)")
	runCmd.Flags().String("gzoltar-dir", "", "directory containing spectra.csv/tests.csv/matrix.txt (mutually exclusive with --spectrum)")
	runCmd.Flags().String("candidates", "", "path to a static candidate-test YAML file (required when loop.candidate_source is static)")
	runCmd.Flags().Int64("synthetic-seed", 1, "RNG seed for the synthetic candidate source")
	runCmd.Flags().Int("synthetic-count", 10, "number of synthetic candidates to draw per planning step")
	runCmd.Flags().String("docker-container", "", "container ID the docker executor runs tests inside (required when executor.kind is docker)")
	runCmd.Flags().StringArray("docker-test-command", []string{"go", "test", "-run"}, "command the docker executor execs, with the test name appended")
	runCmd.Flags().String("process-dir", ".", "working directory the process executor runs `go test` in")
	runCmd.Flags().String("process-trace-dir", "./traces", "directory the process executor reads per-test trace files from")
	runCmd.Flags().String("format", "text", "progress output format (text, json, tui)")
	runCmd.Flags().String("stop-file", "", "path polled for a cooperative stop request")
	runCmd.Flags().String("session-id", "", "session identifier used in saved report filenames (default: generated from start time)")
}

func runSession(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logLevel := reporting.LogLevel(cfg.Logging.Level)
	if verbose {
		logLevel = reporting.LogLevelDebug
	}
	logger := reporting.NewLogger(reporting.LoggerConfig{
		Level:  logLevel,
		Format: reporting.LogFormat(cfg.Logging.Format),
		Output: os.Stdout,
	})
	logger.Info("tdp starting", "version", version)

	spec, err := loadSpectrum(cmd)
	if err != nil {
		return fmt.Errorf("failed to load spectrum: %w", err)
	}
	logger.Info("spectrum loaded", "elements", len(spec.ElementIDs()))

	source, err := buildCandidateSource(cmd, cfg)
	if err != nil {
		return fmt.Errorf("failed to build candidate source: %w", err)
	}

	dispatcher, err := buildDispatcher(cmd, cfg)
	if err != nil {
		return fmt.Errorf("failed to build test executor: %w", err)
	}

	rec := metrics.New(metrics.Config{Addr: cfg.Metrics.Addr})
	if errCh := rec.Start(); cfg.Metrics.Addr != "" {
		logger.Info("metrics server listening", "addr", cfg.Metrics.Addr)
		go func() {
			if err := <-errCh; err != nil {
				logger.Warn("metrics server stopped", "error", err.Error())
			}
		}()
	}

	stopFile, _ := cmd.Flags().GetString("stop-file")
	cancelCtrl := cancel.New(cancel.Config{StopFile: stopFile, EnableSignalHandlers: true})
	cancelCtrl.Start(context.Background())
	cancelCtrl.OnCancel(func(reason string) {
		logger.Warn("cancellation requested", "reason", reason)
	})

	controller := tdp.New(cfg, spec, dispatcher, source, rec, cancelCtrl, logger)

	sessionID, _ := cmd.Flags().GetString("session-id")
	startTime := time.Now()
	if sessionID == "" {
		sessionID = fmt.Sprintf("session-%s", startTime.Format("20060102-150405"))
	}

	result, runErr := controller.Run(cancelCtrl.Context())
	endTime := time.Now()

	outputFormat, _ := cmd.Flags().GetString("format")
	progressReporter := reporting.NewProgressReporter(reporting.OutputFormat(outputFormat), logger)

	report := buildLoopReport(sessionID, startTime, endTime, result, runErr)

	storage, storageErr := reporting.NewStorage(cfg.Reporting.OutputDir, cfg.Reporting.KeepLastN, logger)
	if storageErr != nil {
		logger.Warn("failed to create report storage", "error", storageErr.Error())
	} else if _, saveErr := storage.SaveReport(report); saveErr != nil {
		logger.Warn("failed to save report", "error", saveErr.Error())
	}

	progressReporter.ReportTerminated(report)

	if shutdownErr := rec.Shutdown(context.Background()); shutdownErr != nil {
		logger.Warn("failed to shut down metrics server", "error", shutdownErr.Error())
	}

	if runErr != nil {
		return fmt.Errorf("tdp session failed: %w", runErr)
	}
	return nil
}

// loadSpectrum picks a SpectraLoader from --spectrum or --gzoltar-dir and
// loads the initial spectrum a session starts from.
func loadSpectrum(cmd *cobra.Command) (*spectrum.Spectrum, error) {
	spectrumPath, _ := cmd.Flags().GetString("spectrum")
	gzoltarDir, _ := cmd.Flags().GetString("gzoltar-dir")

	switch {
	case spectrumPath != "" && gzoltarDir != "":
		return nil, fmt.Errorf("--spectrum and --gzoltar-dir are mutually exclusive")
	case spectrumPath != "":
		return loader.NewYAMLLoader(spectrumPath).Load()
	case gzoltarDir != "":
		return loader.NewGZoltarLoader(gzoltarDir).Load()
	default:
		return nil, fmt.Errorf("one of --spectrum or --gzoltar-dir is required")
	}
}

// buildCandidateSource selects and configures a CandidateTestSource by
// cfg.Loop.CandidateSource.
func buildCandidateSource(cmd *cobra.Command, cfg *config.Config) (candidates.CandidateTestSource, error) {
	switch cfg.Loop.CandidateSource {
	case "static":
		path, _ := cmd.Flags().GetString("candidates")
		if path == "" {
			return nil, fmt.Errorf("--candidates is required when loop.candidate_source is static")
		}
		return candidates.LoadStaticSource(path)
	case "synthetic":
		seed, _ := cmd.Flags().GetInt64("synthetic-seed")
		count, _ := cmd.Flags().GetInt("synthetic-count")
		return candidates.NewSyntheticSource(seed, count), nil
	default:
		return nil, fmt.Errorf("unsupported candidate source %q", cfg.Loop.CandidateSource)
	}
}

// buildDispatcher wires a single-executor Dispatcher registered under
// cfg.Executor.Kind — only the configured kind needs to actually work, so
// only it is constructed.
func buildDispatcher(cmd *cobra.Command, cfg *config.Config) (*executor.Dispatcher, error) {
	kind := executor.Kind(cfg.Executor.Kind)

	switch kind {
	case executor.KindManual:
		return executor.NewDispatcher(map[executor.Kind]executor.TestExecutor{
			kind: executor.NewManualExecutor(os.Stdin, os.Stdout),
		}), nil

	case executor.KindProcess:
		dir, _ := cmd.Flags().GetString("process-dir")
		traceDir, _ := cmd.Flags().GetString("process-trace-dir")
		return executor.NewDispatcher(map[executor.Kind]executor.TestExecutor{
			kind: executor.NewProcessExecutor(dir, traceDir),
		}), nil

	case executor.KindDocker:
		containerID, _ := cmd.Flags().GetString("docker-container")
		if containerID == "" {
			return nil, fmt.Errorf("--docker-container is required when executor.kind is docker")
		}
		testCommand, _ := cmd.Flags().GetStringArray("docker-test-command")
		cli, err := dockerclient.NewClientWithOpts(dockerclient.FromEnv, dockerclient.WithAPIVersionNegotiation())
		if err != nil {
			return nil, fmt.Errorf("failed to create docker client: %w", err)
		}
		return executor.NewDispatcher(map[executor.Kind]executor.TestExecutor{
			kind: executor.NewDockerExecutor(cli, containerID, testCommand),
		}), nil

	default:
		return nil, fmt.Errorf("unsupported executor kind %q", cfg.Executor.Kind)
	}
}

// buildLoopReport translates a tdp.Result into the reporting package's
// persistence/display shape, which carries no dependency on pkg/tdp or
// pkg/diagnosis.
func buildLoopReport(sessionID string, start, end time.Time, result *tdp.Result, runErr error) *reporting.LoopReport {
	report := &reporting.LoopReport{
		SessionID: sessionID,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start).String(),
	}

	if runErr != nil {
		report.State = "ERROR"
		report.Reason = reporting.ReasonError
		report.Errors = append(report.Errors, runErr.Error())
		return report
	}

	report.State = result.State.String()
	report.Reason = convertReason(result.Reason)
	report.Iterations = result.Iterations
	report.Entropy = result.Entropy
	report.Distribution = convertDistribution(result.Distribution)
	report.ExecutedTests = convertExecuted(result.Executed)
	return report
}

func convertReason(reason tdp.TerminationReason) reporting.ReportReason {
	switch reason {
	case tdp.ReasonNoFailure:
		return reporting.ReasonNoFailure
	case tdp.ReasonSolved:
		return reporting.ReasonSolved
	case tdp.ReasonExhausted:
		return reporting.ReasonExhausted
	default:
		return reporting.ReasonError
	}
}

func convertDistribution(dist []diagnosis.Diagnosis) []reporting.DiagnosisResult {
	out := make([]reporting.DiagnosisResult, len(dist))
	for i, d := range dist {
		components := make([]string, 0, len(d.Components))
		for _, id := range d.SortedComponents() {
			components = append(components, string(id))
		}
		out[i] = reporting.DiagnosisResult{
			Components:  components,
			Probability: d.Probability,
			Size:        d.Size(),
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Probability > out[j].Probability })
	return out
}

func convertExecuted(history []tdp.ExecutedTest) []reporting.ExecutedTest {
	out := make([]reporting.ExecutedTest, len(history))
	for i, t := range history {
		trace := make([]string, len(t.Trace))
		for j, id := range t.Trace {
			trace[j] = string(id)
		}
		out[i] = reporting.ExecutedTest{
			Name:      t.Name,
			Failed:    t.Failed,
			Trace:     trace,
			Timestamp: t.Timestamp,
		}
	}
	return out
}
