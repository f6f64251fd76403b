package reporting

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OutputFormat represents the progress output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatTUI  OutputFormat = "tui"
)

// ProgressReporter reports TDP session progress
type ProgressReporter struct {
	format OutputFormat
	logger *Logger
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter(format OutputFormat, logger *Logger) *ProgressReporter {
	return &ProgressReporter{
		format: format,
		logger: logger,
	}
}

// ReportState reports the controller's current state
func (pr *ProgressReporter) ReportState(state LiveLoopState) {
	switch pr.format {
	case FormatJSON:
		pr.reportJSON(state)
	case FormatTUI:
		pr.reportTUI(state)
	default:
		pr.reportText(state)
	}
}

// ReportStateTransition reports a state transition
func (pr *ProgressReporter) ReportStateTransition(from, to string) {
	switch pr.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]interface{}{
			"event":      "state_transition",
			"from_state": from,
			"to_state":   to,
			"timestamp":  time.Now(),
		})
		fmt.Println(string(data))
	case FormatTUI:
		pr.clearLine()
		fmt.Printf("🔄 State Transition: %s → %s\n", from, to)
	default:
		fmt.Printf("[STATE] %s → %s\n", from, to)
	}
}

// ReportTestExecuted reports a single executed test and its verdict
func (pr *ProgressReporter) ReportTestExecuted(test ExecutedTest) {
	verdict := "FAIL"
	if !test.Failed {
		verdict = "PASS"
	}

	switch pr.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]interface{}{
			"event":     "test_executed",
			"test":      test,
			"timestamp": time.Now(),
		})
		fmt.Println(string(data))
	case FormatTUI:
		pr.clearLine()
		fmt.Printf("🧪 Executed %s: %s\n", test.Name, verdict)
	default:
		fmt.Printf("[TEST] %s: %s\n", test.Name, verdict)
	}
}

// ReportDiagnosisUpdate reports a fresh diagnosis distribution
func (pr *ProgressReporter) ReportDiagnosisUpdate(iteration int, distribution []DiagnosisResult, entropy float64) {
	switch pr.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]interface{}{
			"event":        "diagnosis_update",
			"iteration":    iteration,
			"distribution": distribution,
			"entropy":      entropy,
			"timestamp":    time.Now(),
		})
		fmt.Println(string(data))
	case FormatTUI:
		pr.clearLine()
		fmt.Printf("🔍 Diagnosis updated (iteration %d): %d candidate(s), entropy %.4f\n",
			iteration, len(distribution), entropy)
	default:
		fmt.Printf("[DIAGNOSIS] iteration %d: %d candidate(s), entropy %.4f\n",
			iteration, len(distribution), entropy)
	}
}

// ReportTerminated reports session completion
func (pr *ProgressReporter) ReportTerminated(report *LoopReport) {
	switch pr.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]interface{}{
			"event":     "session_terminated",
			"report":    report,
			"timestamp": time.Now(),
		})
		fmt.Println(string(data))
	case FormatTUI:
		pr.clearLine()
		pr.printSessionSummary(report)
	default:
		pr.printTextSummary(report)
	}
}

// reportText outputs progress in plain text format
func (pr *ProgressReporter) reportText(state LiveLoopState) {
	elapsed := time.Since(state.StartTime).Round(time.Second)
	fmt.Printf("[%s] %s (iteration %d) | Elapsed: %s\n",
		time.Now().Format("15:04:05"),
		state.State,
		state.Iteration,
		elapsed,
	)

	if state.Candidates > 0 {
		fmt.Printf("  Candidates remaining: %d\n", state.Candidates)
	}
}

// reportJSON outputs progress in JSON format
func (pr *ProgressReporter) reportJSON(state LiveLoopState) {
	data, err := json.Marshal(state)
	if err != nil {
		pr.logger.Error("failed to marshal state", "error", err)
		return
	}
	fmt.Println(string(data))
}

// reportTUI outputs progress in terminal UI format
func (pr *ProgressReporter) reportTUI(state LiveLoopState) {
	pr.clearScreen()

	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("   TDP Session: %s\n", state.SessionID)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Printf("📊 State: %s (iteration %d)\n", state.State, state.Iteration)
	fmt.Printf("⏱️  Elapsed: %s\n", state.Elapsed.Round(time.Second))
	if state.Entropy > 0 {
		fmt.Printf("📉 Entropy: %.4f\n", state.Entropy)
	}
	if state.TopAffinity > 0 {
		fmt.Printf("🎯 Top probability: %.4f\n", state.TopAffinity)
	}
	if state.Candidates > 0 {
		fmt.Printf("🧪 Candidates remaining: %d\n", state.Candidates)
	}
	fmt.Println()

	fmt.Println(strings.Repeat("─", 80))
}

// printSessionSummary prints a session summary in TUI format
func (pr *ProgressReporter) printSessionSummary(report *LoopReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("   SESSION SUMMARY")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	icon := "✅"
	switch report.Reason {
	case ReasonExhausted:
		icon = "⚠️"
	case ReasonCancelled, ReasonError:
		icon = "🔴"
	case ReasonNoFailure:
		icon = "ℹ️"
	}

	fmt.Printf("%s Session %s\n", icon, report.Reason)
	fmt.Printf("   Session ID: %s\n", report.SessionID)
	fmt.Printf("   Iterations: %d\n", report.Iterations)
	fmt.Printf("   Duration:   %s\n", report.Duration)
	fmt.Println()

	if len(report.Distribution) > 0 {
		fmt.Printf("🔍 Diagnosis Distribution (%d candidate(s)):\n", len(report.Distribution))
		for _, d := range report.Distribution {
			fmt.Printf("   • {%s}: %.4f\n", strings.Join(d.Components, ", "), d.Probability)
		}
		fmt.Println()
	}

	if len(report.ExecutedTests) > 0 {
		fmt.Printf("🧪 Executed Tests (%d):\n", len(report.ExecutedTests))
		for _, t := range report.ExecutedTests {
			verdict := "FAIL"
			if !t.Failed {
				verdict = "PASS"
			}
			fmt.Printf("   • %s: %s\n", t.Name, verdict)
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", 80))
}

// printTextSummary prints a session summary in plain text format
func (pr *ProgressReporter) printTextSummary(report *LoopReport) {
	fmt.Printf("\n[SESSION SUMMARY] %s\n", report.Reason)
	fmt.Printf("  Session ID: %s\n", report.SessionID)
	fmt.Printf("  Iterations: %d\n", report.Iterations)
	fmt.Printf("  Duration:   %s\n", report.Duration)
	fmt.Printf("  Distribution: %d candidate(s)\n", len(report.Distribution))
	fmt.Printf("  Executed tests: %d\n", len(report.ExecutedTests))
	fmt.Println()
}

// clearScreen clears the terminal screen
func (pr *ProgressReporter) clearScreen() {
	// ANSI escape code to clear screen and move cursor to top
	fmt.Print("\033[2J\033[H")
}

// clearLine clears the current line
func (pr *ProgressReporter) clearLine() {
	// ANSI escape code to clear current line
	fmt.Print("\033[K")
}
