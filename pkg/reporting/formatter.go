package reporting

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ReportFormat represents the report output format
type ReportFormat string

const (
	ReportFormatText ReportFormat = "text"
	ReportFormatJSON ReportFormat = "json"
)

// Formatter generates formatted reports from loop data
type Formatter struct {
	logger *Logger
}

// NewFormatter creates a new report formatter
func NewFormatter(logger *Logger) *Formatter {
	return &Formatter{
		logger: logger,
	}
}

// GenerateReport generates a report in the specified format
func (f *Formatter) GenerateReport(report *LoopReport, format ReportFormat, outputPath string) error {
	switch format {
	case ReportFormatText:
		return f.generateTextReport(report, outputPath)
	case ReportFormatJSON:
		// Already handled by storage
		return fmt.Errorf("JSON format is automatically saved by storage")
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// generateTextReport generates a plain text report
func (f *Formatter) generateTextReport(report *LoopReport, outputPath string) error {
	var buf bytes.Buffer

	buf.WriteString(strings.Repeat("=", 80) + "\n")
	buf.WriteString("   TDP SESSION REPORT\n")
	buf.WriteString(strings.Repeat("=", 80) + "\n\n")

	buf.WriteString("SESSION SUMMARY\n")
	buf.WriteString(strings.Repeat("-", 80) + "\n")
	buf.WriteString(fmt.Sprintf("Session ID:   %s\n", report.SessionID))
	buf.WriteString(fmt.Sprintf("Final State:  %s\n", report.State))
	buf.WriteString(fmt.Sprintf("Reason:       %s\n", report.Reason))
	buf.WriteString(fmt.Sprintf("Iterations:   %d\n", report.Iterations))
	buf.WriteString(fmt.Sprintf("Entropy:      %.4f\n", report.Entropy))
	buf.WriteString(fmt.Sprintf("Start Time:   %s\n", report.StartTime.Format("2006-01-02 15:04:05")))
	buf.WriteString(fmt.Sprintf("End Time:     %s\n", report.EndTime.Format("2006-01-02 15:04:05")))
	buf.WriteString(fmt.Sprintf("Duration:     %s\n", report.Duration))
	buf.WriteString("\n")

	if len(report.Distribution) > 0 {
		buf.WriteString("DIAGNOSIS DISTRIBUTION\n")
		buf.WriteString(strings.Repeat("-", 80) + "\n")
		sorted := make([]DiagnosisResult, len(report.Distribution))
		copy(sorted, report.Distribution)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Probability > sorted[j].Probability })
		for i, d := range sorted {
			buf.WriteString(fmt.Sprintf("%d. {%s}\n", i+1, strings.Join(d.Components, ", ")))
			buf.WriteString(fmt.Sprintf("   Probability: %.4f\n", d.Probability))
		}
		buf.WriteString("\n")
	}

	if len(report.ExecutedTests) > 0 {
		buf.WriteString("EXECUTED TESTS\n")
		buf.WriteString(strings.Repeat("-", 80) + "\n")
		for i, t := range report.ExecutedTests {
			verdict := "FAIL"
			if !t.Failed {
				verdict = "PASS"
			}
			buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, verdict, t.Name))
			if len(t.Trace) > 0 {
				buf.WriteString(fmt.Sprintf("   Covered: %s\n", strings.Join(t.Trace, ", ")))
			}
		}
		buf.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		buf.WriteString("ERRORS\n")
		buf.WriteString(strings.Repeat("-", 80) + "\n")
		for i, err := range report.Errors {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, err))
		}
		buf.WriteString("\n")
	}

	buf.WriteString(strings.Repeat("=", 80) + "\n")
	buf.WriteString(fmt.Sprintf("Generated: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	buf.WriteString(strings.Repeat("=", 80) + "\n")

	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write text report: %w", err)
	}

	f.logger.Info("text report generated", "path", outputPath)
	return nil
}

// CompareReports generates a comparison report for multiple sessions
func (f *Formatter) CompareReports(reports []*LoopReport, outputPath string) error {
	if len(reports) < 2 {
		return fmt.Errorf("need at least 2 reports to compare")
	}

	var buf bytes.Buffer

	buf.WriteString(strings.Repeat("=", 80) + "\n")
	buf.WriteString("   TDP SESSION COMPARISON\n")
	buf.WriteString(strings.Repeat("=", 80) + "\n\n")

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].StartTime.Before(reports[j].StartTime)
	})

	buf.WriteString("SESSION SUMMARY\n")
	buf.WriteString(strings.Repeat("-", 80) + "\n")
	buf.WriteString(fmt.Sprintf("%-20s %-12s %-10s %-10s %s\n",
		"Session ID", "Reason", "Duration", "Iters", "Top probability"))
	buf.WriteString(strings.Repeat("-", 80) + "\n")

	for _, report := range reports {
		top := 0.0
		for _, d := range report.Distribution {
			if d.Probability > top {
				top = d.Probability
			}
		}
		buf.WriteString(fmt.Sprintf("%-20s %-12s %-10s %-10d %.4f\n",
			report.SessionID[:min(20, len(report.SessionID))],
			report.Reason,
			report.Duration,
			report.Iterations,
			top,
		))
	}
	buf.WriteString("\n")

	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write comparison report: %w", err)
	}

	f.logger.Info("comparison report generated", "path", outputPath)
	return nil
}

// GetReportPath generates a report file path based on the loop report and format
func GetReportPath(report *LoopReport, format ReportFormat, outputDir string) string {
	timestamp := report.StartTime.Format("20060102-150405")
	ext := string(format)
	filename := fmt.Sprintf("report-%s-%s.%s", timestamp, report.SessionID, ext)
	return filepath.Join(outputDir, filename)
}

// Helper function
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
