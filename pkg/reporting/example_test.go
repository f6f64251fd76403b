package reporting_test

import (
	"fmt"
	"os"
	"time"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/reporting"
)

// Example demonstrates the reporting package usage
func Example() {
	// Create logger
	logger := reporting.NewLogger(reporting.LoggerConfig{
		Level:  reporting.LogLevelInfo,
		Format: reporting.LogFormatConsole,
		Output: os.Stdout,
	})

	logger.Info("tdp session starting")
	logger.Info("diagnosis updated", "diagnoses", 2, "entropy", 1.0)
	logger.Info("executed test", "name", "probe-a", "failed", false)

	// Create storage
	storage, err := reporting.NewStorage("./session-reports", 10, logger)
	if err != nil {
		fmt.Printf("Failed to create storage: %v\n", err)
		return
	}
	defer os.RemoveAll("./session-reports")

	// Create loop report
	report := &reporting.LoopReport{
		SessionID: "session-12345",
		StartTime: time.Now().Add(-2 * time.Minute),
		EndTime:   time.Now(),
		Duration:  "2m0s",
		State:     "TERMINATED",
		Reason:    reporting.ReasonSolved,
		Iterations: 3,
		Entropy:    0.0,
		Distribution: []reporting.DiagnosisResult{
			{Components: []string{"billing.Charge#applyDiscount"}, Probability: 1.0, Size: 1},
		},
		ExecutedTests: []reporting.ExecutedTest{
			{Name: "probe-a", Failed: false, Trace: []string{"billing.Charge#applyDiscount"}, Timestamp: time.Now()},
		},
	}

	// Save report
	path, err := storage.SaveReport(report)
	if err != nil {
		fmt.Printf("Failed to save report: %v\n", err)
		return
	}

	fmt.Printf("Report saved successfully\n")

	// List reports
	summaries, err := storage.ListReports()
	if err != nil {
		fmt.Printf("Failed to list reports: %v\n", err)
		return
	}

	fmt.Printf("Found %d report(s)\n", len(summaries))
	for _, summary := range summaries {
		fmt.Printf("  %s: %s (%s)\n", summary.SessionID, summary.Reason, summary.State)
	}

	// Load report
	loadedReport, err := storage.LoadReport(path)
	if err != nil {
		fmt.Printf("Failed to load report: %v\n", err)
		return
	}

	fmt.Printf("Loaded report for session: %s\n", loadedReport.SessionID)

	// Create formatter
	formatter := reporting.NewFormatter(logger)

	// Generate text report
	textPath := "./session-reports/report.txt"
	if err := formatter.GenerateReport(report, reporting.ReportFormatText, textPath); err != nil {
		fmt.Printf("Failed to generate text report: %v\n", err)
		return
	}
	fmt.Printf("Text report generated\n")

	// Output will vary due to timestamps, so we don't include it
}
