package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/reporting"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Args:  cobra.NoArgs,
	Short: "List or inspect saved TDP session reports",
	Long:  `Lists saved session reports, or prints a summary of one (reason, iterations, duration, counts) when --session is given; --text-out writes the full text report.`,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().String("session", "", "session ID to show a summary of (default: list all sessions)")
	reportCmd.Flags().String("text-out", "", "write a text-formatted copy of the selected session to this path")
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := reporting.NewLogger(reporting.LoggerConfig{
		Level:  reporting.LogLevel(cfg.Logging.Level),
		Format: reporting.LogFormat(cfg.Logging.Format),
		Output: os.Stdout,
	})

	storage, err := reporting.NewStorage(cfg.Reporting.OutputDir, cfg.Reporting.KeepLastN, logger)
	if err != nil {
		return fmt.Errorf("failed to open report storage: %w", err)
	}

	sessionID, _ := cmd.Flags().GetString("session")
	if sessionID == "" {
		return listSessions(storage)
	}
	return showSession(storage, logger, sessionID, cmd)
}

func listSessions(storage *reporting.Storage) error {
	summaries, err := storage.ListReports()
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if len(summaries) == 0 {
		fmt.Println("no saved session reports")
		return nil
	}
	fmt.Printf("%-28s %-12s %-10s %s\n", "Session ID", "Reason", "Iters", "Start Time")
	for _, s := range summaries {
		fmt.Printf("%-28s %-12s %-10d %s\n", s.SessionID, s.Reason, s.Iterations, s.StartTime.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func showSession(storage *reporting.Storage, logger *reporting.Logger, sessionID string, cmd *cobra.Command) error {
	report, err := storage.FindReportBySessionID(sessionID)
	if err != nil {
		return err
	}

	progressReporter := reporting.NewProgressReporter(reporting.FormatText, logger)
	progressReporter.ReportTerminated(report)

	textOut, _ := cmd.Flags().GetString("text-out")
	if textOut == "" {
		return nil
	}
	formatter := reporting.NewFormatter(logger)
	return formatter.GenerateReport(report, reporting.ReportFormatText, textOut)
}
