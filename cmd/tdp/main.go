package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	version = "dev" // Will be set by build flags
)

var rootCmd = &cobra.Command{
	Use:   "tdp",
	Short: "Interactive test-driven fault localization engine",
	Long: `tdp runs the diagnose-plan-execute-update loop over a spectrum of
covered elements and test outcomes, narrowing a suspiciousness-ranked
diagnosis distribution one test at a time until a single explanation
stands out or the iteration budget runs out.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tdp.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
}

// Commands are defined in separate files:
// - runCmd in run.go
// - reportCmd in report.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
