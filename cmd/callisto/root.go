package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "callisto",
	Short: "Callisto - automatic method-call observability pipeline",
	Long: `Callisto instruments service method calls with structured, asynchronous
logging without hand-written log statements.

It provides:
  - A precomputed per-method interception decision cache
  - Timing and outcome classification for sync and async calls
  - Value masking before anything leaves the process
  - A bounded, never-blocking background log queue
  - Pluggable formatters and sink-specific template translation`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "callisto.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
