package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/config"
)

var validateOutput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load a configuration file, apply defaults and environment overrides, and
report the first validation error with its YAML path.

Examples:
  # Validate the default configuration file
  callisto validate

  # Validate a specific file, printing the effective summary as JSON
  callisto validate --config /etc/callisto/callisto.yaml --output json`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "text", "output format (text, json)")
	rootCmd.AddCommand(validateCmd)
}

// validateSummary is the machine-readable result of a validation run.
type validateSummary struct {
	File      string `json:"file"`
	Valid     bool   `json:"valid"`
	Services  int    `json:"services"`
	Templates int    `json:"templates"`
	Formatter string `json:"formatter"`
	Target    string `json:"target"`
	Capacity  int    `json:"queue_capacity"`
	BatchSize int    `json:"queue_batch_size"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(cli.OutputFormat(validateOutput))
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	if validateOutput == string(cli.FormatJSON) {
		return formatter.FormatTo(os.Stdout, validateSummary{
			File:      cfgFile,
			Valid:     true,
			Services:  len(cfg.Services),
			Templates: len(cfg.Templates),
			Formatter: cfg.Defaults.Formatter,
			Target:    cfg.Defaults.Target,
			Capacity:  cfg.Queue.Capacity,
			BatchSize: cfg.Queue.BatchSize,
		})
	}

	fmt.Printf("✅ %s is valid\n", cfgFile)
	if verbose {
		fmt.Printf("  services:   %d rule(s)\n", len(cfg.Services))
		fmt.Printf("  templates:  %d\n", len(cfg.Templates))
		fmt.Printf("  queue:      capacity=%d batch=%d flush=%s\n",
			cfg.Queue.Capacity, cfg.Queue.BatchSize, cfg.Queue.FlushTimeout)
		fmt.Printf("  defaults:   formatter=%s target=%s level=%s\n",
			cfg.Defaults.Formatter, cfg.Defaults.Target, cfg.Defaults.Level)
	}
	return nil
}
