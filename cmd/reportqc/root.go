package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/reportqc/internal/config"
	"github.com/ShayCichocki/reportqc/internal/logging"
)

// errDoNotSend signals exit code 1 for a report that must not be sent.
// The reason has already been printed.
var errDoNotSend = errors.New("report must not be sent")

var (
	configPath string
	logLevel   string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "reportqc",
	Short: "Quality control for gap-analysis reports",
	Long: `reportqc checks rendered gap-analysis reports for law firms before they
are sent.

Each report is validated against the research record it was rendered from:
identity and competitor data, gap math, structure, personalization, language
and styling. An optional language model review adds semantic checks. The
verdict is written as a JSON audit record and recorded in a local history.

Exit codes:
  0  safe to send
  1  do not send, or an error occurred`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromPath(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		level := cfg.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		return logging.Init(level, cfg.Log.File)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDoNotSend) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: user and project config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(iterateCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
