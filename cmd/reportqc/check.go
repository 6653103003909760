package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/reportqc/internal/logging"
	"github.com/ShayCichocki/reportqc/internal/report"
	"github.com/ShayCichocki/reportqc/internal/watch"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

var (
	checkOut   string
	checkNoAI  bool
	checkJSON  bool
	checkWatch bool
)

var checkCmd = &cobra.Command{
	Use:   "check <research.json> <report.html>",
	Short: "Run one QC pass over a rendered report",
	Long: `Validate a rendered report against its research record.

Prints the findings grouped by phase and category, writes the QC result as
JSON and records the run in the history database. Exits 0 only when the
report is safe to send.

With --watch, the check re-runs whenever either file changes until
interrupted.`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkOut, "out", "o", "", "QC result path (default: output.result)")
	checkCmd.Flags().BoolVar(&checkNoAI, "no-ai", false, "Skip the AI analysis phase")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the QC result as JSON instead of the report")
	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "Re-run when the input files change")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comps, err := buildComponents(ctx, cfg, checkNoAI)
	if err != nil {
		return err
	}
	defer comps.Close()

	out := checkOut
	if out == "" {
		out = cfg.Output.Result
	}
	rec := comps.recorder(out)
	researchPath, reportPath := args[0], args[1]

	once := func() (*models.QCResult, error) {
		// Load errors are already captured in the result.
		result, _ := comps.pipeline.RunFiles(ctx, researchPath, reportPath)
		if err := rec.Record(result); err != nil {
			return result, fmt.Errorf("record result: %w", err)
		}
		return result, printResult(cmd, result)
	}

	result, err := once()
	if err != nil {
		return err
	}

	if checkWatch {
		return watchCheck(ctx, cmd, []string{researchPath, reportPath}, result, once)
	}
	if !result.Passed() {
		return errDoNotSend
	}
	return nil
}

// watchCheck re-runs once on every change. Stopping the watch exits with the
// verdict of the last completed run.
func watchCheck(ctx context.Context, cmd *cobra.Command, paths []string, last *models.QCResult, once func() (*models.QCResult, error)) error {
	w, err := watch.New(paths, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes. Press Ctrl+C to stop.")
	err = w.Run(ctx, func(path string) {
		logging.Log.WithField("file", path).Info("input changed, re-running checks")
		result, err := once()
		if err != nil {
			logging.Log.WithError(err).Error("check failed")
			return
		}
		last = result
		fmt.Fprintln(cmd.ErrOrStderr(), report.Summary(result))
	})
	if errors.Is(err, context.Canceled) {
		if last == nil || !last.Passed() {
			return errDoNotSend
		}
		return nil
	}
	return err
}

func printResult(cmd *cobra.Command, result *models.QCResult) error {
	if checkJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	report.NewPrinter(cmd.OutOrStdout()).Print(result)
	return nil
}
