package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/reportqc/internal/report"
	"github.com/ShayCichocki/reportqc/internal/state"
	"github.com/ShayCichocki/reportqc/internal/tui"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

var reviewRun string

var reviewCmd = &cobra.Command{
	Use:   "review [qc-result.json]",
	Short: "Review a QC result interactively",
	Long: `Open a stored QC result for manual review.

The result is read from the given file, from the history database with
--run, or from output.result. The reviewer approves or rejects the report;
the decision is printed as JSON. Exits 0 only when approved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewRun, "run", "", "Review a run from the history database by id")
}

func runReview(cmd *cobra.Command, args []string) error {
	result, err := loadReviewResult(args)
	if err != nil {
		return err
	}

	decision, err := tui.RunReview(result)
	if err != nil {
		return err
	}
	if decision.Verdict == tui.VerdictNone {
		fmt.Fprintln(cmd.ErrOrStderr(), "No decision made.")
		return errDoNotSend
	}

	data, err := json.MarshalIndent(decision, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	if decision.Verdict != tui.VerdictApproved {
		return errDoNotSend
	}
	return nil
}

func loadReviewResult(args []string) (*models.QCResult, error) {
	if reviewRun != "" {
		db, err := state.OpenAndMigrate(cfg.Output.HistoryDB)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.GetRun(reviewRun)
	}
	path := cfg.Output.Result
	if len(args) == 1 {
		path = args[0]
	}
	return report.ReadJSON(path)
}
