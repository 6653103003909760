package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/reportqc/internal/state"
)

var (
	historyLimit int
	historyPurge time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded QC runs",
	Long: `List QC runs from the history database, newest first.

Use --purge to delete runs older than the given age (for example 720h).`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	historyCmd.Flags().DurationVar(&historyPurge, "purge", 0, "Delete runs older than this age")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfg.Output.HistoryDB); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet. Run 'reportqc check' to start.")
		return nil
	}

	db, err := state.OpenAndMigrate(cfg.Output.HistoryDB)
	if err != nil {
		return err
	}
	defer db.Close()

	if historyPurge > 0 {
		n, err := db.PurgeOldRuns(historyPurge)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Purged %d run(s)\n", n)
	}

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSTATUS\tROUND\tC/I/W\tAI\tFIRM\tID")
	for _, r := range runs {
		ai := "-"
		switch {
		case r.AIError != "":
			ai = "error"
		case r.AISkipped:
			ai = "skipped"
		case r.AIRan:
			ai = "ran"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d/%d\t%s\t%s\t%s\n",
			r.CreatedAt, r.Status, r.Iteration,
			r.Counts.Critical, r.Counts.Important, r.Counts.Warning,
			ai, r.Firm, r.ID)
	}
	return w.Flush()
}
