package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/reportqc/internal/protect"
	"github.com/ShayCichocki/reportqc/internal/qc"
	"github.com/ShayCichocki/reportqc/internal/report"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

var (
	iterateOut       string
	iterateNoAI      bool
	iterateRecordOut string
	iterateReportOut string
	iterateContact   string
)

var iterateCmd = &cobra.Command{
	Use:   "iterate <research.json> [report.html]",
	Short: "Validate, fix and regenerate until the report passes",
	Long: `Run the iteration controller.

Each round validates the report. On failure the language model suggests and
applies fixes to the research record, the report is regenerated with the
configured render command and validated again, up to qc.max_iterations
rounds. Without a report argument the report is rendered first.

A report still failing after the last round is rejected and its findings are
listed for manual review. Exits 0 only when the final report passed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIterate,
}

func init() {
	iterateCmd.Flags().StringVarP(&iterateOut, "out", "o", "", "QC result path (default: output.result)")
	iterateCmd.Flags().BoolVar(&iterateNoAI, "no-ai", false, "Skip the AI analysis phase and AI fixes")
	iterateCmd.Flags().StringVar(&iterateRecordOut, "record-out", "", "Write the final research record here")
	iterateCmd.Flags().StringVar(&iterateReportOut, "report-out", "", "Write each regenerated report here (default: the report argument)")
	iterateCmd.Flags().StringVar(&iterateContact, "contact", "", "Contact name passed to the renderer (default: render.contact)")
}

func runIterate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comps, err := buildComponents(ctx, cfg, iterateNoAI)
	if err != nil {
		return err
	}
	defer comps.Close()

	out := iterateOut
	if out == "" {
		out = cfg.Output.Result
	}
	rec := qc.Recorders{
		comps.recorder(out),
		qc.RecorderFunc(func(r *models.QCResult) error {
			fmt.Fprintf(cmd.ErrOrStderr(), "round %d: %s\n", r.Iteration, report.Summary(r))
			return nil
		}),
	}
	printer := report.NewPrinter(cmd.OutOrStdout())

	researchPath := args[0]
	var reportPath, html string
	if len(args) == 2 {
		reportPath = args[1]
	}
	reportOut := iterateReportOut
	if reportOut == "" {
		reportOut = reportPath
	}

	record, err := qc.LoadRecord(researchPath)
	if err == nil && reportPath != "" {
		html, err = qc.LoadReport(reportPath)
	}
	if err != nil {
		result := comps.pipeline.LoadFailure(err, researchPath, reportPath)
		if rerr := rec.Record(result); rerr != nil {
			return fmt.Errorf("record result: %w", rerr)
		}
		printer.Print(result)
		return errDoNotSend
	}

	var fixer qc.Fixer
	if comps.client != nil && !iterateNoAI {
		guard := protect.NewGuard()
		if cfg.Rules.File != "" {
			if err := guard.LoadConfig(cfg.Rules.File); err != nil {
				return fmt.Errorf("load protected fields: %w", err)
			}
		}
		fixer = qc.NewAIFixer(comps.client, cfg.Policy().AI).WithGuard(guard)
	}
	contact := iterateContact
	if contact == "" {
		contact = cfg.Render.Contact
	}

	ctrl := qc.NewController(comps.pipeline, fixer, newRenderer(cfg), rec, cfg.Policy().Loop, qc.Options{
		Contact:      contact,
		ResearchPath: researchPath,
		ReportPath:   reportOut,
	})
	outcome, err := ctrl.Run(ctx, record, html)
	if outcome != nil && outcome.Result != nil {
		printer.Print(outcome.Result)
	}
	if err != nil {
		if errors.Is(err, qc.ErrRegenerate) {
			return fmt.Errorf("iteration aborted: %w", err)
		}
		return err
	}

	if iterateRecordOut != "" {
		if err := report.WriteRecord(iterateRecordOut, outcome.Record); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s after %d round(s)\n", outcome.State, outcome.Rounds)
	if !outcome.Passed() {
		printer.PrintManualReview(outcome.ByCategory)
		return errDoNotSend
	}
	return nil
}
