// Package report presents QC results: a terminal summary grouped by phase
// and category, and the persisted JSON audit record.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

var (
	criticalLabel  = color.New(color.FgRed, color.Bold)
	importantLabel = color.New(color.FgYellow, color.Bold)
	warningLabel   = color.New(color.FgCyan)
	headingLabel   = color.New(color.Bold, color.Underline)
	dimLabel       = color.New(color.Faint)

	passBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#2E7D32")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#66BB6A")).
			Padding(0, 2)

	failBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#C62828")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#EF5350")).
			Padding(0, 2)
)

var phaseTitles = []struct {
	phase models.Phase
	title string
}{
	{models.PhaseLoad, "Input"},
	{models.PhaseBasic, "Basic checks"},
	{models.PhaseAI, "AI analysis"},
}

// Printer writes human-readable QC reports.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes the full report for r, ending in the PASS/FAIL banner.
func (p *Printer) Print(r *models.QCResult) {
	if r.FirmName != "" {
		fmt.Fprintf(p.w, "QC report for %s", r.FirmName)
		if r.Iteration > 0 {
			fmt.Fprintf(p.w, " (round %d)", r.Iteration)
		}
		fmt.Fprintln(p.w)
	}

	for _, pt := range phaseTitles {
		findings := r.FindingsByPhase(pt.phase)
		if pt.phase == models.PhaseLoad && len(findings) == 0 {
			continue
		}
		fmt.Fprintf(p.w, "\n%s\n", headingLabel.Sprint(pt.title))
		if pt.phase == models.PhaseAI {
			p.printAIVerdict(r.AI)
		}
		if len(findings) == 0 {
			if pt.phase != models.PhaseAI || (r.AI != nil && r.AI.Ran) {
				fmt.Fprintf(p.w, "  %s\n", dimLabel.Sprint("no findings"))
			}
			continue
		}
		p.printGrouped(findings)
	}

	fmt.Fprintf(p.w, "\n%d critical, %d important, %d warning\n",
		r.Counts.Critical, r.Counts.Important, r.Counts.Warning)
	if r.Recommendation != "" {
		fmt.Fprintf(p.w, "%s\n", r.Recommendation)
	}
	fmt.Fprintf(p.w, "\n%s\n", Banner(r.Status))
}

// PrintManualReview lists findings partitioned by category for a rejected
// report.
func (p *Printer) PrintManualReview(byCategory map[models.Category][]models.Finding) {
	fmt.Fprintf(p.w, "\n%s\n", headingLabel.Sprint("Manual review required"))
	for _, cat := range models.AllCategories {
		findings := byCategory[cat]
		if len(findings) == 0 {
			continue
		}
		fmt.Fprintf(p.w, "  %s (%d)\n", cat, len(findings))
		for _, f := range findings {
			fmt.Fprintf(p.w, "    - %s\n", f.Message)
		}
	}
}

func (p *Printer) printGrouped(findings []models.Finding) {
	groups := models.GroupByCategory(findings)
	for _, cat := range models.AllCategories {
		group := groups[cat]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(p.w, "  %s\n", cat)
		group = slices.Clone(group)
		slices.SortStableFunc(group, func(a, b models.Finding) int {
			return a.Severity.Rank() - b.Severity.Rank()
		})
		for _, f := range group {
			fmt.Fprintf(p.w, "    %s %s\n", SeverityLabel(f.Severity), f.Message)
			if f.Evidence != "" {
				fmt.Fprintf(p.w, "      %s %s\n", dimLabel.Sprint("evidence:"), f.Evidence)
			}
			if f.Fix != "" {
				fmt.Fprintf(p.w, "      %s %s\n", dimLabel.Sprint("fix:"), f.Fix)
			}
		}
	}
}

func (p *Printer) printAIVerdict(v *models.AIVerdict) {
	switch {
	case v == nil:
		fmt.Fprintf(p.w, "  %s\n", dimLabel.Sprint("not run"))
	case v.Skipped:
		fmt.Fprintf(p.w, "  %s %s\n", dimLabel.Sprint("skipped:"), v.SkipReason)
	case v.Error != "":
		fmt.Fprintf(p.w, "  %s %s\n", importantLabel.Sprint("error:"), v.Error)
	default:
		act := "no"
		if v.WouldAct {
			act = "yes"
		}
		fmt.Fprintf(p.w, "  would act: %s\n", act)
		if v.BiggestIssue != "" {
			fmt.Fprintf(p.w, "  biggest issue: %s\n", v.BiggestIssue)
		}
		if v.Cached {
			fmt.Fprintf(p.w, "  %s\n", dimLabel.Sprint("(cached verdict)"))
		}
	}
}

// SeverityLabel renders a bracketed, coloured severity tag.
func SeverityLabel(s models.Severity) string {
	tag := "[" + string(s) + "]"
	switch s {
	case models.SeverityCritical:
		return criticalLabel.Sprint(tag)
	case models.SeverityImportant:
		return importantLabel.Sprint(tag)
	default:
		return warningLabel.Sprint(tag)
	}
}

// Banner renders the final PASS/FAIL box.
func Banner(status models.QCStatus) string {
	if status == models.QCStatusPassed {
		return passBanner.Render("PASS  safe to send")
	}
	return failBanner.Render("FAIL  do not send")
}

// Summary is a one-line status used by watch mode and history listings.
func Summary(r *models.QCResult) string {
	var b strings.Builder
	b.WriteString(string(r.Status))
	fmt.Fprintf(&b, " %dC/%dI/%dW", r.Counts.Critical, r.Counts.Important, r.Counts.Warning)
	if r.FirmName != "" {
		b.WriteString(" " + r.FirmName)
	}
	return b.String()
}
