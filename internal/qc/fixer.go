package qc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ShayCichocki/reportqc/internal/aiqc"
	"github.com/ShayCichocki/reportqc/internal/api"
	"github.com/ShayCichocki/reportqc/internal/policy"
	"github.com/ShayCichocki/reportqc/internal/protect"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

// ErrInvalidFix is returned when a fixed record is not usable JSON.
var ErrInvalidFix = errors.New("fix reply is not a valid research record")

// Fixer turns QC failures into a corrected research record.
type Fixer interface {
	// Guidance explains how to fix the failures.
	Guidance(ctx context.Context, rec *models.ResearchRecord, findings []models.Finding) (string, error)
	// Apply returns a replacement record. guidance may be empty.
	Apply(ctx context.Context, rec *models.ResearchRecord, findings []models.Finding, guidance string) (*models.ResearchRecord, error)
}

const fixerSystem = "You repair research data behind marketing reports sent to law firms. " +
	"You never invent firms, competitors or numbers that are not supported by the data you are given."

// AIFixer implements Fixer with a language model.
type AIFixer struct {
	client api.Completer
	policy policy.AIPolicy
	guard  *protect.Guard
}

// NewAIFixer creates an AIFixer guarding protect.DefaultFields.
func NewAIFixer(client api.Completer, p policy.AIPolicy) *AIFixer {
	return &AIFixer{client: client, policy: p, guard: protect.NewGuard()}
}

// WithGuard replaces the protected field guard.
func (f *AIFixer) WithGuard(g *protect.Guard) *AIFixer {
	f.guard = g
	return f
}

// Guidance asks for short, concrete fix instructions.
func (f *AIFixer) Guidance(ctx context.Context, rec *models.ResearchRecord, findings []models.Finding) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "The report for %s failed quality control with these issues:\n\n", rec.FirmName)
	writeFindings(&b, findings)
	b.WriteString("\nFor each issue, say in one line what must change in the research data so the regenerated report passes. ")
	b.WriteString("Only mention fixes that can be made in the data.")

	return f.client.Complete(ctx, api.Request{
		System:    fixerSystem,
		Prompt:    b.String(),
		MaxTokens: f.policy.GuidanceMaxTokens,
		Timeout:   f.policy.LightTimeout,
	})
}

// Apply asks for the full corrected record and accepts it only when the
// reply is a JSON object that decodes into a record and leaves protected
// fields alone.
func (f *AIFixer) Apply(ctx context.Context, rec *models.ResearchRecord, findings []models.Finding, guidance string) (*models.ResearchRecord, error) {
	current, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	var b strings.Builder
	b.WriteString("Research record:\n```json\n")
	b.Write(current)
	b.WriteString("\n```\n\nQuality control issues:\n")
	writeFindings(&b, findings)
	if guidance != "" {
		b.WriteString("\nFix guidance:\n")
		b.WriteString(guidance)
		b.WriteString("\n")
	}
	b.WriteString("\nReturn the complete corrected research record as a single JSON object. ")
	b.WriteString("Keep every field you do not need to change exactly as it is. No commentary.")

	reply, err := f.client.Complete(ctx, api.Request{
		System:    fixerSystem,
		Prompt:    b.String(),
		MaxTokens: f.policy.FixMaxTokens,
		Timeout:   f.policy.AnalysisTimeout,
	})
	if err != nil {
		return nil, err
	}
	fixed, err := parseFixedRecord(reply)
	if err != nil {
		return nil, err
	}
	if f.guard != nil {
		if err := f.guard.Check(rec, fixed); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFix, err)
		}
	}
	return fixed, nil
}

func parseFixedRecord(reply string) (*models.ResearchRecord, error) {
	raw, err := aiqc.ExtractJSON(reply)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFix, err)
	}
	rec, err := ParseRecord([]byte(raw), "fix reply")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFix, err)
	}
	return rec, nil
}

func writeFindings(b *strings.Builder, findings []models.Finding) {
	for _, f := range findings {
		fmt.Fprintf(b, "- [%s/%s] %s", f.Severity, f.Category, f.Message)
		if f.Evidence != "" {
			fmt.Fprintf(b, " (evidence: %s)", f.Evidence)
		}
		if f.Fix != "" {
			fmt.Fprintf(b, " (suggested fix: %s)", f.Fix)
		}
		b.WriteString("\n")
	}
}
