package qc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ShayCichocki/reportqc/internal/api"
	"github.com/ShayCichocki/reportqc/internal/policy"
	"github.com/ShayCichocki/reportqc/internal/protect"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

var sampleFindings = []models.Finding{
	models.NewFinding(models.SeverityCritical, models.CategoryDataExistence, "Firm name is a placeholder").WithEvidence("Unknown"),
}

func TestAIFixer_Guidance(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"Use the firm name from the website footer."}}
	p := policy.Default().AI
	f := NewAIFixer(fc, p)

	got, err := f.Guidance(context.Background(), &models.ResearchRecord{FirmName: "Unknown"}, sampleFindings)
	if err != nil {
		t.Fatalf("Guidance failed: %v", err)
	}
	if got != "Use the firm name from the website footer." {
		t.Errorf("guidance = %q", got)
	}
	req := fc.calls[0]
	if req.MaxTokens != 1024 || req.Timeout != p.LightTimeout {
		t.Errorf("request limits = %d tokens, %v", req.MaxTokens, req.Timeout)
	}
	if !strings.Contains(req.Prompt, "[CRITICAL/DATA_EXISTENCE] Firm name is a placeholder (evidence: Unknown)") {
		t.Errorf("prompt missing finding:\n%s", req.Prompt)
	}
}

func TestAIFixer_Apply(t *testing.T) {
	reply := "Here is the corrected record:\n```json\n" +
		`{"firmName": "Doe & Associates", "location": {"city": "Austin", "state": "TX"}, "scrapedAt": "2026-09-30"}` +
		"\n```"
	fc := &fakeCompleter{replies: []string{reply}}
	p := policy.Default().AI
	f := NewAIFixer(fc, p)

	rec, err := f.Apply(context.Background(), &models.ResearchRecord{FirmName: "Unknown"}, sampleFindings, "use the footer name")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if rec.FirmName != "Doe & Associates" || rec.Location.City != "Austin" {
		t.Errorf("record = %+v", rec)
	}
	if !hasField(t, rec, "scrapedAt") {
		t.Error("extra fields from the reply were dropped")
	}
	req := fc.calls[0]
	if req.MaxTokens != 8192 || req.Timeout != p.AnalysisTimeout {
		t.Errorf("request limits = %d tokens, %v", req.MaxTokens, req.Timeout)
	}
	if !strings.Contains(req.Prompt, "use the footer name") || !strings.Contains(req.Prompt, `"firmName": "Unknown"`) {
		t.Errorf("prompt missing record or guidance:\n%s", req.Prompt)
	}
}

func TestAIFixer_ApplyRejectsInvalidReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"prose", "I could not fix this record."},
		{"truncated", `{"firmName": "Doe & Associates", "location": {`},
		{"wrong types", `{"firmName": ["Doe"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewAIFixer(&fakeCompleter{replies: []string{tt.reply}}, policy.Default().AI)
			_, err := f.Apply(context.Background(), &models.ResearchRecord{}, sampleFindings, "")
			if !errors.Is(err, ErrInvalidFix) {
				t.Errorf("err = %v, want ErrInvalidFix", err)
			}
		})
	}
}

func TestAIFixer_ApplyRejectsProtectedChanges(t *testing.T) {
	reply := `{"firmName": "Doe & Associates", "website": "https://invented.example", "location": {"city": "Austin", "state": "TX"}}`
	rec := &models.ResearchRecord{FirmName: "Unknown", Website: "https://doelaw.example"}

	f := NewAIFixer(&fakeCompleter{replies: []string{reply}}, policy.Default().AI)
	_, err := f.Apply(context.Background(), rec, sampleFindings, "")
	if !errors.Is(err, ErrInvalidFix) || !errors.Is(err, protect.ErrProtectedField) {
		t.Fatalf("err = %v, want ErrInvalidFix wrapping ErrProtectedField", err)
	}

	f = NewAIFixer(&fakeCompleter{replies: []string{reply}}, policy.Default().AI).WithGuard(nil)
	fixed, err := f.Apply(context.Background(), rec, sampleFindings, "")
	if err != nil {
		t.Fatalf("Apply without guard failed: %v", err)
	}
	if fixed.Website != "https://invented.example" {
		t.Errorf("Website = %q", fixed.Website)
	}
}

func TestController_InvalidFixKeepsRecordAndRegenerates(t *testing.T) {
	rec := goodRecord(t)
	rec.FirmName = "Unknown"
	fc := &fakeCompleter{
		replies: []string{"guidance", "not json at all"},
		errs:    []error{nil, nil, api.ErrTimeout, api.ErrTimeout},
	}
	rend := &countingRenderer{good: goodReport(t)}
	loop := policy.LoopPolicy{MaxIterations: 2}

	c := NewController(newTestPipeline(), NewAIFixer(fc, policy.Default().AI), rend, nil, loop, Options{})
	out, err := c.Run(context.Background(), rec, brokenReport)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.State != StateRejected || out.Rounds != 2 {
		t.Errorf("State = %s, Rounds = %d", out.State, out.Rounds)
	}
	if rend.calls != 1 {
		t.Errorf("renderer called %d times, want 1", rend.calls)
	}
	if out.Record.FirmName != "Unknown" {
		t.Errorf("invalid fix replaced the record: %q", out.Record.FirmName)
	}
}

func TestRecorders_JoinErrors(t *testing.T) {
	var calls int
	ok := RecorderFunc(func(r *models.QCResult) error { calls++; return nil })
	bad := RecorderFunc(func(r *models.QCResult) error { calls++; return errors.New("boom") })

	err := Recorders{bad, nil, ok}.Record(&models.QCResult{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
