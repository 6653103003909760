package aiqc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ShayCichocki/reportqc/internal/api"
	"github.com/ShayCichocki/reportqc/internal/cache"
	"github.com/ShayCichocki/reportqc/internal/logging"
	"github.com/ShayCichocki/reportqc/internal/policy"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

func init() {
	logging.Discard()
}

type fakeCompleter struct {
	reply string
	err   error
	calls int
	last  api.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req api.Request) (string, error) {
	f.calls++
	f.last = req
	return f.reply, f.err
}

func (f *fakeCompleter) Model() string { return "fake-model" }

func testRecord() *models.ResearchRecord {
	return &models.ResearchRecord{
		FirmName:      "Doe & Associates",
		Location:      models.Location{City: "Austin", State: "TX"},
		PracticeAreas: []string{"divorce"},
		Competitors:   []models.Competitor{{Name: "Smith Family Law"}},
	}
}

const testHTML = `<html><body><h1>Doe &amp; Associates</h1><p>Families in Austin lose $4,200 a month.</p></body></html>`

const goodReply = "```json\n" + `{
  "issues": [
    {"severity": "IMPORTANT", "category": "GEOGRAPHIC", "message": "Mentions Dallas instead of Austin", "evidence": "Dallas"},
    {"severity": "minor", "category": "TONE", "message": "Slightly stiff intro"},
    {"severity": "WARNING", "category": "PHRASING", "message": ""}
  ],
  "wouldAct": "yes",
  "biggestIssue": "Wrong city in the second section"
}` + "\n```"

func TestAnalyze_NoClientIsSkipped(t *testing.T) {
	a := NewAnalyzer(nil, nil, policy.Default().AI)
	res := a.Analyze(context.Background(), testRecord(), testHTML, false)

	if !res.Verdict.Skipped || res.Verdict.SkipReason != SkipNoClient {
		t.Errorf("Verdict = %+v, want skipped", res.Verdict)
	}
	if len(res.Findings) != 0 {
		t.Errorf("skipped phase produced findings: %+v", res.Findings)
	}
	if res.Verdict.Error != "" || res.Verdict.Ran {
		t.Errorf("skipped phase must not report error or ran: %+v", res.Verdict)
	}
}

func TestAnalyze_GateFailedIsSkipped(t *testing.T) {
	fc := &fakeCompleter{reply: goodReply}
	a := NewAnalyzer(fc, nil, policy.Default().AI)
	res := a.Analyze(context.Background(), testRecord(), testHTML, true)

	if res.Verdict.SkipReason != SkipGateFailed {
		t.Errorf("SkipReason = %q", res.Verdict.SkipReason)
	}
	if fc.calls != 0 {
		t.Error("model must not be called when the gate fails")
	}
}

func TestAnalyze_ParsesFencedReply(t *testing.T) {
	fc := &fakeCompleter{reply: goodReply}
	p := policy.Default().AI
	a := NewAnalyzer(fc, nil, p)

	res := a.Analyze(context.Background(), testRecord(), testHTML, false)
	if !res.Verdict.Ran || res.Verdict.Error != "" {
		t.Fatalf("Verdict = %+v", res.Verdict)
	}
	if !res.Verdict.WouldAct || res.Verdict.BiggestIssue != "Wrong city in the second section" {
		t.Errorf("Verdict = %+v", res.Verdict)
	}
	if len(res.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %+v", res.Findings)
	}
	if res.Findings[0].Category != models.CategoryGeographic || res.Findings[0].Phase != models.PhaseAI {
		t.Errorf("first finding = %+v", res.Findings[0])
	}
	if res.Findings[1].Severity != models.SeverityWarning || res.Findings[1].Category != models.CategoryContent {
		t.Errorf("unknown severity/category not normalised: %+v", res.Findings[1])
	}

	if fc.last.MaxTokens != p.AnalysisMaxTokens || fc.last.Timeout != p.AnalysisTimeout {
		t.Errorf("request limits = %d/%v", fc.last.MaxTokens, fc.last.Timeout)
	}
	if !strings.Contains(fc.last.Prompt, "Expected currency: $ (USD)") {
		t.Errorf("prompt missing currency context:\n%s", fc.last.Prompt)
	}
}

func TestAnalyze_ErrorsAreFlaggedNotReturned(t *testing.T) {
	tests := []struct {
		name string
		fc   *fakeCompleter
	}{
		{"network error", &fakeCompleter{err: errors.New("503 service unavailable")}},
		{"timeout", &fakeCompleter{err: api.ErrTimeout}},
		{"unparseable", &fakeCompleter{reply: "I think the report looks fine."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewAnalyzer(tt.fc, nil, policy.Default().AI).Analyze(context.Background(), testRecord(), testHTML, false)
			if res.Verdict.Error == "" {
				t.Error("expected error flag")
			}
			if res.Verdict.Skipped || res.Verdict.Ran {
				t.Errorf("Verdict = %+v", res.Verdict)
			}
			if len(res.Findings) != 0 {
				t.Errorf("failed phase produced findings: %+v", res.Findings)
			}
		})
	}
}

func TestAnalyze_CachesByPrompt(t *testing.T) {
	fc := &fakeCompleter{reply: goodReply}
	store := cache.NewMemory()
	a := NewAnalyzer(fc, store, policy.Default().AI)

	first := a.Analyze(context.Background(), testRecord(), testHTML, false)
	second := a.Analyze(context.Background(), testRecord(), testHTML, false)

	if fc.calls != 1 {
		t.Errorf("model called %d times, want 1", fc.calls)
	}
	if first.Verdict.Cached || !second.Verdict.Cached {
		t.Errorf("cached flags = %v/%v", first.Verdict.Cached, second.Verdict.Cached)
	}
	if len(second.Findings) != len(first.Findings) {
		t.Errorf("cached findings differ: %d vs %d", len(second.Findings), len(first.Findings))
	}

	a.Analyze(context.Background(), testRecord(), strings.Replace(testHTML, "$4,200", "$4,900", 1), false)
	if fc.calls != 2 {
		t.Errorf("changed report should miss the cache, calls = %d", fc.calls)
	}
}

func TestAnalyze_FailuresAreNotCached(t *testing.T) {
	fc := &fakeCompleter{reply: "not json"}
	store := cache.NewMemory()
	a := NewAnalyzer(fc, store, policy.Default().AI)

	a.Analyze(context.Background(), testRecord(), testHTML, false)
	if store.Len() != 0 {
		t.Error("unparseable replies must not be cached")
	}
}
