package qc

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ShayCichocki/reportqc/internal/api"
	"github.com/ShayCichocki/reportqc/internal/validation"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

// goodRecord loads the passing fixture record.
func goodRecord(t *testing.T) *models.ResearchRecord {
	t.Helper()
	rec, err := LoadRecord(filepath.Join("testdata", "research.json"))
	if err != nil {
		t.Fatalf("load fixture record: %v", err)
	}
	return rec
}

// hasField reports whether rec encodes a top-level key.
func hasField(t *testing.T, rec *models.ResearchRecord, key string) bool {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("encode record: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	_, ok := fields[key]
	return ok
}

// goodReport loads the passing fixture report.
func goodReport(t *testing.T) string {
	t.Helper()
	html, err := LoadReport(filepath.Join("testdata", "report.html"))
	if err != nil {
		t.Fatalf("load fixture report: %v", err)
	}
	return html
}

func newTestPipeline() *Pipeline {
	return NewPipeline(validation.New(nil, nil), nil, nil)
}

// fakeCompleter replies from a queue, one entry per call.
type fakeCompleter struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   []api.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req api.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.calls)
	f.calls = append(f.calls, req)
	var reply string
	var err error
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return reply, err
}

func (f *fakeCompleter) Model() string { return "fake-model" }

// fakeFixer returns a fixed record, or an error when fixed is nil.
type fakeFixer struct {
	fixed         *models.ResearchRecord
	err           error
	guidanceCalls int
	applyCalls    int
}

func (f *fakeFixer) Guidance(ctx context.Context, rec *models.ResearchRecord, findings []models.Finding) (string, error) {
	f.guidanceCalls++
	return "fix the firm name", nil
}

func (f *fakeFixer) Apply(ctx context.Context, rec *models.ResearchRecord, findings []models.Finding, guidance string) (*models.ResearchRecord, error) {
	f.applyCalls++
	if f.fixed == nil {
		return nil, f.err
	}
	return f.fixed.Clone(), nil
}

// collectRecorder keeps every recorded result.
type collectRecorder struct {
	results []*models.QCResult
}

func (c *collectRecorder) Record(r *models.QCResult) error {
	c.results = append(c.results, r)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
