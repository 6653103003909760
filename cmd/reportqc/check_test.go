package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/reportqc/internal/api"
	"github.com/ShayCichocki/reportqc/internal/cache"
	"github.com/ShayCichocki/reportqc/internal/logging"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

func TestWatchCheck_StopKeepsLastVerdict(t *testing.T) {
	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "research.json"), filepath.Join(dir, "report.html")}
	for _, p := range paths {
		if err := os.WriteFile(p, []byte("{}"), 0644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	tests := []struct {
		name    string
		status  models.QCStatus
		wantErr error
	}{
		{"last run passed", models.QCStatusPassed, nil},
		{"last run failed", models.QCStatusFailed, errDoNotSend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			cmd := &cobra.Command{}
			cmd.SetErr(&bytes.Buffer{})
			last := &models.QCResult{Status: tt.status}
			err := watchCheck(ctx, cmd, paths, last, func() (*models.QCResult, error) {
				t.Error("nothing changed, check should not re-run")
				return last, nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("watchCheck = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

type trackedCompleter struct {
	tracker *api.TokenTracker
}

func (c trackedCompleter) Complete(context.Context, api.Request) (string, error) { return "", nil }
func (c trackedCompleter) Model() string                                         { return "gpt-4o-mini" }
func (c trackedCompleter) Tracker() *api.TokenTracker                            { return c.tracker }

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logging.Log
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.InfoLevel)
	logging.Log = l
	t.Cleanup(func() { logging.Log = prev })
	return &buf
}

func TestLogUsage(t *testing.T) {
	buf := captureLog(t)

	tracker := api.NewTokenTracker("gpt-4o-mini")
	tracker.Add(1200, 300)
	verdicts := cache.NewMemory()
	verdicts.Put("k", []byte("{}"))
	verdicts.Get("k")
	logUsage(trackedCompleter{tracker: tracker}, verdicts)

	out := buf.String()
	for _, want := range []string{
		"language model usage", "calls=1", "input_tokens=1200", "output_tokens=300", "cost_usd=0.0004",
		"cache_entries=1", "cache_hits=1", "cache_misses=0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestLogUsage_QuietWithoutCalls(t *testing.T) {
	buf := captureLog(t)

	logUsage(nil, nil)
	logUsage(trackedCompleter{tracker: api.NewTokenTracker("gpt-4o-mini")}, cache.NewMemory())
	if buf.Len() != 0 {
		t.Errorf("expected no usage log, got:\n%s", buf.String())
	}
}
