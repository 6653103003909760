package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ShayCichocki/reportqc/internal/logging"
)

func init() {
	logging.Discard()
}

func TestWatcher_FiresOnceForBurst(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "report.html")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(target, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{target}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	calls := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(path string) { calls <- path })
	}()

	// Give the watcher a moment to start receiving.
	time.Sleep(20 * time.Millisecond)
	os.WriteFile(other, []byte("ignored"), 0644)
	for i := 0; i < 3; i++ {
		os.WriteFile(target, []byte("v2"), 0644)
	}

	select {
	case got := <-calls:
		if filepath.Base(got) != "report.html" {
			t.Errorf("onChange path = %q", got)
		}
	case <-ctx.Done():
		t.Fatal("onChange not called")
	}

	select {
	case extra := <-calls:
		t.Errorf("unexpected second call for %q", extra)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil, 0); err == nil {
		t.Error("expected error for no paths")
	}
	if _, err := New([]string{"/nonexistent-dir-for-test/file.json"}, 0); err == nil {
		t.Error("expected error for missing directory")
	}
}
