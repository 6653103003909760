package exec

import (
	"context"
	"strings"
	"testing"
)

func TestExecRunner_Run(t *testing.T) {
	r := NewRunner()
	out, err := r.Run(context.Background(), "", "echo", "hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.TrimSpace(string(out)) != "hello" {
		t.Errorf("stdout = %q", out)
	}
}

func TestExecRunner_StderrInError(t *testing.T) {
	r := NewRunner()
	out, err := r.RunShell(context.Background(), "", "echo partial; echo 'template missing' >&2; exit 3")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "template missing") {
		t.Errorf("error should carry stderr: %v", err)
	}
	if strings.Contains(string(out), "template missing") {
		t.Errorf("stderr leaked into stdout: %q", out)
	}
}

func TestExecRunner_WorkDir(t *testing.T) {
	dir := t.TempDir()
	out, err := NewRunner().Run(context.Background(), dir, "pwd")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(string(out)), dir[strings.LastIndex(dir, "/"):]) {
		t.Errorf("pwd = %q, want %q", out, dir)
	}
}
