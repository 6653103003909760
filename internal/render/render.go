// Package render turns a research record into report HTML by running an
// external renderer.
package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ShayCichocki/reportqc/internal/exec"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

var (
	// ErrEmptyOutput is returned when the renderer produced no HTML.
	ErrEmptyOutput = errors.New("renderer produced no output")
	// ErrNoCommand is returned when no render command is configured.
	ErrNoCommand = errors.New("no render command configured")
)

// Renderer produces report HTML for a record.
type Renderer interface {
	Render(ctx context.Context, rec *models.ResearchRecord, contact string) (string, error)
}

// Func adapts a plain function to Renderer.
type Func func(ctx context.Context, rec *models.ResearchRecord, contact string) (string, error)

// Render calls f.
func (f Func) Render(ctx context.Context, rec *models.ResearchRecord, contact string) (string, error) {
	return f(ctx, rec, contact)
}

// Command runs a configured program. Placeholders in the argv:
//
//	{research}  path of a temp file holding the record as JSON
//	{contact}   contact name
//	{output}    path the HTML is read back from
//
// When no output path is configured the HTML is read from stdout.
type Command struct {
	runner  exec.CommandRunner
	argv    []string
	output  string
	workDir string
}

// NewCommand creates a Command renderer.
func NewCommand(runner exec.CommandRunner, argv []string, output, workDir string) *Command {
	return &Command{
		runner:  runner,
		argv:    append([]string(nil), argv...),
		output:  output,
		workDir: workDir,
	}
}

// Render writes rec to a temp file, runs the command and returns the HTML.
func (c *Command) Render(ctx context.Context, rec *models.ResearchRecord, contact string) (string, error) {
	if len(c.argv) == 0 {
		return "", ErrNoCommand
	}
	if contact == "" {
		contact = rec.ContactName
	}

	dir, err := os.MkdirTemp("", "reportqc-render-")
	if err != nil {
		return "", fmt.Errorf("create render dir: %w", err)
	}
	defer os.RemoveAll(dir)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode research record: %w", err)
	}
	researchPath := filepath.Join(dir, "research.json")
	if err := os.WriteFile(researchPath, data, 0600); err != nil {
		return "", fmt.Errorf("write research record: %w", err)
	}

	outputPath := c.output
	if outputPath != "" {
		// Stale output from a previous round must not be mistaken for new HTML.
		if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("clear previous output: %w", err)
		}
	}

	r := strings.NewReplacer("{research}", researchPath, "{contact}", contact, "{output}", outputPath)
	var stdout []byte
	if len(c.argv) == 1 {
		r = strings.NewReplacer(
			"{research}", shellQuote(researchPath),
			"{contact}", shellQuote(contact),
			"{output}", shellQuote(outputPath),
		)
		stdout, err = c.runner.RunShell(ctx, c.workDir, r.Replace(c.argv[0]))
	} else {
		args := make([]string, len(c.argv)-1)
		for i, a := range c.argv[1:] {
			args[i] = r.Replace(a)
		}
		stdout, err = c.runner.Run(ctx, c.workDir, c.argv[0], args...)
	}
	if err != nil {
		return "", fmt.Errorf("run renderer: %w", err)
	}

	html := string(stdout)
	if outputPath != "" {
		b, err := os.ReadFile(outputPath)
		if err != nil {
			return "", fmt.Errorf("read rendered report: %w", err)
		}
		html = string(b)
	}
	if strings.TrimSpace(html) == "" {
		return "", ErrEmptyOutput
	}
	return html, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
