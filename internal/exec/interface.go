// Package exec runs the external programs the pipeline depends on, such as
// the report renderer.
package exec

import (
	"context"
)

// CommandRunner runs external commands. Tests substitute a fake.
type CommandRunner interface {
	// Run executes name with args and returns its stdout. The working
	// directory is set to workDir if non-empty. A non-zero exit is an
	// error that carries the command's stderr.
	Run(ctx context.Context, workDir string, name string, args ...string) (stdout []byte, err error)

	// RunShell executes a command line through "sh -c".
	RunShell(ctx context.Context, workDir string, command string) (stdout []byte, err error)
}
