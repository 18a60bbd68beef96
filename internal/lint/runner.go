package lint

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os/exec"
)

// CommandRunner abstracts process execution for testability.
// Run starts name with args, streams its output to stdout and stderr,
// waits for it to exit and returns the exit code. A non-nil error means
// the process could not be started or waited on; a non-zero exit code on
// its own is not an error.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (exitCode int, err error)
	LookPath(name string) (string, error)
}

// ExecCommandRunner executes real processes via os/exec.
type ExecCommandRunner struct {
	WorkDir string // Working directory for the process (empty = current dir)
}

// NewExecCommandRunner creates a CommandRunner that executes real processes.
func NewExecCommandRunner(workDir string) *ExecCommandRunner {
	return &ExecCommandRunner{WorkDir: workDir}
}

// Run executes name directly (no shell) and waits for it to finish.
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if r.WorkDir != "" {
		cmd.Dir = r.WorkDir
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code <= 0 {
			// Terminated by a signal.
			code = 1
		}
		return code, nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return 0, &ToolNotFoundError{Linter: name, Err: err}
	}
	return 0, err
}

// LookPath resolves name the way exec.Command would.
func (r *ExecCommandRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
