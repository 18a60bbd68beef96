// Package lint invokes an external Python linter against a file set.
package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultLinter is the linter binary, resolved through PATH.
const DefaultLinter = "pylint"

// Invoker runs the external linter with a fixed flag set.
// Create once, use many times.
type Invoker struct {
	// Linter is the linter binary name or path. Defaults to DefaultLinter.
	Linter string

	// ErrorsOnly adds --errors-only so only fatal and error findings are reported.
	ErrorsOnly bool

	// SuppressedRule is passed as --disable=<rule> when non-empty.
	SuppressedRule string

	// Runner executes the process. Defaults to an ExecCommandRunner.
	Runner CommandRunner

	// Stdout and Stderr receive the linter's streamed output.
	// Nil means os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Result holds the outcome of one linter invocation.
type Result struct {
	Linter   string
	Args     []string
	ExitCode int
	Output   string // Captured stdout followed by captured stderr
	Findings []Finding
	Duration time.Duration
}

// Passed reports whether the linter exited cleanly.
func (r *Result) Passed() bool {
	return r.ExitCode == 0
}

// NewInvoker creates an Invoker with the default linter and a real process runner.
func NewInvoker() *Invoker {
	return &Invoker{
		Linter: DefaultLinter,
		Runner: NewExecCommandRunner(""),
	}
}

// Args builds the full argument vector for files: the two behaviour flags
// followed by every file, in order.
func (inv *Invoker) Args(files []string) []string {
	args := make([]string, 0, len(files)+2)
	if inv.ErrorsOnly {
		args = append(args, "--errors-only")
	}
	if inv.SuppressedRule != "" {
		args = append(args, "--disable="+inv.SuppressedRule)
	}
	return append(args, files...)
}

// Preflight checks that the linter binary can be found.
func (inv *Invoker) Preflight() error {
	linter := inv.linter()
	if _, err := inv.runner().LookPath(linter); err != nil {
		return &ToolNotFoundError{Linter: linter, Err: err}
	}
	return nil
}

// Invoke runs the linter over files and waits for it to exit.
//
// A non-zero exit returns both the Result and a *LintFindingError.
// A launch failure returns a *ToolNotFoundError (binary missing) or the
// underlying error, with a nil Result.
func (inv *Invoker) Invoke(ctx context.Context, files []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	linter := inv.linter()
	args := inv.Args(files)

	var stdoutBuf, stderrBuf bytes.Buffer
	stdout := io.MultiWriter(inv.stdout(), &stdoutBuf)
	stderr := io.MultiWriter(inv.stderr(), &stderrBuf)

	start := time.Now()
	code, err := inv.runner().Run(ctx, linter, args, stdout, stderr)
	duration := time.Since(start)
	if err != nil {
		var notFound *ToolNotFoundError
		if errors.As(err, &notFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to run %s: %w", linter, err)
	}

	output := stdoutBuf.String() + stderrBuf.String()
	result := &Result{
		Linter:   linter,
		Args:     args,
		ExitCode: code,
		Output:   output,
		Findings: ParseFindings(output),
		Duration: duration,
	}

	if code != 0 {
		return result, &LintFindingError{
			Linter:   linter,
			ExitCode: code,
			Findings: result.Findings,
		}
	}

	return result, nil
}

func (inv *Invoker) linter() string {
	if inv.Linter == "" {
		return DefaultLinter
	}
	return inv.Linter
}

func (inv *Invoker) runner() CommandRunner {
	if inv.Runner == nil {
		return NewExecCommandRunner("")
	}
	return inv.Runner
}

func (inv *Invoker) stdout() io.Writer {
	if inv.Stdout == nil {
		return os.Stdout
	}
	return inv.Stdout
}

func (inv *Invoker) stderr() io.Writer {
	if inv.Stderr == nil {
		return os.Stderr
	}
	return inv.Stderr
}
