// Package gate runs the lint check end to end: discover the file set,
// invoke the linter once over it, and report pass or fail.
package gate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/lintgate/internal/config"
	"github.com/harrison/lintgate/internal/fileutil"
	"github.com/harrison/lintgate/internal/lint"
	"github.com/harrison/lintgate/internal/models"
)

// Process exit codes
const (
	ExitSuccess      = 0   // Linter passed, or there was nothing to lint
	ExitFailure      = 1   // Discovery, configuration or runtime failure
	ExitToolNotFound = 127 // Linter binary not on PATH, as a shell reports it
)

// Logger is the logging surface the runner writes progress to
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Runner drives one gate run: Start -> Discover -> Invoke -> Report | Abort.
type Runner struct {
	Config  *config.Config
	Invoker *lint.Invoker
	Logger  Logger

	// Stdout receives the confirmation line. Nil means os.Stdout.
	Stdout io.Writer

	// OnScanErrors, when set, receives non-fatal scan errors instead of
	// the logger.
	OnScanErrors func(errs []error)

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string
}

// NewRunner creates a Runner whose invoker is configured from cfg and
// spawns the real linter process.
func NewRunner(cfg *config.Config, logger Logger) *Runner {
	return &Runner{
		Config: cfg,
		Invoker: &lint.Invoker{
			Linter:         cfg.Linter,
			ErrorsOnly:     cfg.ErrorsOnly,
			SuppressedRule: cfg.SuppressedRule,
			Runner:         lint.NewExecCommandRunner(""),
		},
		Logger: logger,
	}
}

// Discover scans the configured roots and returns the file set.
// A root that is missing or unreadable yields a *lint.DiscoveryError.
func (r *Runner) Discover() ([]string, error) {
	opts := fileutil.ScanOptions{
		Extensions:  []string{r.Config.Extension},
		ExcludeDirs: r.Config.ExcludeDirs,
	}

	result, err := fileutil.ScanRoots(r.Config.Roots, opts)
	if err != nil {
		var rootErr *fileutil.RootError
		if errors.As(err, &rootErr) {
			return nil, &lint.DiscoveryError{Root: rootErr.Root, Err: rootErr.Err}
		}
		return nil, &lint.DiscoveryError{Err: err}
	}

	if len(result.Errors) > 0 {
		if r.OnScanErrors != nil {
			r.OnScanErrors(result.Errors)
		} else {
			for _, scanErr := range result.Errors {
				r.logger().LogWarn(scanErr.Error())
			}
		}
	}

	return result.Files, nil
}

// Invoke runs the linter once over files.
func (r *Runner) Invoke(ctx context.Context, files []string) (*lint.Result, error) {
	return r.Invoker.Invoke(ctx, files)
}

// Report writes the confirmation line to stdout.
func (r *Runner) Report() error {
	if _, err := fmt.Fprintln(r.stdout(), r.Config.Message); err != nil {
		return fmt.Errorf("failed to write confirmation: %w", err)
	}
	return nil
}

// Run performs one complete gate run. The returned outcome is never nil;
// the error is nil exactly when the gate passed.
func (r *Runner) Run(ctx context.Context) (*models.Outcome, error) {
	start := r.now()
	outcome := &models.Outcome{
		RunID:     r.newID(),
		StartedAt: start,
		Roots:     append([]string(nil), r.Config.Roots...),
		Linter:    r.Invoker.Linter,
	}
	if outcome.Linter == "" {
		outcome.Linter = lint.DefaultLinter
	}

	files, err := r.Discover()
	if err != nil {
		return r.abort(outcome, start, err)
	}
	outcome.Files = files
	r.logger().LogDebug(fmt.Sprintf("Discovered %d file(s) under %v", len(files), r.Config.Roots))

	if len(files) == 0 {
		r.logger().LogInfo("No files to lint, skipping " + outcome.Linter)
		return r.succeed(outcome, start)
	}

	if err := r.Invoker.Preflight(); err != nil {
		return r.abort(outcome, start, err)
	}

	if r.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Config.Timeout)
		defer cancel()
	}

	outcome.Args = r.Invoker.Args(files)
	r.logger().LogDebug(fmt.Sprintf("Running %s with %d argument(s)", outcome.Linter, len(outcome.Args)))

	result, err := r.Invoke(ctx, files)
	if result != nil {
		outcome.Invoked = true
		outcome.Findings = result.Findings
		outcome.Output = result.Output
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%s timed out after %v: %w", outcome.Linter, r.Config.Timeout, err)
		}
		return r.abort(outcome, start, err)
	}

	return r.succeed(outcome, start)
}

func (r *Runner) succeed(outcome *models.Outcome, start time.Time) (*models.Outcome, error) {
	if err := r.Report(); err != nil {
		return r.abort(outcome, start, err)
	}
	outcome.ExitCode = ExitSuccess
	outcome.Duration = r.now().Sub(start)
	return outcome, nil
}

func (r *Runner) abort(outcome *models.Outcome, start time.Time, err error) (*models.Outcome, error) {
	outcome.ExitCode = ExitCode(err)
	outcome.Error = err.Error()
	outcome.Duration = r.now().Sub(start)
	if lint.IsLintFindingError(err) {
		r.logger().LogDebug(err.Error())
	} else {
		r.logger().LogError(err.Error())
	}
	return outcome, err
}

// ExitCode maps a Run error to the process exit status: the linter's own
// code for findings, 127 for a missing linter, 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var findingErr *lint.LintFindingError
	if errors.As(err, &findingErr) {
		if findingErr.ExitCode <= 0 {
			return ExitFailure
		}
		return findingErr.ExitCode
	}

	if errors.Is(err, lint.ErrToolNotFound) {
		return ExitToolNotFound
	}

	return ExitFailure
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.New().String()
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Runner) logger() Logger {
	if r.Logger == nil {
		return nopLogger{}
	}
	return r.Logger
}

type nopLogger struct{}

func (nopLogger) LogDebug(string) {}
func (nopLogger) LogInfo(string)  {}
func (nopLogger) LogWarn(string)  {}
func (nopLogger) LogError(string) {}
