package lint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrToolNotFound is wrapped by ToolNotFoundError.
var ErrToolNotFound = errors.New("linter not found")

// DiscoveryError reports a configured root directory that is missing or
// unreadable. It is fatal and raised before the linter is started.
type DiscoveryError struct {
	Root string // Root directory that could not be scanned
	Err  error  // Underlying error
}

// Error implements the error interface for DiscoveryError.
func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery failed for root %q: %v", e.Root, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// LintFindingError reports that the linter exited with a non-zero status.
// ExitCode carries the linter's own code so the gate can propagate it.
type LintFindingError struct {
	Linter   string    // Linter binary that was invoked
	ExitCode int       // Exit code reported by the linter
	Findings []Finding // Diagnostics parsed from the captured output
}

// Error implements the error interface for LintFindingError.
func (e *LintFindingError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s exited with status %d", e.Linter, e.ExitCode))
	if n := len(e.Findings); n > 0 {
		sb.WriteString(fmt.Sprintf(" (%d finding", n))
		if n != 1 {
			sb.WriteString("s")
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// ToolNotFoundError reports that the linter binary could not be launched
// because it is absent from PATH (or the configured path does not exist).
type ToolNotFoundError struct {
	Linter string
	Err    error
}

// Error implements the error interface for ToolNotFoundError.
func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrToolNotFound, e.Linter, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ToolNotFoundError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrToolNotFound) match.
func (e *ToolNotFoundError) Is(target error) bool {
	return target == ErrToolNotFound
}

// IsDiscoveryError reports whether err is or wraps a *DiscoveryError.
func IsDiscoveryError(err error) bool {
	var de *DiscoveryError
	return errors.As(err, &de)
}

// IsLintFindingError reports whether err is or wraps a *LintFindingError.
func IsLintFindingError(err error) bool {
	var le *LintFindingError
	return errors.As(err, &le)
}
