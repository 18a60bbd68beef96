package models

import (
	"time"

	"github.com/harrison/lintgate/internal/lint"
)

// Run status constants
const (
	StatusPassed = "PASSED" // Linter exited 0, or there was nothing to lint
	StatusFailed = "FAILED" // Linter reported findings (non-zero exit)
	StatusError  = "ERROR"  // Discovery or launch failure; linter never ran to completion
)

// Outcome is the record of one gate run
type Outcome struct {
	RunID     string         `json:"run_id"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration_ns"`
	Roots     []string       `json:"roots"`
	Files     []string       `json:"files"`
	Linter    string         `json:"linter"`
	Args      []string       `json:"args,omitempty"`
	Invoked   bool           `json:"invoked"`   // False when the file set was empty or discovery failed
	ExitCode  int            `json:"exit_code"` // Exit status of the gate itself
	Findings  []lint.Finding `json:"findings,omitempty"`
	Output    string         `json:"-"` // Captured linter output
	Error     string         `json:"error,omitempty"`
}

// Passed reports whether the gate succeeded
func (o *Outcome) Passed() bool {
	return o.ExitCode == 0 && o.Error == ""
}

// Status returns StatusPassed, StatusFailed or StatusError
func (o *Outcome) Status() string {
	switch {
	case o.Passed():
		return StatusPassed
	case o.Invoked && o.ExitCode != 0:
		return StatusFailed
	default:
		return StatusError
	}
}

// ErrorFindings returns the findings at fatal or error severity
func (o *Outcome) ErrorFindings() []lint.Finding {
	var out []lint.Finding
	for _, f := range o.Findings {
		if f.IsErrorSeverity() {
			out = append(out, f)
		}
	}
	return out
}
