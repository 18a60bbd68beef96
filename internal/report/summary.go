// Package report renders gate outcomes: a JSON summary of the last run and
// Markdown/HTML tables of run history.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harrison/lintgate/internal/filelock"
	"github.com/harrison/lintgate/internal/lint"
	"github.com/harrison/lintgate/internal/models"
)

// Summary is the JSON document written for the last run.
type Summary struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
	Status     string         `json:"status"`
	ExitCode   int            `json:"exit_code"`
	Roots      []string       `json:"roots"`
	Files      []string       `json:"files"`
	Linter     string         `json:"linter"`
	Args       []string       `json:"args,omitempty"`
	Findings   []lint.Finding `json:"findings"`
	Error      string         `json:"error,omitempty"`
}

// NewSummary builds a Summary from an outcome.
func NewSummary(outcome *models.Outcome) Summary {
	findings := outcome.Findings
	if findings == nil {
		findings = []lint.Finding{}
	}
	files := outcome.Files
	if files == nil {
		files = []string{}
	}
	return Summary{
		RunID:      outcome.RunID,
		StartedAt:  outcome.StartedAt.UTC(),
		DurationMS: outcome.Duration.Milliseconds(),
		Status:     outcome.Status(),
		ExitCode:   outcome.ExitCode,
		Roots:      outcome.Roots,
		Files:      files,
		Linter:     outcome.Linter,
		Args:       flagsOnly(outcome.Args, len(outcome.Files)),
		Findings:   findings,
		Error:      outcome.Error,
	}
}

// flagsOnly strips the trailing file operands from args.
func flagsOnly(args []string, fileCount int) []string {
	if fileCount > len(args) {
		return args
	}
	return args[:len(args)-fileCount]
}

// WriteSummary writes the outcome summary to path as indented JSON,
// holding <path>.lock for the duration of the atomic write.
func WriteSummary(path string, outcome *models.Outcome) error {
	data, err := json.MarshalIndent(NewSummary(outcome), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	data = append(data, '\n')

	if err := filelock.LockAndWrite(path, data); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
