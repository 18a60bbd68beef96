package logger

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/harrison/lintgate/internal/models"
)

// colorScheme defines consistent colors for run statuses.
// Green: passed
// Red: failed
// Yellow: errored before the linter finished
// Cyan: labels and identifiers
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
}

// FormatStatus renders a run status, colored when colorOutput is set.
func FormatStatus(status string, colorOutput bool) string {
	if !colorOutput {
		return status
	}
	scheme := newColorScheme()
	switch status {
	case models.StatusPassed:
		return scheme.success.Sprint(status)
	case models.StatusFailed:
		return scheme.fail.Sprint(status)
	case models.StatusError:
		return scheme.warn.Sprint(status)
	default:
		return status
	}
}

// FormatMetric renders "label: value" with a cyan label when colorOutput is set.
func FormatMetric(label string, value interface{}, colorOutput bool) string {
	if !colorOutput {
		return fmt.Sprintf("%s: %v", label, value)
	}
	return fmt.Sprintf("%s: %v", newColorScheme().label.Sprint(label), value)
}
