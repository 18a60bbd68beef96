package logger

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/harrison/lintgate/internal/models"
)

func withColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = orig })
}

func TestFormatStatus_Plain(t *testing.T) {
	for _, status := range []string{models.StatusPassed, models.StatusFailed, models.StatusError} {
		if got := FormatStatus(status, false); got != status {
			t.Errorf("FormatStatus(%q, false) = %q", status, got)
		}
	}
}

func TestFormatStatus_Colored(t *testing.T) {
	withColor(t)

	tests := []struct {
		status string
		code   string
	}{
		{models.StatusPassed, "\x1b[32m"},
		{models.StatusFailed, "\x1b[31m"},
		{models.StatusError, "\x1b[33m"},
	}
	for _, tt := range tests {
		got := FormatStatus(tt.status, true)
		if !strings.Contains(got, tt.code) || !strings.Contains(got, tt.status) {
			t.Errorf("FormatStatus(%q, true) = %q, want color %q", tt.status, got, tt.code)
		}
	}

	if got := FormatStatus("UNKNOWN", true); got != "UNKNOWN" {
		t.Errorf("unknown status should pass through, got %q", got)
	}
}

func TestFormatMetric(t *testing.T) {
	if got := FormatMetric("files", 3, false); got != "files: 3" {
		t.Errorf("FormatMetric() = %q", got)
	}

	withColor(t)
	got := FormatMetric("files", 3, true)
	if !strings.Contains(got, "\x1b[36m") || !strings.HasSuffix(got, ": 3") {
		t.Errorf("expected cyan label, got %q", got)
	}
}
