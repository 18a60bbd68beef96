package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/lintgate/internal/history"
)

// RenderMarkdown renders run records as a Markdown document with one table row per run.
func RenderMarkdown(records []*history.RunRecord) string {
	var sb strings.Builder
	sb.WriteString("# Lint history\n\n")

	if len(records) == 0 {
		sb.WriteString("No runs recorded.\n")
		return sb.String()
	}

	passed := 0
	for _, r := range records {
		if r.ExitCode == 0 && r.ErrorMessage == "" {
			passed++
		}
	}
	sb.WriteString(fmt.Sprintf("%d of %d runs passed.\n\n", passed, len(records)))

	sb.WriteString("| Started | Run | Status | Exit | Files | Findings | Duration |\n")
	sb.WriteString("|---|---|---|---:|---:|---:|---:|\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("| %s | `%s` | %s | %d | %d | %d | %s |\n",
			r.StartedAt.UTC().Format(time.RFC3339),
			shortID(r.RunID),
			r.Status,
			r.ExitCode,
			r.FileCount,
			r.FindingCount,
			r.Duration.Round(time.Millisecond),
		))
	}

	return sb.String()
}

// RenderHTML converts the Markdown history document to HTML.
func RenderHTML(records []*history.RunRecord) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var buf bytes.Buffer
	if err := md.Convert([]byte(RenderMarkdown(records)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
