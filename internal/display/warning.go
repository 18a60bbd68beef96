package display

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related paths (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning to out, in yellow when colorOutput is set
func (w Warning) Display(out io.Writer, colorOutput bool) {
	var b strings.Builder

	if colorOutput {
		b.WriteString("\x1b[33m")
	}
	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected path:\n")
		} else {
			b.WriteString("Affected paths:\n")
		}

		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if colorOutput {
		b.WriteString("\x1b[0m")
	}

	fmt.Fprint(out, b.String())
}

// ScanWarning builds a warning for directories skipped during discovery.
// Paths are taken from *fs.PathError values; other errors are listed by message.
func ScanWarning(errs []error) Warning {
	files := make([]string, 0, len(errs))
	for _, err := range errs {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			files = append(files, pathErr.Path)
			continue
		}
		files = append(files, err.Error())
	}

	title := "1 directory could not be read"
	if len(errs) != 1 {
		title = fmt.Sprintf("%d directories could not be read", len(errs))
	}

	return Warning{
		Title:      title,
		Message:    "Python files under these paths were not linted.",
		Files:      files,
		Suggestion: "Check directory permissions, or add the path to exclude_dirs.",
	}
}
