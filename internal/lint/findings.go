package lint

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// Severity is the tier encoded in the first letter of a pylint message code.
type Severity string

const (
	SeverityFatal      Severity = "fatal"
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeverityRefactor   Severity = "refactor"
	SeverityConvention Severity = "convention"
	SeverityInfo       Severity = "info"
)

// Finding is one diagnostic line in pylint's default text format:
//
//	pepnet/output.py:42:8: E1101: Instance of 'Output' has no 'foo' member (no-member)
type Finding struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Code     string   `json:"code"`
	Symbol   string   `json:"symbol,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

var findingPattern = regexp.MustCompile(`^(.+?):(\d+):(\d+): ([CRWEFI]\d{4}): (.*?)(?: \(([a-z0-9-]+)\))?$`)

// IsErrorSeverity reports whether the finding is in the highest tiers
// (fatal or error), the only ones reported under --errors-only.
func (f Finding) IsErrorSeverity() bool {
	return f.Severity == SeverityFatal || f.Severity == SeverityError
}

// ParseFindings extracts findings from captured linter output.
// Lines that are not diagnostics (module headers, score lines) are ignored.
func ParseFindings(output string) []Finding {
	var findings []Finding

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		m := findingPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lineNo, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		findings = append(findings, Finding{
			Path:     m[1],
			Line:     lineNo,
			Column:   col,
			Code:     m[4],
			Message:  m[5],
			Symbol:   m[6],
			Severity: severityForCode(m[4]),
		})
	}

	return findings
}

func severityForCode(code string) Severity {
	switch code[0] {
	case 'F':
		return SeverityFatal
	case 'E':
		return SeverityError
	case 'W':
		return SeverityWarning
	case 'R':
		return SeverityRefactor
	case 'C':
		return SeverityConvention
	default:
		return SeverityInfo
	}
}
