package lint

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Diagnostic is a single finding reported by a linter.
type Diagnostic struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s", d.Path, d.Line, d.Col, d.Code, d.Message)
}

// path:line:col: CODE message
var diagnosticLine = regexp.MustCompile(`^(.+?):(\d+):(\d+):\s+([A-Z]+\d*)\s+(.*)$`)

// ParseDiagnostics reads linter output in the "path:line:col: CODE message"
// format. Lines that do not match are skipped.
func ParseDiagnostics(r io.Reader) ([]Diagnostic, error) {
	var out []Diagnostic
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		m := diagnosticLine.FindStringSubmatch(strings.TrimRight(sc.Text(), "\r"))
		if m == nil {
			continue
		}
		line, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		out = append(out, Diagnostic{
			Path:    m[1],
			Line:    line,
			Col:     col,
			Code:    m[4],
			Message: m[5],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read diagnostics: %w", err)
	}
	return out, nil
}

// FilterDiagnostics drops suppressed codes and findings in excluded files.
func (f *Filter) FilterDiagnostics(diags []Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if f.Suppressed(d.Code) || f.Excluded(d.Path) {
			continue
		}
		out = append(out, d)
	}
	return out
}
