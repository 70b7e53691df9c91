package text

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed token stream. Parsing of the current
// top-level unit aborts; no partial graph is returned.
type ParseError struct {
	Message string
	Line    int
	Column  int
	Source  string // original source, for context display
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// FormatWithContext returns the error message with the offending source line
// and a caret pointing at the error column.
func (e *ParseError) FormatWithContext() string {
	if e.Source == "" || e.Line == 0 {
		return e.Error()
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line < 1 || e.Line > len(lines) {
		return e.Error()
	}

	line := lines[e.Line-1]
	col := e.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", e.Line, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", e.Line, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))

	return sb.String()
}

// UndefinedValueError reports a %name reference that was still unbound when
// its enclosing region ended. The position is that of the first use.
type UndefinedValueError struct {
	Name   string
	Line   int
	Column int
}

func (e *UndefinedValueError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("use of undefined value %%%s", e.Name)
	}
	return fmt.Sprintf("%d:%d: use of undefined value %%%s", e.Line, e.Column, e.Name)
}
