package ir

import (
	"fmt"
	"strings"
)

// UseError reports an attempt to destroy a Value that still has uses.
// The graph is left unchanged when this error is returned.
type UseError struct {
	Value   string // printable description of the value
	NumUses int
}

func (e *UseError) Error() string {
	return fmt.Sprintf("cannot erase %s: %d use(s) remain", e.Value, e.NumUses)
}

// DuplicateDialectError reports a second registration of a dialect name.
type DuplicateDialectError struct {
	Name string
}

func (e *DuplicateDialectError) Error() string {
	return fmt.Sprintf("dialect %q is already registered", e.Name)
}

// DuplicateNameError reports a qualified operation, attribute or type name
// that collides with an existing registration.
type DuplicateNameError struct {
	Kind string // "operation", "attribute" or "type"
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q is already registered", e.Kind, e.Name)
}

// UnknownOperationError reports a mnemonic that is not in the active registry.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Name)
}

// UnknownAttributeError reports an attribute name that is not in the active
// registry.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q", e.Name)
}

// UnknownTypeError reports a type name that is not in the active registry.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q", e.Name)
}

// Diagnostic is one verifier finding, tied to the operation it was recorded
// on and to its source location when one is known.
type Diagnostic struct {
	Op      string // qualified operation name
	Loc     Location
	Message string
}

func (d Diagnostic) String() string {
	if d.Loc.Known() {
		return fmt.Sprintf("%s: '%s': %s", d.Loc, d.Op, d.Message)
	}
	return fmt.Sprintf("'%s': %s", d.Op, d.Message)
}

// VerificationError carries every diagnostic collected during one
// verification pass. The verified graph is intact and inspectable.
type VerificationError struct {
	Diagnostics []Diagnostic
}

func (e *VerificationError) Error() string {
	switch len(e.Diagnostics) {
	case 0:
		return "verification failed"
	case 1:
		return e.Diagnostics[0].String()
	default:
		return fmt.Sprintf("%s (and %d more errors)", e.Diagnostics[0], len(e.Diagnostics)-1)
	}
}

// FormatAll returns every diagnostic, one per line.
func (e *VerificationError) FormatAll() string {
	var sb strings.Builder
	for i, d := range e.Diagnostics {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}
