package ir

import (
	"strconv"
	"strings"
)

// Attribute is an immutable compile-time constant value. The canonical
// textual form returned by String doubles as the structural identity: two
// attributes are interchangeable exactly when their canonical forms are
// equal. Attributes are never mutated after construction and may be shared
// freely by reference.
type Attribute interface {
	String() string
	attribute()
}

// AttrBase seals attribute implementations to the Attribute interface.
// Dialect-defined attributes embed it.
type AttrBase struct{}

func (AttrBase) attribute() {}

// AttrEqual reports structural equality of two attributes.
func AttrEqual(a, b Attribute) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// IntegerAttr is an integer constant, optionally carrying an explicit type.
// Without a type it prints as a bare literal.
type IntegerAttr struct {
	AttrBase
	Value int64
	Type  Type
}

func (a IntegerAttr) String() string {
	if a.Type == nil {
		return strconv.FormatInt(a.Value, 10)
	}
	return strconv.FormatInt(a.Value, 10) + " : " + a.Type.String()
}

// FloatAttr is a floating-point constant.
type FloatAttr struct {
	AttrBase
	Value float64
	Type  Type
}

func (a FloatAttr) String() string {
	s := strconv.FormatFloat(a.Value, 'g', -1, 64)
	// Keep float literals lexically distinct from integers.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	if a.Type == nil {
		return s
	}
	return s + " : " + a.Type.String()
}

// StringAttr is a string constant.
type StringAttr struct {
	AttrBase
	Value string
}

func (a StringAttr) String() string {
	return strconv.Quote(a.Value)
}

// ArrayAttr is an ordered sequence of attributes.
type ArrayAttr struct {
	AttrBase
	Elems []Attribute
}

func (a ArrayAttr) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, e := range a.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteString("]")
	return sb.String()
}

// SymbolRefAttr is a reference to a named symbol.
type SymbolRefAttr struct {
	AttrBase
	Symbol string
}

func (a SymbolRefAttr) String() string {
	return "@" + a.Symbol
}

// TypeAttr wraps a Type as an attribute value.
type TypeAttr struct {
	AttrBase
	Type Type
}

func (a TypeAttr) String() string {
	return a.Type.String()
}

// UnitAttr carries no payload; its presence is the information.
type UnitAttr struct {
	AttrBase
}

func (UnitAttr) String() string {
	return "unit"
}
