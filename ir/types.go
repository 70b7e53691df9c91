package ir

import (
	"strconv"
	"strings"
)

// Type is an immutable static type. Like attributes, types compare by their
// canonical textual form: two types are interchangeable exactly when their
// String forms are equal.
type Type interface {
	String() string
	irType()
}

// TypeBase seals type implementations to the Type interface. Dialect-defined
// types embed it.
type TypeBase struct{}

func (TypeBase) irType() {}

// TypeEqual reports structural equality of two types.
func TypeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// IntegerType is a signless integer of a fixed bit width (i1, i32, ...).
type IntegerType struct {
	TypeBase
	Width int
}

func (t IntegerType) String() string {
	return "i" + strconv.Itoa(t.Width)
}

// FloatType is an IEEE float of 32 or 64 bits.
type FloatType struct {
	TypeBase
	Width int
}

func (t FloatType) String() string {
	return "f" + strconv.Itoa(t.Width)
}

// IndexType is the platform-width integer used for counters and subscripts.
type IndexType struct {
	TypeBase
}

func (IndexType) String() string {
	return "index"
}

// FunctionType is a list of input types and a list of result types.
type FunctionType struct {
	TypeBase
	Inputs  []Type
	Results []Type
}

func (t FunctionType) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, in := range t.Inputs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(in.String())
	}
	sb.WriteString(") -> ")
	if len(t.Results) == 1 {
		sb.WriteString(t.Results[0].String())
		return sb.String()
	}
	sb.WriteString("(")
	for i, out := range t.Results {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(out.String())
	}
	sb.WriteString(")")
	return sb.String()
}
