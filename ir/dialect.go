package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Trait is a generic, cross-cutting property an operation kind declares.
type Trait string

const (
	// TraitTerminator marks the operation as the sole legal final operation
	// of a block.
	TraitTerminator Trait = "terminator"

	// TraitSameOperandsAndResultType requires every operand and result to
	// share one type.
	TraitSameOperandsAndResultType Trait = "same-operands-and-result-type"

	// TraitGraphRegion relaxes the terminator requirement for the blocks of
	// the operation's regions.
	TraitGraphRegion Trait = "graph-region"

	// TraitCommutative declares that operand order is irrelevant.
	TraitCommutative Trait = "commutative"
)

// TypeConstraint checks one operand or result type. A nil constraint accepts
// any type.
type TypeConstraint func(Type) error

// AttrConstraint checks one attribute value. A nil constraint accepts any
// attribute.
type AttrConstraint func(Attribute) error

// AnyType accepts every type.
func AnyType(Type) error { return nil }

// ExactType accepts only types structurally equal to want.
func ExactType(want Type) TypeConstraint {
	return func(t Type) error {
		if !TypeEqual(t, want) {
			return fmt.Errorf("expected type '%s', got '%s'", want, t)
		}
		return nil
	}
}

// AnyInteger accepts integer types of any width.
func AnyInteger(t Type) error {
	if _, ok := t.(IntegerType); !ok {
		return fmt.Errorf("expected an integer type, got '%s'", t)
	}
	return nil
}

// AnyIntegerAttr accepts integer attribute values.
func AnyIntegerAttr(a Attribute) error {
	if _, ok := a.(IntegerAttr); !ok {
		return fmt.Errorf("expected an integer attribute, got '%s'", a)
	}
	return nil
}

// RegionSig constrains one owned region.
type RegionSig struct {
	// EntryArgs constrains the entry block's argument types positionally.
	// A nil slice leaves the argument list unchecked.
	EntryArgs []TypeConstraint
}

// VerifyFn is a dialect-supplied semantic check, run after the structural
// checks pass for the operation.
type VerifyFn func(op *Operation) error

// OpDef declares one operation kind: its structural signature, traits and
// optional custom parse/print/verify behavior. Hooks are plain function
// values resolved through the registry, never methods of concrete operation
// types.
type OpDef struct {
	// Name is the qualified mnemonic, e.g. "arith.addi".
	Name string

	// NumOperands and NumResults fix the arity; -1 means variadic.
	NumOperands int
	NumResults  int

	// Operands and Results constrain types positionally. Entries beyond the
	// slice length (or a nil slice) are unchecked.
	Operands []TypeConstraint
	Results  []TypeConstraint

	// RequiredAttrs maps attribute names that must be present to an optional
	// constraint on their values.
	RequiredAttrs map[string]AttrConstraint

	// Regions fixes the region count and constrains each region; nil means
	// no regions.
	Regions []RegionSig

	Traits []Trait

	// Parse and Print implement the operation's custom ("pretty") syntax.
	// Operations without hooks use the generic fallback form only.
	Parse ParseFn
	Print PrintFn

	// Verify is the dialect-specific semantic check.
	Verify VerifyFn
}

// HasTrait reports whether the definition declares t.
func (d *OpDef) HasTrait(t Trait) bool {
	for _, have := range d.Traits {
		if have == t {
			return true
		}
	}
	return false
}

// AttrDef declares one dialect attribute kind (#dialect.name<...>).
type AttrDef struct {
	Name string

	// Parse builds the attribute. The token stream is positioned after the
	// qualified name; an optional parameter body follows in '<' ... '>'.
	Parse func(p AttrParser) (Attribute, error)
}

// TypeDef declares one dialect type kind (!dialect.name<...>).
type TypeDef struct {
	Name string

	// Parse builds the type. The token stream is positioned after the
	// qualified name; an optional parameter body follows in '<' ... '>'.
	Parse func(p AttrParser) (Type, error)
}

// Dialect is a namespace of operation, attribute and type definitions
// extending the core.
type Dialect struct {
	Name  string
	Ops   []OpDef
	Attrs []AttrDef
	Types []TypeDef
}

// Registry is a catalog of registered dialects, consulted by the parser,
// printer, verifier and rewrite engine. A Registry must be fully populated
// before a document is processed; dialects cannot be removed.
type Registry struct {
	dialects map[string]*Dialect
	ops      map[string]*OpDef
	attrs    map[string]*AttrDef
	types    map[string]*TypeDef
}

// NewRegistry creates an empty registry. Tests and embedders that need
// isolation construct their own; Default returns the shared process-wide
// instance.
func NewRegistry() *Registry {
	return &Registry{
		dialects: make(map[string]*Dialect),
		ops:      make(map[string]*OpDef),
		attrs:    make(map[string]*AttrDef),
		types:    make(map[string]*TypeDef),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry. Lookup semantics are identical
// to a locally constructed one.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a dialect and all of its definitions. It fails with
// *DuplicateDialectError when the dialect name is taken and with
// *DuplicateNameError when a qualified definition name collides.
func (r *Registry) Register(d *Dialect) error {
	if d.Name == "" {
		return fmt.Errorf("dialect has no name")
	}
	if _, exists := r.dialects[d.Name]; exists {
		return &DuplicateDialectError{Name: d.Name}
	}
	seen := make(map[string]bool)
	for i := range d.Ops {
		def := &d.Ops[i]
		if err := checkQualified(d.Name, def.Name); err != nil {
			return err
		}
		if _, exists := r.ops[def.Name]; exists || seen[def.Name] {
			return &DuplicateNameError{Kind: "operation", Name: def.Name}
		}
		seen[def.Name] = true
	}
	seen = make(map[string]bool)
	for i := range d.Attrs {
		def := &d.Attrs[i]
		if err := checkQualified(d.Name, def.Name); err != nil {
			return err
		}
		if _, exists := r.attrs[def.Name]; exists || seen[def.Name] {
			return &DuplicateNameError{Kind: "attribute", Name: def.Name}
		}
		seen[def.Name] = true
	}
	seen = make(map[string]bool)
	for i := range d.Types {
		def := &d.Types[i]
		if err := checkQualified(d.Name, def.Name); err != nil {
			return err
		}
		if _, exists := r.types[def.Name]; exists || seen[def.Name] {
			return &DuplicateNameError{Kind: "type", Name: def.Name}
		}
		seen[def.Name] = true
	}

	r.dialects[d.Name] = d
	for i := range d.Ops {
		r.ops[d.Ops[i].Name] = &d.Ops[i]
	}
	for i := range d.Attrs {
		r.attrs[d.Attrs[i].Name] = &d.Attrs[i]
	}
	for i := range d.Types {
		r.types[d.Types[i].Name] = &d.Types[i]
	}
	return nil
}

func checkQualified(dialect, name string) error {
	if !strings.HasPrefix(name, dialect+".") {
		return fmt.Errorf("definition %q does not belong to dialect %q", name, dialect)
	}
	return nil
}

// LookupOp resolves a qualified operation name. It fails with
// *UnknownOperationError when the name is not registered.
func (r *Registry) LookupOp(name string) (*OpDef, error) {
	if def, ok := r.ops[name]; ok {
		return def, nil
	}
	return nil, &UnknownOperationError{Name: name}
}

// LookupAttr resolves a qualified attribute name. It fails with
// *UnknownAttributeError when the name is not registered.
func (r *Registry) LookupAttr(name string) (*AttrDef, error) {
	if def, ok := r.attrs[name]; ok {
		return def, nil
	}
	return nil, &UnknownAttributeError{Name: name}
}

// LookupType resolves a qualified type name. It fails with
// *UnknownTypeError when the name is not registered.
func (r *Registry) LookupType(name string) (*TypeDef, error) {
	if def, ok := r.types[name]; ok {
		return def, nil
	}
	return nil, &UnknownTypeError{Name: name}
}

// HasDialect reports whether a dialect name is registered.
func (r *Registry) HasDialect(name string) bool {
	_, ok := r.dialects[name]
	return ok
}

// DialectNames returns the registered dialect names in sorted order.
func (r *Registry) DialectNames() []string {
	names := make([]string, 0, len(r.dialects))
	for name := range r.dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
