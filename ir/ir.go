// Package ir defines the SSA intermediate representation at the core of
// goir.
//
// The representation is open: operation, attribute and type kinds are not
// fixed at compile time. Dialects register definitions in a Registry, and
// every generic facility (verifier, parser, printer, rewrite driver)
// resolves behavior through that registry by qualified name.
//
// Ownership is tree-shaped: an Operation owns its result Values and its
// Regions, a Region owns its Blocks, a Block owns its argument Values and
// its Operations. Operand references are non-owning; every Value tracks the
// exact set of operand slots that currently reference it, and all operand
// writes funnel through Operation.SetOperand so that use sets and operand
// slots can never drift apart.
package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Location identifies a position in a source document. The zero value means
// the location is unknown.
type Location struct {
	Line   int
	Column int
}

// Known reports whether the location carries real position information.
func (l Location) Known() bool {
	return l.Line > 0
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Use identifies one operand slot: operand Index of operation Op.
type Use struct {
	Op    *Operation
	Index int
}

// Value is a typed SSA definition. Every Value is owned by exactly one
// definition site: a result slot of an Operation or an argument slot of a
// Block. Placeholders minted by NewPlaceholder are the only free values and
// must not survive into a finished graph.
type Value struct {
	typ   Type
	name  string // optional source name, without the leading '%'
	owner *Operation
	block *Block
	index int
	uses  []Use
}

// NewPlaceholder mints a free-standing Value of the given type (which may be
// nil when not yet known). The parser uses placeholders to stand in for
// forward references until the defining operation is seen.
func NewPlaceholder(t Type) *Value {
	return &Value{typ: t}
}

// Type returns the value's static type.
func (v *Value) Type() Type { return v.typ }

// Name returns the value's source name, or "" when it has none.
func (v *Value) Name() string { return v.name }

// SetName records a source name for the value.
func (v *Value) SetName(name string) { v.name = name }

// DefiningOp returns the operation whose result this value is, or nil for
// block arguments and placeholders.
func (v *Value) DefiningOp() *Operation { return v.owner }

// OwnerBlock returns the block whose argument this value is, or nil for
// operation results and placeholders.
func (v *Value) OwnerBlock() *Block { return v.block }

// Index returns the result or argument position of the value within its
// definition site.
func (v *Value) Index() int { return v.index }

// Uses returns the operand slots currently referencing the value, in the
// order the references were established. The slice must not be mutated.
func (v *Value) Uses() []Use { return v.uses }

// NumUses returns the number of operand slots referencing the value.
func (v *Value) NumUses() int { return len(v.uses) }

// ReplaceAllUsesWith redirects every operand slot referencing v to repl,
// updating both use sets.
func (v *Value) ReplaceAllUsesWith(repl *Value) {
	if v == repl {
		return
	}
	for len(v.uses) > 0 {
		u := v.uses[0]
		u.Op.SetOperand(u.Index, repl)
	}
}

func (v *Value) addUse(u Use) {
	v.uses = append(v.uses, u)
}

func (v *Value) removeUse(u Use) {
	for i, have := range v.uses {
		if have == u {
			v.uses = append(v.uses[:i], v.uses[i+1:]...)
			return
		}
	}
}

// desc returns a printable description for error messages.
func (v *Value) desc() string {
	if v.name != "" {
		return "value %" + v.name
	}
	if v.owner != nil {
		return fmt.Sprintf("result %d of '%s'", v.index, v.owner.name)
	}
	if v.block != nil {
		return fmt.Sprintf("block argument %d", v.index)
	}
	return "value"
}

// Operation is one node of the IR graph: a dialect-qualified mnemonic with
// operands, owned results, attributes, owned regions and, for terminators,
// successor blocks.
type Operation struct {
	name       string
	operands   []*Value
	results    []*Value
	attributes map[string]Attribute
	regions    []*Region
	successors []*Block
	block      *Block // owning block, nil while free-standing
	loc        Location
}

// OpState describes an operation to be built. Result values are minted from
// ResultTypes; Regions are attached in order and become owned by the new
// operation.
type OpState struct {
	Name        string
	Loc         Location
	Operands    []*Value
	ResultTypes []Type
	Attributes  map[string]Attribute
	Successors  []*Block
	Regions     []*Region
}

// Build creates a free-standing operation from the given state. The caller
// inserts it into a block with Block.Append or Block.Insert.
func Build(s OpState) *Operation {
	op := &Operation{
		name: s.Name,
		loc:  s.Loc,
	}
	op.operands = make([]*Value, len(s.Operands))
	for i, v := range s.Operands {
		op.SetOperand(i, v)
	}
	op.results = make([]*Value, len(s.ResultTypes))
	for i, t := range s.ResultTypes {
		op.results[i] = &Value{typ: t, owner: op, index: i}
	}
	if len(s.Attributes) > 0 {
		op.attributes = make(map[string]Attribute, len(s.Attributes))
		for k, a := range s.Attributes {
			op.attributes[k] = a
		}
	}
	op.successors = append(op.successors, s.Successors...)
	for _, r := range s.Regions {
		r.owner = op
		op.regions = append(op.regions, r)
	}
	return op
}

// Name returns the dialect-qualified mnemonic, e.g. "arith.addi".
func (op *Operation) Name() string { return op.name }

// Dialect returns the namespace portion of the mnemonic.
func (op *Operation) Dialect() string {
	d, _ := SplitName(op.name)
	return d
}

// SplitName splits a qualified name into its dialect and unqualified parts.
func SplitName(name string) (dialect, tail string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// Loc returns the operation's source location, if known.
func (op *Operation) Loc() Location { return op.loc }

// SetLoc records a source location.
func (op *Operation) SetLoc(loc Location) { op.loc = loc }

// NumOperands returns the number of operand slots.
func (op *Operation) NumOperands() int { return len(op.operands) }

// Operand returns the value in operand slot i.
func (op *Operation) Operand(i int) *Value { return op.operands[i] }

// Operands returns the operand slots. The slice must not be mutated
// directly; use SetOperand.
func (op *Operation) Operands() []*Value { return op.operands }

// SetOperand writes operand slot i, keeping both use sets exact. This is the
// only code path that writes an operand slot.
func (op *Operation) SetOperand(i int, v *Value) {
	old := op.operands[i]
	if old == v {
		return
	}
	if old != nil {
		old.removeUse(Use{Op: op, Index: i})
	}
	op.operands[i] = v
	if v != nil {
		v.addUse(Use{Op: op, Index: i})
	}
}

// NumResults returns the number of result values.
func (op *Operation) NumResults() int { return len(op.results) }

// Result returns result value i.
func (op *Operation) Result(i int) *Value { return op.results[i] }

// Results returns the owned result values.
func (op *Operation) Results() []*Value { return op.results }

// Attr returns the attribute stored under name, or nil when absent.
func (op *Operation) Attr(name string) Attribute {
	return op.attributes[name]
}

// SetAttr stores an attribute under name, replacing any previous value.
func (op *Operation) SetAttr(name string, a Attribute) {
	if op.attributes == nil {
		op.attributes = make(map[string]Attribute, 1)
	}
	op.attributes[name] = a
}

// RemoveAttr deletes the attribute stored under name, if any.
func (op *Operation) RemoveAttr(name string) {
	delete(op.attributes, name)
}

// NumAttrs returns the number of attributes.
func (op *Operation) NumAttrs() int { return len(op.attributes) }

// AttrNames returns the attribute names in sorted order.
func (op *Operation) AttrNames() []string {
	names := make([]string, 0, len(op.attributes))
	for name := range op.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NumRegions returns the number of owned regions.
func (op *Operation) NumRegions() int { return len(op.regions) }

// Region returns owned region i.
func (op *Operation) Region(i int) *Region { return op.regions[i] }

// Regions returns the owned regions.
func (op *Operation) Regions() []*Region { return op.regions }

// NumSuccessors returns the number of successor blocks.
func (op *Operation) NumSuccessors() int { return len(op.successors) }

// Successor returns successor block i.
func (op *Operation) Successor(i int) *Block { return op.successors[i] }

// Successors returns the successor blocks.
func (op *Operation) Successors() []*Block { return op.successors }

// SetSuccessor writes successor slot i. The parser uses it to patch forward
// references to blocks defined later in the region.
func (op *Operation) SetSuccessor(i int, b *Block) {
	op.successors[i] = b
}

// Block returns the block owning this operation, or nil while free-standing.
func (op *Operation) Block() *Block { return op.block }

// Parent returns the operation owning the region this operation sits in, or
// nil at the root.
func (op *Operation) Parent() *Operation {
	if op.block == nil || op.block.region == nil {
		return nil
	}
	return op.block.region.owner
}

// Erase removes the operation from its block and destroys it together with
// everything nested inside it. It fails with *UseError if any result still
// has uses, leaving the graph unchanged.
func (op *Operation) Erase() error {
	for _, r := range op.results {
		if len(r.uses) > 0 {
			return &UseError{Value: r.desc(), NumUses: len(r.uses)}
		}
	}
	op.dropAllReferences()
	if op.block != nil {
		op.block.remove(op)
		op.block = nil
	}
	return nil
}

// dropAllReferences clears every operand slot of the operation and of every
// operation nested inside it, so that values defined in the subtree lose all
// recorded uses before the subtree is discarded.
func (op *Operation) dropAllReferences() {
	for i := range op.operands {
		op.SetOperand(i, nil)
	}
	for _, r := range op.regions {
		for _, b := range r.blocks {
			for _, inner := range b.ops {
				inner.dropAllReferences()
			}
		}
	}
}

// Block is an ordered sequence of operations plus the typed argument values
// it owns. In verified graphs every block of a non-graph region ends in
// exactly one terminator.
type Block struct {
	label  string // optional parse-time label, without the leading '^'
	args   []*Value
	ops    []*Operation
	region *Region
}

// Label returns the block's source label, or "" when it has none.
func (b *Block) Label() string { return b.label }

// SetLabel records a source label for the block.
func (b *Block) SetLabel(label string) { b.label = label }

// AddArgument appends a typed block argument and returns the new value.
func (b *Block) AddArgument(t Type, name string) *Value {
	v := &Value{typ: t, name: name, block: b, index: len(b.args)}
	b.args = append(b.args, v)
	return v
}

// NumArguments returns the number of block arguments.
func (b *Block) NumArguments() int { return len(b.args) }

// Argument returns block argument i.
func (b *Block) Argument(i int) *Value { return b.args[i] }

// Arguments returns the owned argument values.
func (b *Block) Arguments() []*Value { return b.args }

// NumOps returns the number of operations in the block.
func (b *Block) NumOps() int { return len(b.ops) }

// Op returns the operation at position i.
func (b *Block) Op(i int) *Operation { return b.ops[i] }

// Ops returns the operations in block order.
func (b *Block) Ops() []*Operation { return b.ops }

// Append adds op at the end of the block. A previously inserted operation is
// moved.
func (b *Block) Append(op *Operation) {
	b.Insert(len(b.ops), op)
}

// Insert adds op at position i. A previously inserted operation is moved.
func (b *Block) Insert(i int, op *Operation) {
	if op.block != nil {
		if op.block == b && b.indexOf(op) < i {
			i--
		}
		op.block.remove(op)
	}
	b.ops = append(b.ops, nil)
	copy(b.ops[i+1:], b.ops[i:])
	b.ops[i] = op
	op.block = b
}

// IndexOf returns op's position in the block, or -1 when it is not there.
func (b *Block) IndexOf(op *Operation) int {
	return b.indexOf(op)
}

func (b *Block) indexOf(op *Operation) int {
	for i, have := range b.ops {
		if have == op {
			return i
		}
	}
	return -1
}

func (b *Block) remove(op *Operation) {
	if i := b.indexOf(op); i >= 0 {
		b.ops = append(b.ops[:i], b.ops[i+1:]...)
		op.block = nil
	}
}

// ParentRegion returns the region owning this block.
func (b *Block) ParentRegion() *Region { return b.region }

// ParentOp returns the operation owning the region this block sits in.
func (b *Block) ParentOp() *Operation {
	if b.region == nil {
		return nil
	}
	return b.region.owner
}

// Region is an ordered sequence of blocks owned by one operation. The first
// block is the entry block.
type Region struct {
	blocks []*Block
	owner  *Operation
}

// NewRegion creates an empty, unattached region. Regions become owned when
// passed to Build through OpState.Regions.
func NewRegion() *Region {
	return &Region{}
}

// Owner returns the operation owning this region, or nil while unattached.
func (r *Region) Owner() *Operation { return r.owner }

// NumBlocks returns the number of blocks.
func (r *Region) NumBlocks() int { return len(r.blocks) }

// Block returns block i.
func (r *Region) Block(i int) *Block { return r.blocks[i] }

// Blocks returns the owned blocks in order.
func (r *Region) Blocks() []*Block { return r.blocks }

// Entry returns the entry block, or nil for an empty region.
func (r *Region) Entry() *Block {
	if len(r.blocks) == 0 {
		return nil
	}
	return r.blocks[0]
}

// AddBlock appends a new empty block to the region and returns it.
func (r *Region) AddBlock() *Block {
	b := &Block{region: r}
	r.blocks = append(r.blocks, b)
	return b
}
