// Package printer emits the canonical textual form of an ir graph,
// symmetric with the text parser: canonical output re-parses to a
// structurally equivalent graph, and re-printing canonical text is the
// identity transformation.
package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goir/goir/ir"
)

// Options configures printing.
type Options struct {
	// Indent is the unit of indentation. Two spaces when empty.
	Indent string
}

// DefaultOptions returns the canonical printing configuration.
func DefaultOptions() Options {
	return Options{Indent: "  "}
}

// Print returns the canonical text of the graph rooted at op. Operations
// with a registered print hook use their custom syntax; everything else is
// emitted in the generic fallback form.
func Print(op *ir.Operation, reg *ir.Registry) string {
	return PrintWithOptions(op, reg, DefaultOptions())
}

// PrintWithOptions is Print with explicit options.
func PrintWithOptions(op *ir.Operation, reg *ir.Registry, opts Options) string {
	w := newWriter(reg, opts)
	w.assignOpNames(op)
	w.printOp(op)
	return w.out.String()
}

// Fprint writes the canonical text of the graph rooted at op to out.
func Fprint(out io.Writer, op *ir.Operation, reg *ir.Registry) error {
	_, err := io.WriteString(out, Print(op, reg))
	return err
}

// writer holds printing state. Value and block names are assigned in a
// pre-pass that mirrors print order, so generated names ascend through the
// output and reprinting canonical text reproduces it byte for byte.
type writer struct {
	registry *ir.Registry
	opts     Options

	out    strings.Builder
	indent int

	names      map[*ir.Value]string
	blockNames map[*ir.Block]string

	valueNamer *namer
	blockNamer *namer
	nextValue  int
	nextBlock  int
}

func newWriter(reg *ir.Registry, opts Options) *writer {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	return &writer{
		registry:   reg,
		opts:       opts,
		names:      make(map[*ir.Value]string),
		blockNames: make(map[*ir.Block]string),
		valueNamer: newNamer(),
		blockNamer: newNamer(),
	}
}

// ---------------------------------------------------------------------------
// Name assignment
// ---------------------------------------------------------------------------

// assignOpNames claims a printable name for every value, and for every
// labelled block, in print order: an operation's results first, then its
// regions front to back, each block's label and arguments before its
// operations. Unlabelled blocks are named on demand when a header or
// successor reference is actually printed; a block that never appears in the
// output must not consume a generated name, or a parsed ^bb0 elsewhere would
// be renamed without any collision in the printed text.
func (w *writer) assignOpNames(op *ir.Operation) {
	for _, r := range op.Results() {
		w.ensureValueName(r)
	}
	for _, region := range op.Regions() {
		for _, b := range region.Blocks() {
			if b.Label() != "" {
				w.ensureBlockName(b)
			}
			for _, arg := range b.Arguments() {
				w.ensureValueName(arg)
			}
		}
		for _, b := range region.Blocks() {
			for _, inner := range b.Ops() {
				w.assignOpNames(inner)
			}
		}
	}
}

func (w *writer) ensureValueName(v *ir.Value) string {
	if name, ok := w.names[v]; ok {
		return name
	}
	var name string
	if v.Name() != "" {
		name = w.valueNamer.claim(v.Name())
	} else {
		for {
			cand := strconv.Itoa(w.nextValue)
			w.nextValue++
			if w.valueNamer.tryClaim(cand) {
				name = cand
				break
			}
		}
	}
	w.names[v] = name
	return name
}

func (w *writer) ensureBlockName(b *ir.Block) string {
	if name, ok := w.blockNames[b]; ok {
		return name
	}
	var name string
	if b.Label() != "" {
		name = w.blockNamer.claim(b.Label())
	} else {
		for {
			cand := "bb" + strconv.Itoa(w.nextBlock)
			w.nextBlock++
			if w.blockNamer.tryClaim(cand) {
				name = cand
				break
			}
		}
	}
	w.blockNames[b] = name
	return name
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// printOp writes one operation line (plus its nested regions) at the
// current indentation.
func (w *writer) printOp(op *ir.Operation) {
	w.writeIndent()
	if op.NumResults() > 0 {
		for i, r := range op.Results() {
			if i > 0 {
				w.out.WriteString(", ")
			}
			w.PrintValue(r)
		}
		w.out.WriteString(" = ")
	}

	var def *ir.OpDef
	if d, err := w.registry.LookupOp(op.Name()); err == nil {
		def = d
	}
	if def != nil && def.Print != nil {
		w.out.WriteString(op.Name())
		def.Print(op, w)
	} else {
		w.printGeneric(op)
	}
	w.out.WriteString("\n")
}

// printGeneric emits the universal fallback form, mirroring the parser:
//
//	"dialect.op"(%operands) [^successors] ({region}, ...) {attrs} : (types) -> results
func (w *writer) printGeneric(op *ir.Operation) {
	fmt.Fprintf(&w.out, "%q(", op.Name())
	for i, operand := range op.Operands() {
		if i > 0 {
			w.out.WriteString(", ")
		}
		w.PrintValue(operand)
	}
	w.out.WriteString(")")

	if op.NumSuccessors() > 0 {
		w.out.WriteString(" [")
		for i, succ := range op.Successors() {
			if i > 0 {
				w.out.WriteString(", ")
			}
			w.out.WriteString("^" + w.ensureBlockName(succ))
		}
		w.out.WriteString("]")
	}

	if op.NumRegions() > 0 {
		w.out.WriteString(" (")
		for i, r := range op.Regions() {
			if i > 0 {
				w.out.WriteString(", ")
			}
			w.PrintRegion(r)
		}
		w.out.WriteString(")")
	}

	if op.NumAttrs() > 0 {
		w.out.WriteString(" ")
		w.printAttrDict(op)
	}

	w.out.WriteString(" : (")
	for i, operand := range op.Operands() {
		if i > 0 {
			w.out.WriteString(", ")
		}
		w.PrintType(operand.Type())
	}
	w.out.WriteString(") -> ")
	w.printResultTypes(op)
}

func (w *writer) printAttrDict(op *ir.Operation) {
	w.out.WriteString("{")
	for i, name := range op.AttrNames() {
		if i > 0 {
			w.out.WriteString(", ")
		}
		w.out.WriteString(name + " = ")
		w.PrintAttribute(op.Attr(name))
	}
	w.out.WriteString("}")
}

func (w *writer) printResultTypes(op *ir.Operation) {
	if op.NumResults() == 1 {
		w.PrintType(op.Result(0).Type())
		return
	}
	w.out.WriteString("(")
	for i, r := range op.Results() {
		if i > 0 {
			w.out.WriteString(", ")
		}
		w.PrintType(r.Type())
	}
	w.out.WriteString(")")
}

// ---------------------------------------------------------------------------
// Regions and blocks
// ---------------------------------------------------------------------------

// printRegionBody writes `{ ... }` starting at the current output position.
// The closing brace lands on its own line at the current indentation. With
// elideEntry set the entry block's header is skipped even when it has
// arguments, for custom syntaxes that bind them outside the braces.
func (w *writer) printRegionBody(r *ir.Region, elideEntry bool) {
	w.out.WriteString("{\n")
	for i, b := range r.Blocks() {
		entry := i == 0
		needHeader := !entry || (!elideEntry && b.NumArguments() > 0)
		if needHeader {
			w.writeIndent()
			w.out.WriteString("^" + w.ensureBlockName(b))
			if b.NumArguments() > 0 {
				w.out.WriteString("(")
				for j, arg := range b.Arguments() {
					if j > 0 {
						w.out.WriteString(", ")
					}
					w.PrintValue(arg)
					w.out.WriteString(": ")
					w.PrintType(arg.Type())
				}
				w.out.WriteString(")")
			}
			w.out.WriteString(":\n")
		}
		w.indent++
		for _, op := range b.Ops() {
			w.printOp(op)
		}
		w.indent--
	}
	w.writeIndent()
	w.out.WriteString("}")
}

func (w *writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString(w.opts.Indent)
	}
}

// ---------------------------------------------------------------------------
// ir.OpPrinter implementation (hook surface)
// ---------------------------------------------------------------------------

// Emit writes raw text.
func (w *writer) Emit(text string) {
	w.out.WriteString(text)
}

// Emitf writes formatted raw text.
func (w *writer) Emitf(format string, args ...any) {
	fmt.Fprintf(&w.out, format, args...)
}

// PrintValue writes a value reference.
func (w *writer) PrintValue(v *ir.Value) {
	w.out.WriteString("%" + w.ensureValueName(v))
}

// PrintType writes a type in canonical form.
func (w *writer) PrintType(t ir.Type) {
	w.out.WriteString(t.String())
}

// PrintAttribute writes an attribute in canonical form.
func (w *writer) PrintAttribute(a ir.Attribute) {
	w.out.WriteString(a.String())
}

// PrintRegion writes a region; the entry block's header appears only when
// the entry block has arguments.
func (w *writer) PrintRegion(r *ir.Region) {
	w.printRegionBody(r, false)
}

// PrintRegionEntryElided writes a region with the entry block header always
// omitted; custom syntaxes that bind the entry arguments outside the braces
// use this.
func (w *writer) PrintRegionEntryElided(r *ir.Region) {
	w.printRegionBody(r, true)
}
