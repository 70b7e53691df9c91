// Package stream defines the stream dialect: bounded element-wise
// computations over buffers, expressed as a body applied at every index of an
// iteration space.
package stream

import (
	"fmt"

	"github.com/goir/goir/dialects/mem"
	"github.com/goir/goir/ir"
)

// Name is the dialect namespace.
const Name = "stream"

// Dialect returns the stream dialect definition.
func Dialect() *ir.Dialect {
	return &ir.Dialect{
		Name: Name,
		Ops: []ir.OpDef{
			{
				Name:        "stream.generic",
				NumOperands: -1,
				RequiredAttrs: map[string]ir.AttrConstraint{
					"bounds": anyBoundsAttr,
					"ins":    ir.AnyIntegerAttr,
				},
				Regions: []ir.RegionSig{{}},
				Parse:   parseGeneric,
				Print:   printGeneric,
				Verify:  verifyGeneric,
			},
			{
				Name:        "stream.yield",
				NumOperands: -1,
				Traits:      []ir.Trait{ir.TraitTerminator},
				Parse:       parseYield,
				Print:       printYield,
			},
		},
	}
}

// Register adds the dialect to a registry.
func Register(r *ir.Registry) error {
	return r.Register(Dialect())
}

// Bounds returns the iteration-space extents of a stream.generic.
func Bounds(op *ir.Operation) []int64 {
	arr, ok := op.Attr("bounds").(ir.ArrayAttr)
	if !ok {
		return nil
	}
	bounds := make([]int64, 0, len(arr.Elems))
	for _, e := range arr.Elems {
		i, ok := e.(ir.IntegerAttr)
		if !ok {
			return nil
		}
		bounds = append(bounds, i.Value)
	}
	return bounds
}

// NumIns returns how many leading operands of a stream.generic are inputs;
// the remaining operands are outputs.
func NumIns(op *ir.Operation) int {
	ins, ok := op.Attr("ins").(ir.IntegerAttr)
	if !ok {
		return 0
	}
	return int(ins.Value)
}

func anyBoundsAttr(a ir.Attribute) error {
	arr, ok := a.(ir.ArrayAttr)
	if !ok {
		return fmt.Errorf("expected an array of integers, got '%s'", a)
	}
	for _, e := range arr.Elems {
		if _, ok := e.(ir.IntegerAttr); !ok {
			return fmt.Errorf("expected an array of integers, got '%s'", a)
		}
	}
	return nil
}

// parseGeneric handles
//
//	stream.generic bounds [8, 16] ins(%a, %b : T, T) outs(%c : T) { ... }
//
// The body's entry block arguments are spelled in the region text and carry
// one input element per `ins` operand.
func parseGeneric(p ir.OpParser, state *ir.OpState) error {
	if err := p.ParseKeyword("bounds"); err != nil {
		return err
	}
	if err := p.Expect("["); err != nil {
		return err
	}
	var bounds []ir.Attribute
	for {
		b, err := p.ParseInteger()
		if err != nil {
			return err
		}
		bounds = append(bounds, ir.IntegerAttr{Value: b})
		if !p.Match(",") {
			break
		}
	}
	if err := p.Expect("]"); err != nil {
		return err
	}

	ins, err := parseOperandGroup(p, "ins")
	if err != nil {
		return err
	}
	outs, err := parseOperandGroup(p, "outs")
	if err != nil {
		return err
	}

	region, err := p.ParseRegion(nil)
	if err != nil {
		return err
	}

	state.Operands = append(ins, outs...)
	state.Attributes = map[string]ir.Attribute{
		"bounds": ir.ArrayAttr{Elems: bounds},
		"ins":    ir.IntegerAttr{Value: int64(len(ins))},
	}
	state.Regions = []*ir.Region{region}
	return nil
}

// parseOperandGroup parses `kw(%a, %b : T, T)`.
func parseOperandGroup(p ir.OpParser, kw string) ([]*ir.Value, error) {
	if err := p.ParseKeyword(kw); err != nil {
		return nil, err
	}
	if err := p.Expect("("); err != nil {
		return nil, err
	}
	operands, err := p.ParseOperandList()
	if err != nil {
		return nil, err
	}
	if err := p.Expect(":"); err != nil {
		return nil, err
	}
	var types []ir.Type
	for {
		t, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
		if !p.Match(",") {
			break
		}
	}
	if len(types) != len(operands) {
		return nil, fmt.Errorf("'%s' group lists %d operand(s) but %d type(s)", kw, len(operands), len(types))
	}
	if err := p.Expect(")"); err != nil {
		return nil, err
	}
	return operands, nil
}

func printGeneric(op *ir.Operation, w ir.OpPrinter) {
	w.Emit(" bounds ")
	w.PrintAttribute(op.Attr("bounds"))
	ins := NumIns(op)
	printOperandGroup(op.Operands()[:ins], "ins", w)
	printOperandGroup(op.Operands()[ins:], "outs", w)
	w.Emit(" ")
	w.PrintRegion(op.Region(0))
}

func printOperandGroup(operands []*ir.Value, kw string, w ir.OpPrinter) {
	w.Emit(" " + kw + "(")
	for i, v := range operands {
		if i > 0 {
			w.Emit(", ")
		}
		w.PrintValue(v)
	}
	w.Emit(" : ")
	for i, v := range operands {
		if i > 0 {
			w.Emit(", ")
		}
		w.PrintType(v.Type())
	}
	w.Emit(")")
}

func verifyGeneric(op *ir.Operation) error {
	bounds := Bounds(op)
	if len(bounds) == 0 {
		return fmt.Errorf("iteration space is empty")
	}
	for _, b := range bounds {
		if b < 1 {
			return fmt.Errorf("bound %d is not positive", b)
		}
	}

	ins := NumIns(op)
	if ins < 0 || ins > op.NumOperands() {
		return fmt.Errorf("'ins' counts %d operand(s), but the operation has %d", ins, op.NumOperands())
	}
	var elems []ir.Type
	for _, operand := range op.Operands() {
		bt, ok := operand.Type().(mem.BufferType)
		if !ok {
			return fmt.Errorf("operand has type '%s', expected a buffer", operand.Type())
		}
		elems = append(elems, bt.Elem)
	}

	entry := op.Region(0).Entry()
	if entry == nil {
		return fmt.Errorf("body region is empty")
	}
	if entry.NumArguments() != ins {
		return fmt.Errorf("body takes %d argument(s) for %d input(s)", entry.NumArguments(), ins)
	}
	for i, arg := range entry.Arguments() {
		if !ir.TypeEqual(arg.Type(), elems[i]) {
			return fmt.Errorf("body argument %d has type '%s', expected element type '%s'", i, arg.Type(), elems[i])
		}
	}

	if entry.NumOps() == 0 {
		return fmt.Errorf("body has no terminator")
	}
	term := entry.Op(entry.NumOps() - 1)
	if term.Name() != "stream.yield" {
		return fmt.Errorf("body must end in 'stream.yield', got '%s'", term.Name())
	}
	outs := op.NumOperands() - ins
	if term.NumOperands() != outs {
		return fmt.Errorf("body yields %d value(s) for %d output(s)", term.NumOperands(), outs)
	}
	for i, y := range term.Operands() {
		if !ir.TypeEqual(y.Type(), elems[ins+i]) {
			return fmt.Errorf("yielded value %d has type '%s', expected element type '%s'", i, y.Type(), elems[ins+i])
		}
	}
	return nil
}

// parseYield handles `stream.yield %sum : i32` and the bare, operand-free
// form.
func parseYield(p ir.OpParser, state *ir.OpState) error {
	if !p.AtValue() {
		return nil
	}
	operands, err := p.ParseOperandList()
	if err != nil {
		return err
	}
	if err := p.Expect(":"); err != nil {
		return err
	}
	n := 0
	for {
		if _, err := p.ParseType(); err != nil {
			return err
		}
		n++
		if !p.Match(",") {
			break
		}
	}
	if n != len(operands) {
		return fmt.Errorf("yield lists %d operand(s) but %d type(s)", len(operands), n)
	}
	state.Operands = operands
	return nil
}

func printYield(op *ir.Operation, w ir.OpPrinter) {
	if op.NumOperands() == 0 {
		return
	}
	w.Emit(" ")
	for i, v := range op.Operands() {
		if i > 0 {
			w.Emit(", ")
		}
		w.PrintValue(v)
	}
	w.Emit(" : ")
	for i, v := range op.Operands() {
		if i > 0 {
			w.Emit(", ")
		}
		w.PrintType(v.Type())
	}
}
