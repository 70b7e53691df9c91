// Package arith defines the arith dialect: integer constants and binary
// integer arithmetic.
package arith

import (
	"fmt"

	"github.com/goir/goir/ir"
)

// Name is the dialect namespace.
const Name = "arith"

// Dialect returns the arith dialect definition.
func Dialect() *ir.Dialect {
	return &ir.Dialect{
		Name: Name,
		Ops: []ir.OpDef{
			{
				Name:          "arith.constant",
				NumResults:    1,
				Results:       []ir.TypeConstraint{ir.AnyInteger},
				RequiredAttrs: map[string]ir.AttrConstraint{"value": ir.AnyIntegerAttr},
				Parse:         parseConstant,
				Print:         printConstant,
				Verify:        verifyConstant,
			},
			binaryOp("arith.addi"),
			binaryOp("arith.muli"),
		},
	}
}

// Register adds the dialect to a registry.
func Register(r *ir.Registry) error {
	return r.Register(Dialect())
}

// Constant builds an arith.constant producing value of type t.
func Constant(value int64, t ir.Type, loc ir.Location) *ir.Operation {
	return ir.Build(ir.OpState{
		Name:        "arith.constant",
		Loc:         loc,
		ResultTypes: []ir.Type{t},
		Attributes: map[string]ir.Attribute{
			"value": ir.IntegerAttr{Value: value, Type: t},
		},
	})
}

// ConstantValue reports the constant integer an operation produces, if it is
// an arith.constant.
func ConstantValue(op *ir.Operation) (int64, bool) {
	if op == nil || op.Name() != "arith.constant" {
		return 0, false
	}
	attr, ok := op.Attr("value").(ir.IntegerAttr)
	if !ok {
		return 0, false
	}
	return attr.Value, true
}

func binaryOp(name string) ir.OpDef {
	return ir.OpDef{
		Name:        name,
		NumOperands: 2,
		NumResults:  1,
		Operands:    []ir.TypeConstraint{ir.AnyInteger, ir.AnyInteger},
		Results:     []ir.TypeConstraint{ir.AnyInteger},
		Traits:      []ir.Trait{ir.TraitSameOperandsAndResultType, ir.TraitCommutative},
		Parse:       parseBinary,
		Print:       printBinary,
	}
}

// parseConstant handles `arith.constant 4 : i32`.
func parseConstant(p ir.OpParser, state *ir.OpState) error {
	value, err := p.ParseInteger()
	if err != nil {
		return err
	}
	if err := p.Expect(":"); err != nil {
		return err
	}
	t, err := p.ParseType()
	if err != nil {
		return err
	}
	state.Attributes = map[string]ir.Attribute{
		"value": ir.IntegerAttr{Value: value, Type: t},
	}
	state.ResultTypes = []ir.Type{t}
	return nil
}

func printConstant(op *ir.Operation, w ir.OpPrinter) {
	attr := op.Attr("value").(ir.IntegerAttr)
	w.Emitf(" %d : ", attr.Value)
	w.PrintType(op.Result(0).Type())
}

func verifyConstant(op *ir.Operation) error {
	attr, ok := op.Attr("value").(ir.IntegerAttr)
	if !ok {
		return nil
	}
	if attr.Type == nil || !ir.TypeEqual(attr.Type, op.Result(0).Type()) {
		return fmt.Errorf("value attribute type does not match result type '%s'", op.Result(0).Type())
	}
	return nil
}

// parseBinary handles `arith.addi %a, %b : i32`.
func parseBinary(p ir.OpParser, state *ir.OpState) error {
	lhs, err := p.ParseOperand()
	if err != nil {
		return err
	}
	if err := p.Expect(","); err != nil {
		return err
	}
	rhs, err := p.ParseOperand()
	if err != nil {
		return err
	}
	if err := p.Expect(":"); err != nil {
		return err
	}
	t, err := p.ParseType()
	if err != nil {
		return err
	}
	state.Operands = []*ir.Value{lhs, rhs}
	state.ResultTypes = []ir.Type{t}
	return nil
}

func printBinary(op *ir.Operation, w ir.OpPrinter) {
	w.Emit(" ")
	w.PrintValue(op.Operand(0))
	w.Emit(", ")
	w.PrintValue(op.Operand(1))
	w.Emit(" : ")
	w.PrintType(op.Result(0).Type())
}
