// Package seq defines the seq dialect: clock values and the operations that
// derive and select them.
package seq

import (
	"fmt"

	"github.com/goir/goir/ir"
)

// Name is the dialect namespace.
const Name = "seq"

// ClockType is the type of clock signals, printed as !seq.clock.
type ClockType struct {
	ir.TypeBase
}

func (ClockType) String() string { return "!seq.clock" }

// Dialect returns the seq dialect definition.
func Dialect() *ir.Dialect {
	clock := ir.ExactType(ClockType{})
	i1 := ir.ExactType(ir.IntegerType{Width: 1})
	return &ir.Dialect{
		Name: Name,
		Types: []ir.TypeDef{
			{
				Name: "seq.clock",
				Parse: func(ir.AttrParser) (ir.Type, error) {
					return ClockType{}, nil
				},
			},
		},
		Ops: []ir.OpDef{
			{
				Name:          "seq.clock_div",
				NumOperands:   1,
				NumResults:    1,
				Operands:      []ir.TypeConstraint{clock},
				Results:       []ir.TypeConstraint{clock},
				RequiredAttrs: map[string]ir.AttrConstraint{"factor": ir.AnyIntegerAttr},
				Parse:         parseClockDiv,
				Print:         printClockDiv,
				Verify:        verifyClockDiv,
			},
			{
				Name:        "seq.clock_mux",
				NumOperands: 3,
				NumResults:  1,
				Operands:    []ir.TypeConstraint{i1, clock, clock},
				Results:     []ir.TypeConstraint{clock},
				Parse:       parseClockMux,
				Print:       printClockMux,
			},
		},
	}
}

// Register adds the dialect to a registry.
func Register(r *ir.Registry) error {
	return r.Register(Dialect())
}

// parseClockDiv handles `seq.clock_div %clk by 4`.
func parseClockDiv(p ir.OpParser, state *ir.OpState) error {
	clk, err := p.ParseOperand()
	if err != nil {
		return err
	}
	if err := p.ParseKeyword("by"); err != nil {
		return err
	}
	factor, err := p.ParseInteger()
	if err != nil {
		return err
	}
	state.Operands = []*ir.Value{clk}
	state.ResultTypes = []ir.Type{ClockType{}}
	state.Attributes = map[string]ir.Attribute{
		"factor": ir.IntegerAttr{Value: factor},
	}
	return nil
}

func printClockDiv(op *ir.Operation, w ir.OpPrinter) {
	w.Emit(" ")
	w.PrintValue(op.Operand(0))
	factor := op.Attr("factor").(ir.IntegerAttr)
	w.Emitf(" by %d", factor.Value)
}

func verifyClockDiv(op *ir.Operation) error {
	factor, ok := op.Attr("factor").(ir.IntegerAttr)
	if !ok {
		return nil
	}
	if factor.Value < 1 {
		return fmt.Errorf("division factor must be positive, got %d", factor.Value)
	}
	return nil
}

// parseClockMux handles `seq.clock_mux %sel, %a, %b`.
func parseClockMux(p ir.OpParser, state *ir.OpState) error {
	operands, err := p.ParseOperandList()
	if err != nil {
		return err
	}
	state.Operands = operands
	state.ResultTypes = []ir.Type{ClockType{}}
	return nil
}

func printClockMux(op *ir.Operation, w ir.OpPrinter) {
	w.Emit(" ")
	for i, operand := range op.Operands() {
		if i > 0 {
			w.Emit(", ")
		}
		w.PrintValue(operand)
	}
}
