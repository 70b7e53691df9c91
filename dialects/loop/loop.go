// Package loop defines the loop dialect: counted loops with an index
// induction variable.
package loop

import (
	"fmt"

	"github.com/goir/goir/ir"
)

// Name is the dialect namespace.
const Name = "loop"

// Dialect returns the loop dialect definition.
func Dialect() *ir.Dialect {
	return &ir.Dialect{
		Name: Name,
		Ops: []ir.OpDef{
			{
				Name: "loop.for",
				RequiredAttrs: map[string]ir.AttrConstraint{
					"lower": ir.AnyIntegerAttr,
					"upper": ir.AnyIntegerAttr,
				},
				Regions: []ir.RegionSig{
					{EntryArgs: []ir.TypeConstraint{ir.ExactType(ir.IndexType{})}},
				},
				Parse:  parseFor,
				Print:  printFor,
				Verify: verifyFor,
			},
			{
				Name:   "loop.yield",
				Traits: []ir.Trait{ir.TraitTerminator},
				Parse:  parseYield,
				Print:  printYield,
			},
		},
	}
}

// Register adds the dialect to a registry.
func Register(r *ir.Registry) error {
	return r.Register(Dialect())
}

// For builds a `loop.for` counting from lower to upper. It returns the
// operation, its body block and the induction variable. The body starts
// empty; the caller must end it with a terminator.
func For(lower, upper int64, loc ir.Location) (*ir.Operation, *ir.Block, *ir.Value) {
	region := ir.NewRegion()
	body := region.AddBlock()
	iv := body.AddArgument(ir.IndexType{}, "")
	op := ir.Build(ir.OpState{
		Name: "loop.for",
		Loc:  loc,
		Attributes: map[string]ir.Attribute{
			"lower": ir.IntegerAttr{Value: lower},
			"upper": ir.IntegerAttr{Value: upper},
		},
		Regions: []*ir.Region{region},
	})
	return op, body, iv
}

// Yield builds the loop.yield terminator.
func Yield(loc ir.Location) *ir.Operation {
	return ir.Build(ir.OpState{Name: "loop.yield", Loc: loc})
}

// parseFor handles `loop.for %i = 0 to 8 { ... }`. The induction variable is
// declared outside the braces and bound as the region's entry argument.
func parseFor(p ir.OpParser, state *ir.OpState) error {
	iv, err := p.ParseValueName()
	if err != nil {
		return err
	}
	if err := p.Expect("="); err != nil {
		return err
	}
	lower, err := p.ParseInteger()
	if err != nil {
		return err
	}
	if err := p.ParseKeyword("to"); err != nil {
		return err
	}
	upper, err := p.ParseInteger()
	if err != nil {
		return err
	}
	region, err := p.ParseRegion([]ir.RegionArg{{Name: iv, Type: ir.IndexType{}}})
	if err != nil {
		return err
	}
	state.Attributes = map[string]ir.Attribute{
		"lower": ir.IntegerAttr{Value: lower},
		"upper": ir.IntegerAttr{Value: upper},
	}
	state.Regions = []*ir.Region{region}
	return nil
}

func printFor(op *ir.Operation, w ir.OpPrinter) {
	lower := op.Attr("lower").(ir.IntegerAttr)
	upper := op.Attr("upper").(ir.IntegerAttr)
	w.Emit(" ")
	w.PrintValue(op.Region(0).Entry().Argument(0))
	w.Emitf(" = %d to %d ", lower.Value, upper.Value)
	w.PrintRegionEntryElided(op.Region(0))
}

func verifyFor(op *ir.Operation) error {
	lower, lok := op.Attr("lower").(ir.IntegerAttr)
	upper, uok := op.Attr("upper").(ir.IntegerAttr)
	if !lok || !uok {
		return nil
	}
	if upper.Value < lower.Value {
		return fmt.Errorf("upper bound %d is below lower bound %d", upper.Value, lower.Value)
	}
	return nil
}

func parseYield(ir.OpParser, *ir.OpState) error { return nil }

func printYield(*ir.Operation, ir.OpPrinter) {}
