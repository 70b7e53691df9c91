// Package builtin defines the builtin dialect: the top-level module
// operation that anchors every document.
package builtin

import (
	"github.com/goir/goir/ir"
)

// Name is the dialect namespace.
const Name = "builtin"

// Dialect returns the builtin dialect definition.
func Dialect() *ir.Dialect {
	return &ir.Dialect{
		Name: Name,
		Ops: []ir.OpDef{
			{
				Name:    "builtin.module",
				Regions: []ir.RegionSig{{}},
				Traits:  []ir.Trait{ir.TraitGraphRegion},
				Parse:   parseModule,
				Print:   printModule,
			},
		},
	}
}

// Register adds the dialect to a registry.
func Register(r *ir.Registry) error {
	return r.Register(Dialect())
}

// NewModule builds an empty module: one region holding one empty block.
func NewModule(loc ir.Location) *ir.Operation {
	region := ir.NewRegion()
	region.AddBlock()
	return ir.Build(ir.OpState{
		Name:    "builtin.module",
		Loc:     loc,
		Regions: []*ir.Region{region},
	})
}

// Body returns the entry block of a module operation.
func Body(module *ir.Operation) *ir.Block {
	return module.Region(0).Entry()
}

func parseModule(p ir.OpParser, state *ir.OpState) error {
	region, err := p.ParseRegion(nil)
	if err != nil {
		return err
	}
	state.Regions = []*ir.Region{region}
	return nil
}

func printModule(op *ir.Operation, w ir.OpPrinter) {
	w.Emit(" ")
	w.PrintRegion(op.Region(0))
}
