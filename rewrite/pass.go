package rewrite

import (
	"github.com/goir/goir/ir"
)

// Pass is a named bundle of patterns applied over a scope: a whole module
// operation or one specific region.
type Pass struct {
	Name     string
	Patterns []Pattern
}

// Run applies the pass to every region of module. It fails with
// *NonConvergenceError when the driver hits its cap, or with a fatal error
// from a broken pattern.
func (p *Pass) Run(module *ir.Operation, opts Options) error {
	_, err := ApplyToOp(module, p.Patterns, opts)
	return err
}

// RunOnRegion applies the pass to a single region.
func (p *Pass) RunOnRegion(r *ir.Region, opts Options) error {
	_, err := Apply(r, p.Patterns, opts)
	return err
}

// Pipeline runs passes in order, stopping at the first failure.
type Pipeline struct {
	Passes []*Pass
}

// Run executes the pipeline over module.
func (pl *Pipeline) Run(module *ir.Operation, opts Options) error {
	for _, p := range pl.Passes {
		if err := p.Run(module, opts); err != nil {
			return err
		}
	}
	return nil
}
