// Package streamlower lowers stream.generic operations into explicit loop
// nests: one counted loop per iteration-space bound, loads for the inputs,
// the cloned body computation and stores for the yielded outputs.
package streamlower

import (
	"fmt"

	"github.com/goir/goir/dialects/loop"
	"github.com/goir/goir/dialects/stream"
	"github.com/goir/goir/ir"
	"github.com/goir/goir/rewrite"
)

// Pass returns the stream-to-loops lowering pass.
func Pass() *rewrite.Pass {
	return &rewrite.Pass{
		Name: "stream-to-loops",
		Patterns: []rewrite.Pattern{
			&lowerGeneric{
				PatternBase: rewrite.PatternBase{PatternName: "lower-stream-generic", PatternBenefit: 1},
			},
		},
	}
}

type lowerGeneric struct {
	rewrite.PatternBase
}

func (p *lowerGeneric) MatchAndRewrite(op *ir.Operation, rw *rewrite.Rewriter) (bool, error) {
	if op.Name() != "stream.generic" {
		return false, nil
	}
	bounds := stream.Bounds(op)
	ins := stream.NumIns(op)
	entry := op.Region(0).Entry()
	if len(bounds) == 0 || entry == nil || entry.NumOps() == 0 {
		return false, fmt.Errorf("malformed stream.generic")
	}
	loc := op.Loc()

	// One counted loop per bound, outermost first. The innermost body holds
	// the per-element computation.
	var outer *ir.Operation
	var body *ir.Block
	var bodies []*ir.Block
	var ivs []*ir.Value
	for _, bound := range bounds {
		forOp, forBody, iv := loop.For(0, bound, loc)
		if outer == nil {
			outer = forOp
		} else {
			body.Append(forOp)
		}
		body = forBody
		bodies = append(bodies, forBody)
		ivs = append(ivs, iv)
	}

	// Load one element per input buffer; the body's arguments map to the
	// loaded elements.
	vmap := make(map[*ir.Value]*ir.Value)
	for i := 0; i < ins; i++ {
		load := ir.Build(ir.OpState{
			Name:        "mem.load",
			Loc:         loc,
			Operands:    append([]*ir.Value{op.Operand(i)}, ivs...),
			ResultTypes: []ir.Type{entry.Argument(i).Type()},
		})
		body.Append(load)
		vmap[entry.Argument(i)] = load.Result(0)
	}

	// Clone the computation, remapping arguments and intermediate results.
	term := entry.Op(entry.NumOps() - 1)
	for _, inner := range entry.Ops() {
		if inner == term {
			break
		}
		body.Append(inner.Clone(vmap))
	}

	// Store each yielded value into its output buffer.
	for j, yielded := range term.Operands() {
		v := yielded
		if mapped, ok := vmap[yielded]; ok {
			v = mapped
		}
		body.Append(ir.Build(ir.OpState{
			Name:     "mem.store",
			Loc:      loc,
			Operands: append([]*ir.Value{v, op.Operand(ins + j)}, ivs...),
		}))
	}

	for _, b := range bodies {
		b.Append(loop.Yield(loc))
	}

	rw.InsertBefore(op, outer)
	if err := rw.EraseOp(op); err != nil {
		return false, err
	}
	return true, nil
}
