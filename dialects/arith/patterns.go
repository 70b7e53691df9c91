package arith

import (
	"github.com/goir/goir/ir"
	"github.com/goir/goir/rewrite"
)

// FoldPatterns returns the constant-folding patterns for the dialect:
// arith.addi and arith.muli over two constants fold to a new constant.
// Folding one operation can turn its users foldable, so the worklist driver
// cascades whole constant expression trees.
func FoldPatterns() []rewrite.Pattern {
	return []rewrite.Pattern{
		&foldBinary{
			PatternBase: rewrite.PatternBase{PatternName: "fold-addi", PatternBenefit: 1},
			op:          "arith.addi",
			eval:        func(a, b int64) int64 { return a + b },
		},
		&foldBinary{
			PatternBase: rewrite.PatternBase{PatternName: "fold-muli", PatternBenefit: 1},
			op:          "arith.muli",
			eval:        func(a, b int64) int64 { return a * b },
		},
	}
}

type foldBinary struct {
	rewrite.PatternBase
	op   string
	eval func(a, b int64) int64
}

func (p *foldBinary) MatchAndRewrite(op *ir.Operation, rw *rewrite.Rewriter) (bool, error) {
	if op.Name() != p.op {
		return false, nil
	}
	lhs, ok := ConstantValue(op.Operand(0).DefiningOp())
	if !ok {
		return false, nil
	}
	rhs, ok := ConstantValue(op.Operand(1).DefiningOp())
	if !ok {
		return false, nil
	}
	folded := rw.BuildBefore(op, ir.OpState{
		Name:        "arith.constant",
		Loc:         op.Loc(),
		ResultTypes: []ir.Type{op.Result(0).Type()},
		Attributes: map[string]ir.Attribute{
			"value": ir.IntegerAttr{Value: p.eval(lhs, rhs), Type: op.Result(0).Type()},
		},
	})
	if err := rw.ReplaceOp(op, []*ir.Value{folded.Result(0)}); err != nil {
		return false, err
	}
	return true, nil
}
