// Package rewrite applies pattern-based transformations to ir graphs. A
// worklist driver tries registered patterns against candidate operations and
// runs until no pattern matches anywhere (fixpoint) or an iteration cap is
// hit.
package rewrite

import (
	"github.com/goir/goir/ir"
)

// Pattern is one match/rewrite rule over a single operation and its
// neighborhood.
type Pattern interface {
	// Name identifies the pattern in diagnostics.
	Name() string

	// Benefit orders pattern attempts: higher benefit patterns are tried
	// first, registration order breaking ties.
	Benefit() int

	// MatchAndRewrite attempts the pattern on op. When op does not match it
	// must return false without touching the graph. When it matches, the
	// rewrite must go through the Rewriter so the driver can track what
	// changed, and must leave the graph internally consistent.
	MatchAndRewrite(op *ir.Operation, rw *Rewriter) (bool, error)
}

// PatternBase provides Name and Benefit so pattern implementations only
// write MatchAndRewrite. Embed it with the fields set.
type PatternBase struct {
	PatternName    string
	PatternBenefit int
}

// Name returns the pattern name.
func (b PatternBase) Name() string { return b.PatternName }

// Benefit returns the pattern benefit.
func (b PatternBase) Benefit() int { return b.PatternBenefit }

// Rewriter is the mutation surface available to patterns. All structural
// changes made during a rewrite must go through it; the driver uses the
// notifications to re-enqueue operations whose match state may have changed.
type Rewriter struct {
	d *driver
}

// InsertBefore inserts a free-standing operation (and everything nested in
// it) before target.
func (rw *Rewriter) InsertBefore(target, op *ir.Operation) {
	b := target.Block()
	b.Insert(b.IndexOf(target), op)
	ir.Walk(op, rw.d.enqueue)
}

// BuildBefore builds an operation from state and inserts it before target.
func (rw *Rewriter) BuildBefore(target *ir.Operation, state ir.OpState) *ir.Operation {
	op := ir.Build(state)
	rw.InsertBefore(target, op)
	return op
}

// ReplaceOp redirects all uses of op's results to the given values, then
// erases op. Every operation whose operand set changed is re-enqueued.
func (rw *Rewriter) ReplaceOp(op *ir.Operation, with []*ir.Value) error {
	if len(with) != op.NumResults() {
		return &ReplacementArityError{Op: op.Name(), Results: op.NumResults(), Values: len(with)}
	}
	for i, r := range op.Results() {
		for _, u := range r.Uses() {
			rw.d.enqueue(u.Op)
		}
		r.ReplaceAllUsesWith(with[i])
	}
	return rw.EraseOp(op)
}

// EraseOp erases op, failing with *ir.UseError if any result is still used.
// Definers of op's operands are re-enqueued, since losing a use can enable
// patterns on them.
func (rw *Rewriter) EraseOp(op *ir.Operation) error {
	for _, operand := range op.Operands() {
		if operand != nil && operand.DefiningOp() != nil {
			rw.d.enqueue(operand.DefiningOp())
		}
	}
	if err := op.Erase(); err != nil {
		return err
	}
	ir.Walk(op, func(inner *ir.Operation) {
		rw.d.erased[inner] = true
	})
	return nil
}
