package ir

import (
	"fmt"
	"sort"
)

// Verify walks the graph rooted at op depth-first and checks structural and
// dialect-specific invariants against the registry. Diagnostics are
// collected across sibling subtrees: the first failure at a node stops
// verification of that node's subtree but not of its siblings, so one pass
// reports every top-level problem. Verification never mutates the graph; on
// failure the returned error is a *VerificationError and the graph remains
// valid in memory.
func Verify(op *Operation, reg *Registry) error {
	v := &verifier{registry: reg}
	v.verifyOp(op)
	if len(v.diags) > 0 {
		return &VerificationError{Diagnostics: v.diags}
	}
	return nil
}

type verifier struct {
	registry *Registry
	diags    []Diagnostic
}

func (v *verifier) report(op *Operation, format string, args ...any) {
	v.diags = append(v.diags, Diagnostic{
		Op:      op.name,
		Loc:     op.loc,
		Message: fmt.Sprintf(format, args...),
	})
}

// verifyOp runs the per-node checks in order and, when they all pass,
// descends into the operation's regions.
func (v *verifier) verifyOp(op *Operation) {
	def, err := v.registry.LookupOp(op.name)
	if err != nil {
		v.report(op, "unknown operation")
		return
	}
	if !v.checkSignature(op, def) {
		return
	}
	if !v.checkAttributes(op, def) {
		return
	}
	if !v.checkRegionSigs(op, def) {
		return
	}
	if def.Verify != nil {
		if err := def.Verify(op); err != nil {
			v.report(op, "%s", err.Error())
			return
		}
	}
	if !v.checkTraits(op, def) {
		return
	}
	for _, r := range op.regions {
		v.verifyRegion(op, def, r)
	}
}

// checkSignature checks operand/result counts and positional types, plus
// successor legality.
func (v *verifier) checkSignature(op *Operation, def *OpDef) bool {
	if def.NumOperands >= 0 && len(op.operands) != def.NumOperands {
		v.report(op, "expected %d operand(s), got %d", def.NumOperands, len(op.operands))
		return false
	}
	if def.NumResults >= 0 && len(op.results) != def.NumResults {
		v.report(op, "expected %d result(s), got %d", def.NumResults, len(op.results))
		return false
	}
	for i, operand := range op.operands {
		if operand == nil {
			v.report(op, "operand %d is unset", i)
			return false
		}
		if i < len(def.Operands) && def.Operands[i] != nil {
			if err := def.Operands[i](operand.typ); err != nil {
				v.report(op, "operand %d: %s", i, err.Error())
				return false
			}
		}
	}
	for i, result := range op.results {
		if i < len(def.Results) && def.Results[i] != nil {
			if err := def.Results[i](result.typ); err != nil {
				v.report(op, "result %d: %s", i, err.Error())
				return false
			}
		}
	}
	if len(op.successors) > 0 && !def.HasTrait(TraitTerminator) {
		v.report(op, "only terminators may have successors")
		return false
	}
	return true
}

func (v *verifier) checkAttributes(op *Operation, def *OpDef) bool {
	names := make([]string, 0, len(def.RequiredAttrs))
	for name := range def.RequiredAttrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a, ok := op.attributes[name]
		if !ok {
			v.report(op, "missing required attribute %q", name)
			return false
		}
		if c := def.RequiredAttrs[name]; c != nil {
			if err := c(a); err != nil {
				v.report(op, "attribute %q: %s", name, err.Error())
				return false
			}
		}
	}
	return true
}

func (v *verifier) checkRegionSigs(op *Operation, def *OpDef) bool {
	if len(op.regions) != len(def.Regions) {
		v.report(op, "expected %d region(s), got %d", len(def.Regions), len(op.regions))
		return false
	}
	for i, sig := range def.Regions {
		if sig.EntryArgs == nil {
			continue
		}
		entry := op.regions[i].Entry()
		if entry == nil {
			v.report(op, "region %d: expected an entry block with %d argument(s)", i, len(sig.EntryArgs))
			return false
		}
		if len(entry.args) != len(sig.EntryArgs) {
			v.report(op, "region %d: expected %d entry argument(s), got %d", i, len(sig.EntryArgs), len(entry.args))
			return false
		}
		for j, c := range sig.EntryArgs {
			if c == nil {
				continue
			}
			if err := c(entry.args[j].typ); err != nil {
				v.report(op, "region %d, entry argument %d: %s", i, j, err.Error())
				return false
			}
		}
	}
	return true
}

func (v *verifier) checkTraits(op *Operation, def *OpDef) bool {
	if def.HasTrait(TraitSameOperandsAndResultType) {
		var want Type
		for _, operand := range op.operands {
			if want == nil {
				want = operand.typ
			} else if !TypeEqual(operand.typ, want) {
				v.report(op, "operands and results must all have type '%s', got '%s'", want, operand.typ)
				return false
			}
		}
		for _, result := range op.results {
			if want == nil {
				want = result.typ
			} else if !TypeEqual(result.typ, want) {
				v.report(op, "operands and results must all have type '%s', got '%s'", want, result.typ)
				return false
			}
		}
	}
	return true
}

// verifyRegion checks terminator placement for every block, then verifies
// each operation. Blocks of graph regions need no terminator.
func (v *verifier) verifyRegion(owner *Operation, ownerDef *OpDef, r *Region) {
	graphRegion := ownerDef.HasTrait(TraitGraphRegion)
	for _, b := range r.blocks {
		v.verifyBlockShape(owner, b, graphRegion)
		for _, op := range b.ops {
			v.verifyOp(op)
		}
	}
}

func (v *verifier) verifyBlockShape(owner *Operation, b *Block, graphRegion bool) {
	if len(b.ops) == 0 {
		if !graphRegion {
			v.report(owner, "block %s is empty and has no terminator", blockDesc(b))
		}
		return
	}
	for i, op := range b.ops {
		def, err := v.registry.LookupOp(op.name)
		if err != nil {
			// The operation's own verification reports the unknown name.
			continue
		}
		isTerm := def.HasTrait(TraitTerminator)
		last := i == len(b.ops)-1
		switch {
		case isTerm && !last:
			v.report(op, "terminator must be the last operation in block %s", blockDesc(b))
		case !isTerm && last && !graphRegion:
			v.report(op, "block %s must end with a terminator", blockDesc(b))
		}
		if isTerm {
			for _, succ := range op.successors {
				if succ.region != b.region {
					v.report(op, "successor block is not in the enclosing region")
				}
			}
		}
	}
}

func blockDesc(b *Block) string {
	if b.label != "" {
		return "^" + b.label
	}
	if b.region != nil {
		for i, have := range b.region.blocks {
			if have == b {
				return fmt.Sprintf("#%d", i)
			}
		}
	}
	return "#?"
}
