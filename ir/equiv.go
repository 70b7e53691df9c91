package ir

// Equivalent reports whether two operations are structurally equal: same
// mnemonics, attribute maps equal by value, types equal, identical
// block/region nesting, and operand/successor references that correspond
// positionally under the value correspondence induced by matching
// definition sites. Source names, labels and locations are ignored.
//
// This is the structural side of the round-trip contract: a printed and
// re-parsed graph must be Equivalent to the original.
func Equivalent(a, b *Operation) bool {
	e := &equivChecker{
		vmap: make(map[*Value]*Value),
		bmap: make(map[*Block]*Block),
	}
	if !e.shape(a, b) {
		return false
	}
	return e.references()
}

type equivChecker struct {
	vmap  map[*Value]*Value
	bmap  map[*Block]*Block
	pairs []opPair
}

// shape compares everything except operand and successor references,
// registering value and block correspondences along the way. References are
// compared afterwards so that forward references inside graph regions are
// already mapped.
func (e *equivChecker) shape(a, b *Operation) bool {
	if a.name != b.name ||
		len(a.operands) != len(b.operands) ||
		len(a.results) != len(b.results) ||
		len(a.regions) != len(b.regions) ||
		len(a.successors) != len(b.successors) ||
		len(a.attributes) != len(b.attributes) {
		return false
	}
	for name, av := range a.attributes {
		bv, ok := b.attributes[name]
		if !ok || !AttrEqual(av, bv) {
			return false
		}
	}
	for i, ar := range a.results {
		br := b.results[i]
		if !TypeEqual(ar.typ, br.typ) {
			return false
		}
		e.vmap[ar] = br
	}
	for i, arr := range a.regions {
		brr := b.regions[i]
		if !e.regionShape(arr, brr) {
			return false
		}
	}
	e.pairs = append(e.pairs, opPair{src: a, dst: b})
	return true
}

func (e *equivChecker) regionShape(a, b *Region) bool {
	if len(a.blocks) != len(b.blocks) {
		return false
	}
	for i, ab := range a.blocks {
		bb := b.blocks[i]
		if len(ab.args) != len(bb.args) || len(ab.ops) != len(bb.ops) {
			return false
		}
		for j, aa := range ab.args {
			ba := bb.args[j]
			if !TypeEqual(aa.typ, ba.typ) {
				return false
			}
			e.vmap[aa] = ba
		}
		e.bmap[ab] = bb
	}
	for i, ab := range a.blocks {
		bb := b.blocks[i]
		for j, aop := range ab.ops {
			if !e.shape(aop, bb.ops[j]) {
				return false
			}
		}
	}
	return true
}

func (e *equivChecker) references() bool {
	for _, p := range e.pairs {
		for i, ao := range p.src.operands {
			bo := p.dst.operands[i]
			if ao == nil || bo == nil {
				if ao != bo {
					return false
				}
				continue
			}
			if mapped, ok := e.vmap[ao]; ok {
				if mapped != bo {
					return false
				}
				continue
			}
			// Reference to a value outside both subtrees must be identical.
			if ao != bo {
				return false
			}
		}
		for i, as := range p.src.successors {
			bs := p.dst.successors[i]
			if mapped, ok := e.bmap[as]; ok {
				if mapped != bs {
					return false
				}
				continue
			}
			if as != bs {
				return false
			}
		}
	}
	return true
}
