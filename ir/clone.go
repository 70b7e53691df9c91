package ir

// Cloning deep-copies owned structure (regions, blocks, operations, result
// and argument values) while preserving operand references to values defined
// outside the cloned subtree. Operand fixup runs after the full structural
// copy so that forward references inside graph regions clone correctly.

type opPair struct {
	src *Operation
	dst *Operation
}

// Clone deep-copies the operation and everything it owns. Freshly minted
// values are recorded in vmap (old value -> new value); operands are
// remapped through vmap, so references to values outside the subtree are
// kept as-is. A nil vmap is allocated internally.
func (op *Operation) Clone(vmap map[*Value]*Value) *Operation {
	if vmap == nil {
		vmap = make(map[*Value]*Value)
	}
	bmap := make(map[*Block]*Block)
	var pairs []opPair
	clone := cloneStructure(op, vmap, bmap, &pairs)
	fixupClonedReferences(vmap, bmap, pairs)
	return clone
}

// CloneInto appends deep copies of the region's blocks to dest, with the
// same value-remapping rules as Operation.Clone.
func (r *Region) CloneInto(dest *Region, vmap map[*Value]*Value) {
	if vmap == nil {
		vmap = make(map[*Value]*Value)
	}
	bmap := make(map[*Block]*Block)
	var pairs []opPair
	cloneRegionStructure(r, dest, vmap, bmap, &pairs)
	fixupClonedReferences(vmap, bmap, pairs)
}

// cloneStructure copies the operation shell, its results and its owned
// regions. Operand and successor slots are allocated but left unset.
func cloneStructure(op *Operation, vmap map[*Value]*Value, bmap map[*Block]*Block, pairs *[]opPair) *Operation {
	clone := &Operation{
		name: op.name,
		loc:  op.loc,
	}
	clone.operands = make([]*Value, len(op.operands))
	clone.successors = make([]*Block, len(op.successors))
	clone.results = make([]*Value, len(op.results))
	for i, r := range op.results {
		nv := &Value{typ: r.typ, name: r.name, owner: clone, index: i}
		clone.results[i] = nv
		vmap[r] = nv
	}
	// Attributes are immutable and shared by reference.
	if len(op.attributes) > 0 {
		clone.attributes = make(map[string]Attribute, len(op.attributes))
		for k, a := range op.attributes {
			clone.attributes[k] = a
		}
	}
	for _, r := range op.regions {
		nr := NewRegion()
		nr.owner = clone
		clone.regions = append(clone.regions, nr)
		cloneRegionStructure(r, nr, vmap, bmap, pairs)
	}
	*pairs = append(*pairs, opPair{src: op, dst: clone})
	return clone
}

func cloneRegionStructure(src, dest *Region, vmap map[*Value]*Value, bmap map[*Block]*Block, pairs *[]opPair) {
	// Blocks and their arguments first, so that block references and
	// argument uses anywhere in the subtree resolve during fixup.
	newBlocks := make([]*Block, len(src.blocks))
	for i, b := range src.blocks {
		nb := dest.AddBlock()
		nb.label = b.label
		for _, arg := range b.args {
			vmap[arg] = nb.AddArgument(arg.typ, arg.name)
		}
		bmap[b] = nb
		newBlocks[i] = nb
	}
	for i, b := range src.blocks {
		for _, inner := range b.ops {
			newBlocks[i].Append(cloneStructure(inner, vmap, bmap, pairs))
		}
	}
}

// fixupClonedReferences writes operand and successor slots on every cloned
// operation, remapping values and blocks that were copied and keeping
// references to everything outside the subtree.
func fixupClonedReferences(vmap map[*Value]*Value, bmap map[*Block]*Block, pairs []opPair) {
	for _, p := range pairs {
		for i, operand := range p.src.operands {
			if operand == nil {
				continue
			}
			if mapped, ok := vmap[operand]; ok {
				p.dst.SetOperand(i, mapped)
			} else {
				p.dst.SetOperand(i, operand)
			}
		}
		for i, succ := range p.src.successors {
			if mapped, ok := bmap[succ]; ok {
				p.dst.successors[i] = mapped
			} else {
				p.dst.successors[i] = succ
			}
		}
	}
}
