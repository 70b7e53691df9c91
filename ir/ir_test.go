package ir

import (
	"testing"
)

func buildConst(t Type) *Operation {
	return Build(OpState{
		Name:        "test.const",
		ResultTypes: []Type{t},
	})
}

func TestBuild_MintsResults(t *testing.T) {
	op := Build(OpState{
		Name:        "test.pair",
		ResultTypes: []Type{IntegerType{Width: 32}, IndexType{}},
	})

	if op.NumResults() != 2 {
		t.Fatalf("expected 2 results, got %d", op.NumResults())
	}
	if op.Result(0).DefiningOp() != op {
		t.Error("result 0 does not point back at its operation")
	}
	if op.Result(1).Index() != 1 {
		t.Errorf("result 1 has index %d", op.Result(1).Index())
	}
	if !TypeEqual(op.Result(0).Type(), IntegerType{Width: 32}) {
		t.Errorf("result 0 has type %s", op.Result(0).Type())
	}
}

func TestSetOperand_MaintainsUseSets(t *testing.T) {
	i32 := IntegerType{Width: 32}
	a := buildConst(i32)
	b := buildConst(i32)
	add := Build(OpState{
		Name:        "test.add",
		Operands:    []*Value{a.Result(0), b.Result(0)},
		ResultTypes: []Type{i32},
	})

	if a.Result(0).NumUses() != 1 || b.Result(0).NumUses() != 1 {
		t.Fatalf("expected one use each, got %d and %d", a.Result(0).NumUses(), b.Result(0).NumUses())
	}

	// Point both operands at a; b loses its use.
	add.SetOperand(1, a.Result(0))
	if got := a.Result(0).NumUses(); got != 2 {
		t.Errorf("expected 2 uses of a, got %d", got)
	}
	if got := b.Result(0).NumUses(); got != 0 {
		t.Errorf("expected 0 uses of b, got %d", got)
	}

	uses := a.Result(0).Uses()
	for _, u := range uses {
		if u.Op != add {
			t.Errorf("use recorded on wrong operation %q", u.Op.Name())
		}
	}
}

func TestReplaceAllUsesWith(t *testing.T) {
	i32 := IntegerType{Width: 32}
	old := buildConst(i32)
	repl := buildConst(i32)
	u1 := Build(OpState{Name: "test.use", Operands: []*Value{old.Result(0)}})
	u2 := Build(OpState{Name: "test.use", Operands: []*Value{old.Result(0), old.Result(0)}})

	old.Result(0).ReplaceAllUsesWith(repl.Result(0))

	if old.Result(0).NumUses() != 0 {
		t.Errorf("old value still has %d use(s)", old.Result(0).NumUses())
	}
	if repl.Result(0).NumUses() != 3 {
		t.Errorf("expected 3 uses of replacement, got %d", repl.Result(0).NumUses())
	}
	if u1.Operand(0) != repl.Result(0) || u2.Operand(1) != repl.Result(0) {
		t.Error("operand slots were not redirected")
	}
}

func TestErase_FailsWhileUsed(t *testing.T) {
	i32 := IntegerType{Width: 32}
	region := NewRegion()
	b := region.AddBlock()
	c := buildConst(i32)
	b.Append(c)
	use := Build(OpState{Name: "test.use", Operands: []*Value{c.Result(0)}})
	b.Append(use)

	err := c.Erase()
	uerr, ok := err.(*UseError)
	if !ok {
		t.Fatalf("expected *UseError, got %v", err)
	}
	if uerr.NumUses != 1 {
		t.Errorf("expected 1 remaining use, got %d", uerr.NumUses)
	}
	// The graph must be untouched.
	if b.NumOps() != 2 || use.Operand(0) != c.Result(0) {
		t.Error("failed erase mutated the graph")
	}

	// Dropping the user first makes the erase legal.
	if err := use.Erase(); err != nil {
		t.Fatalf("erase user: %v", err)
	}
	if err := c.Erase(); err != nil {
		t.Fatalf("erase def: %v", err)
	}
	if b.NumOps() != 0 {
		t.Errorf("block still holds %d op(s)", b.NumOps())
	}
}

func TestErase_NestedUsesDieTogether(t *testing.T) {
	i32 := IntegerType{Width: 32}
	outerDef := buildConst(i32)

	inner := NewRegion()
	ib := inner.AddBlock()
	arg := ib.AddArgument(i32, "x")
	local := Build(OpState{Name: "test.use", Operands: []*Value{arg, outerDef.Result(0)}})
	ib.Append(local)
	holder := Build(OpState{Name: "test.holder", Regions: []*Region{inner}})

	region := NewRegion()
	b := region.AddBlock()
	b.Append(outerDef)
	b.Append(holder)

	if outerDef.Result(0).NumUses() != 1 {
		t.Fatalf("expected 1 use of the outer value, got %d", outerDef.Result(0).NumUses())
	}

	// Erasing the holder destroys the nested use as well.
	if err := holder.Erase(); err != nil {
		t.Fatalf("erase holder: %v", err)
	}
	if outerDef.Result(0).NumUses() != 0 {
		t.Errorf("outer value still has %d use(s) after subtree erase", outerDef.Result(0).NumUses())
	}
}

func TestInsert_MovesBetweenBlocks(t *testing.T) {
	region := NewRegion()
	b1 := region.AddBlock()
	b2 := region.AddBlock()
	op := Build(OpState{Name: "test.op"})

	b1.Append(op)
	if op.Block() != b1 {
		t.Fatal("op not owned by b1 after append")
	}
	b2.Append(op)
	if op.Block() != b2 {
		t.Error("op not owned by b2 after move")
	}
	if b1.NumOps() != 0 {
		t.Errorf("b1 still holds %d op(s)", b1.NumOps())
	}
}

func TestInsert_SameBlockReorder(t *testing.T) {
	region := NewRegion()
	b := region.AddBlock()
	first := Build(OpState{Name: "test.first"})
	second := Build(OpState{Name: "test.second"})
	third := Build(OpState{Name: "test.third"})
	b.Append(first)
	b.Append(second)
	b.Append(third)

	// Move the first operation behind the third.
	b.Insert(3, first)

	want := []string{"test.second", "test.third", "test.first"}
	for i, name := range want {
		if b.Op(i).Name() != name {
			t.Errorf("position %d: got %q, want %q", i, b.Op(i).Name(), name)
		}
	}
}

func TestParent_Links(t *testing.T) {
	inner := NewRegion()
	ib := inner.AddBlock()
	leaf := Build(OpState{Name: "test.leaf"})
	ib.Append(leaf)
	holder := Build(OpState{Name: "test.holder", Regions: []*Region{inner}})

	if leaf.Parent() != holder {
		t.Error("leaf does not report holder as parent")
	}
	if ib.ParentOp() != holder {
		t.Error("block does not report holder as parent op")
	}
	if inner.Owner() != holder {
		t.Error("region does not report holder as owner")
	}
	if holder.Parent() != nil {
		t.Error("root operation has a parent")
	}
}

func TestSplitName(t *testing.T) {
	d, tail := SplitName("arith.addi")
	if d != "arith" || tail != "addi" {
		t.Errorf("got (%q, %q)", d, tail)
	}
	d, tail = SplitName("plain")
	if d != "" || tail != "plain" {
		t.Errorf("got (%q, %q)", d, tail)
	}
}

func TestWalk_PreOrder(t *testing.T) {
	inner := NewRegion()
	ib := inner.AddBlock()
	ib.Append(Build(OpState{Name: "test.a"}))
	ib.Append(Build(OpState{Name: "test.b"}))
	holder := Build(OpState{Name: "test.holder", Regions: []*Region{inner}})

	var got []string
	Walk(holder, func(op *Operation) {
		got = append(got, op.Name())
	})
	want := []string{"test.holder", "test.a", "test.b"}
	if len(got) != len(want) {
		t.Fatalf("visited %d op(s), want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
