package text

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goir/goir/ir"
)

// boxType is a parameterized dialect type used to exercise the type hook.
type boxType struct {
	ir.TypeBase
	elem ir.Type
}

func (b boxType) String() string { return "!x.box<" + b.elem.String() + ">" }

// parserTestRegistry declares a self-contained dialect covering the generic
// form, custom parse hooks, dialect attributes and dialect types.
func parserTestRegistry(t *testing.T) *ir.Registry {
	t.Helper()
	r := ir.NewRegistry()
	err := r.Register(&ir.Dialect{
		Name: "x",
		Ops: []ir.OpDef{
			{
				Name:    "x.module",
				Regions: []ir.RegionSig{{}},
				Traits:  []ir.Trait{ir.TraitGraphRegion},
				Parse: func(p ir.OpParser, state *ir.OpState) error {
					region, err := p.ParseRegion(nil)
					if err != nil {
						return err
					}
					state.Regions = []*ir.Region{region}
					return nil
				},
			},
			{Name: "x.const", NumResults: 1},
			{Name: "x.use", NumOperands: -1},
			{Name: "x.pair", NumResults: 2},
			{Name: "x.func", NumResults: 1, Regions: []ir.RegionSig{{}}},
			{Name: "x.br", Traits: []ir.Trait{ir.TraitTerminator}},
			{Name: "x.ret", Traits: []ir.Trait{ir.TraitTerminator}},
			{
				// x.scaled %v by N : T
				Name:        "x.scaled",
				NumOperands: 1,
				NumResults:  1,
				Parse: func(p ir.OpParser, state *ir.OpState) error {
					v, err := p.ParseOperand()
					if err != nil {
						return err
					}
					if err := p.ParseKeyword("by"); err != nil {
						return err
					}
					n, err := p.ParseInteger()
					if err != nil {
						return err
					}
					if err := p.Expect(":"); err != nil {
						return err
					}
					typ, err := p.ParseType()
					if err != nil {
						return err
					}
					state.Operands = []*ir.Value{v}
					state.Attributes = map[string]ir.Attribute{"factor": ir.IntegerAttr{Value: n}}
					state.ResultTypes = []ir.Type{typ}
					return nil
				},
			},
			{
				// x.body %i { ... } binds %i as an index entry argument.
				Name:    "x.body",
				Regions: []ir.RegionSig{{EntryArgs: []ir.TypeConstraint{ir.ExactType(ir.IndexType{})}}},
				Parse: func(p ir.OpParser, state *ir.OpState) error {
					name, err := p.ParseValueName()
					if err != nil {
						return err
					}
					region, err := p.ParseRegion([]ir.RegionArg{{Name: name, Type: ir.IndexType{}}})
					if err != nil {
						return err
					}
					state.Regions = []*ir.Region{region}
					return nil
				},
			},
		},
		Attrs: []ir.AttrDef{
			{
				// #x.range<lo, hi>
				Name: "x.range",
				Parse: func(p ir.AttrParser) (ir.Attribute, error) {
					if err := p.Expect("<"); err != nil {
						return nil, err
					}
					lo, err := p.ParseInteger()
					if err != nil {
						return nil, err
					}
					if err := p.Expect(","); err != nil {
						return nil, err
					}
					hi, err := p.ParseInteger()
					if err != nil {
						return nil, err
					}
					if err := p.Expect(">"); err != nil {
						return nil, err
					}
					return ir.ArrayAttr{Elems: []ir.Attribute{
						ir.IntegerAttr{Value: lo}, ir.IntegerAttr{Value: hi},
					}}, nil
				},
			},
		},
		Types: []ir.TypeDef{
			{
				// !x.box<T>
				Name: "x.box",
				Parse: func(p ir.AttrParser) (ir.Type, error) {
					if err := p.Expect("<"); err != nil {
						return nil, err
					}
					elem, err := p.ParseType()
					if err != nil {
						return nil, err
					}
					if err := p.Expect(">"); err != nil {
						return nil, err
					}
					return boxType{elem: elem}, nil
				},
			},
		},
	})
	require.NoError(t, err)
	return r
}

func TestParseModule_GenericAndCustom(t *testing.T) {
	r := parserTestRegistry(t)
	module, err := ParseModule(`x.module {
  %a = "x.const"() : () -> i32
  %b = x.scaled %a by 3 : i32
  "x.use"(%a, %b) : (i32, i32) -> ()
}`, r)
	require.NoError(t, err)

	body := module.Region(0).Entry()
	require.Equal(t, 3, body.NumOps())

	a := body.Op(0)
	require.Equal(t, "x.const", a.Name())
	require.Equal(t, "a", a.Result(0).Name())
	require.True(t, ir.TypeEqual(a.Result(0).Type(), ir.IntegerType{Width: 32}))

	scaled := body.Op(1)
	require.Equal(t, "x.scaled", scaled.Name())
	require.Same(t, a.Result(0), scaled.Operand(0))
	require.True(t, ir.AttrEqual(scaled.Attr("factor"), ir.IntegerAttr{Value: 3}))

	use := body.Op(2)
	require.Equal(t, 2, use.NumOperands())
	require.Same(t, scaled.Result(0), use.Operand(1))
	require.Equal(t, 2, a.Result(0).NumUses())
	require.Equal(t, 1, scaled.Result(0).NumUses())
}

func TestParseModule_Locations(t *testing.T) {
	r := parserTestRegistry(t)
	module, err := ParseModule(`x.module {
  %a = "x.const"() : () -> i32
}`, r)
	require.NoError(t, err)
	op := module.Region(0).Entry().Op(0)
	require.Equal(t, ir.Location{Line: 2, Column: 8}, op.Loc())
	require.Equal(t, ir.Location{Line: 1, Column: 1}, module.Loc())
}

func TestParseModule_ForwardReference(t *testing.T) {
	r := parserTestRegistry(t)
	module, err := ParseModule(`x.module {
  "x.use"(%later) : (i32) -> ()
  %later = "x.const"() : () -> i32
}`, r)
	require.NoError(t, err)

	body := module.Region(0).Entry()
	use, def := body.Op(0), body.Op(1)
	require.Same(t, def.Result(0), use.Operand(0))
	require.Equal(t, 1, def.Result(0).NumUses())
}

func TestParseModule_ForwardReferenceTypeMismatch(t *testing.T) {
	r := parserTestRegistry(t)
	_, err := ParseModule(`x.module {
  "x.use"(%v) : (i32) -> ()
  %v = "x.const"() : () -> f32
}`, r)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.ErrorContains(t, err, "operand %v has type 'f32', expected 'i32'")
	// Reported at the use that declared the type.
	require.Equal(t, 2, perr.Line)
	require.Equal(t, 11, perr.Column)
}

func TestParseModule_ForwardReferenceConflictingDeclarations(t *testing.T) {
	r := parserTestRegistry(t)
	_, err := ParseModule(`x.module {
  "x.use"(%v) : (i32) -> ()
  "x.use"(%v) : (f32) -> ()
  %v = "x.const"() : () -> i32
}`, r)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.ErrorContains(t, err, "operand %v is declared with type 'f32', but an earlier use declared 'i32'")
	require.Equal(t, 3, perr.Line)
}

func TestParseModule_UndefinedValue(t *testing.T) {
	r := parserTestRegistry(t)
	_, err := ParseModule(`x.module {
  "x.use"(%ghost) : (i32) -> ()
}`, r)
	var uerr *UndefinedValueError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, "ghost", uerr.Name)
	require.Equal(t, 2, uerr.Line)
	require.Equal(t, 11, uerr.Column)
}

func TestParseModule_UndefinedValueReportsEarliestUse(t *testing.T) {
	r := parserTestRegistry(t)
	_, err := ParseModule(`x.module {
  "x.use"(%ghost) : (i32) -> ()
  "x.use"(%ghost) : (i32) -> ()
}`, r)
	var uerr *UndefinedValueError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, 2, uerr.Line)
}

func TestParseModule_UnknownOperation(t *testing.T) {
	r := parserTestRegistry(t)
	_, err := ParseModule(`"x.nope"() : () -> ()`, r)
	var operr *ir.UnknownOperationError
	require.ErrorAs(t, err, &operr)
	require.Equal(t, "x.nope", operr.Name)
}

func TestParseModule_NoCustomSyntax(t *testing.T) {
	r := parserTestRegistry(t)
	_, err := ParseModule(`x.module {
  %a = x.const
}`, r)
	require.ErrorContains(t, err, `has no custom syntax`)
}

func TestParseModule_Blocks(t *testing.T) {
	r := parserTestRegistry(t)
	module, err := ParseModule(`x.module {
  %f = "x.func"() ({
    "x.br"() [^next] : () -> ()
  ^next(%v: i32):
    "x.ret"() : () -> ()
  }) : () -> i32
}`, r)
	require.NoError(t, err)

	fn := module.Region(0).Entry().Op(0)
	region := fn.Region(0)
	require.Equal(t, 2, region.NumBlocks())

	next := region.Block(1)
	require.Equal(t, "next", next.Label())
	require.Equal(t, 1, next.NumArguments())

	br := region.Block(0).Op(0)
	require.Equal(t, 1, br.NumSuccessors())
	require.Same(t, next, br.Successor(0))
}

func TestParseModule_UndefinedBlockLabel(t *testing.T) {
	r := parserTestRegistry(t)
	_, err := ParseModule(`x.module {
  %f = "x.func"() ({
    "x.br"() [^nowhere] : () -> ()
  }) : () -> i32
}`, r)
	require.ErrorContains(t, err, "reference to undefined block ^nowhere")
}

func TestParseModule_RegionWithBoundArgs(t *testing.T) {
	r := parserTestRegistry(t)
	module, err := ParseModule(`x.module {
  x.body %i {
    "x.use"(%i) : (index) -> ()
    "x.ret"() : () -> ()
  }
}`, r)
	require.NoError(t, err)

	body := module.Region(0).Entry().Op(0)
	entry := body.Region(0).Entry()
	require.Equal(t, 1, entry.NumArguments())
	require.Equal(t, "i", entry.Argument(0).Name())
	require.Same(t, entry.Argument(0), entry.Op(0).Operand(0))
}

func TestParseModule_Attributes(t *testing.T) {
	r := parserTestRegistry(t)
	module, err := ParseModule(`x.module {
  %a = "x.const"() {bare = 4, typed = 7 : i32, f = 2.5, s = "txt", arr = [1, 2], sym = @main, u = unit, ty = index, rng = #x.range<1, 9>} : () -> !x.box<i32>
}`, r)
	require.NoError(t, err)

	op := module.Region(0).Entry().Op(0)
	require.Equal(t, 9, op.NumAttrs())
	require.True(t, ir.AttrEqual(op.Attr("bare"), ir.IntegerAttr{Value: 4}))
	require.True(t, ir.AttrEqual(op.Attr("typed"), ir.IntegerAttr{Value: 7, Type: ir.IntegerType{Width: 32}}))
	require.True(t, ir.AttrEqual(op.Attr("f"), ir.FloatAttr{Value: 2.5}))
	require.True(t, ir.AttrEqual(op.Attr("s"), ir.StringAttr{Value: "txt"}))
	require.True(t, ir.AttrEqual(op.Attr("arr"), ir.ArrayAttr{Elems: []ir.Attribute{ir.IntegerAttr{Value: 1}, ir.IntegerAttr{Value: 2}}}))
	require.True(t, ir.AttrEqual(op.Attr("sym"), ir.SymbolRefAttr{Symbol: "main"}))
	require.True(t, ir.AttrEqual(op.Attr("u"), ir.UnitAttr{}))
	require.True(t, ir.AttrEqual(op.Attr("ty"), ir.TypeAttr{Type: ir.IndexType{}}))
	require.True(t, ir.AttrEqual(op.Attr("rng"), ir.ArrayAttr{Elems: []ir.Attribute{ir.IntegerAttr{Value: 1}, ir.IntegerAttr{Value: 9}}}))
	require.True(t, ir.TypeEqual(op.Result(0).Type(), boxType{elem: ir.IntegerType{Width: 32}}))
}

func TestParseModule_Errors(t *testing.T) {
	r := parserTestRegistry(t)
	tests := []struct{ name, input, expectedErr string }{
		{
			name:        "result arity mismatch",
			input:       "%a, %b = \"x.const\"() : () -> i32",
			expectedErr: "defines 1 result(s), but 2 name(s) are bound",
		},
		{
			name:        "redefinition",
			input:       "x.module {\n  %a = \"x.const\"() : () -> i32\n  %a = \"x.const\"() : () -> i32\n}",
			expectedErr: "redefinition of value %a",
		},
		{
			name:        "operand type mismatch",
			input:       "x.module {\n  %a = \"x.const\"() : () -> i32\n  \"x.use\"(%a) : (index) -> ()\n}",
			expectedErr: "operand %a has type 'i32', expected 'index'",
		},
		{
			name:        "operand count mismatch",
			input:       "x.module {\n  %a = \"x.const\"() : () -> i32\n  \"x.use\"(%a) : () -> ()\n}",
			expectedErr: "operation has 1 operand(s) but the type lists 0",
		},
		{
			name:        "missing function type",
			input:       `"x.const"()`,
			expectedErr: "expected ':' before the operation's function type",
		},
		{
			name:        "trailing garbage",
			input:       "x.module {\n} extra",
			expectedErr: "expected end of input",
		},
		{
			name:        "unknown dialect type",
			input:       `"x.const"() : () -> !y.thing`,
			expectedErr: `unknown type "y.thing"`,
		},
		{
			name:        "unknown dialect attribute",
			input:       `"x.const"() {a = #y.thing} : () -> i32`,
			expectedErr: `unknown attribute "y.thing"`,
		},
		{
			name:        "unqualified mnemonic",
			input:       "bogus",
			expectedErr: "is not dialect-qualified",
		},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseModule(tc.input, r)
			require.ErrorContains(t, err, tc.expectedErr)
		})
	}
}

func TestParseError_Position(t *testing.T) {
	r := parserTestRegistry(t)
	_, err := ParseModule("x.module {\n  %a = \"x.const\"()\n}", r)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, 3, perr.Line)
	require.Equal(t, 1, perr.Column)
}

func TestParseError_FormatWithContext(t *testing.T) {
	r := parserTestRegistry(t)
	_, err := ParseModule("x.module {\n  %a = x.const\n}", r)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))

	formatted := perr.FormatWithContext()
	require.Contains(t, formatted, "--> line 2:")
	require.Contains(t, formatted, "%a = x.const")
	require.Contains(t, formatted, "^")
}
