package text

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goir/goir/ir"
)

// Parser builds an ir graph from tokens by recursive descent. Operation
// mnemonics resolve through the registry: a custom parse hook when one is
// declared, the generic fallback syntax otherwise. Value names resolve
// against the innermost enclosing region scope; forward references are held
// as placeholders until the region ends.
type Parser struct {
	source   string
	tokens   []Token
	current  int
	registry *ir.Registry

	scopes      []*valueScope
	blockScopes []*blockScope

	// pendingSuccessorLabels carries successor labels from
	// parseGenericOperation to the Build call in parseBlockBody, where the
	// operation object finally exists and a fixup can be recorded.
	pendingSuccessorLabels []Token
}

type valueScope struct {
	values  map[string]*ir.Value
	pending map[string]*pendingRef
}

type pendingRef struct {
	placeholder *ir.Value
	line        int
	column      int

	// declaredType is the operand type a generic form listed for this
	// still-unresolved reference; it is checked against the definition when
	// the name is bound. declLine/declCol locate the use that declared it.
	declaredType ir.Type
	declLine     int
	declCol      int
}

// blockScope tracks block labels of the region being parsed. Successor
// references may appear before the labelled block is defined; they are
// patched when the region closes.
type blockScope struct {
	region  *ir.Region
	defined map[string]*ir.Block
	fixups  []successorFixup
}

type successorFixup struct {
	op     *ir.Operation
	index  int
	label  string
	line   int
	column int
}

// ParseModule parses one top-level operation (conventionally
// builtin.module) followed by end of input. On failure no graph is
// returned.
func ParseModule(source string, reg *ir.Registry) (*ir.Operation, error) {
	p := &Parser{
		source:   source,
		tokens:   NewLexer(source).Tokenize(),
		registry: reg,
	}
	p.pushScope()
	op, err := p.parseOperationStatement()
	if err != nil {
		return nil, err
	}
	if err := p.popScope(); err != nil {
		return nil, err
	}
	if !p.check(TokenEOF) {
		return nil, p.errorf(p.peek(), "expected end of input, got %s", p.peek().Kind)
	}
	return op, nil
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// parseOperationStatement parses `%r0, %r1 = <op>` where <op> is either the
// generic form or a registered custom form.
func (p *Parser) parseOperationStatement() (*ir.Operation, error) {
	var resultNames []string
	resultTok := p.peek()
	if p.check(TokenValueID) {
		for {
			tok := p.advance()
			resultNames = append(resultNames, tok.Lexeme)
			if !p.match(TokenComma) {
				break
			}
			if !p.check(TokenValueID) {
				return nil, p.errorf(p.peek(), "expected value name after ','")
			}
		}
		if !p.match(TokenEqual) {
			return nil, p.errorf(p.peek(), "expected '=' after result list")
		}
	}

	var state ir.OpState
	var err error
	switch {
	case p.check(TokenString):
		err = p.parseGenericOperation(&state)
	case p.check(TokenIdent):
		err = p.parseCustomOperation(&state)
	default:
		return nil, p.errorf(p.peek(), "expected an operation, got %s", p.peek().Kind)
	}
	if err != nil {
		return nil, err
	}

	op := ir.Build(state)
	if len(resultNames) != op.NumResults() {
		return nil, p.errorf(resultTok, "operation '%s' defines %d result(s), but %d name(s) are bound",
			op.Name(), op.NumResults(), len(resultNames))
	}
	for i, name := range resultNames {
		v := op.Result(i)
		v.SetName(name)
		if err := p.bind(name, v, resultTok); err != nil {
			return nil, err
		}
	}
	return op, nil
}

// parseGenericOperation parses the universal fallback form:
//
//	"dialect.op"(%operands) [^successors] ({region}, ...) {attrs} : (types) -> results
func (p *Parser) parseGenericOperation(state *ir.OpState) error {
	nameTok := p.advance()
	name, uerr := strconv.Unquote(nameTok.Lexeme)
	if uerr != nil {
		return p.errorf(nameTok, "malformed operation name %s", nameTok.Lexeme)
	}
	if _, err := p.registry.LookupOp(name); err != nil {
		return err
	}
	state.Name = name
	state.Loc = ir.Location{Line: nameTok.Line, Column: nameTok.Column}

	if !p.match(TokenLParen) {
		return p.errorf(p.peek(), "expected '(' after operation name")
	}
	var operandToks []Token
	for !p.check(TokenRParen) {
		if !p.check(TokenValueID) {
			return p.errorf(p.peek(), "expected operand %%name, got %s", p.peek().Kind)
		}
		tok := p.advance()
		operandToks = append(operandToks, tok)
		v, err := p.resolve(tok)
		if err != nil {
			return err
		}
		state.Operands = append(state.Operands, v)
		if !p.match(TokenComma) {
			break
		}
	}
	if !p.match(TokenRParen) {
		return p.errorf(p.peek(), "expected ')' after operand list")
	}

	// Successors, patched at region end.
	var succLabels []Token
	if p.match(TokenLBracket) {
		for !p.check(TokenRBracket) {
			if !p.check(TokenBlockID) {
				return p.errorf(p.peek(), "expected successor ^label, got %s", p.peek().Kind)
			}
			succLabels = append(succLabels, p.advance())
			if !p.match(TokenComma) {
				break
			}
		}
		if !p.match(TokenRBracket) {
			return p.errorf(p.peek(), "expected ']' after successor list")
		}
		if len(p.blockScopes) == 0 {
			return p.errorf(succLabels[0], "successors are not allowed outside a region")
		}
		state.Successors = make([]*ir.Block, len(succLabels))
	}

	// Regions, parenthesized to stay distinct from the attribute dictionary.
	if p.check(TokenLParen) && p.checkAt(1, TokenLBrace) {
		p.advance()
		for {
			r, err := p.parseRegionBody(nil)
			if err != nil {
				return err
			}
			state.Regions = append(state.Regions, r)
			if !p.match(TokenComma) {
				break
			}
		}
		if !p.match(TokenRParen) {
			return p.errorf(p.peek(), "expected ')' after region list")
		}
	}

	if p.check(TokenLBrace) {
		attrs, err := p.parseAttrDict()
		if err != nil {
			return err
		}
		state.Attributes = attrs
	}

	if !p.match(TokenColon) {
		return p.errorf(p.peek(), "expected ':' before the operation's function type")
	}
	typeTok := p.peek()
	operandTypes, resultTypes, err := p.parseFunctionSignature()
	if err != nil {
		return err
	}
	if len(operandTypes) != len(state.Operands) {
		return p.errorf(typeTok, "operation has %d operand(s) but the type lists %d", len(state.Operands), len(operandTypes))
	}
	for i, v := range state.Operands {
		if v.Type() != nil {
			if !ir.TypeEqual(v.Type(), operandTypes[i]) {
				return p.errorf(operandToks[i], "operand %%%s has type '%s', expected '%s'",
					operandToks[i].Lexeme, v.Type(), operandTypes[i])
			}
			continue
		}
		// A forward reference has no type yet; hold the declared type so
		// bind can check it against the definition.
		if err := p.declareType(operandToks[i], operandTypes[i]); err != nil {
			return err
		}
	}
	state.ResultTypes = resultTypes

	p.pendingSuccessorLabels = succLabels
	return nil
}

// parseCustomOperation resolves a bare mnemonic and dispatches to its
// registered parse hook.
func (p *Parser) parseCustomOperation(state *ir.OpState) error {
	nameTok := p.advance()
	name := nameTok.Lexeme
	if !strings.Contains(name, ".") {
		return p.errorf(nameTok, "operation name %q is not dialect-qualified", name)
	}
	def, err := p.registry.LookupOp(name)
	if err != nil {
		return err
	}
	if def.Parse == nil {
		return p.errorf(nameTok, "operation '%s' has no custom syntax; use the generic form \"%s\"(...)", name, name)
	}
	state.Name = name
	state.Loc = ir.Location{Line: nameTok.Line, Column: nameTok.Column}
	return def.Parse(p, state)
}

// ---------------------------------------------------------------------------
// Regions and blocks
// ---------------------------------------------------------------------------

// parseRegionBody parses `{ ... }`, opening a fresh value scope. When args
// is non-empty the entry block is created from it and the names are bound
// inside the new scope.
func (p *Parser) parseRegionBody(args []ir.RegionArg) (*ir.Region, error) {
	braceTok := p.peek()
	if !p.match(TokenLBrace) {
		return nil, p.errorf(braceTok, "expected '{' to begin a region")
	}

	region := ir.NewRegion()
	p.pushScope()
	bs := &blockScope{region: region, defined: make(map[string]*ir.Block)}
	p.blockScopes = append(p.blockScopes, bs)

	if len(args) > 0 {
		entry := region.AddBlock()
		for _, a := range args {
			v := entry.AddArgument(a.Type, a.Name)
			if err := p.bind(a.Name, v, braceTok); err != nil {
				return nil, err
			}
		}
		if err := p.parseBlockBody(entry); err != nil {
			return nil, err
		}
	} else if !p.check(TokenBlockID) && !p.check(TokenRBrace) {
		// Anonymous entry block.
		entry := region.AddBlock()
		if err := p.parseBlockBody(entry); err != nil {
			return nil, err
		}
	}

	for p.check(TokenBlockID) {
		if err := p.parseLabelledBlock(bs); err != nil {
			return nil, err
		}
	}

	if !p.match(TokenRBrace) {
		return nil, p.errorf(p.peek(), "expected '}' to close the region")
	}

	// Patch successor references now that every labelled block exists.
	for _, fix := range bs.fixups {
		b, ok := bs.defined[fix.label]
		if !ok {
			return nil, p.errorfAt(fix.line, fix.column, "reference to undefined block ^%s", fix.label)
		}
		fix.op.SetSuccessor(fix.index, b)
	}

	p.blockScopes = p.blockScopes[:len(p.blockScopes)-1]
	if err := p.popScope(); err != nil {
		return nil, err
	}
	return region, nil
}

func (p *Parser) parseLabelledBlock(bs *blockScope) error {
	labelTok := p.advance()
	label := labelTok.Lexeme
	if _, exists := bs.defined[label]; exists {
		return p.errorf(labelTok, "redefinition of block ^%s", label)
	}
	b := bs.region.AddBlock()
	b.SetLabel(label)
	bs.defined[label] = b

	if p.match(TokenLParen) {
		for !p.check(TokenRParen) {
			if !p.check(TokenValueID) {
				return p.errorf(p.peek(), "expected block argument %%name, got %s", p.peek().Kind)
			}
			argTok := p.advance()
			if !p.match(TokenColon) {
				return p.errorf(p.peek(), "expected ':' after block argument name")
			}
			t, err := p.ParseType()
			if err != nil {
				return err
			}
			v := b.AddArgument(t, argTok.Lexeme)
			if err := p.bind(argTok.Lexeme, v, argTok); err != nil {
				return err
			}
			if !p.match(TokenComma) {
				break
			}
		}
		if !p.match(TokenRParen) {
			return p.errorf(p.peek(), "expected ')' after block argument list")
		}
	}
	if !p.match(TokenColon) {
		return p.errorf(p.peek(), "expected ':' after block label")
	}
	return p.parseBlockBody(b)
}

func (p *Parser) parseBlockBody(b *ir.Block) error {
	for !p.check(TokenRBrace) && !p.check(TokenBlockID) && !p.check(TokenEOF) {
		op, err := p.parseOperationStatement()
		if err != nil {
			return err
		}
		b.Append(op)
		p.recordSuccessorFixups(op)
	}
	return nil
}

// recordSuccessorFixups moves labels stashed by parseGenericOperation into
// the enclosing block scope, now that the operation object exists.
func (p *Parser) recordSuccessorFixups(op *ir.Operation) {
	if len(p.pendingSuccessorLabels) == 0 {
		return
	}
	bs := p.blockScopes[len(p.blockScopes)-1]
	for i, tok := range p.pendingSuccessorLabels {
		bs.fixups = append(bs.fixups, successorFixup{
			op:     op,
			index:  i,
			label:  tok.Lexeme,
			line:   tok.Line,
			column: tok.Column,
		})
	}
	p.pendingSuccessorLabels = nil
}

// ---------------------------------------------------------------------------
// Attributes and types
// ---------------------------------------------------------------------------

func (p *Parser) parseAttrDict() (map[string]ir.Attribute, error) {
	if !p.match(TokenLBrace) {
		return nil, p.errorf(p.peek(), "expected '{' to begin an attribute dictionary")
	}
	attrs := make(map[string]ir.Attribute)
	for !p.check(TokenRBrace) {
		if !p.check(TokenIdent) {
			return nil, p.errorf(p.peek(), "expected attribute name, got %s", p.peek().Kind)
		}
		nameTok := p.advance()
		if _, dup := attrs[nameTok.Lexeme]; dup {
			return nil, p.errorf(nameTok, "duplicate attribute name %q", nameTok.Lexeme)
		}
		if !p.match(TokenEqual) {
			return nil, p.errorf(p.peek(), "expected '=' after attribute name")
		}
		a, err := p.ParseAttribute()
		if err != nil {
			return nil, err
		}
		attrs[nameTok.Lexeme] = a
		if !p.match(TokenComma) {
			break
		}
	}
	if !p.match(TokenRBrace) {
		return nil, p.errorf(p.peek(), "expected '}' to close the attribute dictionary")
	}
	return attrs, nil
}

// ParseAttribute parses an attribute in builtin or dialect syntax.
func (p *Parser) ParseAttribute() (ir.Attribute, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenInt:
		p.advance()
		value, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "malformed integer literal %q", tok.Lexeme)
		}
		a := ir.IntegerAttr{Value: value}
		if p.match(TokenColon) {
			t, terr := p.ParseType()
			if terr != nil {
				return nil, terr
			}
			a.Type = t
		}
		return a, nil

	case TokenFloat:
		p.advance()
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorf(tok, "malformed float literal %q", tok.Lexeme)
		}
		a := ir.FloatAttr{Value: value}
		if p.match(TokenColon) {
			t, terr := p.ParseType()
			if terr != nil {
				return nil, terr
			}
			a.Type = t
		}
		return a, nil

	case TokenString:
		p.advance()
		s, err := strconv.Unquote(tok.Lexeme)
		if err != nil {
			return nil, p.errorf(tok, "malformed string literal %s", tok.Lexeme)
		}
		return ir.StringAttr{Value: s}, nil

	case TokenLBracket:
		p.advance()
		var elems []ir.Attribute
		for !p.check(TokenRBracket) {
			e, err := p.ParseAttribute()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.match(TokenComma) {
				break
			}
		}
		if !p.match(TokenRBracket) {
			return nil, p.errorf(p.peek(), "expected ']' to close the array attribute")
		}
		return ir.ArrayAttr{Elems: elems}, nil

	case TokenSymbolID:
		p.advance()
		return ir.SymbolRefAttr{Symbol: tok.Lexeme}, nil

	case TokenAttrID:
		p.advance()
		def, err := p.registry.LookupAttr(tok.Lexeme)
		if err != nil {
			return nil, err
		}
		return def.Parse(p)

	case TokenIdent:
		if tok.Lexeme == "unit" {
			p.advance()
			return ir.UnitAttr{}, nil
		}
		t, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		return ir.TypeAttr{Type: t}, nil

	case TokenTypeID, TokenLParen:
		t, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		return ir.TypeAttr{Type: t}, nil

	default:
		return nil, p.errorf(tok, "expected an attribute, got %s", tok.Kind)
	}
}

var intTypeRE = regexp.MustCompile(`^i[0-9]+$`)

// ParseType parses a type in builtin or dialect syntax.
func (p *Parser) ParseType() (ir.Type, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenTypeID:
		p.advance()
		def, err := p.registry.LookupType(tok.Lexeme)
		if err != nil {
			return nil, err
		}
		return def.Parse(p)

	case TokenIdent:
		switch {
		case tok.Lexeme == "index":
			p.advance()
			return ir.IndexType{}, nil
		case tok.Lexeme == "f32":
			p.advance()
			return ir.FloatType{Width: 32}, nil
		case tok.Lexeme == "f64":
			p.advance()
			return ir.FloatType{Width: 64}, nil
		case intTypeRE.MatchString(tok.Lexeme):
			p.advance()
			width, _ := strconv.Atoi(tok.Lexeme[1:])
			return ir.IntegerType{Width: width}, nil
		default:
			return nil, p.errorf(tok, "expected a type, got %q", tok.Lexeme)
		}

	case TokenLParen:
		inputs, results, err := p.parseFunctionSignature()
		if err != nil {
			return nil, err
		}
		return ir.FunctionType{Inputs: inputs, Results: results}, nil

	default:
		return nil, p.errorf(tok, "expected a type, got %s", tok.Kind)
	}
}

// parseFunctionSignature parses `(types) -> results` where results is a
// single type or a parenthesized list.
func (p *Parser) parseFunctionSignature() (inputs, results []ir.Type, err error) {
	if !p.match(TokenLParen) {
		return nil, nil, p.errorf(p.peek(), "expected '(' to begin a type list")
	}
	for !p.check(TokenRParen) {
		t, terr := p.ParseType()
		if terr != nil {
			return nil, nil, terr
		}
		inputs = append(inputs, t)
		if !p.match(TokenComma) {
			break
		}
	}
	if !p.match(TokenRParen) {
		return nil, nil, p.errorf(p.peek(), "expected ')' to close the type list")
	}
	if !p.match(TokenArrow) {
		return nil, nil, p.errorf(p.peek(), "expected '->' after the operand types")
	}
	if p.match(TokenLParen) {
		for !p.check(TokenRParen) {
			t, terr := p.ParseType()
			if terr != nil {
				return nil, nil, terr
			}
			results = append(results, t)
			if !p.match(TokenComma) {
				break
			}
		}
		if !p.match(TokenRParen) {
			return nil, nil, p.errorf(p.peek(), "expected ')' to close the result types")
		}
		return inputs, results, nil
	}
	t, terr := p.ParseType()
	if terr != nil {
		return nil, nil, terr
	}
	return inputs, []ir.Type{t}, nil
}

// ---------------------------------------------------------------------------
// Scopes
// ---------------------------------------------------------------------------

func (p *Parser) pushScope() {
	p.scopes = append(p.scopes, &valueScope{
		values:  make(map[string]*ir.Value),
		pending: make(map[string]*pendingRef),
	})
}

// popScope closes the innermost scope. Names that were referenced but never
// defined fail with *UndefinedValueError, reporting the earliest use.
func (p *Parser) popScope() error {
	s := p.scopes[len(p.scopes)-1]
	p.scopes = p.scopes[:len(p.scopes)-1]
	var worst *UndefinedValueError
	for name, ref := range s.pending {
		e := &UndefinedValueError{Name: name, Line: ref.line, Column: ref.column}
		if worst == nil || e.Line < worst.Line || (e.Line == worst.Line && e.Column < worst.Column) {
			worst = e
		}
	}
	if worst != nil {
		return worst
	}
	return nil
}

// resolve looks a %name up, innermost scope first. Unknown names become
// placeholders pending a later definition in the innermost scope.
func (p *Parser) resolve(tok Token) (*ir.Value, error) {
	name := tok.Lexeme
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if v, ok := p.scopes[i].values[name]; ok {
			return v, nil
		}
	}
	s := p.scopes[len(p.scopes)-1]
	if ref, ok := s.pending[name]; ok {
		return ref.placeholder, nil
	}
	ph := ir.NewPlaceholder(nil)
	ph.SetName(name)
	s.pending[name] = &pendingRef{placeholder: ph, line: tok.Line, column: tok.Column}
	return ph, nil
}

// declareType records the operand type a generic form listed for a
// still-unresolved %name. Conflicting declarations across uses fail at the
// later use.
func (p *Parser) declareType(tok Token, t ir.Type) error {
	ref, ok := p.scopes[len(p.scopes)-1].pending[tok.Lexeme]
	if !ok {
		return nil
	}
	if ref.declaredType == nil {
		ref.declaredType = t
		ref.declLine = tok.Line
		ref.declCol = tok.Column
		return nil
	}
	if !ir.TypeEqual(ref.declaredType, t) {
		return p.errorf(tok, "operand %%%s is declared with type '%s', but an earlier use declared '%s'",
			tok.Lexeme, t, ref.declaredType)
	}
	return nil
}

// bind defines %name in the innermost scope, redirecting any placeholder
// uses recorded for it. A type declared by a forward use must match the
// definition; the mismatch is reported at the use.
func (p *Parser) bind(name string, v *ir.Value, tok Token) error {
	s := p.scopes[len(p.scopes)-1]
	if _, exists := s.values[name]; exists {
		return p.errorf(tok, "redefinition of value %%%s", name)
	}
	if ref, ok := s.pending[name]; ok {
		if ref.declaredType != nil && v.Type() != nil && !ir.TypeEqual(v.Type(), ref.declaredType) {
			return p.errorfAt(ref.declLine, ref.declCol, "operand %%%s has type '%s', expected '%s'",
				name, v.Type(), ref.declaredType)
		}
		ref.placeholder.ReplaceAllUsesWith(v)
		delete(s.pending, name)
	}
	s.values[name] = v
	return nil
}

// ---------------------------------------------------------------------------
// ir.OpParser implementation (hook surface)
// ---------------------------------------------------------------------------

// Location returns the position of the next token.
func (p *Parser) Location() ir.Location {
	tok := p.peek()
	return ir.Location{Line: tok.Line, Column: tok.Column}
}

// AtValue reports whether the next token is a %name reference.
func (p *Parser) AtValue() bool {
	return p.check(TokenValueID)
}

// ParseOperand parses a %name reference and resolves it in the current
// scope.
func (p *Parser) ParseOperand() (*ir.Value, error) {
	if !p.check(TokenValueID) {
		return nil, p.errorf(p.peek(), "expected %%name, got %s", p.peek().Kind)
	}
	return p.resolve(p.advance())
}

// ParseOperandList parses a comma-separated list of %name references.
func (p *Parser) ParseOperandList() ([]*ir.Value, error) {
	var values []*ir.Value
	for {
		v, err := p.ParseOperand()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if !p.match(TokenComma) {
			return values, nil
		}
	}
}

// ParseValueName parses a %name token and returns the bare name without
// binding it.
func (p *Parser) ParseValueName() (string, error) {
	if !p.check(TokenValueID) {
		return "", p.errorf(p.peek(), "expected %%name, got %s", p.peek().Kind)
	}
	return p.advance().Lexeme, nil
}

// ParseRegion parses a `{ ... }` region for a custom operation parser.
func (p *Parser) ParseRegion(args []ir.RegionArg) (*ir.Region, error) {
	return p.parseRegionBody(args)
}

// ParseInteger parses an integer literal.
func (p *Parser) ParseInteger() (int64, error) {
	tok := p.peek()
	if tok.Kind != TokenInt {
		return 0, p.errorf(tok, "expected integer literal, got %s", tok.Kind)
	}
	p.advance()
	value, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		return 0, p.errorf(tok, "malformed integer literal %q", tok.Lexeme)
	}
	return value, nil
}

// ParseString parses a quoted string literal.
func (p *Parser) ParseString() (string, error) {
	tok := p.peek()
	if tok.Kind != TokenString {
		return "", p.errorf(tok, "expected string literal, got %s", tok.Kind)
	}
	p.advance()
	s, err := strconv.Unquote(tok.Lexeme)
	if err != nil {
		return "", p.errorf(tok, "malformed string literal %s", tok.Lexeme)
	}
	return s, nil
}

// ParseKeyword consumes the bare identifier kw or fails.
func (p *Parser) ParseKeyword(kw string) error {
	tok := p.peek()
	if tok.Kind != TokenIdent || tok.Lexeme != kw {
		return p.errorf(tok, "expected keyword %q", kw)
	}
	p.advance()
	return nil
}

// MatchKeyword consumes the bare identifier kw if it is next.
func (p *Parser) MatchKeyword(kw string) bool {
	tok := p.peek()
	if tok.Kind == TokenIdent && tok.Lexeme == kw {
		p.advance()
		return true
	}
	return false
}

// Expect consumes the punctuation punct or fails.
func (p *Parser) Expect(punct string) error {
	kind, ok := punctKinds[punct]
	if !ok {
		return fmt.Errorf("unknown punctuation %q", punct)
	}
	if !p.match(kind) {
		return p.errorf(p.peek(), "expected %s, got %s", kind, p.peek().Kind)
	}
	return nil
}

// Match consumes the punctuation punct if it is next.
func (p *Parser) Match(punct string) bool {
	kind, ok := punctKinds[punct]
	if !ok {
		return false
	}
	return p.match(kind)
}

// ---------------------------------------------------------------------------
// Token helpers
// ---------------------------------------------------------------------------

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) check(kind TokenKind) bool {
	return p.tokens[p.current].Kind == kind
}

func (p *Parser) checkAt(offset int, kind TokenKind) bool {
	i := p.current + offset
	if i >= len(p.tokens) {
		return false
	}
	return p.tokens[i].Kind == kind
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.current]
	if tok.Kind != TokenEOF {
		p.current++
	}
	return tok
}

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errorf(tok Token, format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
		Source:  p.source,
	}
}

func (p *Parser) errorfAt(line, column int, format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
		Source:  p.source,
	}
}
