package ir

// The hook interfaces below are the surface custom parse and print routines
// see. They are implemented by the text parser and the canonical printer;
// keeping them here lets dialect packages depend only on ir.

// AttrParser is the token-stream surface available to custom attribute and
// type parsers. Punctuation is matched by its literal spelling: "(", ")",
// "[", "]", "<", ">", "{", "}", ",", ":", "=", "->".
type AttrParser interface {
	// Location returns the position of the next token.
	Location() Location

	// ParseType parses a type in builtin or dialect syntax.
	ParseType() (Type, error)

	// ParseAttribute parses an attribute in builtin or dialect syntax.
	ParseAttribute() (Attribute, error)

	// ParseInteger parses an integer literal, with optional leading minus.
	ParseInteger() (int64, error)

	// ParseString parses a quoted string literal.
	ParseString() (string, error)

	// ParseKeyword consumes the bare identifier kw or fails.
	ParseKeyword(kw string) error

	// MatchKeyword consumes the bare identifier kw if it is next.
	MatchKeyword(kw string) bool

	// Expect consumes the punctuation punct or fails.
	Expect(punct string) error

	// Match consumes the punctuation punct if it is next.
	Match(punct string) bool
}

// RegionArg names and types one entry-block argument a custom parser binds
// when parsing a region.
type RegionArg struct {
	Name string
	Type Type
}

// OpParser is the surface available to custom operation parsers. The token
// stream is positioned after the mnemonic; the hook fills in state.
type OpParser interface {
	AttrParser

	// AtValue reports whether the next token is a %name reference, for
	// syntaxes with optional operand lists. It consumes nothing.
	AtValue() bool

	// ParseOperand parses a %name reference and resolves it in the current
	// scope, producing a placeholder for forward references.
	ParseOperand() (*Value, error)

	// ParseOperandList parses a comma-separated list of %name references.
	ParseOperandList() ([]*Value, error)

	// ParseValueName parses a %name token and returns the bare name without
	// binding it; used for names that become region entry arguments.
	ParseValueName() (string, error)

	// ParseRegion parses a `{ ... }` region. When args is non-empty the
	// region's entry block is created with those arguments and the names are
	// bound inside the region's scope; otherwise blocks and their argument
	// lists come from the region text itself.
	ParseRegion(args []RegionArg) (*Region, error)
}

// OpPrinter is the surface available to custom operation printers. The
// mnemonic has already been written; the hook emits everything after it.
type OpPrinter interface {
	// Emit writes raw text.
	Emit(text string)

	// Emitf writes formatted raw text.
	Emitf(format string, args ...any)

	// PrintValue writes a value reference (%name).
	PrintValue(v *Value)

	// PrintType writes a type in canonical form.
	PrintType(t Type)

	// PrintAttribute writes an attribute in canonical form.
	PrintAttribute(a Attribute)

	// PrintRegion writes a `{ ... }` region at the current indentation. The
	// entry block's header appears only when the entry block has arguments.
	PrintRegion(r *Region)

	// PrintRegionEntryElided writes a region with the entry block header
	// always omitted, for custom syntaxes that bind the entry arguments
	// outside the braces.
	PrintRegionEntryElided(r *Region)
}

// ParseFn builds an operation's state from its custom textual form.
type ParseFn func(p OpParser, state *OpState) error

// PrintFn emits an operation's custom textual form, everything after the
// mnemonic.
type PrintFn func(op *Operation, w OpPrinter)
