// Package text parses the textual IR format into an ir graph, resolving
// operation mnemonics, attribute and type names through an ir.Registry.
package text

// TokenKind identifies a token class.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenError

	// Identifiers
	TokenIdent    // bare identifier, possibly dotted: arith.addi, i32, by
	TokenValueID  // %name
	TokenAttrID   // #dialect.name
	TokenTypeID   // !dialect.name
	TokenBlockID  // ^label
	TokenSymbolID // @symbol

	// Literals
	TokenString
	TokenInt
	TokenFloat

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenLess
	TokenGreater
	TokenComma
	TokenColon
	TokenEqual
	TokenArrow
)

// Token is one lexed token with its source position.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int
}

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenError:
		return "invalid token"
	case TokenIdent:
		return "identifier"
	case TokenValueID:
		return "value name"
	case TokenAttrID:
		return "attribute name"
	case TokenTypeID:
		return "type name"
	case TokenBlockID:
		return "block label"
	case TokenSymbolID:
		return "symbol name"
	case TokenString:
		return "string literal"
	case TokenInt:
		return "integer literal"
	case TokenFloat:
		return "float literal"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenLess:
		return "'<'"
	case TokenGreater:
		return "'>'"
	case TokenComma:
		return "','"
	case TokenColon:
		return "':'"
	case TokenEqual:
		return "'='"
	case TokenArrow:
		return "'->'"
	default:
		return "unknown token"
	}
}

// punctKinds maps the literal spelling used by hook parsers to token kinds.
var punctKinds = map[string]TokenKind{
	"(":  TokenLParen,
	")":  TokenRParen,
	"{":  TokenLBrace,
	"}":  TokenRBrace,
	"[":  TokenLBracket,
	"]":  TokenRBracket,
	"<":  TokenLess,
	">":  TokenGreater,
	",":  TokenComma,
	":":  TokenColon,
	"=":  TokenEqual,
	"->": TokenArrow,
}
