package text

import (
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes IR source text.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
	start  int
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	estTokens := len(source) / 6
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, estTokens),
	}
}

// Tokenize returns all tokens from the source. Malformed input produces a
// TokenError token rather than an error here; the parser reports it with
// position information.
func (l *Lexer) Tokenize() []Token {
	for !l.isAtEnd() {
		l.start = l.pos
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{
		Kind:   TokenEOF,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens
}

func (l *Lexer) scanToken() {
	r := l.advance()

	switch r {
	case '(':
		l.addToken(TokenLParen)
	case ')':
		l.addToken(TokenRParen)
	case '{':
		l.addToken(TokenLBrace)
	case '}':
		l.addToken(TokenRBrace)
	case '[':
		l.addToken(TokenLBracket)
	case ']':
		l.addToken(TokenRBracket)
	case '<':
		l.addToken(TokenLess)
	case '>':
		l.addToken(TokenGreater)
	case ',':
		l.addToken(TokenComma)
	case ':':
		l.addToken(TokenColon)
	case '=':
		l.addToken(TokenEqual)

	case '-':
		if l.match('>') {
			l.addToken(TokenArrow)
		} else if isDigit(l.peek()) {
			l.number()
		} else {
			l.addToken(TokenError)
		}

	case '/':
		if l.match('/') {
			// Line comment runs to end of line.
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addToken(TokenError)
		}

	case '%':
		l.sigilIdent(TokenValueID)
	case '#':
		l.sigilIdent(TokenAttrID)
	case '!':
		l.sigilIdent(TokenTypeID)
	case '^':
		l.sigilIdent(TokenBlockID)
	case '@':
		l.sigilIdent(TokenSymbolID)

	case '"':
		l.stringLiteral()

	case ' ', '\r', '\t':
		// Ignore whitespace.
	case '\n':
		l.line++
		l.column = 1

	default:
		if isDigit(r) {
			l.number()
		} else if isAlpha(r) || r == '_' {
			l.identifier()
		} else {
			l.addToken(TokenError)
		}
	}
}

// sigilIdent lexes the identifier following one of the sigils % # ! ^ @.
// The lexeme excludes the sigil. Dots are part of the identifier, so
// qualified names like seq.clock lex as one token.
func (l *Lexer) sigilIdent(kind TokenKind) {
	if !isIdentStart(l.peek()) && !isDigit(l.peek()) {
		l.addToken(TokenError)
		return
	}
	for isIdentPart(l.peek()) {
		l.advance()
	}
	tok := Token{
		Kind:   kind,
		Lexeme: l.source[l.start+1 : l.pos],
		Line:   l.line,
		Column: l.column - (l.pos - l.start),
	}
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) stringLiteral() {
	for l.peek() != '"' && l.peek() != '\n' && !l.isAtEnd() {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if !l.match('"') {
		l.addToken(TokenError)
		return
	}
	l.addToken(TokenString)
}

func (l *Lexer) number() {
	for isDigit(l.peek()) {
		l.advance()
	}

	// A dot followed by a digit makes a float literal.
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
		l.addToken(TokenFloat)
		return
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) {
			l.advance()
		}
		l.addToken(TokenFloat)
		return
	}

	l.addToken(TokenInt)
}

func (l *Lexer) identifier() {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	l.addToken(TokenIdent)
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.pos],
		Line:   l.line,
		Column: l.column - (l.pos - l.start),
	})
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	l.column++
	return r
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.pos:])
	r, _ := utf8.DecodeRuneInString(l.source[l.pos+size:])
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() {
		return false
	}
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	if r != expected {
		return false
	}
	l.pos += size
	l.column++
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

func isIdentStart(r rune) bool {
	return isAlpha(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return isAlpha(r) || isDigit(r) || r == '_' || r == '.'
}
