package query

import (
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF    TokenType = iota
	TokenWord             // bare word, or a field value
	TokenField            // field name; the trailing ':' is consumed
	TokenQuoted           // "quoted phrase", Value excludes the quotes
	TokenLParen           // (
	TokenRParen           // )
	TokenError            // error token, Value holds the message
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of query"
	case TokenWord:
		return "word"
	case TokenField:
		return "field"
	case TokenQuoted:
		return "quoted phrase"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	default:
		return "error"
	}
}

// Token represents a lexer token.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
	// Spaced is true when whitespace preceded the token.
	Spaced bool
}

// Lexer tokenizes a search query.
//
// A token directly after a field's ':' is scanned in value mode, where ':'
// is an ordinary character so values such as id:bag:title stay whole.
type Lexer struct {
	input     string
	pos       int
	valueMode bool
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	valueMode := l.valueMode
	l.valueMode = false

	spaced := l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos, Spaced: spaced}
	}

	start := l.pos
	switch l.input[l.pos] {
	case '(':
		l.pos++
		return Token{Type: TokenLParen, Value: "(", Pos: start, Spaced: spaced}
	case ')':
		l.pos++
		return Token{Type: TokenRParen, Value: ")", Pos: start, Spaced: spaced}
	case '"':
		return l.scanQuoted(spaced)
	case ':':
		if !valueMode {
			l.pos++
			return Token{Type: TokenError, Value: "unexpected ':'", Pos: start, Spaced: spaced}
		}
	}

	return l.scanWord(valueMode, spaced)
}

func (l *Lexer) skipWhitespace() bool {
	skipped := false
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += size
		skipped = true
	}
	return skipped
}

func (l *Lexer) scanQuoted(spaced bool) Token {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.input) && l.input[l.pos] != '"' {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return Token{Type: TokenError, Value: "unterminated quote", Pos: start, Spaced: spaced}
	}
	value := l.input[start+1 : l.pos]
	l.pos++ // closing quote
	return Token{Type: TokenQuoted, Value: value, Pos: start, Spaced: spaced}
}

func (l *Lexer) scanWord(valueMode, spaced bool) Token {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' {
			break
		}
		if r == ':' && !valueMode {
			break
		}
		l.pos += size
	}
	value := l.input[start:l.pos]

	if !valueMode && l.pos < len(l.input) && l.input[l.pos] == ':' {
		l.pos++
		l.valueMode = true
		return Token{Type: TokenField, Value: value, Pos: start, Spaced: spaced}
	}
	return Token{Type: TokenWord, Value: value, Pos: start, Spaced: spaced}
}
