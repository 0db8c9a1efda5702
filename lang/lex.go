package lang

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokKeyword
	tokNumber
	tokString
	tokChar
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokKeyword:
		return "keyword"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokChar:
		return "character"
	case tokPunct:
		return "punctuation"
	default:
		return "unknown"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
	end  int // byte offset just past the token
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func (t token) punct(text string) bool { return t.is(tokPunct, text) }

func (t token) keyword(text string) bool { return t.is(tokKeyword, text) }

var keywords = map[string]struct{}{
	"as": {}, "base": {}, "default": {}, "false": {}, "is": {}, "new": {},
	"null": {}, "this": {}, "true": {}, "typeof": {},
}

// predefinedTypes are the keyword aliases of built-in types, valid both as
// type names and as the root of a member access such as int.MaxValue.
var predefinedTypes = map[string]struct{}{
	"bool": {}, "byte": {}, "char": {}, "decimal": {}, "double": {},
	"float": {}, "int": {}, "long": {}, "object": {}, "sbyte": {},
	"short": {}, "string": {}, "uint": {}, "ulong": {}, "ushort": {},
}

// punctuators is ordered longest first so that scanning is greedy.
var punctuators = []string{
	"??=", "<<=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<",
	"+", "-", "*", "/", "%", "&", "|", "^", "!", "~", "<", ">", "=",
	"?", ":", ".", ",", "(", ")", "[", "]", "{", "}", ";",
}

// lexer holds the scanner state.
type lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// lex scans s into tokens terminated by a single EOF token.
func lex(s string) ([]token, error) {
	l := &lexer{input: []byte(s), line: 1, col: 1}

	var toks []token

	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token{}, err
	}

	pos := l.position()

	if l.eof() {
		return token{kind: tokEOF, pos: pos, end: l.pos}, nil
	}

	ch := l.peek()

	switch {
	case ch == '@' && l.peekAt(1) == '"':
		l.advance()

		if err := l.skipVerbatimString(); err != nil {
			return token{}, err
		}

		return l.token(tokString, pos), nil

	case ch == '@' && isIdentifierStart(l.peekAt(1)):
		l.advance()
		l.skipIdentifier()

		// A verbatim identifier is never a keyword.
		return l.token(tokIdent, pos), nil

	case isIdentifierStart(ch):
		l.skipIdentifier()

		tok := l.token(tokIdent, pos)
		if _, ok := keywords[tok.text]; ok {
			tok.kind = tokKeyword
		}

		return tok, nil

	case isDigit(ch) || (ch == '.' && isDigit(l.peekAt(1))):
		l.skipNumber()

		return l.token(tokNumber, pos), nil

	case ch == '"':
		if err := l.skipQuoted('"'); err != nil {
			return token{}, err
		}

		return l.token(tokString, pos), nil

	case ch == '\'':
		if err := l.skipQuoted('\''); err != nil {
			return token{}, err
		}

		return l.token(tokChar, pos), nil
	}

	rest := string(l.input[l.pos:])
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p) {
			for range len(p) {
				l.advance()
			}

			return l.token(tokPunct, pos), nil
		}
	}

	return token{}, ErrSyntax.WithPosition(pos).
		With(slog.String("unexpected", string(ch)))
}

func (l *lexer) token(kind tokenKind, start Position) token {
	return token{
		kind: kind,
		text: string(l.input[start.Offset:l.pos]),
		pos:  start,
		end:  l.pos,
	}
}

func (l *lexer) skipIdentifier() {
	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}
}

// skipNumber consumes a decimal, hexadecimal or real literal with an
// optional type suffix.
func (l *lexer) skipNumber() {
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance()
		l.advance()

		for !l.eof() && (isHexDigit(l.peek()) || l.peek() == '_') {
			l.advance()
		}

		l.skipSuffix()

		return
	}

	l.skipDigits()

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		l.skipDigits()
	}

	if r := l.peek(); r == 'e' || r == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			l.advance()
			l.advance()
			l.skipDigits()
		}
	}

	l.skipSuffix()
}

func (l *lexer) skipDigits() {
	for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
		l.advance()
	}
}

func (l *lexer) skipSuffix() {
	for !l.eof() && strings.ContainsRune("uUlLfFdDmM", l.peek()) {
		l.advance()
	}
}

func (l *lexer) skipQuoted(quote rune) error {
	start := l.position()

	l.advance() // skip opening quote

	for !l.eof() {
		switch ch := l.peek(); ch {
		case '\\':
			l.advance()

			if !l.eof() {
				l.advance()
			}

		case quote:
			l.advance()

			return nil

		case '\n':
			return ErrSyntax.WithPosition(start).
				With(slog.String("error", "newline in literal"))

		default:
			l.advance()
		}
	}

	return ErrSyntax.WithPosition(start).
		With(slog.String("error", "unterminated literal"))
}

// skipVerbatimString consumes @"..." where "" is an escaped quote.
func (l *lexer) skipVerbatimString() error {
	start := l.position()

	l.advance() // skip opening quote

	for !l.eof() {
		if l.peek() == '"' {
			l.advance()

			if l.peek() != '"' {
				return nil
			}
		}

		l.advance()
	}

	return ErrSyntax.WithPosition(start).
		With(slog.String("error", "unterminated literal"))
}

func (l *lexer) skipWhitespaceAndComments() error {
	for {
		for !l.eof() && unicode.IsSpace(l.peek()) {
			l.advance()
		}

		switch {
		case l.peek() == '/' && l.peekAt(1) == '/':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		case l.peek() == '/' && l.peekAt(1) == '*':
			start := l.position()

			l.advance()
			l.advance()

			for !l.eof() && (l.peek() != '*' || l.peekAt(1) != '/') {
				l.advance()
			}

			if l.eof() {
				return ErrSyntax.WithPosition(start).
					With(slog.String("error", "unterminated comment"))
			}

			l.advance()
			l.advance()

		default:
			return nil
		}
	}
}

// Helper methods

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

// peekAt returns the rune n runes past the current one.
func (l *lexer) peekAt(n int) rune {
	i := l.pos

	for ; n > 0 && i < len(l.input); n-- {
		_, size := utf8.DecodeRune(l.input[i:])
		i += size
	}

	if i >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[i:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// Character classification

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,
		unicode.Nl,
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
