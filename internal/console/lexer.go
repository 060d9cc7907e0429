// Package console reads host-style call statements such as
//
//	d = get_atm_density(20, 30, 120, '2019-01-25 14:30:00');
//
// and turns them into function calls on host arguments.
package console

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the kind of token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	IDENT
	NUMBER    // real literal
	IMAGINARY // number with an i/j suffix
	CHAR      // 'single quoted'
	STRING    // "double quoted"

	LPAREN
	RPAREN
	LSQUARE
	RSQUARE
	COMMA
	SEMICOLON
	ASSIGN
	PLUS
	MINUS
)

var tokenNames = map[TokenType]string{
	EOF:       "end of input",
	ILLEGAL:   "illegal token",
	IDENT:     "identifier",
	NUMBER:    "number",
	IMAGINARY: "imaginary number",
	CHAR:      "char array",
	STRING:    "string",
	LPAREN:    "'('",
	RPAREN:    "')'",
	LSQUARE:   "'['",
	RSQUARE:   "']'",
	COMMA:     "','",
	SEMICOLON: "';'",
	ASSIGN:    "'='",
	PLUS:      "'+'",
	MINUS:     "'-'",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexical token with its parsed literal, if any.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any // float64 for NUMBER and IMAGINARY, string for CHAR and STRING
	Col     int // 1-based
	// SpaceBefore is set when whitespace precedes the token.
	SpaceBefore bool
}

// Error is a lexical or syntax error at a column.
type Error struct {
	Col int
	Msg string
	// Incomplete is set when more input could complete the statement.
	Incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at column %d: %s", e.Col, e.Msg)
}

// IsIncomplete reports whether err means the statement continues on the next line.
func IsIncomplete(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Incomplete
}

// Lexer splits one statement into tokens.
type Lexer struct {
	src   string
	start int
	cur   int
	space bool
}

// NewLexer creates a Lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Scan returns every token of the input, ending with EOF.
func (l *Lexer) Scan() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	if l.cur+n >= len(l.src) {
		return 0, false
	}
	return l.src[l.cur+n], true
}

func (l *Lexer) err(msg string) error {
	return &Error{Col: l.start + 1, Msg: msg}
}

func (l *Lexer) token(tt TokenType, lit any) Token {
	return Token{Type: tt, Lexeme: l.src[l.start:l.cur], Literal: lit, Col: l.start + 1, SpaceBefore: l.space}
}

// skipSpace eats blanks and a trailing % comment.
func (l *Lexer) skipSpace() {
	l.space = false
	for !l.isAtEnd() {
		switch l.src[l.cur] {
		case ' ', '\t', '\r', '\n':
			l.cur++
			l.space = true
		case '%':
			l.cur = len(l.src)
		default:
			return
		}
	}
}

func (l *Lexer) next() (Token, error) {
	l.skipSpace()
	l.start = l.cur
	b, ok := l.peek()
	if !ok {
		return l.token(EOF, nil), nil
	}

	switch {
	case isAlpha(b):
		for c, ok := l.peek(); ok && isAlphaNum(c); c, ok = l.peek() {
			l.cur++
		}
		return l.token(IDENT, l.src[l.start:l.cur]), nil
	case isDigit(b) || (b == '.' && l.digitAt(1)):
		return l.scanNumber()
	case b == '\'':
		return l.scanQuoted('\'', CHAR)
	case b == '"':
		return l.scanQuoted('"', STRING)
	}

	l.cur++
	switch b {
	case '(':
		return l.token(LPAREN, nil), nil
	case ')':
		return l.token(RPAREN, nil), nil
	case '[':
		return l.token(LSQUARE, nil), nil
	case ']':
		return l.token(RSQUARE, nil), nil
	case ',':
		return l.token(COMMA, nil), nil
	case ';':
		return l.token(SEMICOLON, nil), nil
	case '=':
		return l.token(ASSIGN, nil), nil
	case '+':
		return l.token(PLUS, nil), nil
	case '-':
		return l.token(MINUS, nil), nil
	}
	return Token{}, l.err(fmt.Sprintf("unexpected character %q", b))
}

func (l *Lexer) digitAt(n int) bool {
	b, ok := l.peekN(n)
	return ok && isDigit(b)
}

func (l *Lexer) digits() bool {
	saw := false
	for b, ok := l.peek(); ok && isDigit(b); b, ok = l.peek() {
		l.cur++
		saw = true
	}
	return saw
}

// scanNumber reads 12, 1.5, .5, 1e-3 and an optional i/j imaginary suffix.
func (l *Lexer) scanNumber() (Token, error) {
	l.digits()
	if b, ok := l.peek(); ok && b == '.' {
		l.cur++
		l.digits()
	}
	if b, ok := l.peek(); ok && (b == 'e' || b == 'E') {
		save := l.cur
		l.cur++
		if s, ok := l.peek(); ok && (s == '+' || s == '-') {
			l.cur++
		}
		if !l.digits() {
			l.cur = save
		}
	}

	v, err := strconv.ParseFloat(l.src[l.start:l.cur], 64)
	if err != nil {
		return Token{}, l.err("malformed number")
	}

	if b, ok := l.peek(); ok && (b == 'i' || b == 'j') {
		if next, ok := l.peekN(1); !ok || !isAlphaNum(next) {
			l.cur++
			return l.token(IMAGINARY, v), nil
		}
	}
	if b, ok := l.peek(); ok && isAlpha(b) {
		return Token{}, l.err("malformed number")
	}
	return l.token(NUMBER, v), nil
}

// scanQuoted reads a quoted literal where a doubled quote stands for itself.
func (l *Lexer) scanQuoted(quote byte, tt TokenType) (Token, error) {
	l.cur++
	var b strings.Builder
	for {
		c, ok := l.peek()
		if !ok {
			return Token{}, &Error{Col: l.start + 1, Msg: "unterminated " + tt.String()}
		}
		l.cur++
		if c == quote {
			if next, ok := l.peek(); ok && next == quote {
				l.cur++
				b.WriteByte(quote)
				continue
			}
			return l.token(tt, b.String()), nil
		}
		b.WriteByte(c)
	}
}

func isDigit(b byte) bool    { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool    { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }
