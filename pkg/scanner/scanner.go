// Package scanner converts raw source text into the token stream consumed by
// the parser. Scanning is a single left-to-right pass; lexical errors are
// accumulated as diagnostics rather than stopping the pass, so every error in
// a source file is reported at once.
package scanner

import (
	"strconv"
	"unicode"

	"lox/interpreter-go/pkg/diag"
)

// Scanner holds the state of one pass over a source string.
type Scanner struct {
	source  []rune
	start   int
	current int
	line    int

	tokens []Token
	diags  []diag.Diagnostic
}

// New creates a scanner for the given source text.
func New(source string) *Scanner {
	return &Scanner{
		source: []rune(source),
		line:   1,
	}
}

// Scan tokenizes the entire source. The returned token slice always ends with
// an EOF token. Diagnostics, if any, are lexical errors; the token stream is
// still usable for the tokens that did scan.
func (s *Scanner) Scan() ([]Token, []diag.Diagnostic) {
	for !s.atEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{Type: EOF, Line: s.line})
	return s.tokens, s.diags
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(LeftParen)
	case ')':
		s.addToken(RightParen)
	case '{':
		s.addToken(LeftBrace)
	case '}':
		s.addToken(RightBrace)
	case ',':
		s.addToken(Comma)
	case '.':
		s.addToken(Dot)
	case '-':
		s.addToken(Minus)
	case '+':
		s.addToken(Plus)
	case ';':
		s.addToken(Semicolon)
	case '*':
		s.addToken(Star)
	case '!':
		if s.match('=') {
			s.addToken(BangEqual)
		} else {
			s.addToken(Bang)
		}
	case '=':
		if s.match('=') {
			s.addToken(EqualEqual)
		} else {
			s.addToken(Equal)
		}
	case '<':
		if s.match('=') {
			s.addToken(LessEqual)
		} else {
			s.addToken(Less)
		}
	case '>':
		if s.match('=') {
			s.addToken(GreaterEqual)
		} else {
			s.addToken(Greater)
		}
	case '/':
		if s.match('/') {
			// Line comment: discard to end of line.
			for s.peek() != '\n' && !s.atEnd() {
				s.advance()
			}
		} else {
			s.addToken(Slash)
		}
	case '"':
		s.scanString()
	case ' ', '\r', '\t':
		// Whitespace between tokens.
	case '\n':
		s.line++
	default:
		switch {
		case isDigit(c):
			s.scanNumber()
		case isAlpha(c):
			s.scanIdentifier()
		default:
			s.errorf("Unexpected character: %c", c)
		}
	}
}

func (s *Scanner) scanString() {
	// A string ends at its closing quote or at the end of the line; a newline
	// before the closing quote leaves the string unterminated and scanning
	// resumes on the next line, so later lexical errors still get reported.
	for s.peek() != '"' && s.peek() != '\n' && !s.atEnd() {
		s.advance()
	}
	if s.peek() != '"' {
		s.errorf("Unterminated string.")
		return
	}
	s.advance() // closing quote
	value := string(s.source[s.start+1 : s.current-1])
	s.addLiteralToken(String, value)
}

func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	// A fractional part requires a digit after the dot; "123." scans as the
	// number 123 followed by a DOT token.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	value, _ := strconv.ParseFloat(string(s.source[s.start:s.current]), 64)
	s.addLiteralToken(Number, value)
}

func (s *Scanner) scanIdentifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	lexeme := string(s.source[s.start:s.current])
	if keyword, ok := keywords[lexeme]; ok {
		s.addToken(keyword)
		return
	}
	s.addToken(Identifier)
}

func (s *Scanner) advance() rune {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) match(expected rune) bool {
	if s.atEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) peek() rune {
	if s.atEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() rune {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) atEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) addToken(t TokenType) {
	s.addLiteralToken(t, nil)
}

func (s *Scanner) addLiteralToken(t TokenType, literal any) {
	s.tokens = append(s.tokens, Token{
		Type:    t,
		Lexeme:  string(s.source[s.start:s.current]),
		Literal: literal,
		Line:    s.line,
	})
}

func (s *Scanner) errorf(format string, args ...any) {
	s.diags = append(s.diags, diag.Errorf(diag.PhaseScan, s.line, format, args...))
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isAlphaNumeric(c rune) bool {
	return isAlpha(c) || isDigit(c)
}
