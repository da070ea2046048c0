// Package scanner converts Lox source text into a stream of tokens.
package scanner

import (
	"bytes"
	"strconv"

	"github.com/ckoval/golox/internal/loxerr"
	"github.com/ckoval/golox/token"
)

// Scanner converts the contents of a [token.File] into a sequence of tokens, terminated by a single EOF token.
// It is single-pass, with one character of lookahead (two for numeric fractional detection).
type Scanner struct {
	file *token.File
	src  []byte
	errs *loxerr.Reporter

	start     int // byte offset of the start of the token currently being scanned
	pos       int // byte offset of the next unconsumed character
	line      int
	lineStart int // byte offset of the start of the current line
}

// New returns a Scanner over the given source bytes, wrapped in a [token.File] named name.
func New(name string, src []byte, errs *loxerr.Reporter) (*Scanner, *token.File) {
	file := token.NewFile(name, src)
	return &Scanner{file: file, src: src, errs: errs, line: 1}, file
}

// Scan scans the entire source and returns the resulting tokens, terminated by a single EOF token.
func (s *Scanner) Scan() []token.Token {
	var tokens []token.Token
	for {
		tok, ok := s.scanToken()
		if ok {
			tokens = append(tokens, tok)
		}
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}

func (s *Scanner) atEnd() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) peekNext() byte {
	if s.pos+1 >= len(s.src) {
		return 0
	}
	return s.src[s.pos+1]
}

func (s *Scanner) advance() byte {
	b := s.src[s.pos]
	s.pos++
	if b == '\n' {
		s.line++
		s.lineStart = s.pos
	}
	return b
}

func (s *Scanner) match(b byte) bool {
	if s.atEnd() || s.src[s.pos] != b {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) startPos() token.Position {
	line := s.line - bytes.Count(s.src[s.start:s.pos], []byte{'\n'})
	lineStart := bytes.LastIndexByte(s.src[:s.start], '\n') + 1
	return token.Position{File: s.file, Line: line, Column: s.start - lineStart}
}

func (s *Scanner) endPos() token.Position {
	line, col := s.line, s.pos-s.lineStart
	return token.Position{File: s.file, Line: line, Column: col}
}

func (s *Scanner) newToken(typ token.Type, literal any) token.Token {
	return token.Token{
		Type:     typ,
		Lexeme:   string(s.src[s.start:s.pos]),
		Literal:  literal,
		StartPos: s.startPos(),
		EndPos:   s.endPos(),
	}
}

// scanToken scans and returns the next token. ok is false when whitespace or a comment was skipped and no token
// should be emitted.
func (s *Scanner) scanToken() (token.Token, bool) {
	s.skipWhitespaceAndComments()
	s.start = s.pos
	if s.atEnd() {
		return s.newToken(token.EOF, nil), true
	}

	c := s.advance()
	switch c {
	case '(':
		return s.newToken(token.LeftParen, nil), true
	case ')':
		return s.newToken(token.RightParen, nil), true
	case '{':
		return s.newToken(token.LeftBrace, nil), true
	case '}':
		return s.newToken(token.RightBrace, nil), true
	case ',':
		return s.newToken(token.Comma, nil), true
	case '.':
		return s.newToken(token.Dot, nil), true
	case '-':
		return s.newToken(token.Minus, nil), true
	case '+':
		return s.newToken(token.Plus, nil), true
	case ';':
		return s.newToken(token.Semicolon, nil), true
	case '*':
		return s.newToken(token.Asterisk, nil), true
	case '%':
		return s.newToken(token.Percent, nil), true
	case '?':
		return s.newToken(token.Question, nil), true
	case ':':
		return s.newToken(token.Colon, nil), true
	case '!':
		if s.match('=') {
			return s.newToken(token.BangEqual, nil), true
		}
		return s.newToken(token.Bang, nil), true
	case '=':
		if s.match('=') {
			return s.newToken(token.EqualEqual, nil), true
		}
		return s.newToken(token.Equal, nil), true
	case '<':
		if s.match('=') {
			return s.newToken(token.LessEqual, nil), true
		}
		return s.newToken(token.Less, nil), true
	case '>':
		if s.match('=') {
			return s.newToken(token.GreaterEqual, nil), true
		}
		return s.newToken(token.Greater, nil), true
	case '/':
		return s.newToken(token.Slash, nil), true
	case '"':
		return s.scanString()
	default:
		switch {
		case isDigit(c):
			return s.scanNumber()
		case isAlpha(c):
			return s.scanIdent()
		default:
			s.errs.SyntaxError(s.line, "Unexpected character '%c'.", c)
			return token.Token{}, false
		}
	}
}

// skipWhitespaceAndComments advances past whitespace, "//" line comments, and "/* */" block comments. Block
// comments are scanned to the first subsequent "*/"; they do not nest, and a "*" not immediately followed by "/" is
// simply skipped (this mirrors a known quirk of the reference scanner, kept for bug-compatibility per spec design
// notes rather than "fixed" into a stricter nested implementation).
func (s *Scanner) skipWhitespaceAndComments() {
	for {
		if s.atEnd() {
			return
		}
		switch s.peek() {
		case ' ', '\r', '\t', '\n':
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for !s.atEnd() && s.peek() != '\n' {
					s.advance()
				}
			} else if s.peekNext() == '*' {
				s.advance()
				s.advance()
				for !s.atEnd() {
					if s.advance() == '*' && s.peek() == '/' {
						s.advance()
						break
					}
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) scanString() (token.Token, bool) {
	startLine := s.line
	for !s.atEnd() && s.peek() != '"' {
		s.advance()
	}
	if s.atEnd() {
		s.errs.SyntaxError(startLine, "Unterminated string.")
		return token.Token{}, false
	}
	s.advance() // closing quote
	literal := string(s.src[s.start+1 : s.pos-1])
	return s.newToken(token.String, literal), true
}

func (s *Scanner) scanNumber() (token.Token, bool) {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	n, err := strconv.ParseFloat(string(s.src[s.start:s.pos]), 64)
	if err != nil {
		s.errs.SyntaxError(s.line, "Invalid number literal.")
		return token.Token{}, false
	}
	return s.newToken(token.Number, n), true
}

func (s *Scanner) scanIdent() (token.Token, bool) {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	lexeme := string(s.src[s.start:s.pos])
	return s.newToken(token.IdentType(lexeme), nil), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
