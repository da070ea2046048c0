// Package token declares the type representing a lexical token of Lox source code.
package token

import (
	"cmp"
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/ckoval/golox/internal/ansi"
)

// Type is the type of a lexical token of Lox code.
type Type int

// The list of all token types.
const (
	Illegal Type = iota
	EOF

	// Keywords
	keywordsStart
	And
	Break
	Class
	Continue
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
	keywordsEnd

	// Literals
	Ident
	String
	Number

	// Symbols
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Asterisk
	Percent
	Question
	Colon
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	typesEnd
)

var typeStrings = map[Type]string{
	Illegal:       "illegal",
	EOF:           "EOF",
	And:           "and",
	Break:         "break",
	Class:         "class",
	Continue:      "continue",
	Else:          "else",
	False:         "false",
	For:           "for",
	Fun:           "fun",
	If:            "if",
	Nil:           "nil",
	Or:            "or",
	Print:         "print",
	Return:        "return",
	Super:         "super",
	This:          "this",
	True:          "true",
	Var:           "var",
	While:         "while",
	Ident:         "identifier",
	String:        "string",
	Number:        "number",
	LeftParen:     "(",
	RightParen:    ")",
	LeftBrace:     "{",
	RightBrace:    "}",
	Comma:         ",",
	Dot:           ".",
	Minus:         "-",
	Plus:          "+",
	Semicolon:     ";",
	Slash:         "/",
	Asterisk:      "*",
	Percent:       "%",
	Question:      "?",
	Colon:         ":",
	Bang:          "!",
	BangEqual:     "!=",
	Equal:         "=",
	EqualEqual:    "==",
	Greater:       ">",
	GreaterEqual:  ">=",
	Less:          "<",
	LessEqual:     "<=",
}

var keywordTypesByIdent = func() map[string]Type {
	m := make(map[string]Type, keywordsEnd-keywordsStart)
	for i := keywordsStart + 1; i < keywordsEnd; i++ {
		m[typeStrings[i]] = i
	}
	return m
}()

// IdentType returns the type of the keyword with the given identifier, or Ident if the identifier is not a keyword.
func IdentType(ident string) Type {
	if t, ok := keywordTypesByIdent[ident]; ok {
		return t
	}
	return Ident
}

// String returns the canonical textual representation of t.
func (t Type) String() string {
	if s, ok := typeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Format implements fmt.Formatter. All verbs have the default behaviour, except for 'm' (message) which formats the
// type for use in an error message.
func (t Type) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		fmt.Fprintf(f, "'%s'", t.String())
	default:
		fmt.Fprint(f, t.String())
	}
}

// Token is a lexical token of Lox code.
type Token struct {
	Type     Type
	Lexeme   string
	Literal  any // nil, float64, or string
	StartPos Position
	EndPos   Position
}

// Start returns the position of the first character of the token.
func (t Token) Start() Position { return t.StartPos }

// End returns the position of the character immediately after the token.
func (t Token) End() Position { return t.EndPos }

// IsZero reports whether t is the zero value.
func (t Token) IsZero() bool { return t == Token{} }

func (t Token) String() string {
	return fmt.Sprintf("%s: %q [%s]", t.StartPos, t.Lexeme, t.Type)
}

// Format implements fmt.Formatter. All verbs have the default behaviour, except for 'm' (message) which formats the
// token for use in an error message: the lexeme for most tokens, "end" for EOF.
func (t Token) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		if t.Type == EOF {
			fmt.Fprint(f, "end")
		} else {
			fmt.Fprintf(f, "'%s'", t.Lexeme)
		}
	default:
		fmt.Fprint(f, t.String())
	}
}

// Range describes a range of characters in the source code.
type Range interface {
	Start() Position
	End() Position
}

// Position is a position in a file.
type Position struct {
	File   *File
	Line   int // 1-based line number
	Column int // 0-based byte offset from the start of the line
}

// Compare returns -1, 0 or 1 depending on whether p comes before, at, or after other.
func (p Position) Compare(other Position) int {
	if p.File != other.File {
		var pn, on string
		if p.File != nil {
			pn = p.File.name
		}
		if other.File != nil {
			on = other.File.name
		}
		if pn != on {
			return cmp.Compare(pn, on)
		}
	}
	if p.Line != other.Line {
		return cmp.Compare(p.Line, other.Line)
	}
	return cmp.Compare(p.Column, other.Column)
}

func (p Position) String() string {
	var prefix string
	if p.File != nil && p.File.name != "" {
		prefix = p.File.name + ":"
	}
	col := p.Column + 1
	if p.File != nil {
		line := p.File.Line(p.Line)
		if p.Column <= len(line) {
			col = runewidth.StringWidth(string(line[:p.Column])) + 1
		}
	}
	return fmt.Sprintf("%s%d:%d", prefix, p.Line, col)
}

// Format implements fmt.Formatter. All verbs have the default behaviour, except for 'm' (message) which renders the
// position with ANSI highlighting for use in an error message.
func (p Position) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		var prefix string
		if p.File != nil && p.File.name != "" {
			prefix = ansi.Sprint("${CYAN}", p.File.name, "${DEFAULT}:")
		}
		ansi.Fprint(f, prefix, "${YELLOW}", p.Line, "${DEFAULT}")
	default:
		fmt.Fprint(f, p.String())
	}
}

// File is a simple representation of a source file, tracking line offsets so that byte columns can be recovered
// from absolute offsets.
type File struct {
	name        string
	contents    []byte
	lineOffsets []int
}

// NewFile returns a new File with the given name and contents.
func NewFile(name string, contents []byte) *File {
	f := &File{name: name, contents: contents}
	f.lineOffsets = append(f.lineOffsets, 0)
	for i, b := range contents {
		if b == '\n' {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
	return f
}

// Name returns the name of the file.
func (f *File) Name() string { return f.name }

// Line returns the nth (1-based) line of the file, excluding the trailing newline.
func (f *File) Line(n int) []byte {
	if n < 1 || n > len(f.lineOffsets) {
		return nil
	}
	low := f.lineOffsets[n-1]
	high := len(f.contents)
	if n < len(f.lineOffsets) {
		high = f.lineOffsets[n] - 1
	}
	if high > len(f.contents) {
		high = len(f.contents)
	}
	return f.contents[low:high]
}
