// Package loxerr implements the ErrorReporter collaborator shared by every stage of the Lox pipeline: the scanner,
// parser, resolver, and evaluator all funnel diagnostics through a *Reporter rather than writing to stderr
// directly.
package loxerr

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ckoval/golox/token"
)

// Reporter accumulates the two sticky flags the pipeline driver inspects between stages, and writes diagnostics to
// an error sink.
type Reporter struct {
	Stderr io.Writer

	// SyntaxErrorSeen is set by any call to SyntaxError or SyntaxErrorAt. The driver aborts before resolving or
	// evaluating once this is true.
	SyntaxErrorSeen bool
	// RuntimeErrorSeen is set by RuntimeError.
	RuntimeErrorSeen bool
}

// New returns a *Reporter which writes diagnostics to stderr.
func New(stderr io.Writer) *Reporter {
	return &Reporter{Stderr: stderr}
}

// Reset clears both sticky flags. Called by the REPL between turns; never called during a single file run.
func (r *Reporter) Reset() {
	r.SyntaxErrorSeen = false
	r.RuntimeErrorSeen = false
}

var (
	bold = color.New(color.Bold)
	red  = color.New(color.FgRed)
)

// SyntaxErrorAt reports a syntax error attributed to tok, in the form:
//
//	[line N] Error at 'lexeme': message
//
// or, if tok is the EOF token:
//
//	[line N] Error at end: message
func (r *Reporter) SyntaxErrorAt(tok token.Token, format string, args ...any) {
	r.SyntaxErrorSeen = true
	where := fmt.Sprintf("'%s'", tok.Lexeme)
	if tok.Type == token.EOF {
		where = "end"
	}
	msg := fmt.Sprintf(format, args...)
	bold.Fprintf(r.Stderr, "[line %d] ", tok.StartPos.Line)
	red.Fprint(r.Stderr, "Error")
	fmt.Fprintf(r.Stderr, " at %s: %s\n", where, msg)
}

// SyntaxError reports a syntax error attributed only to a line, in the form:
//
//	[line N] Error: message
func (r *Reporter) SyntaxError(line int, format string, args ...any) {
	r.SyntaxErrorSeen = true
	msg := fmt.Sprintf(format, args...)
	bold.Fprintf(r.Stderr, "[line %d] ", line)
	red.Fprint(r.Stderr, "Error")
	fmt.Fprintf(r.Stderr, ": %s\n", msg)
}

// RuntimeError reports a runtime error attributed to tok, in the form:
//
//	message
//	[line N]
func (r *Reporter) RuntimeError(tok token.Token, format string, args ...any) {
	r.RuntimeErrorSeen = true
	msg := fmt.Sprintf(format, args...)
	red.Fprintln(r.Stderr, msg)
	fmt.Fprintf(r.Stderr, "[line %d]\n", tok.StartPos.Line)
}
