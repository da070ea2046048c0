package scanner_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ckoval/golox/internal/loxerr"
	"github.com/ckoval/golox/scanner"
	"github.com/ckoval/golox/token"
)

func scan(t *testing.T, src string) ([]token.Token, *loxerr.Reporter) {
	t.Helper()
	var stderr bytes.Buffer
	errs := loxerr.New(&stderr)
	sc, _ := scanner.New("test.lox", []byte(src), errs)
	return sc.Scan(), errs
}

func types(toks []token.Token) []token.Type {
	ts := make([]token.Type, len(toks))
	for i, tok := range toks {
		ts[i] = tok.Type
	}
	return ts
}

func TestScanSymbolsAndKeywords(t *testing.T) {
	toks, errs := scan(t, "var x = 1 + 2 * 3 - 4 / 5 % 6;")
	if errs.SyntaxErrorSeen {
		t.Fatalf("unexpected syntax error")
	}
	want := []token.Type{
		token.Var, token.Ident, token.Equal, token.Number, token.Plus, token.Number, token.Asterisk, token.Number,
		token.Minus, token.Number, token.Slash, token.Number, token.Percent, token.Number, token.Semicolon, token.EOF,
	}
	if diff := cmp.Diff(want, types(toks)); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestScanString(t *testing.T) {
	toks, errs := scan(t, `"hello world"`)
	if errs.SyntaxErrorSeen {
		t.Fatalf("unexpected syntax error")
	}
	if toks[0].Type != token.String || toks[0].Literal != "hello world" {
		t.Errorf("got %+v, want String token with literal %q", toks[0], "hello world")
	}
}

func TestScanUnterminatedString(t *testing.T) {
	_, errs := scan(t, `"hello`)
	if !errs.SyntaxErrorSeen {
		t.Errorf("expected syntax error for unterminated string")
	}
}

func TestScanNumber(t *testing.T) {
	toks, _ := scan(t, "123.45")
	if toks[0].Type != token.Number || toks[0].Literal != 123.45 {
		t.Errorf("got %+v, want Number token with literal 123.45", toks[0])
	}
}

func TestScanTrailingDotNotConsumed(t *testing.T) {
	toks, _ := scan(t, "123.")
	if diff := cmp.Diff([]token.Type{token.Number, token.Dot, token.EOF}, types(toks)); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestScanLineComment(t *testing.T) {
	toks, _ := scan(t, "1; // comment\n2;")
	if diff := cmp.Diff(
		[]token.Type{token.Number, token.Semicolon, token.Number, token.Semicolon, token.EOF},
		types(toks),
	); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestScanUnexpectedCharacter(t *testing.T) {
	_, errs := scan(t, "@")
	if !errs.SyntaxErrorSeen {
		t.Errorf("expected syntax error for unexpected character")
	}
}
