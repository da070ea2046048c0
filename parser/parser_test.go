package parser_test

import (
	"bytes"
	"testing"

	"github.com/ckoval/golox/ast"
	"github.com/ckoval/golox/internal/loxerr"
	"github.com/ckoval/golox/parser"
)

func parse(t *testing.T, src string) (*ast.Program, *loxerr.Reporter) {
	t.Helper()
	var stderr bytes.Buffer
	errs := loxerr.New(&stderr)
	prog := parser.Parse("test.lox", []byte(src), errs)
	return prog, errs
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog, errs := parse(t, "1 + 2 * 3;")
	if errs.SyntaxErrorSeen {
		t.Fatalf("unexpected syntax error")
	}
	got := ast.Print(prog.Stmts[0].(*ast.ExpressionStmt).X)
	want := "(+ 1 (* 2 3))"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestParseForDesugarsToBlockWhile(t *testing.T) {
	prog, errs := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	if errs.SyntaxErrorSeen {
		t.Fatalf("unexpected syntax error")
	}
	if len(prog.Stmts) != 1 {
		t.Fatalf("got %d top-level statements, want 1", len(prog.Stmts))
	}
	block, ok := prog.Stmts[0].(*ast.BlockStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.BlockStmt", prog.Stmts[0])
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("got %d statements in desugared block, want 2 (init, while)", len(block.Stmts))
	}
	if _, ok := block.Stmts[0].(*ast.VarStmt); !ok {
		t.Errorf("got %T, want *ast.VarStmt for init", block.Stmts[0])
	}
	whileStmt, ok := block.Stmts[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.WhileStmt", block.Stmts[1])
	}
	if _, ok := whileStmt.Body.(*ast.PrintStmt); !ok {
		t.Errorf("got %T, want *ast.PrintStmt for while body (unwrapped, not merged with incr)", whileStmt.Body)
	}
	if whileStmt.Increment == nil {
		t.Fatalf("want whileStmt.Increment set from the for loop's incr clause, got nil")
	}
	if _, ok := whileStmt.Increment.(*ast.Assign); !ok {
		t.Errorf("got %T, want *ast.Assign for incr", whileStmt.Increment)
	}
}

func TestParseAssignmentTargetValidation(t *testing.T) {
	_, errs := parse(t, "1 + 2 = 3;")
	if !errs.SyntaxErrorSeen {
		t.Errorf("expected syntax error assigning to a non-lvalue")
	}
}

func TestParseClassWithSuperclass(t *testing.T) {
	prog, errs := parse(t, "class A {} class B < A { show() { print 1; } }")
	if errs.SyntaxErrorSeen {
		t.Fatalf("unexpected syntax error")
	}
	classB, ok := prog.Stmts[1].(*ast.ClassStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.ClassStmt", prog.Stmts[1])
	}
	if classB.Superclass == nil || classB.Superclass.Name.Lexeme != "A" {
		t.Errorf("got superclass %+v, want reference to A", classB.Superclass)
	}
	if len(classB.Methods) != 1 || classB.Methods[0].Name.Lexeme != "show" {
		t.Errorf("got methods %+v, want [show]", classB.Methods)
	}
}

func TestParsePanicModeRecoveryContinuesPastError(t *testing.T) {
	prog, errs := parse(t, "var = ; var x = 1;")
	if !errs.SyntaxErrorSeen {
		t.Fatalf("expected syntax error")
	}
	found := false
	for _, stmt := range prog.Stmts {
		if v, ok := stmt.(*ast.VarStmt); ok && v.Name.Lexeme == "x" {
			found = true
		}
	}
	if !found {
		t.Errorf("parser did not recover and parse the statement after the error")
	}
}

func TestParseTernary(t *testing.T) {
	prog, errs := parse(t, "var x = true ? 1 : 2;")
	if errs.SyntaxErrorSeen {
		t.Fatalf("unexpected syntax error")
	}
	v := prog.Stmts[0].(*ast.VarStmt)
	if _, ok := v.Initializer.(*ast.Ternary); !ok {
		t.Errorf("got %T, want *ast.Ternary", v.Initializer)
	}
}

func TestParseAnonymousFunctionExpr(t *testing.T) {
	prog, errs := parse(t, "var f = fun (a, b) { return a + b; };")
	if errs.SyntaxErrorSeen {
		t.Fatalf("unexpected syntax error")
	}
	v := prog.Stmts[0].(*ast.VarStmt)
	fn, ok := v.Initializer.(*ast.FunctionExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.FunctionExpr", v.Initializer)
	}
	if len(fn.Params) != 2 {
		t.Errorf("got %d params, want 2", len(fn.Params))
	}
}
