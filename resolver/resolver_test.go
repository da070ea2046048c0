package resolver_test

import (
	"bytes"
	"testing"

	"github.com/ckoval/golox/ast"
	"github.com/ckoval/golox/internal/loxerr"
	"github.com/ckoval/golox/parser"
	"github.com/ckoval/golox/resolver"
)

func resolve(t *testing.T, src string) (*ast.Program, resolver.ResolutionMap, *loxerr.Reporter) {
	t.Helper()
	var stderr bytes.Buffer
	errs := loxerr.New(&stderr)
	prog := parser.Parse("test.lox", []byte(src), errs)
	if errs.SyntaxErrorSeen {
		t.Fatalf("unexpected parse error: %s", stderr.String())
	}
	resolutions := resolver.Resolve(prog, errs)
	return prog, resolutions, errs
}

func TestResolveSelfReferentialInitializerIsError(t *testing.T) {
	_, _, errs := resolve(t, "var a = 1; { var a = a; }")
	if !errs.SyntaxErrorSeen {
		t.Errorf("expected error for self-referential initializer")
	}
}

func TestResolveDuplicateLocalDeclarationIsError(t *testing.T) {
	_, _, errs := resolve(t, "{ var a = 1; var a = 2; }")
	if !errs.SyntaxErrorSeen {
		t.Errorf("expected error for duplicate local declaration")
	}
}

func TestResolveTopLevelReturnIsError(t *testing.T) {
	_, _, errs := resolve(t, "return 1;")
	if !errs.SyntaxErrorSeen {
		t.Errorf("expected error for top-level return")
	}
}

func TestResolveReturnValueFromInitializerIsError(t *testing.T) {
	_, _, errs := resolve(t, "class A { init() { return 1; } }")
	if !errs.SyntaxErrorSeen {
		t.Errorf("expected error for returning a value from an initializer")
	}
}

func TestResolveThisOutsideClassIsError(t *testing.T) {
	_, _, errs := resolve(t, "print this;")
	if !errs.SyntaxErrorSeen {
		t.Errorf("expected error for 'this' outside a class")
	}
}

func TestResolveSelfInheritingClassIsError(t *testing.T) {
	_, _, errs := resolve(t, "class A < A {}")
	if !errs.SyntaxErrorSeen {
		t.Errorf("expected error for a class inheriting from itself")
	}
}

func TestResolveLocalDepth(t *testing.T) {
	prog, resolutions, errs := resolve(t, "var a = 1; { var b = 2; print b; }")
	if errs.SyntaxErrorSeen {
		t.Fatalf("unexpected resolution error")
	}
	block := prog.Stmts[1].(*ast.BlockStmt)
	printStmt := block.Stmts[1].(*ast.PrintStmt)
	v := printStmt.X.(*ast.Variable)
	depth, ok := resolutions[v]
	if !ok || depth != 0 {
		t.Errorf("got depth %d, ok=%v, want depth 0", depth, ok)
	}
}

func TestResolveGlobalIsUnresolved(t *testing.T) {
	prog, resolutions, errs := resolve(t, "var a = 1; print a;")
	if errs.SyntaxErrorSeen {
		t.Fatalf("unexpected resolution error")
	}
	printStmt := prog.Stmts[1].(*ast.PrintStmt)
	v := printStmt.X.(*ast.Variable)
	if _, ok := resolutions[v]; ok {
		t.Errorf("expected global variable reference to be absent from the resolution map")
	}
}

func TestResolveValidProgramHasNoErrors(t *testing.T) {
	_, _, errs := resolve(t, `
		class A {
			init(n) { this.n = n; }
		}
		class B < A {
			show() { print this.n; }
		}
		B(5).show();
	`)
	if errs.SyntaxErrorSeen {
		t.Errorf("unexpected resolution error for valid program")
	}
}
