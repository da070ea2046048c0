package interpreter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ckoval/golox/interpreter"
	"github.com/ckoval/golox/internal/loxerr"
	"github.com/ckoval/golox/parser"
	"github.com/ckoval/golox/resolver"
)

func runProgram(t *testing.T, src string) (stdout, stderr string, errs *loxerr.Reporter) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	errs = loxerr.New(&errBuf)
	prog := parser.Parse("test.lox", []byte(src), errs)
	if errs.SyntaxErrorSeen {
		return "", errBuf.String(), errs
	}
	resolutions := resolver.Resolve(prog, errs)
	if errs.SyntaxErrorSeen {
		return "", errBuf.String(), errs
	}
	in := interpreter.New(errs, interpreter.Stdout(&outBuf))
	in.Run(prog, resolutions)
	return outBuf.String(), errBuf.String(), errs
}

// The following cases are the literal end-to-end scenarios from the specification's TESTABLE PROPERTIES section.

func TestEndToEndArithmeticPrecedence(t *testing.T) {
	stdout, _, errs := runProgram(t, "print 1 + 2 * 3;")
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "7")
}

func TestEndToEndBlockScoping(t *testing.T) {
	stdout, _, errs := runProgram(t, "var a = 1; { var a = 2; print a; } print a;")
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "2\n1")
}

func TestEndToEndClosureCapturesEnvironment(t *testing.T) {
	stdout, _, errs := runProgram(t, `
		fun make() { var i = 0; fun inc() { i = i + 1; print i; } return inc; }
		var c = make(); c(); c(); c();
	`)
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "1\n2\n3")
}

func TestEndToEndForLoop(t *testing.T) {
	stdout, _, errs := runProgram(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "0\n1\n2")
}

func TestEndToEndMethodCall(t *testing.T) {
	stdout, _, errs := runProgram(t, `class Cake { taste() { print "yum"; } } Cake().taste();`)
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "yum")
}

func TestEndToEndInheritanceAndThis(t *testing.T) {
	stdout, _, errs := runProgram(t, `
		class A { init(n) { this.n = n; } }
		class B < A { show() { print this.n; } }
		B(5).show();
	`)
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "5")
}

func TestEndToEndRuntimeErrorSubtractingAString(t *testing.T) {
	_, stderr, errs := runProgram(t, `"a" - 1;`)
	if !errs.RuntimeErrorSeen {
		t.Fatalf("expected a runtime error")
	}
	if !strings.Contains(stderr, "Operands must be numbers.") {
		t.Errorf("stderr = %q, want it to contain %q", stderr, "Operands must be numbers.")
	}
	if !strings.Contains(stderr, "1") {
		t.Errorf("stderr = %q, want it to mention line 1", stderr)
	}
}

// Additional coverage for invariants not already exercised above.

func TestShortCircuitOr(t *testing.T) {
	stdout, _, errs := runProgram(t, `
		fun sideEffect() { print "called"; return true; }
		if (true or sideEffect()) {}
	`)
	assertNoErrors(t, errs)
	if stdout != "" {
		t.Errorf("RHS of 'or' evaluated despite truthy LHS, stdout = %q", stdout)
	}
}

func TestShortCircuitAnd(t *testing.T) {
	stdout, _, errs := runProgram(t, `
		fun sideEffect() { print "called"; return true; }
		if (false and sideEffect()) {}
	`)
	assertNoErrors(t, errs)
	if stdout != "" {
		t.Errorf("RHS of 'and' evaluated despite falsy LHS, stdout = %q", stdout)
	}
}

func TestThisRemainsBoundWhenMethodStoredInVariable(t *testing.T) {
	stdout, _, errs := runProgram(t, `
		class Greeter { greet() { print this.name; } }
		var g = Greeter();
		g.name = "Ada";
		var greet = g.greet;
		greet();
	`)
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "Ada")
}

func TestStringifyIntegerValuedNumberHasNoTrailingZero(t *testing.T) {
	stdout, _, errs := runProgram(t, "print 10 / 2;")
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "5")
}

func TestDivisionByZeroProducesInfNotError(t *testing.T) {
	stdout, _, errs := runProgram(t, "print 1 / 0;")
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "+Inf")
}

func TestNaNIsNotEqualToItself(t *testing.T) {
	stdout, _, errs := runProgram(t, `print (0 / 0) == (0 / 0);`)
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "false")
}

func TestModuloOperator(t *testing.T) {
	stdout, _, errs := runProgram(t, "print 7 % 3;")
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "1")
}

func TestTernaryLazyEvaluation(t *testing.T) {
	stdout, _, errs := runProgram(t, `
		fun sideEffect() { print "called"; return 1; }
		print true ? 1 : sideEffect();
	`)
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "1")
}

func TestBreakExitsLoop(t *testing.T) {
	stdout, _, errs := runProgram(t, `
		for (var i = 0; i < 5; i = i + 1) {
			if (i == 2) break;
			print i;
		}
	`)
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "0\n1")
}

func TestContinueRunsIncrementInDesugaredFor(t *testing.T) {
	stdout, _, errs := runProgram(t, `
		for (var i = 0; i < 5; i = i + 1) {
			if (i == 2) continue;
			print i;
		}
	`)
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "0\n1\n3\n4")
}

func TestContinueInPlainWhileLoop(t *testing.T) {
	stdout, _, errs := runProgram(t, `
		var i = 0;
		while (i < 4) {
			i = i + 1;
			if (i == 2) continue;
			print i;
		}
	`)
	assertNoErrors(t, errs)
	assertStdout(t, stdout, "1\n3\n4")
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, stderr, errs := runProgram(t, "print undefined;")
	if !errs.RuntimeErrorSeen {
		t.Fatalf("expected a runtime error")
	}
	if !strings.Contains(stderr, "Undefined variable 'undefined'.") {
		t.Errorf("stderr = %q, want it to contain the undefined variable message", stderr)
	}
}

func assertNoErrors(t *testing.T, errs *loxerr.Reporter) {
	t.Helper()
	if errs.SyntaxErrorSeen {
		t.Fatalf("unexpected syntax error")
	}
	if errs.RuntimeErrorSeen {
		t.Fatalf("unexpected runtime error")
	}
}

func assertStdout(t *testing.T, got, want string) {
	t.Helper()
	if strings.TrimRight(got, "\n") != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}
