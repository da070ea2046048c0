// Package interpreter implements the tree-walking evaluator which executes a resolved Lox AST against a linked
// chain of lexical environments.
package interpreter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ckoval/golox/ast"
	"github.com/ckoval/golox/internal/loxerr"
	"github.com/ckoval/golox/resolver"
	"github.com/ckoval/golox/token"
)

// runtimeError carries the token to attribute a runtime failure to, per §4.5/§7 of the error design: runtime
// errors abort the current top-level run immediately and are reported with their originating line.
type runtimeError struct {
	Tok token.Token
	Msg string
}

func (e *runtimeError) Error() string { return e.Msg }

func newRuntimeError(tok token.Token, format string, args ...any) error {
	return &runtimeError{Tok: tok, Msg: fmt.Sprintf(format, args...)}
}

// stmtResult is the typed unwinding signal used to propagate break, continue, and return up through nested
// blocks without corrupting the interpreter's environment pointer: whatever the exit path, execBlockStmts restores
// the environment that was current on entry.
type stmtResult interface{ isStmtResult() }

type stmtResultNone struct{}
type stmtResultBreak struct{}
type stmtResultContinue struct{}
type stmtResultReturn struct{ Value Value }

func (stmtResultNone) isStmtResult()     {}
func (stmtResultBreak) isStmtResult()    {}
func (stmtResultContinue) isStmtResult() {}
func (stmtResultReturn) isStmtResult()   {}

// Option configures an Interpreter.
type Option func(*Interpreter)

// REPLMode causes bare expression statements to have their value printed, matching the REPL's echo behaviour.
func REPLMode() Option {
	return func(in *Interpreter) { in.replMode = true }
}

// Stdout overrides where print statements and REPL echoes are written. Defaults to os.Stdout.
func Stdout(w io.Writer) Option {
	return func(in *Interpreter) { in.stdout = w }
}

// Interpreter executes a resolved Lox program. The globals environment persists across repeated calls to Run,
// which is what lets a REPL session accumulate top-level declarations across lines.
type Interpreter struct {
	globals     *environment
	env         *environment
	resolutions resolver.ResolutionMap
	errs        *loxerr.Reporter
	calls       callStack
	start       time.Time
	replMode    bool
	stdout      io.Writer
}

// New returns an Interpreter with a fresh globals environment pre-populated with the clock native function.
func New(errs *loxerr.Reporter, opts ...Option) *Interpreter {
	globals := newEnvironment(nil)
	in := &Interpreter{globals: globals, env: globals, errs: errs, start: time.Now(), stdout: os.Stdout}
	for _, opt := range opts {
		opt(in)
	}
	defineBuiltins(globals, in.start)
	return in
}

// Run executes prog's statements in order against the persistent globals environment, using resolutions to decide
// whether a variable reference is local (and at what depth) or global. If a runtime error occurs, it is reported
// to the Interpreter's ErrorReporter and execution of the remaining top-level statements stops; Run itself never
// returns an error for a reported runtime error; callers distinguish success/failure via errs.RuntimeErrorSeen.
func (in *Interpreter) Run(prog *ast.Program, resolutions resolver.ResolutionMap) {
	// Resolutions accumulate across calls: functions and classes declared by an earlier Run still execute their
	// bodies' nodes, which were resolved then.
	if in.resolutions == nil {
		in.resolutions = resolver.ResolutionMap{}
	}
	for e, depth := range resolutions {
		in.resolutions[e] = depth
	}
	for _, stmt := range prog.Stmts {
		if _, err := in.execStmt(stmt); err != nil {
			in.reportRuntimeError(err)
			return
		}
	}
}

func (in *Interpreter) reportRuntimeError(err error) {
	if rerr, ok := err.(*runtimeError); ok {
		in.errs.RuntimeError(rerr.Tok, "%s", rerr.Msg)
		return
	}
	in.errs.RuntimeError(token.Token{}, "%s", err.Error())
}

func (in *Interpreter) execStmt(stmt ast.Stmt) (stmtResult, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		v, err := in.evalExpr(s.X)
		if err != nil {
			return nil, err
		}
		if in.replMode {
			fmt.Fprintln(in.stdout, stringify(v))
		}
		return stmtResultNone{}, nil
	case *ast.PrintStmt:
		v, err := in.evalExpr(s.X)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(in.stdout, stringify(v))
		return stmtResultNone{}, nil
	case *ast.VarStmt:
		var v Value
		if s.Initializer != nil {
			var err error
			v, err = in.evalExpr(s.Initializer)
			if err != nil {
				return nil, err
			}
		}
		in.env.define(s.Name.Lexeme, v)
		return stmtResultNone{}, nil
	case *ast.BlockStmt:
		return in.execBlockStmts(s.Stmts, newEnvironment(in.env))
	case *ast.IfStmt:
		cond, err := in.evalExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			return in.execStmt(s.Then)
		} else if s.Else != nil {
			return in.execStmt(s.Else)
		}
		return stmtResultNone{}, nil
	case *ast.WhileStmt:
		for {
			cond, err := in.evalExpr(s.Cond)
			if err != nil {
				return nil, err
			}
			if !isTruthy(cond) {
				return stmtResultNone{}, nil
			}
			result, err := in.execStmt(s.Body)
			if err != nil {
				return nil, err
			}
			switch result.(type) {
			case stmtResultBreak:
				return stmtResultNone{}, nil
			case stmtResultReturn:
				return result, nil
			}
			// stmtResultNone and stmtResultContinue both run the increment (if this is a desugared for loop) and
			// fall through to the next condition check.
			if s.Increment != nil {
				if _, err := in.evalExpr(s.Increment); err != nil {
					return nil, err
				}
			}
		}
	case *ast.BreakStmt:
		return stmtResultBreak{}, nil
	case *ast.ContinueStmt:
		return stmtResultContinue{}, nil
	case *ast.FunctionStmt:
		fn := newFunctionFromStmt(s, in.env, false)
		in.env.define(s.Name.Lexeme, fn)
		return stmtResultNone{}, nil
	case *ast.ReturnStmt:
		var v Value
		if s.Value != nil {
			var err error
			v, err = in.evalExpr(s.Value)
			if err != nil {
				return nil, err
			}
		}
		return stmtResultReturn{Value: v}, nil
	case *ast.ClassStmt:
		return in.execClassStmt(s)
	case *ast.IllegalStmt:
		return stmtResultNone{}, nil
	default:
		return stmtResultNone{}, nil
	}
}

// execBlockStmts executes stmts against env, restoring the interpreter's previous environment on every exit path
// (normal completion, an unwinding break/continue/return, or a runtime error) per the §5 invariant.
func (in *Interpreter) execBlockStmts(stmts []ast.Stmt, env *environment) (stmtResult, error) {
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	for _, stmt := range stmts {
		result, err := in.execStmt(stmt)
		if err != nil {
			return nil, err
		}
		if _, ok := result.(stmtResultNone); !ok {
			return result, nil
		}
	}
	return stmtResultNone{}, nil
}

func (in *Interpreter) execClassStmt(s *ast.ClassStmt) (stmtResult, error) {
	var superclass *LoxClass
	if s.Superclass != nil {
		v, err := in.evalExpr(s.Superclass)
		if err != nil {
			return nil, err
		}
		sc, ok := v.(*LoxClass)
		if !ok {
			return nil, newRuntimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	in.env.define(s.Name.Lexeme, nil) // allow self-reference inside method bodies

	methodEnv := in.env
	if superclass != nil {
		methodEnv = newEnvironment(in.env)
		methodEnv.define("super", superclass)
	}

	methods := map[string]*LoxFunction{}
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = newFunctionFromStmt(m, methodEnv, m.Name.Lexeme == "init")
	}

	class := &LoxClass{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	in.env.assign(s.Name.Lexeme, class)
	return stmtResultNone{}, nil
}

func (in *Interpreter) evalExpr(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil
	case *ast.Variable:
		return in.lookUpVariable(e, e.Name)
	case *ast.Assign:
		v, err := in.evalExpr(e.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := in.resolutions[e]; ok {
			in.env.assignAt(depth, e.Name.Lexeme, v)
		} else if !in.globals.assign(e.Name.Lexeme, v) {
			return nil, newRuntimeError(e.Name, "Undefined variable '%s'.", e.Name.Lexeme)
		}
		return v, nil
	case *ast.Unary:
		return in.evalUnary(e)
	case *ast.Binary:
		return in.evalBinary(e)
	case *ast.Logical:
		return in.evalLogical(e)
	case *ast.Ternary:
		cond, err := in.evalExpr(e.Cond)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			return in.evalExpr(e.Then)
		}
		return in.evalExpr(e.Else)
	case *ast.Grouping:
		return in.evalExpr(e.Inner)
	case *ast.Call:
		return in.evalCall(e)
	case *ast.Get:
		return in.evalGet(e)
	case *ast.Set:
		return in.evalSet(e)
	case *ast.This:
		return in.lookUpVariable(e, e.Keyword)
	case *ast.Super:
		return in.evalSuper(e)
	case *ast.FunctionExpr:
		return newFunctionFromExpr(e, in.env), nil
	default:
		return nil, fmt.Errorf("interpreter: unhandled expression type %T", expr)
	}
}

// lookUpVariable implements §4.4.3: a resolved node is read from the recorded depth (and is guaranteed to be
// present there); an unresolved node is read from globals, erroring if absent.
func (in *Interpreter) lookUpVariable(e ast.Expr, name token.Token) (Value, error) {
	if depth, ok := in.resolutions[e]; ok {
		return in.env.getAt(depth, name.Lexeme), nil
	}
	v, ok := in.globals.get(name.Lexeme)
	if !ok {
		return nil, newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
	}
	return v, nil
}

func isTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

func isEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
