// Package resolver implements the static scope-analysis pass which runs between parsing and evaluation. It binds
// every local variable reference to a numeric scope depth and rejects a handful of statically-detectable misuses.
package resolver

import (
	"github.com/ckoval/golox/ast"
	"github.com/ckoval/golox/internal/loxerr"
	"github.com/ckoval/golox/internal/stack"
	"github.com/ckoval/golox/token"
)

// ResolutionMap maps a Variable, Assign, This, or Super expression node to the number of enclosing scopes to skip
// when looking up its name. An absent entry means "resolve as global".
type ResolutionMap map[ast.Expr]int

type functionType int

const (
	noFunction functionType = iota
	function
	method
	initializer
)

type classType int

const (
	noClass classType = iota
	class
	subclass
)

// Resolve walks prog and returns the resolution map consumed by the evaluator. Errors are reported to errs; if any
// occurred, errs.SyntaxErrorSeen is true and the evaluator must not run.
func Resolve(prog *ast.Program, errs *loxerr.Reporter) ResolutionMap {
	r := &resolver{
		errs:            errs,
		resolutions:     ResolutionMap{},
		currentFunction: noFunction,
		currentClass:    noClass,
	}
	for _, stmt := range prog.Stmts {
		r.resolveStmt(stmt)
	}
	return r.resolutions
}

// scope maps a name to whether its declaration has finished being defined (true) or is still being initialized
// (false). The outermost, global scope is never pushed onto scopes; globals resolve dynamically at runtime.
type scope map[string]bool

type resolver struct {
	errs            *loxerr.Reporter
	scopes          stack.Stack[scope]
	resolutions     ResolutionMap
	currentFunction functionType
	currentClass    classType
	loopDepth       int
}

func (r *resolver) beginScope() {
	r.scopes.Push(scope{})
}

func (r *resolver) endScope() {
	r.scopes.Pop()
}

func (r *resolver) declare(name token.Token) {
	if r.scopes.Empty() {
		return
	}
	sc := r.scopes.Peek()
	if _, ok := sc[name.Lexeme]; ok {
		r.errs.SyntaxErrorAt(name, "Already a variable with this name in this scope.")
	}
	sc[name.Lexeme] = false
}

func (r *resolver) define(name token.Token) {
	if r.scopes.Empty() {
		return
	}
	r.scopes.Peek()[name.Lexeme] = true
}

// resolveLocal walks the scope stack from innermost outward, recording the depth at which name is found.
func (r *resolver) resolveLocal(e ast.Expr, name token.Token) {
	for depth := 0; depth < r.scopes.Len(); depth++ {
		if _, ok := r.scopes.At(depth)[name.Lexeme]; ok {
			r.resolutions[e] = depth
			return
		}
	}
	// Unresolved: implies global.
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		r.resolveExpr(s.X)
	case *ast.PrintStmt:
		r.resolveExpr(s.X)
	case *ast.VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.BlockStmt:
		r.beginScope()
		for _, st := range s.Stmts {
			r.resolveStmt(st)
		}
		r.endScope()
	case *ast.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Cond)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--
		if s.Increment != nil {
			r.resolveExpr(s.Increment)
		}
	case *ast.BreakStmt:
		if r.loopDepth == 0 {
			r.errs.SyntaxErrorAt(s.Keyword, "Can't use 'break' outside of a loop.")
		}
	case *ast.ContinueStmt:
		if r.loopDepth == 0 {
			r.errs.SyntaxErrorAt(s.Keyword, "Can't use 'continue' outside of a loop.")
		}
	case *ast.FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Params, s.Body, function)
	case *ast.ReturnStmt:
		if r.currentFunction == noFunction {
			r.errs.SyntaxErrorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == initializer {
				r.errs.SyntaxErrorAt(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.ClassStmt:
		r.resolveClass(s)
	case *ast.IllegalStmt:
		// Nothing to resolve: the parser already reported a syntax error for this node.
	}
}

func (r *resolver) resolveClass(s *ast.ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = class
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.errs.SyntaxErrorAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = subclass
		r.resolveExpr(s.Superclass)
		r.beginScope()
		r.scopes.Peek()["super"] = true
	}

	r.beginScope()
	r.scopes.Peek()["this"] = true

	for _, m := range s.Methods {
		ft := method
		if m.Name.Lexeme == "init" {
			ft = initializer
		}
		r.resolveFunction(m.Params, m.Body, ft)
	}

	r.endScope() // this

	if s.Superclass != nil {
		r.endScope() // super
	}
}

func (r *resolver) resolveFunction(params []token.Token, body []ast.Stmt, ft functionType) {
	enclosingFunction, enclosingLoopDepth := r.currentFunction, r.loopDepth
	r.currentFunction, r.loopDepth = ft, 0
	defer func() { r.currentFunction, r.loopDepth = enclosingFunction, enclosingLoopDepth }()

	r.beginScope()
	for _, p := range params {
		r.declare(p)
		r.define(p)
	}
	for _, st := range body {
		r.resolveStmt(st)
	}
	r.endScope()
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		// Nothing to resolve.
	case *ast.Variable:
		if !r.scopes.Empty() {
			if defined, ok := r.scopes.Peek()[e.Name.Lexeme]; ok && !defined {
				r.errs.SyntaxErrorAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Ternary:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *ast.Grouping:
		r.resolveExpr(e.Inner)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.This:
		if r.currentClass == noClass {
			r.errs.SyntaxErrorAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Super:
		switch r.currentClass {
		case noClass:
			r.errs.SyntaxErrorAt(e.Keyword, "Can't use 'super' outside of a class.")
		case class:
			r.errs.SyntaxErrorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.FunctionExpr:
		r.resolveFunction(e.Params, e.Body, function)
	}
}
