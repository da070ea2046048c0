// Package parser implements a recursive-descent parser for Lox source code, with panic-mode error recovery.
package parser

import (
	"github.com/ckoval/golox/ast"
	"github.com/ckoval/golox/internal/loxerr"
	"github.com/ckoval/golox/scanner"
	"github.com/ckoval/golox/token"
)

const maxArgs = 255

// Parse parses the contents of a source file into an [ast.Program]. Syntax errors are reported to errs; if any
// occurred, errs.SyntaxErrorSeen is true and the returned Program may be incomplete.
func Parse(name string, src []byte, errs *loxerr.Reporter) *ast.Program {
	sc, file := scanner.New(name, src, errs)
	p := &parser{tokens: sc.Scan(), errs: errs}
	return p.parseProgram(file)
}

type parser struct {
	tokens []token.Token
	pos    int
	errs   *loxerr.Reporter
}

// unwind is panicked by expect/parsePrimary on a syntax error, and recovered by safeParseDecl which then
// synchronizes to the next statement boundary.
type unwind struct{}

func (p *parser) cur() token.Token  { return p.tokens[p.pos] }
func (p *parser) atEnd() bool       { return p.cur().Type == token.EOF }
func (p *parser) check(t token.Type) bool {
	return p.cur().Type == t
}

func (p *parser) advance() token.Token {
	tok := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) expect(t token.Type, msg string, args ...any) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.errs.SyntaxErrorAt(p.cur(), msg, args...)
	panic(unwind{})
}

func (p *parser) errorAt(tok token.Token, format string, args ...any) {
	p.errs.SyntaxErrorAt(tok, format, args...)
}

func (p *parser) parseProgram(file *token.File) *ast.Program {
	prog := &ast.Program{}
	for !p.atEnd() {
		if stmt := p.safeParseDecl(); stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
		}
	}
	prog.EndPos = p.cur().Start()
	return prog
}

// safeParseDecl parses a single declaration, recovering via synchronize if a syntax error panics out of it.
func (p *parser) safeParseDecl() (stmt ast.Stmt) {
	from := p.cur()
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unwind); !ok {
				panic(r)
			}
			to := p.tokens[max(0, p.pos-1)]
			stmt = &ast.IllegalStmt{From: from, To: to}
			p.synchronize()
		}
	}()
	return p.parseDecl()
}

func (p *parser) synchronize() {
	for !p.atEnd() {
		if p.tokens[max(0, p.pos-1)].Type == token.Semicolon {
			return
		}
		switch p.cur().Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

func (p *parser) parseDecl() ast.Stmt {
	switch {
	case p.check(token.Class):
		return p.parseClassDecl()
	case p.check(token.Fun) && p.peekIsFunctionDecl():
		return p.parseFunDecl()
	case p.check(token.Var):
		return p.parseVarDecl()
	default:
		return p.parseStmt()
	}
}

// peekIsFunctionDecl reports whether the upcoming "fun" begins a named declaration (fun NAME (...)) rather than an
// anonymous function expression (fun (...)). Only meaningful when p.cur().Type == token.Fun.
func (p *parser) peekIsFunctionDecl() bool {
	return p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Type == token.Ident
}

func (p *parser) parseClassDecl() ast.Stmt {
	kw := p.advance() // "class"
	name := p.expect(token.Ident, "Expect class name.")
	var superclass *ast.Variable
	if p.match(token.Less) {
		superName := p.expect(token.Ident, "Expect superclass name.")
		superclass = &ast.Variable{Name: superName}
	}
	p.expect(token.LeftBrace, "Expect '{' before class body.")
	var methods []*ast.FunctionStmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		methods = append(methods, p.parseFunction("method"))
	}
	rbrace := p.expect(token.RightBrace, "Expect '}' after class body.")
	return &ast.ClassStmt{Keyword: kw, Name: name, Superclass: superclass, Methods: methods, RightBrace: rbrace}
}

func (p *parser) parseFunDecl() ast.Stmt {
	p.advance() // "fun"
	return p.parseFunction("function")
}

func (p *parser) parseFunction(kind string) *ast.FunctionStmt {
	kw := p.tokens[max(0, p.pos-1)]
	name := p.expect(token.Ident, "Expect %s name.", kind)
	params, body, endPos := p.parseParamsAndBody(kind)
	return &ast.FunctionStmt{Keyword: kw, Name: name, Params: params, Body: body, EndPos: endPos}
}

func (p *parser) parseParamsAndBody(kind string) ([]token.Token, []ast.Stmt, token.Position) {
	p.expect(token.LeftParen, "Expect '(' after %s name.", kind)
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.cur(), "Can't have more than %d parameters.", maxArgs)
			}
			params = append(params, p.expect(token.Ident, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RightParen, "Expect ')' after parameters.")
	p.expect(token.LeftBrace, "Expect '{' before %s body.", kind)
	body := p.parseBlockStmts()
	endPos := p.tokens[max(0, p.pos-1)].End()
	return params, body, endPos
}

func (p *parser) parseVarDecl() ast.Stmt {
	kw := p.advance() // "var"
	name := p.expect(token.Ident, "Expect variable name.")
	var init ast.Expr
	if p.match(token.Equal) {
		init = p.parseExpr()
	}
	end := p.expect(token.Semicolon, "Expect ';' after variable declaration.")
	return &ast.VarStmt{Keyword: kw, Name: name, Initializer: init, EndPos: end.End()}
}

func (p *parser) parseStmt() ast.Stmt {
	switch {
	case p.check(token.For):
		return p.parseForStmt()
	case p.check(token.If):
		return p.parseIfStmt()
	case p.check(token.Print):
		return p.parsePrintStmt()
	case p.check(token.Return):
		return p.parseReturnStmt()
	case p.check(token.While):
		return p.parseWhileStmt()
	case p.check(token.Break):
		return p.parseBreakStmt()
	case p.check(token.Continue):
		return p.parseContinueStmt()
	case p.check(token.LeftBrace):
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseBlock() ast.Stmt {
	lbrace := p.advance()
	stmts := p.parseBlockStmts()
	rbrace := p.tokens[max(0, p.pos-1)]
	return &ast.BlockStmt{LeftBrace: lbrace, Stmts: stmts, RightBrace: rbrace}
}

func (p *parser) parseBlockStmts() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		stmts = append(stmts, p.safeParseDecl())
	}
	p.expect(token.RightBrace, "Expect '}' after block.")
	return stmts
}

// parseForStmt desugars for(init; cond; incr) body into
// Block([init, While(cond_or_true, body, incr)]), where incr is carried on the WhileStmt itself rather than
// appended into body: a continue inside body must still run incr before the next condition check, and a statement
// placed after body in the same block would be skipped when continue unwinds that block. No dedicated For AST node
// exists.
func (p *parser) parseForStmt() ast.Stmt {
	kw := p.advance() // "for"
	p.expect(token.LeftParen, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.match(token.Semicolon):
		init = nil
	case p.check(token.Var):
		init = p.parseVarDecl()
	default:
		init = p.parseExprStmt()
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.parseExpr()
	}
	p.expect(token.Semicolon, "Expect ';' after loop condition.")

	var incr ast.Expr
	if !p.check(token.RightParen) {
		incr = p.parseExpr()
	}
	rparen := p.expect(token.RightParen, "Expect ')' after for clauses.")

	body := p.parseStmt()

	if cond == nil {
		cond = &ast.Literal{Token: kw, Value: true}
	}
	loop := &ast.WhileStmt{Keyword: kw, Cond: cond, Body: body, Increment: incr}
	if init != nil {
		return &ast.BlockStmt{LeftBrace: kw, Stmts: []ast.Stmt{init, loop}, RightBrace: rparen}
	}
	return loop
}

func (p *parser) parseIfStmt() ast.Stmt {
	kw := p.advance() // "if"
	p.expect(token.LeftParen, "Expect '(' after 'if'.")
	cond := p.parseExpr()
	p.expect(token.RightParen, "Expect ')' after if condition.")
	then := p.parseStmt()
	var els ast.Stmt
	if p.match(token.Else) {
		els = p.parseStmt()
	}
	return &ast.IfStmt{Keyword: kw, Cond: cond, Then: then, Else: els}
}

func (p *parser) parsePrintStmt() ast.Stmt {
	kw := p.advance() // "print"
	x := p.parseExpr()
	end := p.expect(token.Semicolon, "Expect ';' after value.")
	return &ast.PrintStmt{Keyword: kw, X: x, EndPos: end.End()}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	kw := p.advance() // "return"
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.parseExpr()
	}
	end := p.expect(token.Semicolon, "Expect ';' after return value.")
	return &ast.ReturnStmt{Keyword: kw, Value: value, EndPos: end.End()}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	kw := p.advance() // "while"
	p.expect(token.LeftParen, "Expect '(' after 'while'.")
	cond := p.parseExpr()
	p.expect(token.RightParen, "Expect ')' after condition.")
	body := p.parseStmt()
	return &ast.WhileStmt{Keyword: kw, Cond: cond, Body: body}
}

func (p *parser) parseBreakStmt() ast.Stmt {
	kw := p.advance()
	end := p.expect(token.Semicolon, "Expect ';' after 'break'.")
	return &ast.BreakStmt{Keyword: kw, EndPos: end.End()}
}

func (p *parser) parseContinueStmt() ast.Stmt {
	kw := p.advance()
	end := p.expect(token.Semicolon, "Expect ';' after 'continue'.")
	return &ast.ContinueStmt{Keyword: kw, EndPos: end.End()}
}

func (p *parser) parseExprStmt() ast.Stmt {
	x := p.parseExpr()
	end := p.expect(token.Semicolon, "Expect ';' after expression.")
	return &ast.ExpressionStmt{X: x, EndPos: end.End()}
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

// parseAssignment first parses the LHS as a general expression, then, on seeing '=', re-typechecks it:
// Variable -> Assign, Get -> Set, anything else -> syntax error at the '=' token. The malformed expression is
// discarded but parsing continues.
func (p *parser) parseAssignment() ast.Expr {
	expr := p.parseTernary()
	if p.check(token.Equal) {
		eq := p.advance()
		value := p.parseAssignment()
		switch e := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: e.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: e.Object, Name: e.Name, Value: value}
		default:
			p.errorAt(eq, "Invalid assignment target.")
			return expr
		}
	}
	return expr
}

// parseTernary parses cond ? then : else, right-associative, below logic_or in precedence. This is a supplemental
// production not present in the base grammar.
func (p *parser) parseTernary() ast.Expr {
	cond := p.parseOr()
	if p.match(token.Question) {
		then := p.parseAssignment()
		p.expect(token.Colon, "Expect ':' after '?' branch of ternary expression.")
		els := p.parseTernary()
		return &ast.Ternary{Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(token.Or) {
		op := p.advance()
		right := p.parseAnd()
		left = &ast.Logical{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(token.And) {
		op := p.advance()
		right := p.parseEquality()
		left = &ast.Logical{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.check(token.BangEqual) || p.check(token.EqualEqual) {
		op := p.advance()
		right := p.parseComparison()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *parser) parseComparison() ast.Expr {
	left := p.parseTerm()
	for p.check(token.Greater) || p.check(token.GreaterEqual) || p.check(token.Less) || p.check(token.LessEqual) {
		op := p.advance()
		right := p.parseTerm()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	for p.check(token.Minus) || p.check(token.Plus) {
		op := p.advance()
		right := p.parseFactor()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *parser) parseFactor() ast.Expr {
	left := p.parseUnary()
	for p.check(token.Slash) || p.check(token.Asterisk) || p.check(token.Percent) {
		op := p.advance()
		right := p.parseUnary()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *parser) parseUnary() ast.Expr {
	if p.check(token.Bang) || p.check(token.Minus) {
		op := p.advance()
		right := p.parseUnary()
		return &ast.Unary{Op: op, Right: right}
	}
	return p.parseCall()
}

func (p *parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.check(token.LeftParen):
			p.advance()
			expr = p.finishCall(expr)
		case p.check(token.Dot):
			p.advance()
			name := p.expect(token.Ident, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.cur(), "Can't have more than %d arguments.", maxArgs)
			}
			args = append(args, p.parseExpr())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	rparen := p.expect(token.RightParen, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, ClosingParen: rparen, Args: args}
}

func (p *parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case token.False:
		p.advance()
		return &ast.Literal{Token: tok, Value: false}
	case token.True:
		p.advance()
		return &ast.Literal{Token: tok, Value: true}
	case token.Nil:
		p.advance()
		return &ast.Literal{Token: tok, Value: nil}
	case token.Number, token.String:
		p.advance()
		return &ast.Literal{Token: tok, Value: tok.Literal}
	case token.This:
		p.advance()
		return &ast.This{Keyword: tok}
	case token.Super:
		p.advance()
		p.expect(token.Dot, "Expect '.' after 'super'.")
		method := p.expect(token.Ident, "Expect superclass method name.")
		return &ast.Super{Keyword: tok, Method: method}
	case token.Ident:
		p.advance()
		return &ast.Variable{Name: tok}
	case token.LeftParen:
		p.advance()
		inner := p.parseExpr()
		rparen := p.expect(token.RightParen, "Expect ')' after expression.")
		return &ast.Grouping{LeftParen: tok, Inner: inner, RightParen: rparen}
	case token.Fun:
		return p.parseFunctionExpr()
	default:
		p.errorAt(tok, "Expect expression.")
		panic(unwind{})
	}
}

// parseFunctionExpr parses an anonymous function expression: fun (params) { body }. Supplemental production not
// present in the base grammar.
func (p *parser) parseFunctionExpr() ast.Expr {
	kw := p.advance() // "fun"
	params, body, endPos := p.parseParamsAndBody("function")
	return &ast.FunctionExpr{Keyword: kw, Params: params, Body: body, EndPos: endPos}
}
