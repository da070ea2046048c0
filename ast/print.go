package ast

import (
	"fmt"
	"strings"
)

// Print returns a parenthesised, Lisp-like textual representation of n, suitable for debugging and for golden-style
// test assertions over parser output.
func Print(n Node) string {
	var b strings.Builder
	print(&b, n)
	return b.String()
}

func print(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("nil")
	case *Program:
		printParen(b, "program", stmtsToNodes(n.Stmts)...)
	case *Literal:
		fmt.Fprintf(b, "%v", n.Value)
	case *Variable:
		b.WriteString(n.Name.Lexeme)
	case *Assign:
		printParen(b, "=", &Variable{Name: n.Name}, n.Value)
	case *Unary:
		printParen(b, n.Op.Lexeme, n.Right)
	case *Binary:
		printParen(b, n.Op.Lexeme, n.Left, n.Right)
	case *Logical:
		printParen(b, n.Op.Lexeme, n.Left, n.Right)
	case *Ternary:
		printParen(b, "?:", n.Cond, n.Then, n.Else)
	case *Grouping:
		printParen(b, "group", n.Inner)
	case *Call:
		printParen(b, "call", append([]Node{n.Callee}, exprsToNodes(n.Args)...)...)
	case *Get:
		printParen(b, "get", n.Object)
		fmt.Fprintf(b, ".%s", n.Name.Lexeme)
	case *Set:
		printParen(b, "set", n.Object, n.Value)
	case *This:
		b.WriteString("this")
	case *Super:
		fmt.Fprintf(b, "super.%s", n.Method.Lexeme)
	case *FunctionExpr:
		b.WriteString("(fun)")
	case *ExpressionStmt:
		printParen(b, "expr", n.X)
	case *PrintStmt:
		printParen(b, "print", n.X)
	case *VarStmt:
		if n.Initializer != nil {
			printParen(b, "var", &Variable{Name: n.Name}, n.Initializer)
		} else {
			printParen(b, "var", &Variable{Name: n.Name})
		}
	case *BlockStmt:
		printParen(b, "block", stmtsToNodes(n.Stmts)...)
	case *IfStmt:
		if n.Else != nil {
			printParen(b, "if", n.Cond, n.Then, n.Else)
		} else {
			printParen(b, "if", n.Cond, n.Then)
		}
	case *WhileStmt:
		if n.Increment != nil {
			printParen(b, "while", n.Cond, n.Body, n.Increment)
		} else {
			printParen(b, "while", n.Cond, n.Body)
		}
	case *BreakStmt:
		b.WriteString("break")
	case *ContinueStmt:
		b.WriteString("continue")
	case *FunctionStmt:
		fmt.Fprintf(b, "(fun %s)", n.Name.Lexeme)
	case *ReturnStmt:
		if n.Value != nil {
			printParen(b, "return", n.Value)
		} else {
			b.WriteString("(return)")
		}
	case *ClassStmt:
		fmt.Fprintf(b, "(class %s)", n.Name.Lexeme)
	case *IllegalStmt:
		b.WriteString("(illegal)")
	default:
		fmt.Fprintf(b, "%T", n)
	}
}

func printParen(b *strings.Builder, name string, nodes ...Node) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, n := range nodes {
		b.WriteByte(' ')
		print(b, n)
	}
	b.WriteByte(')')
}

func stmtsToNodes(stmts []Stmt) []Node {
	nodes := make([]Node, len(stmts))
	for i, s := range stmts {
		nodes[i] = s
	}
	return nodes
}

func exprsToNodes(exprs []Expr) []Node {
	nodes := make([]Node, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}
	return nodes
}
