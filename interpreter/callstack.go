package interpreter

import "github.com/ckoval/golox/token"

// maxCallDepth bounds nested calls so that a runaway recursive Lox program produces a reported runtime error
// instead of crashing the host process with a Go stack overflow.
const maxCallDepth = 1000

// callStack tracks the nesting depth of in-progress calls of any Callable (Lox functions, classes and native
// functions alike), recording the call site of each frame so
// that a stack-depth error can be attributed to a line.
type callStack struct {
	sites []token.Token
}

func (c *callStack) push(site token.Token) bool {
	if len(c.sites) >= maxCallDepth {
		return false
	}
	c.sites = append(c.sites, site)
	return true
}

func (c *callStack) pop() {
	c.sites = c.sites[:len(c.sites)-1]
}
