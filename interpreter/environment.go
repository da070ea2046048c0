package interpreter

// environment is a node in a singly-linked chain of lexical scopes. Chains form a DAG because closures capture an
// enclosing node that may outlive its creator; a node is kept alive by shared ownership for as long as any closure
// or active call frame references it.
type environment struct {
	bindings  map[string]Value
	enclosing *environment
}

func newEnvironment(enclosing *environment) *environment {
	return &environment{bindings: map[string]Value{}, enclosing: enclosing}
}

// define binds name to value in this environment, overwriting any existing binding. Used for declarations, which
// are allowed to shadow or redefine within the same scope (the resolver is what rejects illegal redeclaration).
func (e *environment) define(name string, value Value) {
	e.bindings[name] = value
}

// ancestor returns the environment depth scopes up the chain from e.
func (e *environment) ancestor(depth int) *environment {
	env := e
	for range depth {
		env = env.enclosing
	}
	return env
}

// getAt returns the binding for name at exactly depth scopes up the chain. The name is guaranteed to be present;
// absence indicates a bug in the resolver or evaluator, not a user-facing error.
func (e *environment) getAt(depth int, name string) Value {
	v, ok := e.ancestor(depth).bindings[name]
	if !ok {
		panic("interpreter: resolved variable " + name + " missing from its resolved scope")
	}
	return v
}

func (e *environment) assignAt(depth int, name string, value Value) {
	e.ancestor(depth).bindings[name] = value
}

// get looks up name starting at e and walking out through enclosing scopes, returning ok=false if it is never
// found. Used only for unresolved (global) lookups; resolved lookups use getAt.
func (e *environment) get(name string) (Value, bool) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// assign walks e and its enclosing scopes looking for an existing binding of name to overwrite, returning
// ok=false if none is found.
func (e *environment) assign(name string, value Value) bool {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.bindings[name]; ok {
			env.bindings[name] = value
			return true
		}
	}
	return false
}
