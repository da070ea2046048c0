package interpreter

import (
	"fmt"
	"strconv"

	"github.com/ckoval/golox/ast"
	"github.com/ckoval/golox/token"
)

// Value is a Lox runtime value: nil, bool, float64, string, or a Callable (NativeFn, *LoxFunction, *LoxClass), or
// *LoxInstance.
type Value any

// Callable is implemented by every Value variant which can appear as the callee of a Call expression.
type Callable interface {
	Arity() int
	Call(in *Interpreter, callSite token.Token, args []Value) (Value, error)
	String() string
}

// NativeFn is a built-in function implemented in Go, such as clock.
type NativeFn struct {
	Name    string
	NumArgs int
	Fn      func(args []Value) Value
}

func (f *NativeFn) Arity() int { return f.NumArgs }

func (f *NativeFn) Call(in *Interpreter, callSite token.Token, args []Value) (Value, error) {
	return f.Fn(args), nil
}

func (f *NativeFn) String() string { return "<native fn>" }

// LoxFunction is the runtime representation of a Lox function or method: either a named declaration
// (ast.FunctionStmt) or an anonymous function expression (ast.FunctionExpr). It is immutable after construction.
type LoxFunction struct {
	name          string // "" for an anonymous function expression
	params        []token.Token
	body          []ast.Stmt
	closure       *environment
	isInitializer bool
}

func newFunctionFromStmt(decl *ast.FunctionStmt, closure *environment, isInitializer bool) *LoxFunction {
	return &LoxFunction{name: decl.Name.Lexeme, params: decl.Params, body: decl.Body, closure: closure, isInitializer: isInitializer}
}

func newFunctionFromExpr(decl *ast.FunctionExpr, closure *environment) *LoxFunction {
	return &LoxFunction{params: decl.Params, body: decl.Body, closure: closure}
}

func (f *LoxFunction) Arity() int { return len(f.params) }

// bind returns a copy of f whose closure additionally defines "this" as instance, used when a method is looked up
// off an instance so that later calls remain bound to it even if stored elsewhere.
func (f *LoxFunction) bind(instance *LoxInstance) *LoxFunction {
	env := newEnvironment(f.closure)
	env.define("this", instance)
	return &LoxFunction{name: f.name, params: f.params, body: f.body, closure: env, isInitializer: f.isInitializer}
}

func (f *LoxFunction) Call(in *Interpreter, callSite token.Token, args []Value) (Value, error) {
	env := newEnvironment(f.closure)
	for i, param := range f.params {
		env.define(param.Lexeme, args[i])
	}

	result, err := in.execBlockStmts(f.body, env)
	if err != nil {
		return nil, err
	}

	if ret, ok := result.(stmtResultReturn); ok {
		if f.isInitializer {
			return f.closure.getAt(0, "this"), nil
		}
		return ret.Value, nil
	}

	if f.isInitializer {
		return f.closure.getAt(0, "this"), nil
	}
	return nil, nil
}

func (f *LoxFunction) String() string {
	if f.name == "" {
		return "<fn anonymous>"
	}
	return fmt.Sprintf("<fn %s>", f.name)
}

// LoxClass is the runtime representation of a class declaration. Immutable after construction.
type LoxClass struct {
	Name       string
	Superclass *LoxClass
	Methods    map[string]*LoxFunction
}

// findMethod looks up name on c, then walks the superclass chain.
func (c *LoxClass) findMethod(name string) (*LoxFunction, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.findMethod(name)
	}
	return nil, false
}

func (c *LoxClass) Arity() int {
	if init, ok := c.findMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *LoxClass) Call(in *Interpreter, callSite token.Token, args []Value) (Value, error) {
	instance := &LoxInstance{class: c, fields: map[string]Value{}}
	if init, ok := c.findMethod("init"); ok {
		if _, err := init.bind(instance).Call(in, callSite, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *LoxClass) String() string { return c.Name }

// LoxInstance is a runtime instance of a LoxClass, carrying its own mutable field mapping.
type LoxInstance struct {
	class  *LoxClass
	fields map[string]Value
}

func (i *LoxInstance) String() string { return fmt.Sprintf("%s instance", i.class.Name) }

// get reads a property off the instance: fields shadow methods. A returned method is bound to i.
func (i *LoxInstance) get(name string) (Value, bool) {
	if v, ok := i.fields[name]; ok {
		return v, true
	}
	if m, ok := i.class.findMethod(name); ok {
		return m.bind(i), true
	}
	return nil, false
}

func (i *LoxInstance) set(name string, value Value) {
	i.fields[name] = value
}

// stringify renders v the way print and the REPL's bare-expression echo do.
func stringify(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
