package interpreter

import (
	"math"

	"github.com/ckoval/golox/ast"
)

func (in *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	right, err := in.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Lexeme {
	case "-":
		n, ok := right.(float64)
		if !ok {
			return nil, newRuntimeError(e.Op, "Operand must be a number.")
		}
		return -n, nil
	case "!":
		return !isTruthy(right), nil
	default:
		return nil, newRuntimeError(e.Op, "Unknown unary operator %m.", e.Op.Type)
	}
}

func (in *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := in.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Lexeme {
	case "+":
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, newRuntimeError(e.Op, "Operands must be two numbers or two strings.")
	case "-":
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Op, "Operands must be numbers.")
		}
		return ln - rn, nil
	case "*":
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Op, "Operands must be numbers.")
		}
		return ln * rn, nil
	case "/":
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Op, "Operands must be numbers.")
		}
		return ln / rn, nil
	case "%":
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Op, "Operands must be numbers.")
		}
		return math.Mod(ln, rn), nil
	case ">":
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Op, "Operands must be numbers.")
		}
		return ln > rn, nil
	case ">=":
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Op, "Operands must be numbers.")
		}
		return ln >= rn, nil
	case "<":
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Op, "Operands must be numbers.")
		}
		return ln < rn, nil
	case "<=":
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Op, "Operands must be numbers.")
		}
		return ln <= rn, nil
	case "==":
		return isEqual(left, right), nil
	case "!=":
		return !isEqual(left, right), nil
	default:
		return nil, newRuntimeError(e.Op, "Unknown binary operator %m.", e.Op.Type)
	}
}

func numberOperands(left, right Value) (float64, float64, bool) {
	ln, ok := left.(float64)
	if !ok {
		return 0, 0, false
	}
	rn, ok := right.(float64)
	if !ok {
		return 0, 0, false
	}
	return ln, rn, true
}

func (in *Interpreter) evalLogical(e *ast.Logical) (Value, error) {
	left, err := in.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Lexeme == "or" {
		if isTruthy(left) {
			return left, nil
		}
	} else {
		if !isTruthy(left) {
			return left, nil
		}
	}
	return in.evalExpr(e.Right)
}

func (in *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := in.evalExpr(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(e.ClosingParen, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(e.ClosingParen, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	if !in.calls.push(e.ClosingParen) {
		return nil, newRuntimeError(e.ClosingParen, "Stack overflow.")
	}
	defer in.calls.pop()

	return fn.Call(in, e.ClosingParen, args)
}

func (in *Interpreter) evalGet(e *ast.Get) (Value, error) {
	obj, err := in.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*LoxInstance)
	if !ok {
		return nil, newRuntimeError(e.Name, "Only instances have properties.")
	}
	v, ok := instance.get(e.Name.Lexeme)
	if !ok {
		return nil, newRuntimeError(e.Name, "Undefined property '%s'.", e.Name.Lexeme)
	}
	return v, nil
}

func (in *Interpreter) evalSet(e *ast.Set) (Value, error) {
	obj, err := in.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*LoxInstance)
	if !ok {
		return nil, newRuntimeError(e.Name, "Only instances have fields.")
	}
	v, err := in.evalExpr(e.Value)
	if err != nil {
		return nil, err
	}
	instance.set(e.Name.Lexeme, v)
	return v, nil
}

func (in *Interpreter) evalSuper(e *ast.Super) (Value, error) {
	depth := in.resolutions[e]
	superVal := in.env.getAt(depth, "super")
	super, _ := superVal.(*LoxClass)

	// "this" is always defined one scope closer to the use site than "super".
	instance, _ := in.env.getAt(depth-1, "this").(*LoxInstance)

	method, ok := super.findMethod(e.Method.Lexeme)
	if !ok {
		return nil, newRuntimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.bind(instance), nil
}
