package interp

import (
	"math"

	"github.com/rcrsr/rill/internal/ast"
	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/runtime"
)

// evalBinary implements the infix operators. && and || short-circuit;
// == and != use deep equality with strict type equality; arithmetic and
// ordering require matching operand kinds.
func (i *Interpreter) evalBinary(n *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	if n.Op == "&&" || n.Op == "||" {
		return i.evalLogical(n, env)
	}

	left, err := i.eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return runtime.Bool(runtime.DeepEqual(left, right)), nil
	case "!=":
		return runtime.Bool(!runtime.DeepEqual(left, right)), nil
	}

	if ls, ok := left.(*runtime.StringValue); ok {
		if rs, ok := right.(*runtime.StringValue); ok {
			return evalStringOp(n, ls.Value, rs.Value)
		}
	}
	ln, lok := left.(*runtime.NumberValue)
	rn, rok := right.(*runtime.NumberValue)
	if !lok || !rok {
		return nil, rillerr.New(rillerr.RuntimeType, n.Pos(),
			"operator %q requires matching number or string operands, got %s and %s", n.Op, left.Type(), right.Type())
	}
	return evalNumberOp(n, ln.Value, rn.Value)
}

func (i *Interpreter) evalLogical(n *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	truthy := runtime.IsTruthy(left)
	if n.Op == "&&" && !truthy {
		return runtime.False, nil
	}
	if n.Op == "||" && truthy {
		return runtime.True, nil
	}
	right, err := i.eval(n.Right, env)
	if err != nil {
		return nil, err
	}
	return runtime.Bool(runtime.IsTruthy(right)), nil
}

func evalStringOp(n *ast.BinaryExpression, left, right string) (runtime.Value, error) {
	switch n.Op {
	case "+":
		return runtime.String(left + right), nil
	case "<":
		return runtime.Bool(left < right), nil
	case ">":
		return runtime.Bool(left > right), nil
	case "<=":
		return runtime.Bool(left <= right), nil
	case ">=":
		return runtime.Bool(left >= right), nil
	}
	return nil, rillerr.New(rillerr.RuntimeType, n.Pos(), "operator %q is not defined for strings", n.Op)
}

func evalNumberOp(n *ast.BinaryExpression, left, right float64) (runtime.Value, error) {
	switch n.Op {
	case "+":
		return runtime.Number(left + right), nil
	case "-":
		return runtime.Number(left - right), nil
	case "*":
		return runtime.Number(left * right), nil
	case "/":
		if right == 0 {
			return nil, rillerr.New(rillerr.RuntimeValidation, n.Pos(), "division by zero")
		}
		return runtime.Number(left / right), nil
	case "%":
		if right == 0 {
			return nil, rillerr.New(rillerr.RuntimeValidation, n.Pos(), "division by zero")
		}
		return runtime.Number(math.Mod(left, right)), nil
	case "<":
		return runtime.Bool(left < right), nil
	case ">":
		return runtime.Bool(left > right), nil
	case "<=":
		return runtime.Bool(left <= right), nil
	case ">=":
		return runtime.Bool(left >= right), nil
	}
	return nil, rillerr.New(rillerr.RuntimeType, n.Pos(), "unknown operator %q", n.Op)
}

func (i *Interpreter) evalUnary(n *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.eval(n.Operand, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		num, ok := operand.(*runtime.NumberValue)
		if !ok {
			return nil, rillerr.New(rillerr.RuntimeType, n.Pos(), "unary - requires a number, got %s", operand.Type())
		}
		return runtime.Number(-num.Value), nil
	case "!":
		return runtime.Bool(!runtime.IsTruthy(operand)), nil
	}
	return nil, rillerr.New(rillerr.RuntimeType, n.Pos(), "unknown unary operator %q", n.Op)
}
