package interp

import (
	"math"
	"strings"

	"github.com/rcrsr/rill/internal/lexer"
	"github.com/rcrsr/rill/internal/runtime"
)

func init() {
	register(runtime.KindString,
		&builtinMethod{name: "upper", arity: 0, fn: stringFn(strings.ToUpper)},
		&builtinMethod{name: "lower", arity: 0, fn: stringFn(strings.ToLower)},
		&builtinMethod{name: "trim", arity: 0, fn: stringFn(strings.TrimSpace)},
		&builtinMethod{name: "len", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				return runtime.Number(float64(len([]rune(recv.(*runtime.StringValue).Value)))), nil
			}},
		&builtinMethod{name: "empty", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				return runtime.Bool(recv.(*runtime.StringValue).Value == ""), nil
			}},
		&builtinMethod{name: "contains", arity: 1,
			fn: func(_ *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error) {
				sub, err := requireString("contains", args[0], pos)
				if err != nil {
					return nil, err
				}
				return runtime.Bool(strings.Contains(recv.(*runtime.StringValue).Value, sub)), nil
			}},
		&builtinMethod{name: "starts_with", arity: 1,
			fn: func(_ *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error) {
				prefix, err := requireString("starts_with", args[0], pos)
				if err != nil {
					return nil, err
				}
				return runtime.Bool(strings.HasPrefix(recv.(*runtime.StringValue).Value, prefix)), nil
			}},
		&builtinMethod{name: "ends_with", arity: 1,
			fn: func(_ *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error) {
				suffix, err := requireString("ends_with", args[0], pos)
				if err != nil {
					return nil, err
				}
				return runtime.Bool(strings.HasSuffix(recv.(*runtime.StringValue).Value, suffix)), nil
			}},
		&builtinMethod{name: "replace", arity: 2,
			fn: func(_ *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error) {
				old, err := requireString("replace", args[0], pos)
				if err != nil {
					return nil, err
				}
				repl, err := requireString("replace", args[1], pos)
				if err != nil {
					return nil, err
				}
				// Replaces the first occurrence only.
				return runtime.String(strings.Replace(recv.(*runtime.StringValue).Value, old, repl, 1)), nil
			}},
		&builtinMethod{name: "split", arity: 1,
			fn: func(_ *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error) {
				sep, err := requireString("split", args[0], pos)
				if err != nil {
					return nil, err
				}
				parts := strings.Split(recv.(*runtime.StringValue).Value, sep)
				elements := make([]runtime.Value, len(parts))
				for i, part := range parts {
					elements[i] = runtime.String(part)
				}
				return runtime.NewList(elements...), nil
			}},
		&builtinMethod{name: "pad_start", arity: 2, fn: padFn("pad_start", true)},
		&builtinMethod{name: "pad_end", arity: 2, fn: padFn("pad_end", false)},
	)

	register(runtime.KindNumber,
		&builtinMethod{name: "abs", arity: 0, fn: numberFn(math.Abs)},
		&builtinMethod{name: "floor", arity: 0, fn: numberFn(math.Floor)},
		&builtinMethod{name: "ceil", arity: 0, fn: numberFn(math.Ceil)},
		&builtinMethod{name: "round", arity: 0, fn: numberFn(math.Round)},
	)
}

func stringFn(fn func(string) string) func(*Interpreter, runtime.Value, []runtime.Value, lexer.Position) (runtime.Value, error) {
	return func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
		return runtime.String(fn(recv.(*runtime.StringValue).Value)), nil
	}
}

func numberFn(fn func(float64) float64) func(*Interpreter, runtime.Value, []runtime.Value, lexer.Position) (runtime.Value, error) {
	return func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
		return runtime.Number(fn(recv.(*runtime.NumberValue).Value)), nil
	}
}

func padFn(name string, start bool) func(*Interpreter, runtime.Value, []runtime.Value, lexer.Position) (runtime.Value, error) {
	return func(_ *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error) {
		width, err := requireInt(name, args[0], pos)
		if err != nil {
			return nil, err
		}
		pad, err := requireString(name, args[1], pos)
		if err != nil {
			return nil, err
		}
		s := recv.(*runtime.StringValue).Value
		if pad == "" || len([]rune(s)) >= width {
			return runtime.String(s), nil
		}
		var sb strings.Builder
		padRunes := []rune(pad)
		for n, written := len([]rune(s)), 0; n < width; n, written = n+1, written+1 {
			sb.WriteRune(padRunes[written%len(padRunes)])
		}
		if start {
			return runtime.String(sb.String() + s), nil
		}
		return runtime.String(s + sb.String()), nil
	}
}
