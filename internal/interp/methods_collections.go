package interp

import (
	"strings"

	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/lexer"
	"github.com/rcrsr/rill/internal/runtime"
)

func init() {
	register(runtime.KindList,
		&builtinMethod{name: "len", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				return runtime.Number(float64(recv.(*runtime.ListValue).Len())), nil
			}},
		&builtinMethod{name: "empty", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				return runtime.Bool(recv.(*runtime.ListValue).Len() == 0), nil
			}},
		&builtinMethod{name: "has", arity: 1,
			fn: func(_ *Interpreter, recv runtime.Value, args []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				return runtime.Bool(listHas(recv.(*runtime.ListValue), args[0])), nil
			}},
		&builtinMethod{name: "has_any", arity: 1,
			fn: func(_ *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error) {
				needles, err := requireList("has_any", args[0], pos)
				if err != nil {
					return nil, err
				}
				// has_any([]) is false: no needle can match.
				for _, needle := range needles.Elements {
					if listHas(recv.(*runtime.ListValue), needle) {
						return runtime.True, nil
					}
				}
				return runtime.False, nil
			}},
		&builtinMethod{name: "has_all", arity: 1,
			fn: func(_ *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error) {
				needles, err := requireList("has_all", args[0], pos)
				if err != nil {
					return nil, err
				}
				// has_all([]) is vacuously true.
				for _, needle := range needles.Elements {
					if !listHas(recv.(*runtime.ListValue), needle) {
						return runtime.False, nil
					}
				}
				return runtime.True, nil
			}},
		&builtinMethod{name: "first", arity: 0, fn: listEdge("first", 0)},
		&builtinMethod{name: "last", arity: 0, fn: listEdge("last", -1)},
		&builtinMethod{name: "reverse", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				src := recv.(*runtime.ListValue).Elements
				out := make([]runtime.Value, len(src))
				for i, el := range src {
					out[len(src)-1-i] = el
				}
				return runtime.NewList(out...), nil
			}},
		&builtinMethod{name: "join", arity: 1,
			fn: func(_ *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error) {
				sep, err := requireString("join", args[0], pos)
				if err != nil {
					return nil, err
				}
				parts := make([]string, 0, recv.(*runtime.ListValue).Len())
				for _, el := range recv.(*runtime.ListValue).Elements {
					s, err := runtime.Display(el)
					if err != nil {
						return nil, rillerr.New(rillerr.RuntimeType, pos, "%s", err.Error())
					}
					parts = append(parts, s)
				}
				return runtime.String(strings.Join(parts, sep)), nil
			}},
		&builtinMethod{name: "concat", arity: 1,
			fn: func(_ *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error) {
				other, err := requireList("concat", args[0], pos)
				if err != nil {
					return nil, err
				}
				src := recv.(*runtime.ListValue).Elements
				out := make([]runtime.Value, 0, len(src)+other.Len())
				out = append(out, src...)
				out = append(out, other.Elements...)
				return runtime.NewList(out...), nil
			}},
	)

	register(runtime.KindDict,
		&builtinMethod{name: "len", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				return runtime.Number(float64(recv.(*runtime.DictValue).Len())), nil
			}},
		&builtinMethod{name: "empty", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				return runtime.Bool(recv.(*runtime.DictValue).Len() == 0), nil
			}},
		&builtinMethod{name: "keys", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				keys := recv.(*runtime.DictValue).Keys()
				elements := make([]runtime.Value, len(keys))
				for i, k := range keys {
					elements[i] = runtime.String(k)
				}
				return runtime.NewList(elements...), nil
			}},
		&builtinMethod{name: "values", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				return runtime.NewList(recv.(*runtime.DictValue).Values()...), nil
			}},
		&builtinMethod{name: "entries", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				dict := recv.(*runtime.DictValue)
				entries := make([]runtime.Value, 0, dict.Len())
				for _, k := range dict.Keys() {
					v, _ := dict.Get(k)
					entries = append(entries, runtime.NewList(runtime.String(k), v))
				}
				return runtime.NewList(entries...), nil
			}},
		&builtinMethod{name: "merge", arity: 1,
			fn: func(_ *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error) {
				other, ok := args[0].(*runtime.DictValue)
				if !ok {
					return nil, rillerr.New(rillerr.RuntimeType, pos, "merge() requires dict argument, got %s", args[0].Type())
				}
				out := runtime.NewDict()
				for _, k := range recv.(*runtime.DictValue).Keys() {
					v, _ := recv.(*runtime.DictValue).Get(k)
					out.Set(k, v)
				}
				for _, k := range other.Keys() {
					v, _ := other.Get(k)
					out.Set(k, v)
				}
				return out, nil
			}},
	)
}

// listHas implements the deep-equality membership test used by has,
// has_any, and has_all.
func listHas(list *runtime.ListValue, needle runtime.Value) bool {
	for _, el := range list.Elements {
		if runtime.DeepEqual(el, needle) {
			return true
		}
	}
	return false
}

func listEdge(name string, index int) func(*Interpreter, runtime.Value, []runtime.Value, lexer.Position) (runtime.Value, error) {
	return func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, pos lexer.Position) (runtime.Value, error) {
		list := recv.(*runtime.ListValue)
		v, ok := list.Index(index)
		if !ok {
			return nil, rillerr.New(rillerr.RuntimeLookup, pos, "%s() on an empty list", name).
				WithContext("size", 0)
		}
		return v, nil
	}
}
