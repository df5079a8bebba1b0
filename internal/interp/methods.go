package interp

import (
	"sort"

	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/lexer"
	"github.com/rcrsr/rill/internal/runtime"
)

// builtinMethod is one entry of the static method table. Methods have
// fixed arity; a bare access (no parens) is a zero-argument call.
type builtinMethod struct {
	name  string
	arity int
	fn    func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos lexer.Position) (runtime.Value, error)
}

// methodTables is keyed on (value kind, method name).
var methodTables = map[string]map[string]*builtinMethod{}

func register(kind string, methods ...*builtinMethod) {
	table := methodTables[kind]
	if table == nil {
		table = make(map[string]*builtinMethod)
		methodTables[kind] = table
	}
	for _, m := range methods {
		table[m.name] = m
	}
}

func lookupMethod(kind, name string) (*builtinMethod, bool) {
	m, ok := methodTables[kind][name]
	return m, ok
}

func methodNames(kind string) []string {
	names := make([]string, 0, len(methodTables[kind]))
	for name := range methodTables[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// callMethod resolves and invokes a built-in method on a receiver.
// Receiver-kind mismatches and arity mismatches raise type errors with
// the standard messages.
func (i *Interpreter) callMethod(recv runtime.Value, name string, args []runtime.Value, explicitCall bool, pos lexer.Position) (runtime.Value, error) {
	kind := recv.Type()
	method, ok := lookupMethod(kind, name)
	if !ok {
		for otherKind, table := range methodTables {
			if _, exists := table[name]; exists && otherKind != kind {
				return nil, rillerr.New(rillerr.RuntimeType, pos,
					"%s() requires %s receiver, got %s", name, otherKind, kind)
			}
		}
		msg := "unknown method '" + name + "' for " + kind
		if hint := suggest(name, methodNames(kind)); hint != "" {
			msg += "; did you mean '" + hint + "'?"
		}
		return nil, rillerr.New(rillerr.RuntimeType, pos, "%s", msg)
	}
	if len(args) != method.arity {
		return nil, rillerr.New(rillerr.RuntimeType, pos,
			"%s() expects %d argument(s), got %d", name, method.arity, len(args))
	}
	return method.fn(i, recv, args, pos)
}

// strMethod implements .str for every kind via the display rules.
func strMethod() *builtinMethod {
	return &builtinMethod{name: "str", arity: 0,
		fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, pos lexer.Position) (runtime.Value, error) {
			s, err := runtime.Display(recv)
			if err != nil {
				return nil, rillerr.New(rillerr.RuntimeType, pos, "%s", err.Error())
			}
			return runtime.String(s), nil
		}}
}

func init() {
	for _, kind := range []string{
		runtime.KindNull, runtime.KindBool, runtime.KindNumber, runtime.KindString,
		runtime.KindList, runtime.KindDict, runtime.KindClosure, runtime.KindVector,
	} {
		register(kind, strMethod())
	}

	register(runtime.KindNull, &builtinMethod{name: "empty", arity: 0,
		fn: func(_ *Interpreter, _ runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
			return runtime.True, nil
		}})

	register(runtime.KindVector,
		&builtinMethod{name: "len", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				return runtime.Number(float64(len(recv.(*runtime.VectorValue).Data))), nil
			}},
		&builtinMethod{name: "model", arity: 0,
			fn: func(_ *Interpreter, recv runtime.Value, _ []runtime.Value, _ lexer.Position) (runtime.Value, error) {
				return runtime.String(recv.(*runtime.VectorValue).Model), nil
			}},
	)
}

// requireString extracts a string argument or raises the standard
// argument type error.
func requireString(method string, arg runtime.Value, pos lexer.Position) (string, error) {
	s, ok := arg.(*runtime.StringValue)
	if !ok {
		return "", rillerr.New(rillerr.RuntimeType, pos, "%s() requires string argument, got %s", method, arg.Type())
	}
	return s.Value, nil
}

// requireInt extracts an integral number argument.
func requireInt(method string, arg runtime.Value, pos lexer.Position) (int, error) {
	n, ok := arg.(*runtime.NumberValue)
	if !ok {
		return 0, rillerr.New(rillerr.RuntimeType, pos, "%s() requires number argument, got %s", method, arg.Type())
	}
	i, ok := n.IsInt()
	if !ok {
		return 0, rillerr.New(rillerr.RuntimeType, pos, "%s() requires an integer argument, got %s", method, n.String())
	}
	return i, nil
}

// requireList extracts a list argument.
func requireList(method string, arg runtime.Value, pos lexer.Position) (*runtime.ListValue, error) {
	l, ok := arg.(*runtime.ListValue)
	if !ok {
		return nil, rillerr.New(rillerr.RuntimeType, pos, "%s() requires list argument, got %s", method, arg.Type())
	}
	return l, nil
}
