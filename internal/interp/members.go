package interp

import (
	"github.com/rcrsr/rill/internal/ast"
	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/lexer"
	"github.com/rcrsr/rill/internal/runtime"
)

// evalMember implements obj.name field access and obj.name(args) method
// calls. On dicts, the reserved names keys/values/entries always resolve
// to methods; other names resolve to entries first and fall back to the
// method table. Property-style closures auto-invoke on bare reads; block
// closures are returned as values.
func (i *Interpreter) evalMember(n *ast.MemberAccess, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.eval(n.Object, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evalArgs(n.Args, env)
	if err != nil {
		return nil, err
	}

	if dict, ok := obj.(*runtime.DictValue); ok && !reservedDictKeys[n.Name] {
		if value, found := dict.Get(n.Name); found {
			return i.dictField(n, value, args)
		}
		if _, isMethod := lookupMethod(runtime.KindDict, n.Name); !isMethod {
			err := rillerr.New(rillerr.RuntimeLookup, n.Pos(), "property %q not found", n.Name).
				WithContext("key", n.Name)
			candidates := append(dict.Keys(), methodNames(runtime.KindDict)...)
			if hint := suggest(n.Name, candidates); hint != "" {
				err.Message += "; did you mean '" + hint + "'?"
			}
			return nil, err
		}
	}

	return i.callMethod(obj, n.Name, args, n.Call, n.Pos())
}

// dictField resolves a dict entry reached by field access.
func (i *Interpreter) dictField(n *ast.MemberAccess, value runtime.Value, args []runtime.Value) (runtime.Value, error) {
	closure, isClosure := value.(*runtime.ClosureValue)
	if !isClosure {
		if n.Call {
			return nil, rillerr.New(rillerr.RuntimeType, n.Pos(), "%q is not callable, got %s", n.Name, value.Type())
		}
		return value, nil
	}
	if n.Call {
		return i.callClosure(closure, args, nil, false, n.Pos())
	}
	if closure.PropertyStyle && closure.ZeroArg {
		return i.callClosure(closure, nil, nil, false, n.Pos())
	}
	return value, nil
}

// evalComputedMember implements obj.(expr): dict field access with a
// computed string key.
func (i *Interpreter) evalComputedMember(n *ast.ComputedMember, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.eval(n.Object, env)
	if err != nil {
		return nil, err
	}
	key, err := i.eval(n.Key, env)
	if err != nil {
		return nil, err
	}
	ks, ok := key.(*runtime.StringValue)
	if !ok {
		return nil, rillerr.New(rillerr.RuntimeType, n.Key.Pos(), "computed field key must be a string, got %s", key.Type())
	}
	dict, ok := obj.(*runtime.DictValue)
	if !ok {
		return nil, rillerr.New(rillerr.RuntimeType, n.Pos(), "computed field access requires a dict, got %s", obj.Type())
	}
	value, found := dict.Get(ks.Value)
	if !found {
		return nil, rillerr.New(rillerr.RuntimeLookup, n.Pos(), "property %q not found", ks.Value).
			WithContext("key", ks.Value)
	}
	if closure, ok := value.(*runtime.ClosureValue); ok && closure.PropertyStyle && closure.ZeroArg {
		return i.callClosure(closure, nil, nil, false, n.Pos())
	}
	return value, nil
}

// evalIndex implements obj[index] for lists (integer, negative from end),
// dicts (string key), and strings (character access).
func (i *Interpreter) evalIndex(n *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.eval(n.Object, env)
	if err != nil {
		return nil, err
	}
	index, err := i.eval(n.Index, env)
	if err != nil {
		return nil, err
	}

	if s, ok := obj.(*runtime.StringValue); ok {
		return indexString(s, index, n.Pos())
	}
	return i.lookupKey(obj, index, n.Pos())
}

func indexString(s *runtime.StringValue, index runtime.Value, pos lexer.Position) (runtime.Value, error) {
	num, ok := index.(*runtime.NumberValue)
	if !ok {
		return nil, rillerr.New(rillerr.RuntimeType, pos, "string index must be a number, got %s", index.Type())
	}
	idx, ok := num.IsInt()
	if !ok {
		return nil, rillerr.New(rillerr.RuntimeType, pos, "string index must be an integer, got %s", num.String())
	}
	runes := []rune(s.Value)
	if idx < 0 {
		idx += len(runes)
	}
	if idx < 0 || idx >= len(runes) {
		return nil, rillerr.New(rillerr.RuntimeLookup, pos, "index %d out of bounds", idx).
			WithContext("index", idx).
			WithContext("size", len(runes)).
			WithContext("max", len(runes)-1)
	}
	return runtime.String(string(runes[idx])), nil
}

// evalExistence implements X.?key and the typed form X.?key&type. The key
// is resolved first, so a bad variable or computed key raises even when
// the target is not a dict; a non-dict target then answers false rather
// than raising.
func (i *Interpreter) evalExistence(n *ast.ExistenceCheck, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.eval(n.Object, env)
	if err != nil {
		return nil, err
	}

	var key string
	switch n.Kind {
	case ast.ExistenceStatic:
		key = n.Name
	case ast.ExistenceVariable:
		name := n.VarName
		lookup := name
		display := "$" + name
		if name == "" {
			lookup = runtime.PipeVar
			display = "$"
		}
		v, ok := env.Get(lookup)
		if !ok {
			return nil, rillerr.New(rillerr.RuntimeUndefVar, n.Pos(), "Variable '%s' not defined", display)
		}
		s, ok := v.(*runtime.StringValue)
		if !ok {
			return nil, rillerr.New(rillerr.RuntimeType, n.Pos(), "existence check key must be a string, got %s", v.Type())
		}
		key = s.Value
	case ast.ExistenceComputed:
		v, err := i.eval(n.KeyExpr, env)
		if err != nil {
			return nil, err
		}
		s, ok := v.(*runtime.StringValue)
		if !ok {
			return nil, rillerr.New(rillerr.RuntimeType, n.KeyExpr.Pos(), "existence check key must be a string, got %s", v.Type())
		}
		key = s.Value
	}

	dict, ok := obj.(*runtime.DictValue)
	if !ok {
		return runtime.False, nil
	}
	value, found := dict.Get(key)
	if !found {
		return runtime.False, nil
	}
	if n.Type != "" {
		return runtime.Bool(value.Type() == n.Type), nil
	}
	return runtime.True, nil
}

func (i *Interpreter) evalArgs(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	args := make([]runtime.Value, len(exprs))
	for idx, expr := range exprs {
		v, err := i.eval(expr, env)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	return args, nil
}
