package interp

import (
	"github.com/rcrsr/rill/internal/ast"
	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/lexer"
	"github.com/rcrsr/rill/internal/runtime"
)

// evalPipe implements A -> B: evaluate A, enter a child scope binding $,
// evaluate B there, and dispatch on the result.
func (i *Interpreter) evalPipe(n *ast.PipeExpression, env *runtime.Environment) (runtime.Value, error) {
	v, err := i.eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	child := runtime.NewEnclosedEnvironment(env)
	child.Define(runtime.PipeVar, v)
	return i.pipeRHS(v, n.Right, child)
}

// pipeRHS evaluates the right-hand side of a pipe. Certain node kinds
// consume the pipe value themselves (inline blocks, collection operators,
// loops, captures, pass, error); everything else evaluates to a value
// that is then dispatched against the pipe value. Conditionals route the
// chosen branch back through pipeRHS, and coalesce catches the dispatch's
// lookup errors, so `k -> d ?? fallback` works as a guarded lookup.
func (i *Interpreter) pipeRHS(v runtime.Value, node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.InlineBlock:
		return i.evalBlock(n.Body, env)

	case *ast.CollectionOp, *ast.LoopExpression, *ast.CaptureExpression,
		*ast.PassExpression, *ast.ErrorExpression, *ast.BreakExpression, *ast.ContinueExpression:
		return i.eval(node, env)

	case *ast.ConditionalExpression:
		cond, err := i.eval(n.Cond, env)
		if err != nil {
			return nil, err
		}
		if runtime.IsTruthy(cond) {
			return i.pipeRHS(v, n.Then, env)
		}
		if n.Else == nil {
			return runtime.Null, nil
		}
		return i.pipeRHS(v, n.Else, env)

	case *ast.CoalesceExpression:
		result, err := i.pipeRHS(v, n.Left, env)
		if err != nil {
			if serr, ok := err.(*rillerr.ScriptError); ok && serr.IsLookup() {
				return i.pipeRHS(v, n.Right, env)
			}
			return nil, err
		}
		if _, isNull := result.(*runtime.NullValue); isNull {
			return i.pipeRHS(v, n.Right, env)
		}
		return result, nil
	}

	r, err := i.eval(node, env)
	if err != nil {
		return nil, err
	}
	return i.dispatch(v, r, node.Pos())
}

// dispatch implements the unified X -> Y resolution based on the runtime
// kinds of the pipe value v and the right-hand result r.
func (i *Interpreter) dispatch(v, r runtime.Value, pos lexer.Position) (runtime.Value, error) {
	switch target := r.(type) {
	case *runtime.ClosureValue:
		return i.callClosure(target, nil, v, true, pos)

	case *runtime.DictValue:
		switch key := v.(type) {
		case *runtime.StringValue:
			return i.dispatchStep(target, key, pos, true)
		case *runtime.ListValue:
			return i.hierarchicalDispatch(target, key, pos)
		default:
			return nil, rillerr.New(rillerr.RuntimeType, pos, "cannot use %s key with dict value", v.Type())
		}

	case *runtime.ListValue:
		switch key := v.(type) {
		case *runtime.NumberValue:
			return i.dispatchStep(target, key, pos, true)
		case *runtime.ListValue:
			return i.hierarchicalDispatch(target, key, pos)
		default:
			return nil, rillerr.New(rillerr.RuntimeType, pos, "cannot use %s key with list value", v.Type())
		}
	}
	return r, nil
}

// hierarchicalDispatch navigates a nested structure using a list of keys,
// consuming them left to right. An empty path returns the target
// unchanged; a single-element path equals scalar dispatch.
func (i *Interpreter) hierarchicalDispatch(target runtime.Value, path *runtime.ListValue, pos lexer.Position) (runtime.Value, error) {
	cur := target
	for idx, key := range path.Elements {
		terminal := idx == len(path.Elements)-1
		next, err := i.dispatchStep(cur, key, pos, terminal)
		if err != nil {
			if serr, ok := err.(*rillerr.ScriptError); ok {
				serr.WithContext("path", pathPrefix(path, idx))
			}
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func pathPrefix(path *runtime.ListValue, through int) []any {
	prefix := make([]any, 0, through+1)
	for i := 0; i <= through && i < len(path.Elements); i++ {
		prefix = append(prefix, runtime.ToGo(path.Elements[i]))
	}
	return prefix
}

// dispatchStep resolves one key against one target and applies the
// closure auto-invocation rules: a resolved block-closure is invoked with
// the key bound to $; a zero-argument closure is auto-invoked at
// intermediate steps always, and at terminal steps only when it carries
// the property-style flag; parameterized closures cannot be navigated
// through.
func (i *Interpreter) dispatchStep(target, key runtime.Value, pos lexer.Position, terminal bool) (runtime.Value, error) {
	resolved, err := i.lookupKey(target, key, pos)
	if err != nil {
		return nil, err
	}

	closure, ok := resolved.(*runtime.ClosureValue)
	if !ok {
		return resolved, nil
	}
	switch {
	case closure.Kind == runtime.ClosureScript && len(closure.Params) > 0:
		if terminal {
			return nil, rillerr.New(rillerr.RuntimeType, pos,
				"cannot dispatch %s to a parameterized closure", key.String())
		}
		return nil, rillerr.New(rillerr.RuntimeType, pos,
			"cannot navigate through a parameterized closure at %s", key.String())

	case closure.Kind == runtime.ClosureScript && closure.Block:
		return i.callClosure(closure, nil, key, true, pos)

	case closure.Kind == runtime.ClosureScript && closure.ZeroArg:
		if terminal && !closure.PropertyStyle {
			return closure, nil
		}
		return i.callClosure(closure, nil, nil, false, pos)

	case !terminal:
		// Runtime or application closure in the middle of a path: it must
		// be callable without arguments to navigate through.
		if required := requiredParams(closure); required > 0 {
			return nil, rillerr.New(rillerr.RuntimeType, pos,
				"cannot navigate through a parameterized closure at %s", key.String())
		}
		return i.callClosure(closure, nil, nil, false, pos)
	}
	return resolved, nil
}

// lookupKey resolves a single scalar key against a dict or list target.
// Missing keys and out-of-bounds indices raise the recoverable lookup
// error; kind mismatches raise type errors.
func (i *Interpreter) lookupKey(target, key runtime.Value, pos lexer.Position) (runtime.Value, error) {
	switch t := target.(type) {
	case *runtime.DictValue:
		ks, ok := key.(*runtime.StringValue)
		if !ok {
			return nil, rillerr.New(rillerr.RuntimeType, pos, "cannot use %s key with dict value", key.Type())
		}
		v, ok := t.Get(ks.Value)
		if !ok {
			return nil, rillerr.New(rillerr.RuntimeLookup, pos, "property %q not found", ks.Value).
				WithContext("key", ks.Value)
		}
		return v, nil

	case *runtime.ListValue:
		kn, ok := key.(*runtime.NumberValue)
		if !ok {
			return nil, rillerr.New(rillerr.RuntimeType, pos, "cannot use %s key with list value", key.Type())
		}
		idx, ok := kn.IsInt()
		if !ok {
			return nil, rillerr.New(rillerr.RuntimeType, pos, "list index must be an integer, got %s", kn.String())
		}
		v, ok := t.Index(idx)
		if !ok {
			return nil, rillerr.New(rillerr.RuntimeLookup, pos, "index %d out of bounds", idx).
				WithContext("index", idx).
				WithContext("size", t.Len()).
				WithContext("max", t.Len()-1)
		}
		return v, nil
	}
	return nil, rillerr.New(rillerr.RuntimeType, pos, "cannot use %s key with %s value", key.Type(), target.Type())
}

// requiredParams counts the host parameters without defaults.
func requiredParams(c *runtime.ClosureValue) int {
	if c.Def == nil {
		return 0
	}
	required := 0
	for _, p := range c.Def.Params {
		if p.Default == nil {
			required++
		}
	}
	return required
}

// callClosure is the single entry point for invoking any callable. Script
// closures evaluate their body in a child frame of their captured scope;
// runtime and application closures call into the host. piped marks a pipe
// invocation, where the pipe value becomes $ (block closures) or the
// first argument (explicit-parameter and host closures).
func (i *Interpreter) callClosure(c *runtime.ClosureValue, args []runtime.Value, pipe runtime.Value, piped bool, pos lexer.Position) (runtime.Value, error) {
	switch c.Kind {
	case runtime.ClosureScript:
		return i.callScript(c, args, pipe, piped, pos)
	case runtime.ClosureRuntime:
		callArgs, err := i.hostArgs(c, args, pipe, piped, pos)
		if err != nil {
			return nil, err
		}
		result, err := c.Fn(i.goctx, callArgs, i.rc)
		return i.hostResult(c, result, err, pos)
	case runtime.ClosureApplication:
		callArgs, err := i.hostArgs(c, args, pipe, piped, pos)
		if err != nil {
			return nil, err
		}
		result, err := c.AppFn(i.goctx, &runtime.ApplicationCall{
			Args:    callArgs,
			Pipe:    pipe,
			Context: i.rc,
			Handle:  c.Handle,
		})
		return i.hostResult(c, result, err, pos)
	}
	return nil, rillerr.New(rillerr.RuntimeGeneric, pos, "unknown closure kind")
}

func (i *Interpreter) callScript(c *runtime.ClosureValue, args []runtime.Value, pipe runtime.Value, piped bool, pos lexer.Position) (runtime.Value, error) {
	child := runtime.NewEnclosedEnvironment(c.Env)

	switch {
	case c.Block:
		// Implicit $ parameter.
		switch {
		case piped:
			child.Define(runtime.PipeVar, pipe)
		case len(args) > 0:
			child.Define(runtime.PipeVar, args[0])
		}

	case c.ZeroArg:
		if piped && pipe != nil {
			child.Define(runtime.PipeVar, pipe)
		}

	default:
		// Explicit parameters mask $ and $@: the closure does not inherit
		// the pipe value of its caller or definition site.
		child.Block(runtime.PipeVar)
		child.Block(runtime.AccumVar)
		if piped && len(args) == 0 && pipe != nil {
			args = []runtime.Value{pipe}
		}
		if len(args) > len(c.Params) {
			return nil, rillerr.New(rillerr.RuntimeValidation, pos,
				"closure expects %d argument(s), got %d", len(c.Params), len(args))
		}
		for idx, param := range c.Params {
			switch {
			case idx < len(args):
				child.Define(param.Name, args[idx])
			case param.Default != nil:
				def, err := i.eval(param.Default, child)
				if err != nil {
					return nil, err
				}
				child.Define(param.Name, def)
			default:
				return nil, rillerr.New(rillerr.RuntimeValidation, pos,
					"closure expects %d argument(s), got %d", len(c.Params), len(args))
			}
		}
	}

	return i.evalBlock(c.Body, child)
}

// hostArgs assembles the argument vector for a host call, applying
// declared parameter defaults and checking arity.
func (i *Interpreter) hostArgs(c *runtime.ClosureValue, args []runtime.Value, pipe runtime.Value, piped bool, pos lexer.Position) ([]runtime.Value, error) {
	if piped && len(args) == 0 && pipe != nil {
		args = []runtime.Value{pipe}
	}
	if c.Def == nil {
		return args, nil
	}
	params := c.Def.Params
	if len(params) == 0 {
		// A definition without a declared parameter list accepts whatever
		// it is given.
		return args, nil
	}
	if len(args) > len(params) {
		return nil, rillerr.New(rillerr.RuntimeValidation, pos,
			"%s() expects %d argument(s), got %d", c.Name, len(params), len(args))
	}
	for idx := len(args); idx < len(params); idx++ {
		if params[idx].Default == nil {
			required := requiredParams(c)
			return nil, rillerr.New(rillerr.RuntimeValidation, pos,
				"%s() expects %d argument(s), got %d", c.Name, required, len(args))
		}
		args = append(args, params[idx].Default)
	}
	return args, nil
}

// hostResult normalizes a host function's return: structured errors pass
// through unchanged, anything else is wrapped with the generic id and the
// call site's location.
func (i *Interpreter) hostResult(c *runtime.ClosureValue, result runtime.Value, err error, pos lexer.Position) (runtime.Value, error) {
	if err != nil {
		if serr, ok := err.(*rillerr.ScriptError); ok {
			if serr.Pos.Line == 0 {
				serr.Pos = pos
			}
			return nil, serr
		}
		return nil, rillerr.New(rillerr.RuntimeGeneric, pos, "host function '%s': %s", c.Name, err.Error())
	}
	if result == nil {
		result = runtime.Null
	}
	return result, nil
}

func (i *Interpreter) evalCall(n *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	fn, err := i.eval(n.Fn, env)
	if err != nil {
		return nil, err
	}
	closure, ok := fn.(*runtime.ClosureValue)
	if !ok {
		return nil, rillerr.New(rillerr.RuntimeType, n.Pos(), "cannot call a %s", fn.Type())
	}
	args := make([]runtime.Value, len(n.Args))
	for idx, arg := range n.Args {
		v, err := i.eval(arg, env)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	return i.callClosure(closure, args, nil, false, n.Pos())
}
