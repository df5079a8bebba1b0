package interp

import (
	"github.com/rcrsr/rill/internal/ast"
	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/lexer"
	"github.com/rcrsr/rill/internal/runtime"
)

// breakSignal and continueSignal are control-flow sentinels. The parser
// rejects break/continue outside loop contexts, so an unhandled signal
// never escapes to the host.
type breakSignal struct{ pos lexer.Position }

func (b *breakSignal) Error() string { return "break outside of a loop" }

type continueSignal struct{ pos lexer.Position }

func (c *continueSignal) Error() string { return "continue outside of a loop" }

// iterate expands a collection operator input into its elements: list
// elements, dict entries as [key, value] pairs in insertion order, or the
// characters of a string.
func iterate(input runtime.Value, op string, pos lexer.Position) ([]runtime.Value, error) {
	switch v := input.(type) {
	case *runtime.ListValue:
		return v.Elements, nil
	case *runtime.DictValue:
		entries := make([]runtime.Value, 0, v.Len())
		for _, k := range v.Keys() {
			value, _ := v.Get(k)
			entries = append(entries, runtime.NewList(runtime.String(k), value))
		}
		return entries, nil
	case *runtime.StringValue:
		runes := []rune(v.Value)
		chars := make([]runtime.Value, len(runes))
		for idx, r := range runes {
			chars[idx] = runtime.String(string(r))
		}
		return chars, nil
	}
	return nil, rillerr.New(rillerr.RuntimeType, pos, "%s requires a list, dict, or string, got %s", op, input.Type())
}

// evalCollection implements each / map / filter / fold. The input is the
// current pipe value; the body is applied per element with $ bound (and
// $@ for the stateful forms).
func (i *Interpreter) evalCollection(n *ast.CollectionOp, env *runtime.Environment) (runtime.Value, error) {
	input, ok := env.Get(runtime.PipeVar)
	if !ok {
		return nil, rillerr.New(rillerr.RuntimeUndefVar, n.Pos(), "Variable '$' not defined")
	}
	elements, err := iterate(input, n.Op, n.Pos())
	if err != nil {
		return nil, err
	}

	var seed runtime.Value
	if n.Seed != nil {
		seed, err = i.eval(n.Seed, env)
		if err != nil {
			return nil, err
		}
	}

	apply, err := i.collectionBody(n, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "each":
		return i.runEach(elements, seed, n.Seed != nil, apply, env)
	case "map":
		return i.runMap(elements, apply, env)
	case "filter":
		return i.runFilter(elements, apply, env)
	case "fold":
		return i.runFold(elements, seed, apply, env)
	}
	return nil, rillerr.New(rillerr.RuntimeGeneric, n.Pos(), "unknown collection operator %q", n.Op)
}

// bodyFn applies the operator body to one element. iterEnv carries the
// per-element $ and $@ bindings for inline bodies.
type bodyFn func(el runtime.Value, iterEnv *runtime.Environment) (runtime.Value, error)

// collectionBody compiles the operator body into a bodyFn. Inline blocks
// evaluate per element in the iteration scope; closure-valued bodies are
// resolved once and invoked per element.
func (i *Interpreter) collectionBody(n *ast.CollectionOp, env *runtime.Environment) (bodyFn, error) {
	if block, ok := n.Body.(*ast.InlineBlock); ok {
		return func(_ runtime.Value, iterEnv *runtime.Environment) (runtime.Value, error) {
			return i.evalBlock(block.Body, iterEnv)
		}, nil
	}

	fn, err := i.eval(n.Body, env)
	if err != nil {
		return nil, err
	}
	closure, ok := fn.(*runtime.ClosureValue)
	if !ok {
		return nil, rillerr.New(rillerr.RuntimeType, n.Body.Pos(), "%s body must be a closure, got %s", n.Op, fn.Type())
	}
	pos := n.Body.Pos()
	return func(el runtime.Value, _ *runtime.Environment) (runtime.Value, error) {
		return i.callClosure(closure, nil, el, true, pos)
	}, nil
}

// iterEnv builds the per-element scope: $ is the element; $@ is the
// accumulator when seeded, and masked otherwise so stray references fail
// as undefined.
func iterEnv(env *runtime.Environment, el, acc runtime.Value, seeded bool) *runtime.Environment {
	child := runtime.NewEnclosedEnvironment(env)
	child.Define(runtime.PipeVar, el)
	if seeded {
		child.Define(runtime.AccumVar, acc)
	} else {
		child.Block(runtime.AccumVar)
	}
	return child
}

// runEach evaluates the body sequentially, collecting results. break
// returns the results collected so far; continue skips the element. With
// a seed, each body result also becomes the next accumulator.
func (i *Interpreter) runEach(elements []runtime.Value, seed runtime.Value, seeded bool, apply bodyFn, env *runtime.Environment) (runtime.Value, error) {
	results := make([]runtime.Value, 0, len(elements))
	acc := seed
	for _, el := range elements {
		r, err := apply(el, iterEnv(env, el, acc, seeded))
		if err != nil {
			switch err.(type) {
			case *breakSignal:
				return runtime.NewList(results...), nil
			case *continueSignal:
				continue
			}
			return nil, err
		}
		results = append(results, r)
		if seeded {
			acc = r
		}
	}
	return runtime.NewList(results...), nil
}

// runMap is order-preserving and fail-fast: the first body error aborts
// and propagates. Bodies are evaluated sequentially; since rill values
// are immutable the result is indistinguishable from a concurrent
// evaluation awaiting all elements.
func (i *Interpreter) runMap(elements []runtime.Value, apply bodyFn, env *runtime.Environment) (runtime.Value, error) {
	results := make([]runtime.Value, len(elements))
	for idx, el := range elements {
		r, err := apply(el, iterEnv(env, el, nil, false))
		if err != nil {
			return nil, err
		}
		results[idx] = r
	}
	return runtime.NewList(results...), nil
}

// runFilter keeps the elements whose body result is truthy, preserving
// order.
func (i *Interpreter) runFilter(elements []runtime.Value, apply bodyFn, env *runtime.Environment) (runtime.Value, error) {
	var kept []runtime.Value
	for _, el := range elements {
		r, err := apply(el, iterEnv(env, el, nil, false))
		if err != nil {
			return nil, err
		}
		if runtime.IsTruthy(r) {
			kept = append(kept, el)
		}
	}
	return runtime.NewList(kept...), nil
}

// runFold threads the accumulator through the body sequentially and
// returns the final accumulator; an empty input returns the seed.
func (i *Interpreter) runFold(elements []runtime.Value, seed runtime.Value, apply bodyFn, env *runtime.Environment) (runtime.Value, error) {
	acc := seed
	for _, el := range elements {
		r, err := apply(el, iterEnv(env, el, acc, true))
		if err != nil {
			return nil, err
		}
		acc = r
	}
	return acc, nil
}

// evalLoop implements the @ loops. $ is the evolving value: the body's
// last expression becomes the next $; break terminates with the value the
// iteration started from; continue restarts with the current $.
func (i *Interpreter) evalLoop(n *ast.LoopExpression, env *runtime.Environment) (runtime.Value, error) {
	cur, ok := env.Get(runtime.PipeVar)
	if !ok {
		return nil, rillerr.New(rillerr.RuntimeUndefVar, n.Pos(), "Variable '$' not defined")
	}

	check := func() (bool, error) {
		if n.Cond == nil {
			return true, nil
		}
		condEnv := runtime.NewEnclosedEnvironment(env)
		condEnv.Define(runtime.PipeVar, cur)
		c, err := i.eval(n.Cond, condEnv)
		if err != nil {
			return false, err
		}
		return runtime.IsTruthy(c), nil
	}

	step := func() (next runtime.Value, stop bool, err error) {
		iterScope := runtime.NewEnclosedEnvironment(env)
		iterScope.Define(runtime.PipeVar, cur)
		r, err := i.evalBlock(n.Body.Body, iterScope)
		if err != nil {
			switch err.(type) {
			case *breakSignal:
				return cur, true, nil
			case *continueSignal:
				return cur, false, nil
			}
			return nil, false, err
		}
		return r, false, nil
	}

	if n.Kind == ast.LoopWhile {
		for {
			ok, err := check()
			if err != nil {
				return nil, err
			}
			if !ok {
				return cur, nil
			}
			next, stop, err := step()
			if err != nil {
				return nil, err
			}
			if stop {
				return next, nil
			}
			cur = next
		}
	}

	// Do-while: the body runs at least once; a missing condition loops
	// until break.
	for {
		next, stop, err := step()
		if err != nil {
			return nil, err
		}
		if stop {
			return next, nil
		}
		cur = next
		ok, err := check()
		if err != nil {
			return nil, err
		}
		if !ok {
			return cur, nil
		}
	}
}
