// Package interp implements the rill evaluator: it walks the AST produced
// by the parser and executes it against a runtime context.
//
// Evaluation is a straightforward tree walk. Pipes create child scope
// frames binding $; closures capture frame pointers (late binding);
// dispatch branches once on the runtime kinds of the pipe value and the
// right-hand result. All failures are structured errors with stable
// RILL-R### ids and source locations.
package interp

import (
	"context"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/rcrsr/rill/internal/ast"
	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/runtime"
)

// Interpreter evaluates one program against one runtime context. A single
// evaluation runs on one logical task; independent interpreters with
// independent contexts may run concurrently.
type Interpreter struct {
	rc    *runtime.Context
	goctx context.Context
}

// New creates an Interpreter bound to the given runtime context.
func New(rc *runtime.Context) *Interpreter {
	if rc == nil {
		rc = &runtime.Context{}
	}
	return &Interpreter{rc: rc}
}

// Run evaluates the program and returns the value of its last statement.
// Host functions called during evaluation receive ctx and may block; the
// evaluator awaits each at its call site.
func (i *Interpreter) Run(ctx context.Context, prog *ast.Program) (runtime.Value, error) {
	i.goctx = ctx
	env := runtime.NewEnvironment()
	for name, v := range i.rc.Variables {
		env.Define(name, v)
	}

	var result runtime.Value = runtime.Null
	for _, stmt := range prog.Statements {
		var err error
		result, err = i.eval(stmt, env)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// eval evaluates a single AST node in the given scope.
func (i *Interpreter) eval(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.Number(n.Value), nil
	case *ast.StringLiteral:
		return runtime.String(n.Value), nil
	case *ast.BooleanLiteral:
		return runtime.Bool(n.Value), nil
	case *ast.NullLiteral:
		return runtime.Null, nil
	case *ast.InterpolatedString:
		return i.evalInterpolation(n, env)
	case *ast.Identifier:
		return i.resolveIdentifier(n)
	case *ast.Variable:
		return i.resolveVariable(n, env)
	case *ast.Accumulator:
		if v, ok := env.Get(runtime.AccumVar); ok {
			return v, nil
		}
		return nil, rillerr.New(rillerr.RuntimeUndefVar, n.Pos(), "Variable '$@' not defined")
	case *ast.PassExpression:
		if v, ok := env.Get(runtime.PipeVar); ok {
			return v, nil
		}
		return nil, rillerr.New(rillerr.RuntimeUndefVar, n.Pos(), "Variable '$' not defined")
	case *ast.ListLiteral:
		return i.evalListLiteral(n, env)
	case *ast.DictLiteral:
		return i.evalDictLiteral(n, env)
	case *ast.ClosureLiteral:
		return &runtime.ClosureValue{
			Kind:          runtime.ClosureScript,
			Params:        n.Params,
			Body:          n.Body,
			Env:           env,
			Block:         n.Block,
			ZeroArg:       n.ZeroArg,
			PropertyStyle: n.PropertyStyle,
		}, nil
	case *ast.InlineBlock:
		return i.evalBlock(n.Body, runtime.NewEnclosedEnvironment(env))
	case *ast.PipeExpression:
		return i.evalPipe(n, env)
	case *ast.CaptureExpression:
		return i.evalCapture(n, env)
	case *ast.BinaryExpression:
		return i.evalBinary(n, env)
	case *ast.UnaryExpression:
		return i.evalUnary(n, env)
	case *ast.ConditionalExpression:
		return i.evalConditional(n, env)
	case *ast.CoalesceExpression:
		return i.evalCoalesce(n, env)
	case *ast.MemberAccess:
		return i.evalMember(n, env)
	case *ast.ComputedMember:
		return i.evalComputedMember(n, env)
	case *ast.IndexExpression:
		return i.evalIndex(n, env)
	case *ast.ExistenceCheck:
		return i.evalExistence(n, env)
	case *ast.CallExpression:
		return i.evalCall(n, env)
	case *ast.CollectionOp:
		return i.evalCollection(n, env)
	case *ast.LoopExpression:
		return i.evalLoop(n, env)
	case *ast.BreakExpression:
		return nil, &breakSignal{pos: n.Pos()}
	case *ast.ContinueExpression:
		return nil, &continueSignal{pos: n.Pos()}
	case *ast.ErrorExpression:
		return i.evalError(n, env)
	}
	return nil, rillerr.New(rillerr.RuntimeGeneric, node.Pos(), "cannot evaluate %T", node)
}

// evalBlock evaluates statements in order and returns the value of the
// last one, or null for an empty block.
func (i *Interpreter) evalBlock(body []ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.Null
	for _, stmt := range body {
		var err error
		result, err = i.eval(stmt, env)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// resolveVariable resolves $name, or the pipe value for bare $.
func (i *Interpreter) resolveVariable(n *ast.Variable, env *runtime.Environment) (runtime.Value, error) {
	name := runtime.PipeVar
	display := "$"
	if n.Name != "" {
		name = n.Name
		display = "$" + n.Name
	}
	if v, ok := env.Get(name); ok {
		return v, nil
	}
	msg := "Variable '" + display + "' not defined"
	if n.Name != "" {
		if hint := suggest(n.Name, env.Names()); hint != "" {
			msg += "; did you mean '$" + hint + "'?"
		}
	}
	return nil, rillerr.New(rillerr.RuntimeUndefVar, n.Pos(), "%s", msg)
}

// resolveIdentifier resolves a bare name against the registered runtime
// functions. log is available in every context as a pass-through that
// fires the onLog callback.
func (i *Interpreter) resolveIdentifier(n *ast.Identifier) (runtime.Value, error) {
	if fn, ok := i.rc.Function(n.Value); ok {
		return fn.Closure(), nil
	}
	if n.Value == "log" {
		return logClosure(), nil
	}
	names := make([]string, 0, len(i.rc.Functions))
	for name := range i.rc.Functions {
		names = append(names, name)
	}
	msg := "Function '" + n.Value + "' not defined"
	if hint := suggest(n.Value, names); hint != "" {
		msg += "; did you mean '" + hint + "'?"
	}
	return nil, rillerr.New(rillerr.RuntimeUndefVar, n.Pos(), "%s", msg)
}

// logClosure is the default log built-in: it forwards its input to the
// onLog callback and passes the value through unchanged.
func logClosure() *runtime.ClosureValue {
	return (&runtime.HostFunction{
		Name:        "log",
		Params:      []runtime.HostParam{{Name: "value", Type: "any"}},
		ReturnType:  "any",
		Description: "Log a value through the onLog callback and pass it through.",
		Fn: func(_ context.Context, args []runtime.Value, rc *runtime.Context) (runtime.Value, error) {
			if len(args) == 0 {
				return runtime.Null, nil
			}
			rc.Log(args[0])
			return args[0], nil
		},
	}).Closure()
}

// evalInterpolation concatenates literal segments with the display form
// of each embedded expression.
func (i *Interpreter) evalInterpolation(n *ast.InterpolatedString, env *runtime.Environment) (runtime.Value, error) {
	var sb strings.Builder
	for _, part := range n.Parts {
		if lit, ok := part.(*ast.StringLiteral); ok {
			sb.WriteString(lit.Value)
			continue
		}
		v, err := i.eval(part, env)
		if err != nil {
			return nil, err
		}
		s, err := runtime.Display(v)
		if err != nil {
			return nil, rillerr.New(rillerr.RuntimeType, part.Pos(), "%s", err.Error())
		}
		sb.WriteString(s)
	}
	return runtime.String(sb.String()), nil
}

func (i *Interpreter) evalListLiteral(n *ast.ListLiteral, env *runtime.Environment) (runtime.Value, error) {
	elements := make([]runtime.Value, len(n.Elements))
	for idx, el := range n.Elements {
		v, err := i.eval(el, env)
		if err != nil {
			return nil, err
		}
		elements[idx] = v
	}
	return runtime.NewList(elements...), nil
}

// reservedDictKeys are method names that dict dispatch owns; storing a
// closure under one of them would make it unreachable.
var reservedDictKeys = map[string]bool{
	"keys":    true,
	"values":  true,
	"entries": true,
}

func (i *Interpreter) evalDictLiteral(n *ast.DictLiteral, env *runtime.Environment) (runtime.Value, error) {
	dict := runtime.NewDict()
	for _, entry := range n.Entries {
		key, err := i.resolveDictKey(entry, env)
		if err != nil {
			return nil, err
		}
		value, err := i.eval(entry.Value, env)
		if err != nil {
			return nil, err
		}
		if reservedDictKeys[key] {
			if _, isClosure := value.(*runtime.ClosureValue); isClosure {
				return nil, rillerr.New(rillerr.RuntimeType, entry.KeyPos,
					"cannot use reserved method name %q as a dict key for a closure", key)
			}
		}
		dict.Set(key, value)
	}
	return dict, nil
}

func (i *Interpreter) resolveDictKey(entry ast.DictEntry, env *runtime.Environment) (string, error) {
	switch entry.Kind {
	case ast.DictKeyVariable:
		name := entry.VarName
		lookup := name
		if name == "" {
			lookup = runtime.PipeVar
			name = "$"
		} else {
			name = "$" + name
		}
		v, ok := env.Get(lookup)
		if !ok {
			return "", rillerr.New(rillerr.RuntimeUndefVar, entry.KeyPos, "Variable '%s' not defined", name)
		}
		s, ok := v.(*runtime.StringValue)
		if !ok {
			return "", rillerr.New(rillerr.RuntimeType, entry.KeyPos, "dict key must be a string, got %s", v.Type())
		}
		return s.Value, nil
	case ast.DictKeyComputed:
		v, err := i.eval(entry.KeyExpr, env)
		if err != nil {
			return "", err
		}
		s, ok := v.(*runtime.StringValue)
		if !ok {
			return "", rillerr.New(rillerr.RuntimeType, entry.KeyPos, "dict key must be a string, got %s", v.Type())
		}
		return s.Value, nil
	default:
		return entry.Static, nil
	}
}

// evalCapture implements v :> $name, v => $name, and the conditional
// v ?> $name. Capture updates an existing binding wherever it lives in
// the chain, so closures sharing that frame observe the new value, and
// defines the name in the current frame otherwise.
func (i *Interpreter) evalCapture(n *ast.CaptureExpression, env *runtime.Environment) (runtime.Value, error) {
	v, err := i.eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	if n.Op == "?>" && !runtime.IsTruthy(v) {
		return v, nil
	}
	env.Capture(n.Target.Name, v)
	return v, nil
}

func (i *Interpreter) evalConditional(n *ast.ConditionalExpression, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.eval(n.Cond, env)
	if err != nil {
		return nil, err
	}
	if runtime.IsTruthy(cond) {
		return i.eval(n.Then, env)
	}
	if n.Else == nil {
		return runtime.Null, nil
	}
	return i.eval(n.Else, env)
}

// evalCoalesce implements a ?? b: b evaluates only when a yields null or
// raises a recoverable lookup error. Other errors still propagate.
func (i *Interpreter) evalCoalesce(n *ast.CoalesceExpression, env *runtime.Environment) (runtime.Value, error) {
	v, err := i.eval(n.Left, env)
	if err != nil {
		if serr, ok := err.(*rillerr.ScriptError); ok && serr.IsLookup() {
			return i.eval(n.Right, env)
		}
		return nil, err
	}
	if _, isNull := v.(*runtime.NullValue); isNull {
		return i.eval(n.Right, env)
	}
	return v, nil
}

func (i *Interpreter) evalError(n *ast.ErrorExpression, env *runtime.Environment) (runtime.Value, error) {
	if !n.Piped {
		return nil, rillerr.New(rillerr.RuntimeRaised, n.Pos(), "%s", n.Message)
	}
	v, ok := env.Get(runtime.PipeVar)
	if !ok {
		return nil, rillerr.New(rillerr.RuntimeUndefVar, n.Pos(), "Variable '$' not defined")
	}
	s, ok := v.(*runtime.StringValue)
	if !ok {
		return nil, rillerr.New(rillerr.RuntimeType, n.Pos(), "error requires a string message, got %s", v.Type())
	}
	return nil, rillerr.New(rillerr.RuntimeRaised, n.Pos(), "%s", s.Value)
}

// suggest returns the closest candidate to name, for did-you-mean hints
// on reference errors.
func suggest(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)
	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
