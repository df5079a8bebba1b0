package runtime

import (
	"context"

	"github.com/rcrsr/rill/internal/ast"
)

// ClosureKind distinguishes the three callable kinds that share the
// closure variant.
type ClosureKind int

const (
	// ClosureScript is a block or closure captured from rill source.
	ClosureScript ClosureKind = iota
	// ClosureRuntime is a host-registered function taking (args, ctx).
	ClosureRuntime
	// ClosureApplication is the deeper host variant with access to the
	// pipe value and extra context. Externally equivalent to runtime.
	ClosureApplication
)

// HostFn is the Go signature of a runtime-kind host function.
type HostFn func(ctx context.Context, args []Value, rc *Context) (Value, error)

// ApplicationCall carries the full call information handed to an
// application-kind host function.
type ApplicationCall struct {
	Args    []Value
	Pipe    Value // the pipe value at the call site, nil when absent
	Context *Context
	Handle  any // opaque host handle attached at registration
}

// ApplicationFn is the Go signature of an application-kind host function.
type ApplicationFn func(ctx context.Context, call *ApplicationCall) (Value, error)

// ClosureValue is the callable descriptor. Callables are immutable once
// created; calling a callable never mutates it.
//
// Script closures hold their parameter list, AST body, and a pointer to
// the lexical scope chain captured at creation. Capture is by reference,
// not snapshot: variable resolution at invocation time walks the chain, so
// re-assignments after capture are observed (late binding).
type ClosureValue struct {
	Kind ClosureKind
	Name string // display name, "" for anonymous script closures

	// Script closures.
	Params        []ast.Param
	Body          []ast.Expression
	Env           *Environment
	Block         bool // { body } form with implicit $ parameter
	ZeroArg       bool // ||{ body } / ||( expr ) form
	PropertyStyle bool // auto-invoke on dict field read

	// Runtime and application closures.
	Fn     HostFn
	AppFn  ApplicationFn
	Handle any
	Def    *HostFunction // originating definition, for defaults and arity
}

func (c *ClosureValue) Type() string { return KindClosure }

func (c *ClosureValue) String() string {
	if c.Name != "" {
		return "<closure " + c.Name + ">"
	}
	return "<closure>"
}
