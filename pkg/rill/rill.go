// Package rill is the host-facing API of the rill scripting runtime.
//
// A typical embedding parses source once, assembles a runtime context with
// the host's functions and callbacks, and executes:
//
//	prog, err := rill.Parse(`"hello" -> log`)
//	rc := rill.NewContext(rill.Options{
//		OnLog: func(v rill.Value) { fmt.Println(v.String()) },
//	})
//	result, err := rill.Execute(ctx, prog, rc)
//
// Parse is pure and reusable; Execute runs one program against one context
// and is safe to call concurrently with other Execute calls on other
// contexts.
package rill

import (
	"context"

	"github.com/rcrsr/rill/internal/ast"
	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/interp"
	"github.com/rcrsr/rill/internal/parser"
	"github.com/rcrsr/rill/internal/runtime"
)

// Program is a parsed rill program, ready to execute.
type Program = ast.Program

// Value is a rill runtime value.
type Value = runtime.Value

// Error is the structured error raised by Parse and Execute, carrying a
// stable RILL-P### / RILL-R### id, a message, and a source location.
type Error = rillerr.ScriptError

// Re-exported value constructors and projections for host code.
var (
	Null  = runtime.Null
	True  = runtime.True
	False = runtime.False
)

// Bool wraps a Go bool as a rill value.
func Bool(b bool) Value { return runtime.Bool(b) }

// Number wraps a float64 as a rill value.
func Number(f float64) Value { return runtime.Number(f) }

// String wraps a Go string as a rill value.
func String(s string) Value { return runtime.String(s) }

// List wraps values as a rill list.
func List(vs ...Value) Value { return runtime.NewList(vs...) }

// FromGo converts ordinary host data into a rill value (lists from
// []any, dicts from map[string]any, vectors from a marker map).
func FromGo(v any) (Value, error) { return runtime.FromGo(v) }

// ToGo projects a rill value as ordinary host data.
func ToGo(v Value) any { return runtime.ToGo(v) }

// Result is the outcome of a successful execution.
type Result struct {
	// Value is the value of the program's last statement.
	Value Value
}

// Parse parses source text into a Program. It is pure: no context is
// required and the returned AST can be executed any number of times.
// Failures are *Error values with RILL-P### ids.
func Parse(source string) (*Program, error) {
	return parser.Parse(source)
}

// Execute evaluates a parsed program against a runtime context. Host
// functions called during evaluation receive ctx. Failures are *Error
// values with RILL-R### ids (or ids contributed by host extensions).
func Execute(ctx context.Context, prog *Program, rc *Context) (*Result, error) {
	value, err := interp.New(rc).Run(ctx, prog)
	if err != nil {
		return nil, err
	}
	return &Result{Value: value}, nil
}
