package rill

import (
	"github.com/google/uuid"

	"github.com/rcrsr/rill/internal/runtime"
)

// Context is the per-execution runtime context. Create one with
// NewContext; treat it as read-only while an Execute call is running.
type Context = runtime.Context

// HostFunction is a registered host function definition.
type HostFunction = runtime.HostFunction

// HostParam declares one host function parameter.
type HostParam = runtime.HostParam

// HostFn is the Go signature of a runtime-kind host function.
type HostFn = runtime.HostFn

// ApplicationFn is the Go signature of an application-kind host function,
// which additionally sees the pipe value and its registration handle.
type ApplicationFn = runtime.ApplicationFn

// ApplicationCall carries the call information handed to an ApplicationFn.
type ApplicationCall = runtime.ApplicationCall

// Options configures a new runtime context.
type Options struct {
	// Functions maps "name" or "ns::name" to host function definitions.
	Functions map[string]*HostFunction
	// Variables are the initial name → value bindings.
	Variables map[string]Value
	// OnLog fires for the log built-in and the -> log side channel.
	OnLog func(Value)
	// OnLogEvent receives extension events emitted during evaluation.
	OnLogEvent func(map[string]any)
}

// NewContext assembles a runtime context. Each context is stamped with a
// unique execution id, which EmitExtensionEvent attaches to every event.
func NewContext(opts Options) *Context {
	return &Context{
		Functions:   opts.Functions,
		Variables:   opts.Variables,
		OnLog:       opts.OnLog,
		OnLogEvent:  opts.OnLogEvent,
		ExecutionID: uuid.NewString(),
	}
}
