package rill

import (
	"context"
)

// ExtensionResult is the shape returned by a host extension constructor:
// a map of host function definitions plus an optional dispose hook. The
// runtime never calls Dispose; the host does, after execution returns,
// and any still-pending host operations must be aborted by it.
type ExtensionResult struct {
	Functions map[string]*HostFunction
	Dispose   func(context.Context) error
}

// PrefixFunctions returns a copy of the extension's function map with
// every entry renamed "<prefix>::<name>". The dispose hook is preserved
// for host-side cleanup.
func PrefixFunctions(prefix string, ext ExtensionResult) ExtensionResult {
	prefixed := make(map[string]*HostFunction, len(ext.Functions))
	for name, fn := range ext.Functions {
		prefixed[prefix+"::"+name] = fn
	}
	return ExtensionResult{Functions: prefixed, Dispose: ext.Dispose}
}

// Callable wraps a host function definition as a callable runtime value,
// so it can be seeded into a context's variables or returned from another
// host function.
func Callable(fn *HostFunction) Value {
	return fn.Closure()
}

// Func is a convenience constructor for a runtime-kind host function with
// the given name and implementation.
func Func(name string, fn HostFn) *HostFunction {
	return &HostFunction{Name: name, Fn: fn}
}
