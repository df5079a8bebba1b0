package runtime

// HostParam declares one parameter of a host function: a name, a type tag,
// and an optional default used when the caller omits the argument.
type HostParam struct {
	Name    string
	Type    string
	Default Value
}

// HostFunction is a registered host function definition. The return type
// tag is purely informational at runtime; Description is for human
// consumption. Exactly one of Fn and AppFn is set, selecting the runtime
// or application calling convention.
type HostFunction struct {
	Name        string
	Params      []HostParam
	ReturnType  string
	Description string
	Fn          HostFn
	AppFn       ApplicationFn
	Handle      any
}

// Closure wraps the host function definition as a callable runtime value.
func (h *HostFunction) Closure() *ClosureValue {
	kind := ClosureRuntime
	if h.AppFn != nil {
		kind = ClosureApplication
	}
	return &ClosureValue{
		Kind:   kind,
		Name:   h.Name,
		Fn:     h.Fn,
		AppFn:  h.AppFn,
		Handle: h.Handle,
		Def:    h,
	}
}

// Context is the per-execution runtime context assembled by the host: the
// registered host functions, initial variable bindings, and the callback
// channel. The Functions map and callbacks must be treated as read-only
// during execution. Independent executions against different contexts may
// run concurrently; they share no mutable state.
type Context struct {
	Functions   map[string]*HostFunction
	Variables   map[string]Value
	OnLog       func(Value)
	OnLogEvent  func(map[string]any)
	ExecutionID string
}

// Function resolves a registered host function by its (possibly
// namespaced) name.
func (c *Context) Function(name string) (*HostFunction, bool) {
	if c == nil || c.Functions == nil {
		return nil, false
	}
	fn, ok := c.Functions[name]
	return fn, ok
}

// Log delivers a value to the onLog callback, if one is registered.
func (c *Context) Log(v Value) {
	if c != nil && c.OnLog != nil {
		c.OnLog(v)
	}
}
