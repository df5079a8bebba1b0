package rill

import (
	"strings"
	"time"
)

// Event is an extension event before stamping: a namespaced name
// "<extension>:<kind>", an optional duration, and free-form domain fields
// (model, usage, tool_name, ...).
type Event struct {
	Name     string
	Duration time.Duration
	Fields   map[string]any
}

// EmitExtensionEvent stamps an event with its subsystem, an ISO-8601 UTC
// timestamp, and the context's execution id, then delivers it
// synchronously to the onLogEvent callback. Host functions call this
// during evaluation; emission order within a single host call is the call
// order.
func EmitExtensionEvent(rc *Context, event Event) {
	if rc == nil || rc.OnLogEvent == nil {
		return
	}
	payload := make(map[string]any, len(event.Fields)+4)
	for k, v := range event.Fields {
		payload[k] = v
	}
	payload["event"] = event.Name
	payload["subsystem"] = "extension:" + eventNamespace(event.Name)
	payload["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	payload["execution_id"] = rc.ExecutionID
	if event.Duration > 0 {
		payload["duration"] = event.Duration.Milliseconds()
	}
	rc.OnLogEvent(payload)
}

func eventNamespace(name string) string {
	if idx := strings.Index(name, ":"); idx >= 0 {
		return name[:idx]
	}
	return name
}
