package agent

import (
	"fmt"
	"sync"
)

// Registry holds the tools a conversation may execute, keyed by name, and the
// schema snapshot advertised to the model. Once construction completes it may
// be shared read-only across conversations; Register and Replace remain safe
// for concurrent use.
type Registry struct {
	mu          sync.Mutex
	tools       map[string]Tool
	rawTools    map[string]Tool // unwrapped, used by Use to re-apply middlewares
	order       []string        // registration order, drives Schemas
	middlewares []Middleware
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:    make(map[string]Tool),
		rawTools: make(map[string]Tool),
	}
}

// Register adds a tool. Registering a name that is already present fails with
// ErrDuplicateTool; overwriting must be explicit via Replace.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, exists := r.rawTools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.rawTools[name] = t
	r.tools[name] = r.wrap(t)
	r.order = append(r.order, name)
	return nil
}

// Replace stores the tool under its name, overwriting any existing
// registration. The schema snapshot keeps exactly one entry per name,
// preserving the original registration position.
func (r *Registry) Replace(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, exists := r.rawTools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.rawTools[name] = t
	r.tools[name] = r.wrap(t)
}

// Resolve returns the tool with the given name (middlewares applied), or
// (nil, false) if not found.
func (r *Registry) Resolve(name string) (Tool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tools[name]
	return t, ok
}

// Schemas returns the advertised schema snapshot, one entry per registered
// name, in registration order. An empty registry returns nil so no tool-use
// capability is advertised.
func (r *Registry) Schemas() []ToolSchema {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return nil
	}
	out := make([]ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Schema())
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// wrap applies the stored middleware chain to t. Caller holds r.mu.
func (r *Registry) wrap(t Tool) Tool {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		t = r.middlewares[i](t)
	}
	return t
}

// Use stores the given middlewares and reapplies them from scratch to all
// registered tools (onion order: first middleware is outermost). Tools
// registered after Use also get the chain. Calling Use again replaces the
// chain and rewraps from raw tools, avoiding double-wrapping.
func (r *Registry) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = middlewares
	for name, raw := range r.rawTools {
		r.tools[name] = r.wrap(raw)
	}
}
