package tools

import (
	"context"
)

// Arguments is the raw, string/JSON-shaped argument bag of one tool
// invocation.
type Arguments map[string]any

// String returns the named argument coerced to a string, or "" when absent
// or of another type.
func (a Arguments) String(key string) string {
	if v, ok := a[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Handler executes one tool invocation and returns the JSON envelope.
// Handlers never fail; every outcome is encoded in the envelope.
type Handler func(ctx context.Context, args Arguments) string

// Tool is a named, invocable operation exposed to calling agents.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Handler     Handler `json:"-"`
}

// Registry holds the tools exposed by the server, in registration order.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Re-registering a name replaces the handler but keeps
// its position.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns every registered tool in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}
