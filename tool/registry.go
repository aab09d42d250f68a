package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/slindgren720/eventflow/core"
	"github.com/slindgren720/eventflow/model"
)

// Registry holds the tools available to an agent and executes the tool calls
// a model emits. Execution failures are downgraded into tool results rather
// than errors, so a misbehaving tool never aborts the run.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a registry over the given tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
	return r
}

// Register adds or replaces a tool.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Definitions returns the model-facing declarations of all registered tools.
func (r *Registry) Definitions() []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]model.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, Definition(t))
	}
	return defs
}

// Execute runs the tool named by the call and packages the outcome as a tool
// result. Unknown tools, malformed arguments and tool failures all surface in
// the result's error field.
func (r *Registry) Execute(ctx context.Context, call core.ToolCall) core.ToolResult {
	result := core.ToolResult{CallID: call.ID, Name: call.Name}

	t, ok := r.Get(call.Name)
	if !ok {
		result.Err = NewError(call.Name, "tool not registered", "unknown_tool").Error()
		return result
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			result.Err = NewError(call.Name, fmt.Sprintf("invalid arguments: %v", err), "bad_arguments").Error()
			return result
		}
	}

	out, err := t.Call(ctx, args)
	if err != nil {
		result.Err = err.Error()
		return result
	}

	result.Output = stringify(out)
	return result
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
