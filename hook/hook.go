// Package hook defines lifecycle observers for agent runs and the dispatcher
// that fans events out to them. Observers are independently supplied; a
// failing or panicking observer is reported through the logger but never
// stops delivery to its siblings and never fails the dispatching caller.
package hook

import (
	"context"

	"github.com/slindgren720/eventflow/core"
)

// Context carries run correlation data into lifecycle observers.
type Context struct {
	SessionID string
	RunID     string
	AgentName string
	Metadata  map[string]any
}

// Observer receives lifecycle notifications for an agent run. Embed Base to
// implement only the callbacks you care about; all callbacks default to
// no-ops.
type Observer interface {
	// OnRunStart fires before the agent begins producing events.
	OnRunStart(ctx context.Context, hctx *Context) error

	// OnRunEnd fires after the run's event pipeline terminated cleanly.
	OnRunEnd(ctx context.Context, hctx *Context) error

	// OnError fires when the run's event pipeline terminated with a
	// failure.
	OnError(ctx context.Context, hctx *Context, err error) error

	// OnToolStart fires when a tool call event passes through the run.
	OnToolStart(ctx context.Context, hctx *Context, call core.ToolCall) error

	// OnToolEnd fires when a tool result event passes through the run.
	OnToolEnd(ctx context.Context, hctx *Context, result core.ToolResult) error

	// OnGuardrailTriggered fires when a guardrail interrupts or annotates
	// a run.
	OnGuardrailTriggered(ctx context.Context, hctx *Context, name, reason string) error
}

// Base is a no-op Observer implementation intended for embedding.
type Base struct{}

// OnRunStart implements Observer.
func (Base) OnRunStart(context.Context, *Context) error { return nil }

// OnRunEnd implements Observer.
func (Base) OnRunEnd(context.Context, *Context) error { return nil }

// OnError implements Observer.
func (Base) OnError(context.Context, *Context, error) error { return nil }

// OnToolStart implements Observer.
func (Base) OnToolStart(context.Context, *Context, core.ToolCall) error { return nil }

// OnToolEnd implements Observer.
func (Base) OnToolEnd(context.Context, *Context, core.ToolResult) error { return nil }

// OnGuardrailTriggered implements Observer.
func (Base) OnGuardrailTriggered(context.Context, *Context, string, string) error { return nil }
