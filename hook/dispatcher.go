package hook

import (
	"context"
	"sync"

	"github.com/slindgren720/eventflow/core"
	"github.com/slindgren720/eventflow/logging"
)

// Dispatcher fans one lifecycle event out to every registered observer. Each
// observer runs on its own goroutine; dispatch waits for all of them before
// returning. No ordering is guaranteed across observers, but every observer
// is invoked exactly once per dispatched event.
type Dispatcher struct {
	observers []Observer
	logger    logging.Logger
}

// NewDispatcher creates a dispatcher over the given observers. A nil logger
// falls back to the no-op logger.
func NewDispatcher(logger logging.Logger, observers ...Observer) *Dispatcher {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Dispatcher{observers: observers, logger: logger}
}

// Len returns the number of registered observers.
func (d *Dispatcher) Len() int { return len(d.observers) }

// RunStart notifies all observers that a run began.
func (d *Dispatcher) RunStart(ctx context.Context, hctx *Context) {
	d.dispatch("run_start", hctx, func(o Observer, hctx *Context) error {
		return o.OnRunStart(ctx, hctx)
	})
}

// RunEnd notifies all observers that a run completed cleanly.
func (d *Dispatcher) RunEnd(ctx context.Context, hctx *Context) {
	d.dispatch("run_end", hctx, func(o Observer, hctx *Context) error {
		return o.OnRunEnd(ctx, hctx)
	})
}

// Error notifies all observers that a run failed.
func (d *Dispatcher) Error(ctx context.Context, hctx *Context, err error) {
	d.dispatch("error", hctx, func(o Observer, hctx *Context) error {
		return o.OnError(ctx, hctx, err)
	})
}

// ToolStart notifies all observers of a tool call.
func (d *Dispatcher) ToolStart(ctx context.Context, hctx *Context, call core.ToolCall) {
	d.dispatch("tool_start", hctx, func(o Observer, hctx *Context) error {
		return o.OnToolStart(ctx, hctx, call)
	})
}

// ToolEnd notifies all observers of a tool result.
func (d *Dispatcher) ToolEnd(ctx context.Context, hctx *Context, result core.ToolResult) {
	d.dispatch("tool_end", hctx, func(o Observer, hctx *Context) error {
		return o.OnToolEnd(ctx, hctx, result)
	})
}

// GuardrailTriggered notifies all observers of a guardrail activation.
func (d *Dispatcher) GuardrailTriggered(ctx context.Context, hctx *Context, name, reason string) {
	d.dispatch("guardrail_triggered", hctx, func(o Observer, hctx *Context) error {
		return o.OnGuardrailTriggered(ctx, hctx, name, reason)
	})
}

// dispatch invokes fn once per observer, each inside its own goroutine and
// error boundary, then waits for all of them. A nil hctx is normalized to an
// empty Context so observers and the failure log paths never see nil.
func (d *Dispatcher) dispatch(event string, hctx *Context, fn func(Observer, *Context) error) {
	if hctx == nil {
		hctx = &Context{}
	}
	var wg sync.WaitGroup
	for _, o := range d.observers {
		wg.Add(1)
		go func(o Observer) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("hook observer panicked",
						"event", event, "run_id", hctx.RunID, "panic", r)
				}
			}()
			if err := fn(o, hctx); err != nil {
				d.logger.Error("hook observer failed",
					"event", event, "run_id", hctx.RunID, "error", err)
			}
		}(o)
	}
	wg.Wait()
}
