package agent

import (
	"context"

	"github.com/slindgren720/eventflow/core"
	"github.com/slindgren720/eventflow/stream"
)

// Pipeline executes a on its own goroutine and exposes its emissions as an
// event pipeline. The agent receives a run context derived from rc, rebound
// to the new pipeline's channel and cancelled when the consumer stops
// iterating. Run returning an error fails the pipeline with that error.
func Pipeline(rc *core.RunContext, a core.Agent, opts ...stream.Option) *stream.Pipeline[core.Event] {
	return stream.New(rc.Context, func(ctx context.Context, out *stream.Channel[core.Event]) error {
		child := rc.Child(ctx, core.AgentInfo{Name: a.Name(), Type: typed(a)}, out)
		return a.Run(child)
	}, opts...)
}
