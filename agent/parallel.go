package agent

import (
	"github.com/slindgren720/eventflow/core"
	"github.com/slindgren720/eventflow/stream"
)

// ParallelAgentOptions configures a ParallelAgent.
type ParallelAgentOptions struct {
	// Policy selects how a failing child affects the merged stream.
	// Defaults to ContinueAndCollect: a child failure becomes an error
	// event while its siblings keep running.
	Policy stream.MergePolicy
}

// ParallelAgent executes its children concurrently and interleaves their
// event streams into the parent's run. Each child gets an isolated emission
// channel, so siblings never contend on a shared writer; per-child event
// order is preserved.
type ParallelAgent struct {
	BaseAgent
	children []core.Agent
	opts     ParallelAgentOptions
}

// NewParallelAgent creates a concurrent fan-out over children.
func NewParallelAgent(name string, children []core.Agent, optFns ...func(o *ParallelAgentOptions)) *ParallelAgent {
	opts := ParallelAgentOptions{Policy: stream.ContinueAndCollect}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ParallelAgent{
		BaseAgent: NewBaseAgent(name),
		children:  children,
		opts:      opts,
	}
}

// Type identifies the agent kind in run contexts.
func (p *ParallelAgent) Type() string { return "parallel" }

// Children returns the configured child agents.
func (p *ParallelAgent) Children() []core.Agent {
	out := make([]core.Agent, len(p.children))
	copy(out, p.children)
	return out
}

// Run implements core.Agent. Child failures follow the configured merge
// policy; under ContinueAndCollect they surface as error events authored by
// this agent.
func (p *ParallelAgent) Run(rc *core.RunContext) error {
	sources := make([]*stream.Pipeline[core.Event], len(p.children))
	for i, child := range p.children {
		sources[i] = Pipeline(rc, child)
	}

	merged := stream.Merge(rc.Context, sources,
		stream.WithMergePolicy[core.Event](p.opts.Policy),
		stream.WithFailureMapper[core.Event](func(err error) core.Event {
			return core.NewErrorEvent(rc.RunID, p.Name(), err)
		}),
	)
	defer merged.Stop()

	for merged.Next(rc.Context) {
		if err := rc.Emit(merged.Current()); err != nil {
			return err
		}
	}
	return merged.Err()
}
