package core

import (
	"context"

	"github.com/slindgren720/eventflow/logging"
	"github.com/slindgren720/eventflow/stream"
)

// AgentInfo identifies the agent bound to a run context.
type AgentInfo struct {
	Name string
	Type string
}

// RunContext carries the per-run execution scope passed to an Agent's Run
// method: the ambient cancellation context, identifiers, the user input and
// the emission handle of the run's event pipeline. Emit checks for
// cancellation before every write, which makes it the producer-side
// checkpoint required by the streaming core.
type RunContext struct {
	Context   context.Context
	SessionID string
	RunID     string
	Agent     AgentInfo
	Input     Content
	Logger    logging.Logger

	out *stream.Channel[Event]
}

// NewRunContext constructs a run context emitting into out. A nil logger
// falls back to the no-op logger.
func NewRunContext(
	ctx context.Context,
	sessionID, runID string,
	agent AgentInfo,
	input Content,
	out *stream.Channel[Event],
	logger logging.Logger,
) *RunContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &RunContext{
		Context:   ctx,
		SessionID: sessionID,
		RunID:     runID,
		Agent:     agent,
		Input:     input,
		Logger:    logger,
		out:       out,
	}
}

// Emit publishes an event on the run's pipeline. It returns the context's
// error instead of writing once the run has been cancelled; the write itself
// never blocks.
func (rc *RunContext) Emit(ev Event) error {
	if err := rc.Context.Err(); err != nil {
		return err
	}
	rc.out.Write(ev)
	return nil
}

// Done returns a channel closed when the run is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error, if any.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// Child derives a context for a nested execution path (e.g. one branch of a
// parallel agent) with its own emission channel and agent identity. The
// provided ctx should descend from the parent's context so cancellation
// still propagates.
func (rc *RunContext) Child(ctx context.Context, agent AgentInfo, out *stream.Channel[Event]) *RunContext {
	if ctx == nil {
		ctx = rc.Context
	}
	return &RunContext{
		Context:   ctx,
		SessionID: rc.SessionID,
		RunID:     rc.RunID,
		Agent:     agent,
		Input:     rc.Input,
		Logger:    rc.Logger,
		out:       out,
	}
}
