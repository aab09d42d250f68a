package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/slindgren720/eventflow/core"
	"github.com/slindgren720/eventflow/hook"
	"github.com/slindgren720/eventflow/logging"
	"github.com/slindgren720/eventflow/ring"
	"github.com/slindgren720/eventflow/session"
	"github.com/slindgren720/eventflow/stream"
)

// Options holds dependency and configuration overrides passed to New.
type Options struct {
	// Capacity bounds each run's event channel.
	Capacity int
	// HistorySize caps both the per-session event history and the per-run
	// recent-event window.
	HistorySize int
	// RetainedRuns caps how many completed runs keep their recent-event
	// window queryable through RecentEvents. Older completed windows are
	// evicted oldest first; active runs are always retained.
	RetainedRuns int
	// Observers receive lifecycle notifications for every run.
	Observers []hook.Observer
	// Logger receives runner diagnostics.
	Logger logging.Logger
}

// DefaultRetainedRuns is the number of completed runs whose recent-event
// windows stay queryable when no override is configured.
const DefaultRetainedRuns = 16

// Runner coordinates agent execution: it creates run contexts, streams
// events, persists history, and notifies lifecycle observers.
type Runner struct {
	agent core.Agent

	capacity     int
	historySize  int
	retainedRuns int
	logger       logging.Logger
	hooks        *hook.Dispatcher

	sessions *session.Store[string, core.Event]

	mu         sync.RWMutex
	activeRuns map[string]context.CancelFunc
	recent     map[string]*ring.Buffer[core.Event]
	finished   []string // completed run ids still holding a window, oldest first
}

// New constructs a Runner driving agent, with optional overrides.
func New(agent core.Agent, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Capacity:     stream.DefaultCapacity,
		HistorySize:  session.DefaultMaxSize,
		RetainedRuns: DefaultRetainedRuns,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Capacity <= 0 {
		opts.Capacity = stream.DefaultCapacity
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = session.DefaultMaxSize
	}
	if opts.RetainedRuns <= 0 {
		opts.RetainedRuns = DefaultRetainedRuns
	}

	return &Runner{
		agent:        agent,
		capacity:     opts.Capacity,
		historySize:  opts.HistorySize,
		retainedRuns: opts.RetainedRuns,
		logger:       opts.Logger,
		hooks:        hook.NewDispatcher(opts.Logger, opts.Observers...),
		sessions: session.New[string, core.Event](opts.HistorySize, func(e core.Event) string {
			return e.ID
		}),
		activeRuns: make(map[string]context.CancelFunc),
		recent:     make(map[string]*ring.Buffer[core.Event]),
	}
}

// Run starts an asynchronous run of the root agent for the given session and
// input, returning the run id and the pipeline of its events. The pipeline
// terminates with the agent's error on failure; stopping it cancels the run.
func (r *Runner) Run(ctx context.Context, sessionID string, input core.Content) (string, *stream.Pipeline[core.Event], error) {
	if r.agent == nil {
		return "", nil, errors.New("runner has no root agent")
	}

	runID := core.NewID()
	runCtx, cancel := context.WithCancel(ctx)

	window := ring.New[core.Event](r.historySize)
	r.mu.Lock()
	r.activeRuns[runID] = cancel
	r.recent[runID] = window
	r.mu.Unlock()

	userEvent := core.NewUserMessageEvent(runID, input.Text())
	r.sessions.Append(sessionID, userEvent)

	agentPipe := stream.New(runCtx, func(ctx context.Context, out *stream.Channel[core.Event]) error {
		rc := core.NewRunContext(
			ctx,
			sessionID,
			runID,
			core.AgentInfo{Name: r.agent.Name(), Type: agentType(r.agent)},
			input,
			out,
			r.logger,
		)
		return r.agent.Run(rc)
	}, stream.WithCapacity(r.capacity))

	p := stream.New(runCtx, func(ctx context.Context, out *stream.Channel[core.Event]) error {
		defer func() {
			cancel()
			r.mu.Lock()
			delete(r.activeRuns, runID)
			r.finished = append(r.finished, runID)
			for len(r.finished) > r.retainedRuns {
				delete(r.recent, r.finished[0])
				r.finished = r.finished[1:]
			}
			r.mu.Unlock()
		}()
		defer agentPipe.Stop()

		hctx := &hook.Context{SessionID: sessionID, RunID: runID, AgentName: r.agent.Name()}
		r.hooks.RunStart(ctx, hctx)

		for agentPipe.Next(ctx) {
			ev := agentPipe.Current()
			r.record(sessionID, window, ev)
			r.notify(ctx, hctx, ev)
			out.Write(ev)
		}

		err := agentPipe.Err()
		hookCtx := context.WithoutCancel(ctx)
		if err != nil {
			r.logger.Warn("run failed", "run_id", runID, "session_id", sessionID, "error", err)
			r.hooks.Error(hookCtx, hctx, err)
			return err
		}
		r.logger.Debug("run completed", "run_id", runID, "session_id", sessionID)
		r.hooks.RunEnd(hookCtx, hctx)
		return nil
	}, stream.WithCapacity(r.capacity))

	return runID, p, nil
}

// Cancel cancels an active run by id.
func (r *Runner) Cancel(runID string) error {
	r.mu.RLock()
	cancel, exists := r.activeRuns[runID]
	r.mu.RUnlock()
	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}
	cancel()
	return nil
}

// ActiveRuns returns the ids of runs that have not yet terminated.
func (r *Runner) ActiveRuns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.activeRuns))
	for id := range r.activeRuns {
		ids = append(ids, id)
	}
	return ids
}

// SessionHistory returns the retained event history for a session, oldest
// first. Partial streaming fragments are not retained.
func (r *Runner) SessionHistory(sessionID string) []core.Event {
	return r.sessions.History(sessionID)
}

// RecentEvents returns the run's most recent events, including partial
// fragments, oldest first. Windows of completed runs are kept only for the
// last RetainedRuns completions; beyond that RecentEvents returns nil.
func (r *Runner) RecentEvents(runID string) []core.Event {
	r.mu.RLock()
	window := r.recent[runID]
	r.mu.RUnlock()
	if window == nil {
		return nil
	}
	return window.Elements()
}

// record persists the event. Partial fragments only enter the per-run window;
// everything else also lands in the session history.
func (r *Runner) record(sessionID string, window *ring.Buffer[core.Event], ev core.Event) {
	window.Append(ev)
	if !ev.Partial {
		r.sessions.Append(sessionID, ev)
	}
}

// notify translates event content into tool lifecycle hooks.
func (r *Runner) notify(ctx context.Context, hctx *hook.Context, ev core.Event) {
	for _, call := range ev.ToolCalls() {
		r.hooks.ToolStart(ctx, hctx, call)
	}
	for _, result := range ev.ToolResults() {
		r.hooks.ToolEnd(ctx, hctx, result)
	}
}

func agentType(a core.Agent) string {
	if t, ok := a.(interface{ Type() string }); ok {
		return t.Type()
	}
	return "agent"
}
