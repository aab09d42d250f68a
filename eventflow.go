// Package eventflow provides a high-level façade over the streaming runner,
// enabling construction of event-driven agent systems with a few calls. Most
// applications interact with this package by:
//  1. Creating an EventFlow via New() around a root agent
//  2. Starting runs asynchronously (Run) or synchronously (RunSync)
//  3. Consuming the returned event pipeline
//
// The façade delegates orchestration to runner.Runner while keeping setup
// ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a structured logger and
// lifecycle observers.
package eventflow

import (
	"context"

	"github.com/slindgren720/eventflow/core"
	"github.com/slindgren720/eventflow/hook"
	"github.com/slindgren720/eventflow/logging"
	"github.com/slindgren720/eventflow/runner"
	"github.com/slindgren720/eventflow/stream"
)

// Options configures the EventFlow instance.
type Options struct {
	// Capacity sets the event channel capacity of each run. Slow consumers
	// lose the oldest buffered events rather than blocking producers.
	Capacity int

	// HistorySize caps the retained per-session event history.
	HistorySize int

	// Observers receive lifecycle notifications for every run.
	Observers []hook.Observer

	// Logger defaults to the no-op logger if nil.
	Logger logging.Logger
}

// EventFlow is the high-level façade aggregating the underlying runner.
type EventFlow struct {
	opts   Options
	runner *runner.Runner
}

// New creates a new EventFlow instance driving the given root agent, with
// optional overrides.
func New(root core.Agent, optFns ...func(o *Options)) *EventFlow {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	r := runner.New(root, func(o *runner.Options) {
		o.Capacity = opts.Capacity
		o.HistorySize = opts.HistorySize
		o.Observers = opts.Observers
		o.Logger = opts.Logger
	})

	return &EventFlow{opts: opts, runner: r}
}

// Run starts an asynchronous run returning its id and event pipeline.
func (f *EventFlow) Run(
	ctx context.Context,
	sessionID string,
	input core.Content,
) (string, *stream.Pipeline[core.Event], error) {
	return f.runner.Run(ctx, sessionID, input)
}

// RunSync is a synchronous helper that drains the run's pipeline, accumulates
// its events and returns them alongside the run id. On failure it returns the
// events collected so far together with the terminal error.
func (f *EventFlow) RunSync(
	ctx context.Context,
	sessionID string,
	input core.Content,
) (string, []core.Event, error) {
	runID, p, err := f.runner.Run(ctx, sessionID, input)
	if err != nil {
		return "", nil, err
	}

	var events []core.Event
	for p.Next(ctx) {
		events = append(events, p.Current())
	}
	return runID, events, p.Err()
}

// Cancel cancels an active run by id.
func (f *EventFlow) Cancel(runID string) error { return f.runner.Cancel(runID) }

// SessionHistory returns the retained event history for a session, oldest first.
func (f *EventFlow) SessionHistory(sessionID string) []core.Event {
	return f.runner.SessionHistory(sessionID)
}
