package core

// Agent is a unit of autonomous work that produces events for a single run.
// Run emits progress through the RunContext and returns when the run is
// complete; a non-nil error becomes the terminal failure of the run's event
// pipeline. Implementations must honor cancellation of the run context,
// checking it before emitting and inside any wait.
type Agent interface {
	// Name returns the agent's display name, used as the author of the
	// events it emits.
	Name() string

	// Run executes the agent until completion or cancellation.
	Run(rc *RunContext) error
}
