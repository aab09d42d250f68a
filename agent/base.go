package agent

import (
	"fmt"

	"github.com/slindgren720/eventflow/core"
)

// BaseAgent bundles the identity helpers shared by the concrete agent
// implementations. Embed it and supply Run to satisfy core.Agent.
type BaseAgent struct {
	name        string
	description string
}

// NewBaseAgent constructs a BaseAgent with a generated description,
// customizable via SetDescription.
func NewBaseAgent(name string) BaseAgent {
	return BaseAgent{
		name:        name,
		description: fmt.Sprintf("Agent %s", name),
	}
}

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// typed reports the agent's type label for run context identification.
func typed(a core.Agent) string {
	if t, ok := a.(interface{ Type() string }); ok {
		return t.Type()
	}
	return "agent"
}
